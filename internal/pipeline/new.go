package pipeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slideflow/internal/config"
	"github.com/nguyentantai21042004/slideflow/internal/logger"
	"github.com/nguyentantai21042004/slideflow/internal/router"
)

type implPipeline struct {
	cfg       *config.Config
	router    router.Router
	logger    logger.Logger
	usage     *usageTracker
	preferred string
}

// New creates a Pipeline instance. Invalid quality or concurrency settings
// are rejected here, before any generation work can start.
func New(cfg *config.Config, rt router.Router, log logger.Logger) (Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if rt == nil {
		return nil, fmt.Errorf("router is required")
	}
	if cfg.Quality.Threshold < 0 || cfg.Quality.Threshold > 1 {
		return nil, fmt.Errorf("quality threshold %v out of range [0,1]", cfg.Quality.Threshold)
	}
	if cfg.Quality.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must not be negative")
	}

	preferred := ""
	if len(cfg.Providers.Preference) > 0 {
		preferred = cfg.Providers.Preference[0]
	}

	return &implPipeline{
		cfg:       cfg,
		router:    rt,
		logger:    log,
		usage:     &usageTracker{},
		preferred: preferred,
	}, nil
}

// callContext bounds a single adapter call. A timed-out call surfaces as a
// provider error and follows the normal fallback/exhaustion path.
func (p *implPipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.cfg.Performance.CallTimeout()
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
