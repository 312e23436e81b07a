package output

import (
	"github.com/nguyentantai21042004/slideflow/internal/config"
	"github.com/nguyentantai21042004/slideflow/internal/logger"
)

type implWriter struct {
	cfg    *config.Config
	logger logger.Logger
}

// New creates a Writer rooted at the configured output path.
func New(cfg *config.Config, log logger.Logger) Writer {
	return &implWriter{
		cfg:    cfg,
		logger: log,
	}
}
