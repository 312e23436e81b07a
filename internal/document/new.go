package document

import (
	"github.com/nguyentantai21042004/slideflow/internal/config"
	"github.com/nguyentantai21042004/slideflow/internal/logger"
	"github.com/nguyentantai21042004/slideflow/internal/router"
)

type implParser struct {
	cfg    *config.Config
	router router.Router
	logger logger.Logger
}

// New creates a Parser instance. The router is only consulted when
// model-backed parsing is enabled; a nil router forces mechanical parsing.
func New(cfg *config.Config, rt router.Router, log logger.Logger) Parser {
	return &implParser{
		cfg:    cfg,
		router: rt,
		logger: log,
	}
}
