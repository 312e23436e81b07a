package router

import (
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/slideflow/internal/logger"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

type implRouter struct {
	adapters []provider.Adapter
	byName   map[string]provider.Adapter
	mu       sync.RWMutex
	health   map[string]bool
	logger   logger.Logger
}

// New creates a Router over the given adapters in preference order. All
// adapters start healthy.
func New(adapters []provider.Adapter, log logger.Logger) (Router, error) {
	if len(adapters) == 0 {
		return nil, fmt.Errorf("at least one adapter is required")
	}

	byName := make(map[string]provider.Adapter, len(adapters))
	health := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		name := a.Name()
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate adapter name %q", name)
		}
		byName[name] = a
		health[name] = true
	}

	return &implRouter{
		adapters: adapters,
		byName:   byName,
		health:   health,
		logger:   log,
	}, nil
}
