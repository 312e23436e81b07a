package router

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

// ErrNoProviderAvailable means every configured adapter is marked unhealthy.
// Fatal to the affected section only, never to the whole run.
var ErrNoProviderAvailable = errors.New("no healthy provider available")

func (r *implRouter) Select(preferred string) (provider.Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if preferred != "" {
		if a, ok := r.byName[preferred]; ok && r.health[preferred] {
			return a, nil
		}
	}

	for _, a := range r.adapters {
		if a.Name() == preferred {
			continue
		}
		if r.health[a.Name()] {
			return a, nil
		}
	}

	return nil, ErrNoProviderAvailable
}

func (r *implRouter) MarkUnhealthy(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		r.health[name] = false
	}
}

func (r *implRouter) HealthCheck(ctx context.Context, name string) bool {
	r.mu.RLock()
	a, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	// Ping outside the lock; it may take a moment.
	err := a.Ping(ctx)

	r.mu.Lock()
	r.health[name] = err == nil
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn(ctx, "Provider %s failed health check: %v", name, err)
		return false
	}
	return true
}

func (r *implRouter) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return names
}
