package router

import (
	"context"

	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

// Router defines the interface for selecting between configured provider
// adapters. Health state is a shared hint to skip known-bad adapters, not a
// circuit breaker.
type Router interface {
	// Select returns the preferred adapter if healthy, else the next healthy
	// one in configured order, else ErrNoProviderAvailable. An empty
	// preferred name means no preference.
	Select(preferred string) (provider.Adapter, error)

	// MarkUnhealthy records that an adapter should be skipped on subsequent
	// selections until a health check clears it.
	MarkUnhealthy(name string)

	// HealthCheck runs the adapter's Ping and updates the health table.
	// A passing check is the only way back to healthy.
	HealthCheck(ctx context.Context, name string) bool

	// Names returns the adapter names in configured order.
	Names() []string
}
