package persistence

import (
	"context"
	"sync"

	"burnrate/internal/domain/world"
)

// CachedGraphProvider builds the route topology once and serves it from
// memory. Routes only change at world initialization, which calls
// Invalidate.
type CachedGraphProvider struct {
	routes world.RouteRepository

	mu    sync.RWMutex
	graph *world.Graph
}

// NewCachedGraphProvider creates a new caching graph provider
func NewCachedGraphProvider(routes world.RouteRepository) *CachedGraphProvider {
	return &CachedGraphProvider{routes: routes}
}

// Graph returns the cached topology, building it on first use.
func (p *CachedGraphProvider) Graph(ctx context.Context) (*world.Graph, error) {
	p.mu.RLock()
	g := p.graph
	p.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.graph != nil {
		return p.graph, nil
	}
	routes, err := p.routes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	p.graph = world.NewGraph(routes)
	return p.graph, nil
}

// Invalidate drops the cached topology so the next Graph call rebuilds
// it from storage.
func (p *CachedGraphProvider) Invalidate() {
	p.mu.Lock()
	p.graph = nil
	p.mu.Unlock()
}
