package world

import (
	"context"
	"time"
)

// ZoneRepository defines zone persistence operations
type ZoneRepository interface {
	FindByID(ctx context.Context, zoneID string) (*Zone, error)
	FindAll(ctx context.Context) ([]*Zone, error)
	FindByOwner(ctx context.Context, factionID string) ([]*Zone, error)
	Add(ctx context.Context, zone *Zone) error
	Update(ctx context.Context, zone *Zone) error
}

// RouteRepository defines route persistence operations. Routes are
// undirected edges; FindTouching matches either endpoint.
type RouteRepository interface {
	FindByID(ctx context.Context, routeID string) (*Route, error)
	FindAll(ctx context.Context) ([]*Route, error)
	FindTouching(ctx context.Context, zoneID string) ([]*Route, error)
	Add(ctx context.Context, route *Route) error
}

// GraphProvider supplies the cached route topology. Invalidate is
// called when world initialization replaces the stored routes.
type GraphProvider interface {
	Graph(ctx context.Context) (*Graph, error)
	Invalidate()
}

// MetaRepository defines world bookkeeping persistence operations
type MetaRepository interface {
	Get(ctx context.Context) (*Meta, error)
	Save(ctx context.Context, meta *Meta) error
	// ClaimTick compare-and-swaps the last-tick timestamp, advancing
	// current_tick to newTick. It returns false when another instance
	// already claimed this tick (the stored stamp no longer matches).
	ClaimTick(ctx context.Context, newTick int64, newLastTickAt, expectedLastTickAt time.Time) (bool, error)
}
