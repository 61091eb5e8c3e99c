package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
	"burnrate/internal/worldgen"
)

// InitWorldCommand generates and persists the world map. Without Force
// it fails once a world exists. Generation is a pure function of the
// seed, so Force re-runs converge on the same map: it recovers a
// partial initialization or rebuilds bookkeeping, never a second
// distinct world under the same seed.
type InitWorldCommand struct {
	Force bool
}

// InitWorldResponse reports what was generated.
type InitWorldResponse struct {
	Seed   string
	Zones  int
	Routes int
}

// InitWorldHandler handles the InitWorld command
type InitWorldHandler struct {
	zones     world.ZoneRepository
	routes    world.RouteRepository
	meta      world.MetaRepository
	graph     world.GraphProvider
	clock     shared.Clock
	seed      string
	zoneCount int
}

// NewInitWorldHandler creates a new InitWorldHandler
func NewInitWorldHandler(
	zones world.ZoneRepository,
	routes world.RouteRepository,
	meta world.MetaRepository,
	graph world.GraphProvider,
	clock shared.Clock,
	seed string,
	zoneCount int,
) *InitWorldHandler {
	return &InitWorldHandler{
		zones:     zones,
		routes:    routes,
		meta:      meta,
		graph:     graph,
		clock:     clock,
		seed:      seed,
		zoneCount: zoneCount,
	}
}

// Handle executes the InitWorld command
func (h *InitWorldHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*InitWorldCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *InitWorldCommand")
	}
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	existing, err := h.meta.Get(ctx)
	if err != nil && shared.KindOf(err) != shared.KindNotFound {
		return nil, err
	}
	if existing != nil && !cmd.Force {
		return nil, shared.NewPreconditionError("world_already_initialized",
			"world already initialized; pass force to rebuild")
	}

	generated, err := worldgen.Generate(h.seed, h.zoneCount)
	if err != nil {
		return nil, err
	}

	if err := h.persistZones(ctx, generated.Zones, cmd.Force); err != nil {
		return nil, err
	}
	if err := h.persistRoutes(ctx, generated.Routes, cmd.Force); err != nil {
		return nil, err
	}

	// The meta row is written last: its presence is what marks the world
	// initialized, so a crash mid-persist leaves an uninitialized world
	// that a forced re-run repairs.
	meta := &world.Meta{
		ID:          world.MetaID,
		CurrentTick: 0,
		LastTickAt:  h.clock.Now(),
		Season:      1,
		Seed:        h.seed,
	}
	if err := h.meta.Save(ctx, meta); err != nil {
		return nil, err
	}

	h.graph.Invalidate()
	return &InitWorldResponse{
		Seed:   h.seed,
		Zones:  len(generated.Zones),
		Routes: len(generated.Routes),
	}, nil
}

// persistZones inserts the generated zones in parallel. On Force the
// writes switch to upserts so rows surviving a partial init are
// overwritten rather than rejected.
func (h *InitWorldHandler) persistZones(ctx context.Context, zones []*world.Zone, force bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, z := range zones {
		g.Go(func() error {
			if force {
				return h.zones.Update(ctx, z)
			}
			return h.zones.Add(ctx, z)
		})
	}
	return g.Wait()
}

// persistRoutes inserts routes after all zones exist. Routes have no
// upsert path; on Force, rows already present are skipped since the
// seed guarantees they are identical.
func (h *InitWorldHandler) persistRoutes(ctx context.Context, routes []*world.Route, force bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, r := range routes {
		g.Go(func() error {
			if force {
				if _, err := h.routes.FindByID(ctx, r.ID); err == nil {
					return nil
				} else if shared.KindOf(err) != shared.KindNotFound {
					return err
				}
			}
			return h.routes.Add(ctx, r)
		})
	}
	return g.Wait()
}
