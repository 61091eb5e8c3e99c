package intel

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/world"
)

// ScanCommand captures an intel snapshot of a zone or route at the
// current tick with full signal quality. Reports gathered while in a
// faction are shared with it.
type ScanCommand struct {
	TargetType string
	TargetID   string
}

func (c *ScanCommand) ActionName() string { return "scan" }

func (c *ScanCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.PlayerLock(actor.ID)}
}

// ScanResponse reports the captured snapshot.
type ScanResponse struct {
	Report *intel.Report
}

// ScanHandler handles the Scan command
type ScanHandler struct {
	zones     world.ZoneRepository
	routes    world.RouteRepository
	shipments shipment.ShipmentRepository
	reports   intel.ReportRepository
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(
	zones world.ZoneRepository,
	routes world.RouteRepository,
	shipments shipment.ShipmentRepository,
	reports intel.ReportRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *ScanHandler {
	return &ScanHandler{
		zones:     zones,
		routes:    routes,
		shipments: shipments,
		reports:   reports,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes the Scan command
func (h *ScanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ScanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ScanCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !intel.IsValidTargetType(cmd.TargetType) {
		return nil, shared.NewValidationError("target_type", "must be zone or route")
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	var report *intel.Report
	switch intel.TargetType(cmd.TargetType) {
	case intel.TargetZone:
		zone, err := h.zones.FindByID(ctx, cmd.TargetID)
		if err != nil {
			return nil, err
		}
		report = intel.NewZoneReport(shared.NewID(), actor.ID, actor.FactionID, zone, meta.CurrentTick)
	case intel.TargetRoute:
		route, err := h.routes.FindByID(ctx, cmd.TargetID)
		if err != nil {
			return nil, err
		}
		sightings, err := h.sightingsOn(ctx, route)
		if err != nil {
			return nil, err
		}
		report = intel.NewRouteReport(shared.NewID(), actor.ID, actor.FactionID, route, sightings, meta.CurrentTick)
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.reports.Add(ctx, report); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeIntelGathered, meta.CurrentTick, actor.ID, map[string]any{
			"report":      report.ID,
			"target_type": cmd.TargetType,
			"target":      cmd.TargetID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ScanResponse{Report: report}, nil
}

// sightingsOn lists the in-transit shipments currently crossing the
// route's edge, in either direction.
func (h *ScanHandler) sightingsOn(ctx context.Context, route *world.Route) ([]intel.Sighting, error) {
	inTransit, err := h.shipments.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	var sightings []intel.Sighting
	for _, s := range inTransit {
		from, to := s.CurrentZoneID(), s.NextZoneID()
		onEdge := (from == route.FromZoneID && to == route.ToZoneID) ||
			(from == route.ToZoneID && to == route.FromZoneID)
		if !onEdge {
			continue
		}
		sightings = append(sightings, intel.Sighting{
			ShipmentID: s.ID,
			Kind:       string(s.Kind),
			CargoTotal: s.Cargo.Total(),
		})
	}
	return sightings, nil
}
