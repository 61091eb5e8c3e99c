package shipping

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// LaunchCommand creates an in-transit shipment from the player's
// current zone along an explicit path. Cargo is deducted at launch;
// escorts must be idle units owned by the player at the origin zone.
type LaunchCommand struct {
	Kind          string
	Path          []string
	Cargo         map[string]int
	EscortUnitIDs []string
}

func (c *LaunchCommand) ActionName() string { return "ship" }

func (c *LaunchCommand) LockKeys(actor *player.Player) []string {
	keys := make([]string, 0, len(c.EscortUnitIDs))
	for _, id := range c.EscortUnitIDs {
		keys = append(keys, actions.UnitLock(id))
	}
	return keys
}

// LaunchResponse carries the created shipment.
type LaunchResponse struct {
	Shipment *shipment.Shipment
}

// LaunchHandler handles the Launch command
type LaunchHandler struct {
	players   player.PlayerRepository
	shipments shipment.ShipmentRepository
	units     unit.UnitRepository
	graph     world.GraphProvider
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewLaunchHandler creates a new LaunchHandler
func NewLaunchHandler(
	players player.PlayerRepository,
	shipments shipment.ShipmentRepository,
	units unit.UnitRepository,
	graph world.GraphProvider,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *LaunchHandler {
	return &LaunchHandler{
		players:   players,
		shipments: shipments,
		units:     units,
		graph:     graph,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes the Launch command
func (h *LaunchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*LaunchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LaunchCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}

	kind := shipment.Kind(cmd.Kind)
	if !shipment.IsValidKind(cmd.Kind) {
		return nil, shared.NewValidationError("kind", "must be courier, freight, or convoy")
	}
	if !actor.HasLicense(player.License(kind.License())) {
		return nil, shared.NewPreconditionError("license_required",
			"launching a "+cmd.Kind+" requires the "+kind.License()+" license")
	}
	if len(cmd.Path) < 2 {
		return nil, shared.NewValidationError("path", "must contain at least two zones")
	}
	if cmd.Path[0] != actor.CurrentZoneID {
		return nil, shared.NewPreconditionError("wrong_origin",
			"shipments launch from your current zone")
	}

	cargo := shared.NewInventory()
	for name, qty := range cmd.Cargo {
		if !shared.IsValidResource(name) {
			return nil, shared.NewValidationError("cargo", "unknown resource "+name)
		}
		if qty <= 0 {
			return nil, shared.NewValidationError("cargo", "quantities must be positive")
		}
		cargo.Add(shared.Resource(name), qty)
	}

	g, err := h.graph.Graph(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	ship, err := shipment.NewShipment(shared.NewID(), actor.ID, kind, cmd.Path, cargo, g.Distance, meta.CurrentTick)
	if err != nil {
		return nil, err
	}
	if err := actor.Inventory.RemoveAll(cargo); err != nil {
		return nil, err
	}
	actor.AdvanceTutorial(4)

	escorts, err := h.claimEscorts(ctx, actor.ID, cmd.EscortUnitIDs, ship)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.shipments.Add(ctx, ship); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		for _, u := range escorts {
			if err := h.units.Update(ctx, u); err != nil {
				return err
			}
		}
		return h.emitter.Emit(ctx, event.TypeShipmentLaunched, meta.CurrentTick, actor.ID, map[string]any{
			"shipment": ship.ID,
			"kind":     string(kind),
			"from":     cmd.Path[0],
			"to":       ship.DestinationZoneID(),
			"cargo":    cargo.Total(),
			"escorts":  len(escorts),
		})
	})
	if err != nil {
		return nil, err
	}

	return &LaunchResponse{Shipment: ship}, nil
}

// claimEscorts validates and attaches the requested escort units: they
// must be the actor's own idle escorts sitting at the launch zone.
func (h *LaunchHandler) claimEscorts(ctx context.Context, ownerID string, unitIDs []string, ship *shipment.Shipment) ([]*unit.Unit, error) {
	escorts := make([]*unit.Unit, 0, len(unitIDs))
	for _, id := range unitIDs {
		u, err := h.units.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u.OwnerID != ownerID {
			return nil, shared.NewPreconditionError("not_your_unit",
				"unit "+id+" is not yours")
		}
		if u.ZoneID != ship.Path[0] {
			return nil, shared.NewPreconditionError("unit_elsewhere",
				"unit "+id+" is not at the launch zone")
		}
		if u.IsAssigned() {
			return nil, shared.NewPreconditionError("unit_assigned",
				"unit "+id+" is already assigned")
		}
		if err := u.AssignEscort(ship.ID); err != nil {
			return nil, err
		}
		ship.AssignEscort(u.ID)
		escorts = append(escorts, u)
	}
	return escorts, nil
}
