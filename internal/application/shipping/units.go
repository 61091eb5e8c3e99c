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

// AssignEscortCommand attaches an idle escort to one of the caller's
// in-transit shipments.
type AssignEscortCommand struct {
	UnitID     string
	ShipmentID string
}

func (c *AssignEscortCommand) ActionName() string { return "assign_escort" }

func (c *AssignEscortCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.UnitLock(c.UnitID), actions.ShipmentLock(c.ShipmentID)}
}

// AssignEscortResponse reports the updated unit.
type AssignEscortResponse struct {
	Unit *unit.Unit
}

// DeployRaiderCommand stations one of the caller's raiders on a route.
// Deployed raiders raise interception odds for every shipment crossing
// that edge, and fight as the attacker when an interception fires.
type DeployRaiderCommand struct {
	UnitID  string
	RouteID string
}

func (c *DeployRaiderCommand) ActionName() string { return "deploy_raider" }

func (c *DeployRaiderCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.UnitLock(c.UnitID)}
}

// DeployRaiderResponse reports the updated unit.
type DeployRaiderResponse struct {
	Unit *unit.Unit
}

// RecallUnitCommand clears a unit's assignment.
type RecallUnitCommand struct {
	UnitID string
}

func (c *RecallUnitCommand) ActionName() string { return "recall_unit" }

func (c *RecallUnitCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.UnitLock(c.UnitID)}
}

// RecallUnitResponse reports the updated unit.
type RecallUnitResponse struct {
	Unit *unit.Unit
}

// SellUnitCommand lists a unit on the local unit market.
type SellUnitCommand struct {
	UnitID string
	Price  int64
}

func (c *SellUnitCommand) ActionName() string { return "sell_unit" }

func (c *SellUnitCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.UnitLock(c.UnitID)}
}

// SellUnitResponse reports the listed unit.
type SellUnitResponse struct {
	Unit *unit.Unit
}

// HireUnitCommand buys a listed unit at its asking price. Credits move
// directly between seller and buyer.
type HireUnitCommand struct {
	UnitID string
}

func (c *HireUnitCommand) ActionName() string { return "hire_unit" }

func (c *HireUnitCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.UnitLock(c.UnitID)}
}

// HireUnitResponse reports the purchased unit and remaining credits.
type HireUnitResponse struct {
	Unit    *unit.Unit
	Credits int64
}

// UnitHandler handles the unit lifecycle commands. The commands share
// every dependency, so one handler serves them all.
type UnitHandler struct {
	players   player.PlayerRepository
	units     unit.UnitRepository
	shipments shipment.ShipmentRepository
	routes    world.RouteRepository
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(
	players player.PlayerRepository,
	units unit.UnitRepository,
	shipments shipment.ShipmentRepository,
	routes world.RouteRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *UnitHandler {
	return &UnitHandler{
		players:   players,
		units:     units,
		shipments: shipments,
		routes:    routes,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes a unit command
func (h *UnitHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	switch cmd := request.(type) {
	case *AssignEscortCommand:
		return h.assignEscort(ctx, actor, cmd)
	case *DeployRaiderCommand:
		return h.deployRaider(ctx, actor, cmd)
	case *RecallUnitCommand:
		return h.recall(ctx, actor, cmd)
	case *SellUnitCommand:
		return h.sell(ctx, actor, cmd)
	case *HireUnitCommand:
		return h.hire(ctx, actor, cmd)
	default:
		return nil, fmt.Errorf("invalid request type: expected a unit command")
	}
}

// ownUnit loads a unit and verifies ownership.
func (h *UnitHandler) ownUnit(ctx context.Context, actor *player.Player, unitID string) (*unit.Unit, error) {
	u, err := h.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if u.OwnerID != actor.ID {
		return nil, shared.NewPreconditionError("not_your_unit", "unit is not yours")
	}
	return u, nil
}

func (h *UnitHandler) assignEscort(ctx context.Context, actor *player.Player, cmd *AssignEscortCommand) (mediator.Response, error) {
	u, err := h.ownUnit(ctx, actor, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	ship, err := h.shipments.FindByID(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	if ship.OwnerID != actor.ID {
		return nil, shared.NewPreconditionError("not_your_shipment", "shipment is not yours")
	}
	if ship.Status != shipment.StatusInTransit {
		return nil, shared.NewPreconditionError("shipment_not_in_transit",
			"escorts can only join in-transit shipments")
	}
	if u.ZoneID != ship.CurrentZoneID() {
		return nil, shared.NewPreconditionError("unit_elsewhere",
			"the escort must be at the shipment's current zone")
	}
	if err := u.AssignEscort(ship.ID); err != nil {
		return nil, err
	}
	ship.AssignEscort(u.ID)

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.units.Update(ctx, u); err != nil {
			return err
		}
		return h.shipments.Update(ctx, ship)
	})
	if err != nil {
		return nil, err
	}
	return &AssignEscortResponse{Unit: u}, nil
}

func (h *UnitHandler) deployRaider(ctx context.Context, actor *player.Player, cmd *DeployRaiderCommand) (mediator.Response, error) {
	u, err := h.ownUnit(ctx, actor, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	route, err := h.routes.FindByID(ctx, cmd.RouteID)
	if err != nil {
		return nil, err
	}
	if u.ZoneID != route.FromZoneID && u.ZoneID != route.ToZoneID {
		return nil, shared.NewPreconditionError("unit_elsewhere",
			"the raider must be at one of the route's endpoints")
	}
	if err := u.DeployRaider(route.ID); err != nil {
		return nil, err
	}
	if err := h.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return &DeployRaiderResponse{Unit: u}, nil
}

func (h *UnitHandler) recall(ctx context.Context, actor *player.Player, cmd *RecallUnitCommand) (mediator.Response, error) {
	u, err := h.ownUnit(ctx, actor, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	// Escorts on a moving shipment stay with it; only deployed raiders
	// and listed units can be pulled back freely.
	if u.Kind == unit.KindEscort && u.AssignmentID != "" {
		ship, err := h.shipments.FindByID(ctx, u.AssignmentID)
		if err == nil && ship.Status == shipment.StatusInTransit {
			return nil, shared.NewPreconditionError("escort_in_transit",
				"escorts cannot be recalled mid-shipment")
		}
	}
	u.ClearAssignment()
	u.ForSalePrice = 0
	if err := h.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return &RecallUnitResponse{Unit: u}, nil
}

func (h *UnitHandler) sell(ctx context.Context, actor *player.Player, cmd *SellUnitCommand) (mediator.Response, error) {
	u, err := h.ownUnit(ctx, actor, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	if err := u.ListForSale(cmd.Price); err != nil {
		return nil, err
	}
	if err := h.units.Update(ctx, u); err != nil {
		return nil, err
	}
	return &SellUnitResponse{Unit: u}, nil
}

func (h *UnitHandler) hire(ctx context.Context, actor *player.Player, cmd *HireUnitCommand) (mediator.Response, error) {
	u, err := h.units.FindByID(ctx, cmd.UnitID)
	if err != nil {
		return nil, err
	}
	if u.ForSalePrice <= 0 {
		return nil, shared.NewPreconditionError("not_for_sale", "unit is not listed")
	}
	if u.OwnerID == actor.ID {
		return nil, shared.NewPreconditionError("own_unit", "cannot hire your own unit")
	}
	if u.ZoneID != actor.CurrentZoneID {
		return nil, shared.NewPreconditionError("unit_elsewhere",
			"the unit must be at your current zone")
	}
	price := u.ForSalePrice
	if err := actor.SpendCredits(price); err != nil {
		return nil, err
	}
	sellerID := u.OwnerID
	u.TransferTo(actor.ID)

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.units.Update(ctx, u); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		if err := h.players.AddCredits(ctx, sellerID, price); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeUnitSold, meta.CurrentTick, actor.ID, map[string]any{
			"unit":   u.ID,
			"seller": sellerID,
			"price":  price,
		})
	})
	if err != nil {
		return nil, err
	}

	return &HireUnitResponse{Unit: u, Credits: actor.Credits}, nil
}
