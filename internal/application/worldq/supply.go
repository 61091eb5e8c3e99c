package worldq

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	appseason "burnrate/internal/application/season"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// SupplyReputationPerSU is the reputation award per delivered supply unit.
const SupplyReputationPerSU = 2

// SupplyCommand assembles supply units from the player's inventory into
// the current zone's stockpile.
type SupplyCommand struct {
	Amount int
}

func (c *SupplyCommand) ActionName() string { return "supply" }

func (c *SupplyCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ZoneLock(actor.CurrentZoneID)}
}

// SupplyResponse reports the zone's new stockpile and the actor's gains.
type SupplyResponse struct {
	ZoneID      string
	SUStockpile int
	Reputation  int
}

// SupplyHandler handles the Supply command
type SupplyHandler struct {
	players   player.PlayerRepository
	zones     world.ZoneRepository
	contracts contract.ContractRepository
	meta      world.MetaRepository
	recorder  *appseason.Recorder
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	contracts contract.ContractRepository,
	meta world.MetaRepository,
	recorder *appseason.Recorder,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *SupplyHandler {
	return &SupplyHandler{
		players:   players,
		zones:     zones,
		contracts: contracts,
		meta:      meta,
		recorder:  recorder,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes the Supply command
func (h *SupplyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SupplyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SupplyCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.Amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if !zone.IsOwned() {
		return nil, shared.NewPreconditionError("zone_not_owned",
			"supply can only be delivered to an owned zone")
	}

	if err := actor.Inventory.RemoveAll(world.SUCost(cmd.Amount)); err != nil {
		return nil, err
	}
	zone.SUStockpile += cmd.Amount
	rep := SupplyReputationPerSU * cmd.Amount
	actor.AddReputation(rep)
	actor.AdvanceTutorial(5)

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Accepted supply contracts targeting this zone progress with the
	// delivery, so contract completion can verify without re-deriving.
	accepted, err := h.contracts.FindByAcceptor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	var progressed []*contract.Contract
	for _, c := range accepted {
		if c.Status == contract.StatusAccepted && c.Kind == contract.KindSupply && c.Details.ZoneID == zone.ID {
			c.AddProgress(cmd.Amount)
			progressed = append(progressed, c)
		}
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.zones.Update(ctx, zone); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		for _, c := range progressed {
			if err := h.contracts.Update(ctx, c); err != nil {
				return err
			}
		}
		if err := h.recorder.PlayerSupply(ctx, meta.Season, actor, cmd.Amount, meta.CurrentTick); err != nil {
			return err
		}
		if err := h.recorder.PlayerReputation(ctx, meta.Season, actor, rep, meta.CurrentTick); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeZoneSupplied, meta.CurrentTick, actor.ID, map[string]any{
			"zone":      zone.ID,
			"amount":    cmd.Amount,
			"stockpile": zone.SUStockpile,
		})
	})
	if err != nil {
		return nil, err
	}

	return &SupplyResponse{
		ZoneID:      zone.ID,
		SUStockpile: zone.SUStockpile,
		Reputation:  actor.Reputation,
	}, nil
}
