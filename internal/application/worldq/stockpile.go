package worldq

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// StockpileCommand moves medkits or comms from the player's inventory
// into the current zone's defensive stockpile. Stockpiles decay over
// ticks and dampen interception and combat losses.
type StockpileCommand struct {
	Resource string
	Quantity int
}

func (c *StockpileCommand) ActionName() string { return "stockpile" }

func (c *StockpileCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ZoneLock(actor.CurrentZoneID)}
}

// StockpileResponse reports the zone's new stockpile levels.
type StockpileResponse struct {
	ZoneID          string
	MedkitStockpile int
	CommsStockpile  int
}

// StockpileHandler handles the Stockpile command
type StockpileHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewStockpileHandler creates a new StockpileHandler
func NewStockpileHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *StockpileHandler {
	return &StockpileHandler{players: players, zones: zones, meta: meta, txm: txm, emitter: emitter}
}

// Handle executes the Stockpile command
func (h *StockpileHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StockpileCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StockpileCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "must be positive")
	}
	resource := shared.Resource(cmd.Resource)
	if resource != shared.ResourceMedkits && resource != shared.ResourceComms {
		return nil, shared.NewValidationError("resource", "must be medkits or comms")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if err := actor.Inventory.Remove(resource, cmd.Quantity); err != nil {
		return nil, err
	}
	switch resource {
	case shared.ResourceMedkits:
		zone.MedkitStockpile += cmd.Quantity
	case shared.ResourceComms:
		zone.CommsStockpile += cmd.Quantity
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.zones.Update(ctx, zone); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeStockpileAdded, meta.CurrentTick, actor.ID, map[string]any{
			"zone":     zone.ID,
			"resource": string(resource),
			"quantity": cmd.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	return &StockpileResponse{
		ZoneID:          zone.ID,
		MedkitStockpile: zone.MedkitStockpile,
		CommsStockpile:  zone.CommsStockpile,
	}, nil
}
