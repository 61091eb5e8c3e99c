package player

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

// ExtractCostPerUnit is the credit cost of extracting one raw resource.
const ExtractCostPerUnit int64 = 5

// ExtractCommand pulls the local field's raw resource into the player's
// inventory for credits.
type ExtractCommand struct {
	Quantity int
}

func (c *ExtractCommand) ActionName() string { return "extract" }

func (c *ExtractCommand) LockKeys(actor *player.Player) []string {
	return nil
}

// ExtractResponse reports what was extracted and the credits spent.
type ExtractResponse struct {
	Resource shared.Resource
	Quantity int
	Cost     int64
	Credits  int64
}

// ExtractHandler handles the Extract command
type ExtractHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *ExtractHandler {
	return &ExtractHandler{
		players: players,
		zones:   zones,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes the Extract command
func (h *ExtractHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExtractCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExtractCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "must be positive")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if zone.Kind != world.ZoneField {
		return nil, shared.NewPreconditionError("not_a_field",
			"extraction requires a field zone")
	}

	cost := ExtractCostPerUnit * int64(cmd.Quantity)
	if err := actor.SpendCredits(cost); err != nil {
		return nil, err
	}
	actor.Inventory.Add(zone.FieldResource, cmd.Quantity)
	actor.AdvanceTutorial(2)

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeResourcesExtracted, meta.CurrentTick, actor.ID, map[string]any{
			"zone":     zone.ID,
			"resource": string(zone.FieldResource),
			"quantity": cmd.Quantity,
			"cost":     cost,
		})
	})
	if err != nil {
		return nil, err
	}

	return &ExtractResponse{
		Resource: zone.FieldResource,
		Quantity: cmd.Quantity,
		Cost:     cost,
		Credits:  actor.Credits,
	}, nil
}
