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
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// ProduceCommand runs a recipe at the player's current factory,
// consuming inputs from their inventory and factory capacity. Resource
// outputs land in the inventory; escort and raider outputs create units
// at the zone.
type ProduceCommand struct {
	Output   string
	Quantity int
}

func (c *ProduceCommand) ActionName() string { return "produce" }

func (c *ProduceCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ZoneLock(actor.CurrentZoneID)}
}

// ProduceResponse lists what the recipe yielded.
type ProduceResponse struct {
	Output    string
	Quantity  int
	UnitIDs   []string
	Inventory shared.Inventory
}

// ProduceHandler handles the Produce command
type ProduceHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	units   unit.UnitRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewProduceHandler creates a new ProduceHandler
func NewProduceHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	units unit.UnitRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *ProduceHandler {
	return &ProduceHandler{
		players: players,
		zones:   zones,
		units:   units,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes the Produce command
func (h *ProduceHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ProduceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ProduceCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "must be positive")
	}
	if cmd.Output == world.OutputSU {
		return nil, shared.NewValidationError("output",
			"supply units are assembled by the supply action, not produced")
	}
	cost, ok := world.RecipeFor(cmd.Output, cmd.Quantity)
	if !ok {
		return nil, shared.NewValidationError("output", "unknown recipe output")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if zone.Kind != world.ZoneFactory {
		return nil, shared.NewPreconditionError("not_a_factory",
			"production requires a factory zone")
	}
	if zone.ProductionCapacity < cmd.Quantity {
		return nil, shared.NewPreconditionError("insufficient_capacity",
			"factory capacity is exhausted this tick")
	}

	if err := actor.Inventory.RemoveAll(cost); err != nil {
		return nil, err
	}
	zone.ProductionCapacity -= cmd.Quantity
	actor.AdvanceTutorial(3)

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	var created []*unit.Unit
	switch cmd.Output {
	case world.OutputEscort, world.OutputRaider:
		kind := unit.KindEscort
		if cmd.Output == world.OutputRaider {
			kind = unit.KindRaider
		}
		for i := 0; i < cmd.Quantity; i++ {
			created = append(created, unit.NewUnit(shared.NewID(), actor.ID, kind, zone.ID, meta.CurrentTick))
		}
	default:
		actor.Inventory.Add(shared.Resource(cmd.Output), cmd.Quantity)
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		if err := h.zones.Update(ctx, zone); err != nil {
			return err
		}
		for _, u := range created {
			if err := h.units.Add(ctx, u); err != nil {
				return err
			}
			if err := h.emitter.Emit(ctx, event.TypeUnitCreated, meta.CurrentTick, actor.ID, map[string]any{
				"unit": u.ID,
				"kind": string(u.Kind),
				"zone": zone.ID,
			}); err != nil {
				return err
			}
		}
		if len(created) == 0 {
			return h.emitter.Emit(ctx, event.TypeGoodsProduced, meta.CurrentTick, actor.ID, map[string]any{
				"zone":     zone.ID,
				"output":   cmd.Output,
				"quantity": cmd.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &ProduceResponse{
		Output:    cmd.Output,
		Quantity:  cmd.Quantity,
		Inventory: actor.Inventory.Clone(),
	}
	for _, u := range created {
		resp.UnitIDs = append(resp.UnitIDs, u.ID)
	}
	return resp, nil
}
