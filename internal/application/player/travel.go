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

// TravelCommand moves the player along a direct route.
type TravelCommand struct {
	ToZoneID string
}

func (c *TravelCommand) ActionName() string { return "travel" }

func (c *TravelCommand) LockKeys(actor *player.Player) []string {
	return nil // the gate adds the player lock
}

// TravelResponse reports the player's new location.
type TravelResponse struct {
	ZoneID   string
	Distance int
}

// TravelHandler handles the Travel command
type TravelHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	graph   world.GraphProvider
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewTravelHandler creates a new TravelHandler
func NewTravelHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	graph world.GraphProvider,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *TravelHandler {
	return &TravelHandler{
		players: players,
		zones:   zones,
		graph:   graph,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes the Travel command
func (h *TravelHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*TravelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TravelCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := h.zones.FindByID(ctx, cmd.ToZoneID); err != nil {
		return nil, err
	}
	g, err := h.graph.Graph(ctx)
	if err != nil {
		return nil, err
	}
	distance, ok := g.Distance(actor.CurrentZoneID, cmd.ToZoneID)
	if !ok {
		return nil, shared.NewPreconditionError("no_route",
			"no direct route from "+actor.CurrentZoneID+" to "+cmd.ToZoneID)
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	fromZoneID := actor.CurrentZoneID
	actor.CurrentZoneID = cmd.ToZoneID
	actor.AdvanceTutorial(1)

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypePlayerTraveled, meta.CurrentTick, actor.ID, map[string]any{
			"from": fromZoneID,
			"to":   cmd.ToZoneID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &TravelResponse{ZoneID: cmd.ToZoneID, Distance: distance}, nil
}
