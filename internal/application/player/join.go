package player

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// JoinCommand represents a request to create a new player account. It
// is the only unauthenticated mutation; the gate does not apply.
type JoinCommand struct {
	Name string
}

// JoinResponse carries the new player and the API key, shown once.
type JoinResponse struct {
	Player *player.Player
	APIKey string
}

// JoinHandler handles the Join command
type JoinHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewJoinHandler creates a new JoinHandler
func NewJoinHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *JoinHandler {
	return &JoinHandler{
		players: players,
		zones:   zones,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes the Join command
func (h *JoinHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*JoinCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *JoinCommand")
	}

	if len(cmd.Name) < 2 || len(cmd.Name) > 20 {
		return nil, shared.NewValidationError("name", "must be 2-20 characters")
	}
	if existing, err := h.players.FindByName(ctx, cmd.Name); err == nil && existing != nil {
		return nil, shared.NewConflictError("name_taken", "player name already taken")
	} else if err != nil && shared.KindOf(err) != shared.KindNotFound {
		return nil, err
	}

	hub, err := h.pickHub(ctx, cmd.Name)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	p := player.NewPlayer(shared.NewID(), cmd.Name, shared.NewAPIKey(), hub.ID, meta.CurrentTick)
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.players.Add(ctx, p); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypePlayerJoined, meta.CurrentTick, p.ID, map[string]any{
			"name": p.Name,
			"zone": hub.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &JoinResponse{Player: p, APIKey: p.APIKey}, nil
}

// pickHub seeds placement with the player name so joins are stable
// under retries.
func (h *JoinHandler) pickHub(ctx context.Context, name string) (*world.Zone, error) {
	zones, err := h.zones.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	hubs := make([]*world.Zone, 0, 4)
	for _, z := range zones {
		if z.Kind == world.ZoneHub {
			hubs = append(hubs, z)
		}
	}
	if len(hubs) == 0 {
		return nil, shared.NewPreconditionError("world_not_initialized",
			"no hub zones exist; initialize the world first")
	}
	rng := shared.DeterministicRand("join", name)
	return hubs[rng.Intn(len(hubs))], nil
}
