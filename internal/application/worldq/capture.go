package worldq

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	appseason "burnrate/internal/application/season"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CaptureReputation is the reputation award for claiming a zone.
const CaptureReputation = 25

// CaptureCommand claims the player's current zone for their faction.
type CaptureCommand struct{}

// ActionName implements actions.Action
func (c *CaptureCommand) ActionName() string { return "capture" }

// LockKeys implements actions.Action
func (c *CaptureCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ZoneLock(actor.CurrentZoneID)}
}

// CaptureResponse carries the captured zone and the actor's new standing.
type CaptureResponse struct {
	Zone       *world.Zone
	Reputation int
}

// CaptureHandler handles the Capture command
type CaptureHandler struct {
	players  player.PlayerRepository
	zones    world.ZoneRepository
	meta     world.MetaRepository
	recorder *appseason.Recorder
	emitter  *actions.Emitter
	txm      shared.TxManager
}

// NewCaptureHandler creates a new CaptureHandler
func NewCaptureHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	recorder *appseason.Recorder,
	emitter *actions.Emitter,
	txm shared.TxManager,
) *CaptureHandler {
	return &CaptureHandler{players: players, zones: zones, meta: meta, recorder: recorder, emitter: emitter, txm: txm}
}

// Handle executes the Capture command
func (h *CaptureHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*CaptureCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *CaptureCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"capturing a zone requires faction membership")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if err := zone.Capture(actor.FactionID); err != nil {
		return nil, err
	}
	actor.AddReputation(CaptureReputation)

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
		if err := h.recorder.PlayerReputation(ctx, meta.Season, actor, CaptureReputation, meta.CurrentTick); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeZoneCaptured, meta.CurrentTick, actor.ID, map[string]any{
			"zone":    zone.ID,
			"faction": actor.FactionID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &CaptureResponse{Zone: zone, Reputation: actor.Reputation}, nil
}
