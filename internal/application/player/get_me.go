package player

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/world"
)

// GetMeQuery returns the authenticated player's own state.
type GetMeQuery struct{}

// GetMeResponse bundles the player with derived progression data.
type GetMeResponse struct {
	Player     *player.Player
	Title      string
	QuotaUsed  int
	QuotaLimit int
}

// GetMeHandler handles the GetMe query
type GetMeHandler struct {
	players     player.PlayerRepository
	meta        world.MetaRepository
	ticksPerDay int64
}

// NewGetMeHandler creates a new GetMeHandler
func NewGetMeHandler(players player.PlayerRepository, meta world.MetaRepository, ticksPerDay int64) *GetMeHandler {
	return &GetMeHandler{players: players, meta: meta, ticksPerDay: ticksPerDay}
}

// Handle executes the GetMe query
func (h *GetMeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetMeQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMeQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.players.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	p.ResetQuotaIfNewDay(meta.CurrentTick, h.ticksPerDay)
	return &GetMeResponse{
		Player:     p,
		Title:      p.Title(),
		QuotaUsed:  p.ActionsToday,
		QuotaLimit: p.Tier.DailyQuota(),
	}, nil
}
