package worldq

import (
	"context"
	"fmt"
	"time"

	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/world"
)

// GetStatusQuery is the public world heartbeat.
type GetStatusQuery struct{}

// GetStatusResponse summarizes world time and population.
type GetStatusResponse struct {
	CurrentTick int64
	Season      int
	Week        int
	LastTickAt  time.Time
	Players     int64
	Zones       int
}

// GetStatusHandler handles the GetStatus query
type GetStatusHandler struct {
	meta         world.MetaRepository
	zones        world.ZoneRepository
	players      player.PlayerRepository
	ticksPerWeek int64
}

// NewGetStatusHandler creates a new GetStatusHandler
func NewGetStatusHandler(
	meta world.MetaRepository,
	zones world.ZoneRepository,
	players player.PlayerRepository,
	ticksPerWeek int64,
) *GetStatusHandler {
	return &GetStatusHandler{meta: meta, zones: zones, players: players, ticksPerWeek: ticksPerWeek}
}

// Handle executes the GetStatus query
func (h *GetStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetStatusQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatusQuery")
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	zones, err := h.zones.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	playerCount, err := h.players.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &GetStatusResponse{
		CurrentTick: meta.CurrentTick,
		Season:      meta.Season,
		Week:        meta.Week(h.ticksPerWeek),
		LastTickAt:  meta.LastTickAt,
		Players:     playerCount,
		Zones:       len(zones),
	}, nil
}
