package season

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// GetSeasonQuery returns the current season's progress.
type GetSeasonQuery struct{}

// GetSeasonResponse describes where the season stands.
type GetSeasonResponse struct {
	Season          int
	Week            int
	CurrentTick     int64
	SeasonStartTick int64
	TicksRemaining  int64
}

// GetSeasonHandler handles the GetSeason query
type GetSeasonHandler struct {
	meta         world.MetaRepository
	ticksPerWeek int64
	seasonWeeks  int
}

// NewGetSeasonHandler creates a new GetSeasonHandler
func NewGetSeasonHandler(meta world.MetaRepository, ticksPerWeek int64, seasonWeeks int) *GetSeasonHandler {
	return &GetSeasonHandler{meta: meta, ticksPerWeek: ticksPerWeek, seasonWeeks: seasonWeeks}
}

// Handle executes the GetSeason query
func (h *GetSeasonHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetSeasonQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetSeasonQuery")
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := meta.CurrentTick - meta.SeasonStartTick
	length := h.ticksPerWeek * int64(h.seasonWeeks)
	remaining := length - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return &GetSeasonResponse{
		Season:          meta.Season,
		Week:            meta.Week(h.ticksPerWeek),
		CurrentTick:     meta.CurrentTick,
		SeasonStartTick: meta.SeasonStartTick,
		TicksRemaining:  remaining,
	}, nil
}

// GetLeaderboardQuery ranks season standings, filtered by entity kind.
type GetLeaderboardQuery struct {
	EntityKind string // player (default) or faction
	Limit      int
}

// GetLeaderboardResponse is the ranked board.
type GetLeaderboardResponse struct {
	Season    int
	Standings []season.Standing
}

// GetLeaderboardHandler handles the GetLeaderboard query
type GetLeaderboardHandler struct {
	meta   world.MetaRepository
	scores season.ScoreRepository
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler
func NewGetLeaderboardHandler(meta world.MetaRepository, scores season.ScoreRepository) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{meta: meta, scores: scores}
}

// Handle executes the GetLeaderboard query
func (h *GetLeaderboardHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*GetLeaderboardQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLeaderboardQuery")
	}
	kind := season.EntityKind(q.EntityKind)
	if q.EntityKind == "" {
		kind = season.EntityPlayer
	}
	if kind != season.EntityPlayer && kind != season.EntityFaction {
		return nil, shared.NewValidationError("kind", "must be player or faction")
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := h.scores.FindBySeason(ctx, meta.Season)
	if err != nil {
		return nil, err
	}
	filtered := make([]*season.Score, 0, len(scores))
	for _, s := range scores {
		if s.EntityKind == kind {
			filtered = append(filtered, s)
		}
	}
	standings := season.Rank(filtered)
	if q.Limit > 0 && q.Limit < len(standings) {
		standings = standings[:q.Limit]
	}
	return &GetLeaderboardResponse{Season: meta.Season, Standings: standings}, nil
}

// GetMyScoreQuery returns the caller's standing in the current season.
type GetMyScoreQuery struct{}

// GetMyScoreResponse carries the caller's score row; Score is nil when
// the player has not scored yet.
type GetMyScoreResponse struct {
	Season int
	Score  *season.Score
	Rank   int
}

// GetMyScoreHandler handles the GetMyScore query
type GetMyScoreHandler struct {
	meta   world.MetaRepository
	scores season.ScoreRepository
}

// NewGetMyScoreHandler creates a new GetMyScoreHandler
func NewGetMyScoreHandler(meta world.MetaRepository, scores season.ScoreRepository) *GetMyScoreHandler {
	return &GetMyScoreHandler{meta: meta, scores: scores}
}

// Handle executes the GetMyScore query
func (h *GetMyScoreHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetMyScoreQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMyScoreQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := h.scores.FindBySeason(ctx, meta.Season)
	if err != nil {
		return nil, err
	}
	players := make([]*season.Score, 0, len(scores))
	for _, s := range scores {
		if s.EntityKind == season.EntityPlayer {
			players = append(players, s)
		}
	}
	resp := &GetMyScoreResponse{Season: meta.Season}
	for _, standing := range season.Rank(players) {
		if standing.EntityID == actor.ID {
			resp.Rank = standing.Rank
			break
		}
	}
	for _, s := range players {
		if s.EntityID == actor.ID {
			resp.Score = s
			break
		}
	}
	return resp, nil
}
