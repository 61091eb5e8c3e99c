package httpapi

import (
	"net/http"
	"strconv"

	seasonapp "burnrate/internal/application/season"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/shared"
)

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &seasonapp.GetSeasonQuery{})
	if !ok {
		return
	}
	current := resp.(*seasonapp.GetSeasonResponse)
	writeJSON(w, http.StatusOK, struct {
		Season          int   `json:"season"`
		Week            int   `json:"week"`
		CurrentTick     int64 `json:"current_tick"`
		SeasonStartTick int64 `json:"season_start_tick"`
		TicksRemaining  int64 `json:"ticks_remaining"`
	}{
		Season:          current.Season,
		Week:            current.Week,
		CurrentTick:     current.CurrentTick,
		SeasonStartTick: current.SeasonStartTick,
		TicksRemaining:  current.TicksRemaining,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := &seasonapp.GetLeaderboardQuery{EntityKind: r.URL.Query().Get("kind")}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			s.writeErr(w, r, shared.NewValidationError("limit", "must be an integer"))
			return
		}
		query.Limit = n
	}
	resp, ok := s.send(w, r, query)
	if !ok {
		return
	}
	board := resp.(*seasonapp.GetLeaderboardResponse)
	writeJSON(w, http.StatusOK, struct {
		Season    int               `json:"season"`
		Standings []season.Standing `json:"standings"`
	}{Season: board.Season, Standings: board.Standings})
}

func (s *Server) handleMyScore(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &seasonapp.GetMyScoreQuery{})
	if !ok {
		return
	}
	mine := resp.(*seasonapp.GetMyScoreResponse)
	var score *scoreView
	if mine.Score != nil {
		v := newScoreView(mine.Score)
		score = &v
	}
	writeJSON(w, http.StatusOK, struct {
		Season int        `json:"season"`
		Score  *scoreView `json:"score"`
		Rank   int        `json:"rank,omitempty"`
	}{Season: mine.Season, Score: score, Rank: mine.Rank})
}
