package httpapi

import (
	"net/http"
	"time"

	adminapp "burnrate/internal/application/admin"
)

func (s *Server) handleAdminTick(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &adminapp.ForceTickCommand{})
	if !ok {
		return
	}
	ticked := resp.(*adminapp.ForceTickResponse)
	writeJSON(w, http.StatusOK, struct {
		Tick       int64  `json:"tick"`
		Advanced   bool   `json:"advanced"`
		DurationMS int64  `json:"duration_ms"`
		Duration   string `json:"duration"`
	}{
		Tick:       ticked.Tick,
		Advanced:   ticked.Advanced,
		DurationMS: ticked.Duration.Milliseconds(),
		Duration:   ticked.Duration.Round(time.Microsecond).String(),
	})
}

func (s *Server) handleAdminInitWorld(w http.ResponseWriter, r *http.Request) {
	var req initWorldRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &adminapp.InitWorldCommand{Force: req.Force})
	if !ok {
		return
	}
	initialized := resp.(*adminapp.InitWorldResponse)
	writeJSON(w, http.StatusCreated, struct {
		Seed   string `json:"seed"`
		Zones  int    `json:"zones"`
		Routes int    `json:"routes"`
	}{
		Seed:   initialized.Seed,
		Zones:  initialized.Zones,
		Routes: initialized.Routes,
	})
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &adminapp.DashboardQuery{})
	if !ok {
		return
	}
	dash := resp.(*adminapp.DashboardResponse)
	writeJSON(w, http.StatusOK, struct {
		CurrentTick        int64     `json:"current_tick"`
		Season             int       `json:"season"`
		Week               int       `json:"week"`
		LastTickAt         time.Time `json:"last_tick_at"`
		Seed               string    `json:"seed"`
		Players            int64     `json:"players"`
		Factions           int       `json:"factions"`
		ZonesTotal         int       `json:"zones_total"`
		ZonesOwned         int       `json:"zones_owned"`
		ZonesCollapsed     int       `json:"zones_collapsed"`
		ShipmentsInTransit int       `json:"shipments_in_transit"`
		OpenOrders         int       `json:"open_orders"`
		ActiveContracts    int       `json:"active_contracts"`
		Units              int       `json:"units"`
		EventTailSeq       int64     `json:"event_tail_seq"`
	}{
		CurrentTick:        dash.CurrentTick,
		Season:             dash.Season,
		Week:               dash.Week,
		LastTickAt:         dash.LastTickAt,
		Seed:               dash.Seed,
		Players:            dash.Players,
		Factions:           dash.Factions,
		ZonesTotal:         dash.ZonesTotal,
		ZonesOwned:         dash.ZonesOwned,
		ZonesCollapsed:     dash.ZonesCollapsed,
		ShipmentsInTransit: dash.ShipmentsInTransit,
		OpenOrders:         dash.OpenOrders,
		ActiveContracts:    dash.ActiveContracts,
		Units:              dash.Units,
		EventTailSeq:       dash.EventTailSeq,
	})
}
