package httpapi

import (
	"net/http"
	"time"

	"burnrate/internal/application/worldq"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorldStatus(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &worldq.GetStatusQuery{})
	if !ok {
		return
	}
	status := resp.(*worldq.GetStatusResponse)
	writeJSON(w, http.StatusOK, struct {
		CurrentTick int64     `json:"current_tick"`
		Season      int       `json:"season"`
		Week        int       `json:"week"`
		LastTickAt  time.Time `json:"last_tick_at"`
		Players     int64     `json:"players"`
		Zones       int       `json:"zones"`
	}{
		CurrentTick: status.CurrentTick,
		Season:      status.Season,
		Week:        status.Week,
		LastTickAt:  status.LastTickAt,
		Players:     status.Players,
		Zones:       status.Zones,
	})
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	query := &worldq.ListZonesQuery{
		Kind:           r.URL.Query().Get("kind"),
		OwnerFactionID: r.URL.Query().Get("owner"),
	}
	resp, ok := s.send(w, r, query)
	if !ok {
		return
	}
	zones := resp.(*worldq.ListZonesResponse).Zones
	writeJSON(w, http.StatusOK, struct {
		Zones []zoneView `json:"zones"`
	}{Zones: newZoneViews(zones)})
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &worldq.GetZoneQuery{ZoneID: r.PathValue("id")})
	if !ok {
		return
	}
	zone := resp.(*worldq.GetZoneResponse)
	writeJSON(w, http.StatusOK, struct {
		Zone   zoneView    `json:"zone"`
		Routes []routeView `json:"routes"`
	}{
		Zone:   newZoneView(zone.Zone),
		Routes: newRouteViews(zone.Routes),
	})
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &worldq.ListRoutesQuery{ZoneID: r.URL.Query().Get("from")})
	if !ok {
		return
	}
	routes := resp.(*worldq.ListRoutesResponse).Routes
	writeJSON(w, http.StatusOK, struct {
		Routes []routeView `json:"routes"`
	}{Routes: newRouteViews(routes)})
}

func (s *Server) handleZoneEfficiency(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &worldq.GetZoneEfficiencyQuery{ZoneID: r.PathValue("id")})
	if !ok {
		return
	}
	eff := resp.(*worldq.GetZoneEfficiencyResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID           string  `json:"zone_id"`
		SupplyLevel      float64 `json:"supply_level"`
		ComplianceStreak int     `json:"compliance_streak"`
		StreakMultiplier float64 `json:"streak_multiplier"`
		Efficiency       float64 `json:"efficiency"`
		SUStockpile      int     `json:"su_stockpile"`
		BurnRate         int     `json:"burn_rate"`
		TicksUntilDry    int     `json:"ticks_until_dry"`
	}{
		ZoneID:           eff.ZoneID,
		SupplyLevel:      eff.SupplyLevel,
		ComplianceStreak: eff.ComplianceStreak,
		StreakMultiplier: eff.StreakMultiplier,
		Efficiency:       eff.Efficiency,
		SUStockpile:      eff.SUStockpile,
		BurnRate:         eff.BurnRate,
		TicksUntilDry:    eff.TicksUntilDry,
	})
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	var req supplyRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &worldq.SupplyCommand{Amount: req.Amount})
	if !ok {
		return
	}
	supply := resp.(*worldq.SupplyResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID      string `json:"zone_id"`
		SUStockpile int    `json:"su_stockpile"`
		Reputation  int    `json:"reputation"`
	}{
		ZoneID:      supply.ZoneID,
		SUStockpile: supply.SUStockpile,
		Reputation:  supply.Reputation,
	})
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &worldq.CaptureCommand{})
	if !ok {
		return
	}
	capture := resp.(*worldq.CaptureResponse)
	writeJSON(w, http.StatusOK, struct {
		Zone       zoneView `json:"zone"`
		Reputation int      `json:"reputation"`
	}{
		Zone:       newZoneView(capture.Zone),
		Reputation: capture.Reputation,
	})
}

func (s *Server) handleStockpile(w http.ResponseWriter, r *http.Request) {
	var req stockpileRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &worldq.StockpileCommand{
		Resource: req.Resource,
		Quantity: req.Quantity,
	})
	if !ok {
		return
	}
	stock := resp.(*worldq.StockpileResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID          string `json:"zone_id"`
		MedkitStockpile int    `json:"medkit_stockpile"`
		CommsStockpile  int    `json:"comms_stockpile"`
	}{
		ZoneID:          stock.ZoneID,
		MedkitStockpile: stock.MedkitStockpile,
		CommsStockpile:  stock.CommsStockpile,
	})
}
