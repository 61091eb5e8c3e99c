package httpapi

import (
	"net/http"
	"sort"
	"strconv"

	playerapp "burnrate/internal/application/player"
	"burnrate/internal/domain/shared"
)

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &playerapp.JoinCommand{Name: req.Name})
	if !ok {
		return
	}
	joined := resp.(*playerapp.JoinResponse)
	// The API key appears here and nowhere else.
	writeJSON(w, http.StatusCreated, struct {
		Player playerView `json:"player"`
		APIKey string     `json:"api_key"`
	}{
		Player: newPlayerView(joined.Player),
		APIKey: joined.APIKey,
	})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &playerapp.GetMeQuery{})
	if !ok {
		return
	}
	me := resp.(*playerapp.GetMeResponse)
	writeJSON(w, http.StatusOK, struct {
		Player     playerView `json:"player"`
		Title      string     `json:"title"`
		QuotaUsed  int        `json:"quota_used"`
		QuotaLimit int        `json:"quota_limit"`
	}{
		Player:     newPlayerView(me.Player),
		Title:      me.Title,
		QuotaUsed:  me.QuotaUsed,
		QuotaLimit: me.QuotaLimit,
	})
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	var req travelRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &playerapp.TravelCommand{ToZoneID: req.ToZoneID})
	if !ok {
		return
	}
	moved := resp.(*playerapp.TravelResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID   string `json:"zone_id"`
		Distance int    `json:"distance"`
	}{ZoneID: moved.ZoneID, Distance: moved.Distance})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &playerapp.ExtractCommand{Quantity: req.Quantity})
	if !ok {
		return
	}
	extracted := resp.(*playerapp.ExtractResponse)
	writeJSON(w, http.StatusOK, struct {
		Resource shared.Resource `json:"resource"`
		Quantity int             `json:"quantity"`
		Cost     int64           `json:"cost"`
		Credits  int64           `json:"credits"`
	}{
		Resource: extracted.Resource,
		Quantity: extracted.Quantity,
		Cost:     extracted.Cost,
		Credits:  extracted.Credits,
	})
}

func (s *Server) handleProduce(w http.ResponseWriter, r *http.Request) {
	var req produceRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &playerapp.ProduceCommand{
		Output:   req.Output,
		Quantity: req.Quantity,
	})
	if !ok {
		return
	}
	produced := resp.(*playerapp.ProduceResponse)
	writeJSON(w, http.StatusOK, struct {
		Output    string           `json:"output"`
		Quantity  int              `json:"quantity"`
		UnitIDs   []string         `json:"unit_ids,omitempty"`
		Inventory shared.Inventory `json:"inventory"`
	}{
		Output:    produced.Output,
		Quantity:  produced.Quantity,
		UnitIDs:   produced.UnitIDs,
		Inventory: produced.Inventory,
	})
}

func (s *Server) handleReputation(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &playerapp.GetReputationQuery{})
	if !ok {
		return
	}
	rep := resp.(*playerapp.GetReputationResponse)
	writeJSON(w, http.StatusOK, struct {
		Reputation int    `json:"reputation"`
		Title      string `json:"title"`
	}{Reputation: rep.Reputation, Title: rep.Title})
}

func (s *Server) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &playerapp.GetLicensesQuery{})
	if !ok {
		return
	}
	licenses := resp.(*playerapp.GetLicensesResponse).Licenses
	type licenseView struct {
		License    string `json:"license"`
		Held       bool   `json:"held"`
		Reputation int    `json:"reputation_required"`
		Cost       int64  `json:"cost"`
	}
	views := make([]licenseView, 0, len(licenses))
	for _, info := range licenses {
		views = append(views, licenseView{
			License:    string(info.License),
			Held:       info.Held,
			Reputation: info.Reputation,
			Cost:       info.Cost,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Licenses []licenseView `json:"licenses"`
	}{Licenses: views})
}

func (s *Server) handleUnlockLicense(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &playerapp.UnlockLicenseCommand{License: r.PathValue("type")})
	if !ok {
		return
	}
	unlocked := resp.(*playerapp.UnlockLicenseResponse)
	held := make([]string, 0, len(unlocked.Licenses))
	for license, has := range unlocked.Licenses {
		if has {
			held = append(held, string(license))
		}
	}
	sort.Strings(held)
	writeJSON(w, http.StatusOK, struct {
		License  string   `json:"license"`
		Credits  int64    `json:"credits"`
		Licenses []string `json:"licenses"`
	}{
		License:  string(unlocked.License),
		Credits:  unlocked.Credits,
		Licenses: held,
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query := &playerapp.ListEventsQuery{}
	if since := r.URL.Query().Get("since_tick"); since != "" {
		tick, err := strconv.ParseInt(since, 10, 64)
		if err != nil {
			s.writeErr(w, r, shared.NewValidationError("since_tick", "must be an integer"))
			return
		}
		query.SinceTick = tick
	}
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
	events := resp.(*playerapp.ListEventsResponse).Events
	writeJSON(w, http.StatusOK, struct {
		Events []eventView `json:"events"`
	}{Events: newEventViews(events)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &playerapp.ExportQuery{})
	if !ok {
		return
	}
	export := resp.(*playerapp.ExportResponse)
	writeJSON(w, http.StatusOK, struct {
		Player    playerView     `json:"player"`
		Title     string         `json:"title"`
		Shipments []shipmentView `json:"shipments"`
		Units     []unitView     `json:"units"`
		Orders    []orderView    `json:"orders"`
		Contracts []contractView `json:"contracts"`
	}{
		Player:    newPlayerView(export.Player),
		Title:     export.Title,
		Shipments: newShipmentViews(export.Shipments),
		Units:     newUnitViews(export.Units),
		Orders:    newOrderViews(export.Orders),
		Contracts: newContractViews(export.Contracts),
	})
}
