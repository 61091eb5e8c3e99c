package httpapi

import (
	"net/http"
	"strconv"

	intelapp "burnrate/internal/application/intel"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/shared"
)

type reportView struct {
	ID            string               `json:"id"`
	GathererID    string               `json:"gatherer_id"`
	FactionID     string               `json:"faction_id,omitempty"`
	TargetType    intel.TargetType     `json:"target_type"`
	TargetID      string               `json:"target_id"`
	GatheredAt    int64                `json:"gathered_at"`
	SignalQuality int                  `json:"signal_quality"`
	Zone          *intel.ZoneSnapshot  `json:"zone,omitempty"`
	Route         *intel.RouteSnapshot `json:"route,omitempty"`
}

func newReportView(rep *intel.Report) reportView {
	return reportView{
		ID:            rep.ID,
		GathererID:    rep.GathererID,
		FactionID:     rep.FactionID,
		TargetType:    rep.TargetType,
		TargetID:      rep.TargetID,
		GatheredAt:    rep.GatheredAt,
		SignalQuality: rep.SignalQuality,
		Zone:          rep.Zone,
		Route:         rep.Route,
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &intelapp.ScanCommand{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
	})
	if !ok {
		return
	}
	scanned := resp.(*intelapp.ScanResponse)
	writeJSON(w, http.StatusCreated, struct {
		Report reportView `json:"report"`
	}{Report: newReportView(scanned.Report)})
}

func (s *Server) handleListIntel(w http.ResponseWriter, r *http.Request) {
	query := &intelapp.ListIntelQuery{}
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
	reports := resp.(*intelapp.ListIntelResponse).Reports
	writeJSON(w, http.StatusOK, struct {
		Reports []*intel.Projected `json:"reports"`
	}{Reports: reports})
}

func (s *Server) handleIntelByTarget(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &intelapp.GetIntelByTargetQuery{
		TargetType: r.PathValue("type"),
		TargetID:   r.PathValue("id"),
	})
	if !ok {
		return
	}
	reports := resp.(*intelapp.GetIntelByTargetResponse).Reports
	writeJSON(w, http.StatusOK, struct {
		Reports []*intel.Projected `json:"reports"`
	}{Reports: reports})
}

func (s *Server) handleFactionIntel(w http.ResponseWriter, r *http.Request) {
	query := &intelapp.GetFactionIntelQuery{}
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
	reports := resp.(*intelapp.GetFactionIntelResponse).Reports
	writeJSON(w, http.StatusOK, struct {
		Reports []*intel.Projected `json:"reports"`
	}{Reports: reports})
}
