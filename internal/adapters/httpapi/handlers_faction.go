package httpapi

import (
	"net/http"
	"strconv"

	factionapp "burnrate/internal/application/faction"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/shared"
)

func (s *Server) handleListFactions(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.ListFactionsQuery{})
	if !ok {
		return
	}
	summaries := resp.(*factionapp.ListFactionsResponse).Factions
	type summaryView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Tag         string `json:"tag"`
		MemberCount int    `json:"member_count"`
		ZonesOwned  int    `json:"zones_owned"`
	}
	views := make([]summaryView, 0, len(summaries))
	for _, f := range summaries {
		views = append(views, summaryView{
			ID:          f.ID,
			Name:        f.Name,
			Tag:         f.Tag,
			MemberCount: f.MemberCount,
			ZonesOwned:  f.ZonesOwned,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Factions []summaryView `json:"factions"`
	}{Factions: views})
}

func (s *Server) handleCreateFaction(w http.ResponseWriter, r *http.Request) {
	var req createFactionRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &factionapp.CreateFactionCommand{Name: req.Name, Tag: req.Tag})
	if !ok {
		return
	}
	created := resp.(*factionapp.CreateFactionResponse)
	writeJSON(w, http.StatusCreated, struct {
		Faction factionView `json:"faction"`
	}{Faction: newFactionView(created.Faction)})
}

func (s *Server) handleJoinFaction(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.JoinFactionCommand{FactionID: r.PathValue("id")})
	if !ok {
		return
	}
	joined := resp.(*factionapp.JoinFactionResponse)
	writeJSON(w, http.StatusOK, struct {
		Faction factionView `json:"faction"`
	}{Faction: newFactionView(joined.Faction)})
}

func (s *Server) handleLeaveFaction(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.LeaveFactionCommand{})
	if !ok {
		return
	}
	left := resp.(*factionapp.LeaveFactionResponse)
	writeJSON(w, http.StatusOK, struct {
		FactionID string `json:"faction_id"`
	}{FactionID: left.FactionID})
}

func (s *Server) handleDisbandFaction(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.DisbandFactionCommand{})
	if !ok {
		return
	}
	disbanded := resp.(*factionapp.MembershipResponse)
	writeJSON(w, http.StatusOK, struct {
		Faction factionView `json:"faction"`
	}{Faction: newFactionView(disbanded.Faction)})
}

func (s *Server) handleMyFaction(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.GetMyFactionQuery{})
	if !ok {
		return
	}
	mine := resp.(*factionapp.GetMyFactionResponse)
	writeJSON(w, http.StatusOK, struct {
		Faction factionView `json:"faction"`
		Rank    string      `json:"rank"`
	}{Faction: newFactionView(mine.Faction), Rank: string(mine.Rank)})
}

func (s *Server) handlePromoteMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, &factionapp.PromoteMemberCommand{PlayerID: r.PathValue("id")})
}

func (s *Server) handleDemoteMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, &factionapp.DemoteMemberCommand{PlayerID: r.PathValue("id")})
}

func (s *Server) handleKickMember(w http.ResponseWriter, r *http.Request) {
	s.memberAction(w, r, &factionapp.KickMemberCommand{PlayerID: r.PathValue("id")})
}

func (s *Server) handleTransferLeadership(w http.ResponseWriter, r *http.Request) {
	var req memberActionRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.memberAction(w, r, &factionapp.TransferLeadershipCommand{PlayerID: req.PlayerID})
}

// memberAction runs one of the roster commands; they all answer with the
// updated faction.
func (s *Server) memberAction(w http.ResponseWriter, r *http.Request, cmd mediator.Request) {
	resp, ok := s.send(w, r, cmd)
	if !ok {
		return
	}
	changed := resp.(*factionapp.MembershipResponse)
	writeJSON(w, http.StatusOK, struct {
		Faction factionView `json:"faction"`
	}{Faction: newFactionView(changed.Faction)})
}

func (s *Server) handleTreasuryDeposit(w http.ResponseWriter, r *http.Request) {
	var req treasuryRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &factionapp.TreasuryDepositCommand{Credits: req.Credits, Goods: req.Goods})
	if !ok {
		return
	}
	s.writeTreasury(w, resp.(*factionapp.TreasuryResponse))
}

func (s *Server) handleTreasuryWithdraw(w http.ResponseWriter, r *http.Request) {
	var req treasuryRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &factionapp.TreasuryWithdrawCommand{Credits: req.Credits, Goods: req.Goods})
	if !ok {
		return
	}
	s.writeTreasury(w, resp.(*factionapp.TreasuryResponse))
}

func (s *Server) writeTreasury(w http.ResponseWriter, t *factionapp.TreasuryResponse) {
	writeJSON(w, http.StatusOK, struct {
		TreasuryCredits int64            `json:"treasury_credits"`
		Treasury        shared.Inventory `json:"treasury"`
		PlayerCredits   int64            `json:"player_credits"`
		PlayerInventory shared.Inventory `json:"player_inventory"`
	}{
		TreasuryCredits: t.TreasuryCredits,
		Treasury:        t.Treasury,
		PlayerCredits:   t.PlayerCredits,
		PlayerInventory: t.PlayerInventory,
	})
}

func (s *Server) handleFactionAnalytics(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.GetFactionAnalyticsQuery{})
	if !ok {
		return
	}
	analytics := resp.(*factionapp.GetFactionAnalyticsResponse)
	type holdingView struct {
		ZoneID           string  `json:"zone_id"`
		Kind             string  `json:"kind"`
		SupplyLevel      float64 `json:"supply_level"`
		ComplianceStreak int     `json:"compliance_streak"`
		SUStockpile      int     `json:"su_stockpile"`
		BurnRate         int     `json:"burn_rate"`
	}
	holdings := make([]holdingView, 0, len(analytics.Holdings))
	for _, h := range analytics.Holdings {
		holdings = append(holdings, holdingView{
			ZoneID:           h.ZoneID,
			Kind:             string(h.Kind),
			SupplyLevel:      h.SupplyLevel,
			ComplianceStreak: h.ComplianceStreak,
			SUStockpile:      h.SUStockpile,
			BurnRate:         h.BurnRate,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		FactionID       string           `json:"faction_id"`
		MemberCount     int              `json:"member_count"`
		ActiveMembers   int              `json:"active_members"`
		TreasuryCredits int64            `json:"treasury_credits"`
		Treasury        shared.Inventory `json:"treasury"`
		ZonesOwned      int              `json:"zones_owned"`
		TotalBurnPerDay int              `json:"total_burn_per_day"`
		Holdings        []holdingView    `json:"holdings"`
	}{
		FactionID:       analytics.FactionID,
		MemberCount:     analytics.MemberCount,
		ActiveMembers:   analytics.ActiveMembers,
		TreasuryCredits: analytics.TreasuryCredits,
		Treasury:        analytics.Treasury,
		ZonesOwned:      analytics.ZonesOwned,
		TotalBurnPerDay: analytics.TotalBurnPerDay,
		Holdings:        holdings,
	})
}

func (s *Server) handleFactionAudit(w http.ResponseWriter, r *http.Request) {
	query := &factionapp.GetFactionAuditQuery{}
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
	audit := resp.(*factionapp.GetFactionAuditResponse)
	writeJSON(w, http.StatusOK, struct {
		Events []eventView `json:"events"`
	}{Events: newEventViews(audit.Events)})
}

func (s *Server) handleListDoctrines(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.ListDoctrinesQuery{})
	if !ok {
		return
	}
	doctrines := resp.(*factionapp.ListDoctrinesResponse).Doctrines
	views := make([]doctrineView, 0, len(doctrines))
	for _, d := range doctrines {
		views = append(views, newDoctrineView(d))
	}
	writeJSON(w, http.StatusOK, struct {
		Doctrines []doctrineView `json:"doctrines"`
	}{Doctrines: views})
}

func (s *Server) handleCreateDoctrine(w http.ResponseWriter, r *http.Request) {
	var req doctrineRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &factionapp.CreateDoctrineCommand{Title: req.Title, Body: req.Body})
	if !ok {
		return
	}
	created := resp.(*factionapp.DoctrineResponse)
	writeJSON(w, http.StatusCreated, struct {
		Doctrine doctrineView `json:"doctrine"`
	}{Doctrine: newDoctrineView(created.Doctrine)})
}

func (s *Server) handleUpdateDoctrine(w http.ResponseWriter, r *http.Request) {
	var req doctrineRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &factionapp.UpdateDoctrineCommand{
		DoctrineID: r.PathValue("id"),
		Title:      req.Title,
		Body:       req.Body,
	})
	if !ok {
		return
	}
	updated := resp.(*factionapp.DoctrineResponse)
	writeJSON(w, http.StatusOK, struct {
		Doctrine doctrineView `json:"doctrine"`
	}{Doctrine: newDoctrineView(updated.Doctrine)})
}

func (s *Server) handleDeleteDoctrine(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &factionapp.DeleteDoctrineCommand{DoctrineID: r.PathValue("id")})
	if !ok {
		return
	}
	deleted := resp.(*factionapp.DoctrineResponse)
	writeJSON(w, http.StatusOK, struct {
		Doctrine doctrineView `json:"doctrine"`
	}{Doctrine: newDoctrineView(deleted.Doctrine)})
}
