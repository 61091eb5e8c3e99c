package httpapi

import (
	"net/http"

	contractsapp "burnrate/internal/application/contracts"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/shared"
)

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &contractsapp.ListOpenContractsQuery{})
	if !ok {
		return
	}
	open := resp.(*contractsapp.ListOpenContractsResponse).Contracts
	writeJSON(w, http.StatusOK, struct {
		Contracts []contractView `json:"contracts"`
	}{Contracts: newContractViews(open)})
}

func (s *Server) handleMyContracts(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &contractsapp.ListMyContractsQuery{})
	if !ok {
		return
	}
	mine := resp.(*contractsapp.ListMyContractsResponse)
	writeJSON(w, http.StatusOK, struct {
		Posted   []contractView `json:"posted"`
		Accepted []contractView `json:"accepted"`
	}{
		Posted:   newContractViews(mine.Posted),
		Accepted: newContractViews(mine.Accepted),
	})
}

func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var req createContractRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &contractsapp.CreateContractCommand{
		Kind: req.Kind,
		Details: contract.Details{
			FromZoneID: req.Details.FromZoneID,
			ToZoneID:   req.Details.ToZoneID,
			Resource:   shared.Resource(req.Details.Resource),
			Quantity:   req.Details.Quantity,
			ZoneID:     req.Details.ZoneID,
			Amount:     req.Details.Amount,
			TargetType: req.Details.TargetType,
			TargetID:   req.Details.TargetID,
		},
		DeadlineTick:     req.DeadlineTick,
		RewardCredits:    req.RewardCredits,
		RewardReputation: req.RewardReputation,
		EarlyBonusTicks:  req.EarlyBonusTicks,
		EarlyBonus:       req.EarlyBonus,
		FactionFunded:    req.FactionFunded,
	})
	if !ok {
		return
	}
	created := resp.(*contractsapp.CreateContractResponse)
	writeJSON(w, http.StatusCreated, struct {
		Contract contractView `json:"contract"`
	}{Contract: newContractView(created.Contract)})
}

func (s *Server) handleAcceptContract(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &contractsapp.AcceptContractCommand{ContractID: r.PathValue("id")})
	if !ok {
		return
	}
	s.writeContractChange(w, resp.(*contractsapp.ContractResponse))
}

func (s *Server) handleCompleteContract(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &contractsapp.CompleteContractCommand{ContractID: r.PathValue("id")})
	if !ok {
		return
	}
	s.writeContractChange(w, resp.(*contractsapp.ContractResponse))
}

func (s *Server) handleCancelContract(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &contractsapp.CancelContractCommand{ContractID: r.PathValue("id")})
	if !ok {
		return
	}
	s.writeContractChange(w, resp.(*contractsapp.ContractResponse))
}

func (s *Server) writeContractChange(w http.ResponseWriter, c *contractsapp.ContractResponse) {
	writeJSON(w, http.StatusOK, struct {
		Contract contractView `json:"contract"`
		Payout   int64        `json:"payout,omitempty"`
		Refund   int64        `json:"refund,omitempty"`
	}{
		Contract: newContractView(c.Contract),
		Payout:   c.Payout,
		Refund:   c.Refund,
	})
}
