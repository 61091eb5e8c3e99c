package contracts

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/contract"
)

// ListOpenContractsQuery lists contracts anyone may accept.
type ListOpenContractsQuery struct{}

// ListOpenContractsResponse carries the open postings.
type ListOpenContractsResponse struct {
	Contracts []*contract.Contract
}

// ListOpenContractsHandler handles the ListOpenContracts query
type ListOpenContractsHandler struct {
	contracts contract.ContractRepository
}

// NewListOpenContractsHandler creates a new ListOpenContractsHandler
func NewListOpenContractsHandler(contracts contract.ContractRepository) *ListOpenContractsHandler {
	return &ListOpenContractsHandler{contracts: contracts}
}

// Handle executes the ListOpenContracts query
func (h *ListOpenContractsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListOpenContractsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListOpenContractsQuery")
	}
	open, err := h.contracts.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	return &ListOpenContractsResponse{Contracts: open}, nil
}

// ListMyContractsQuery lists contracts the caller posted or accepted.
type ListMyContractsQuery struct{}

// ListMyContractsResponse splits postings from jobs in progress.
type ListMyContractsResponse struct {
	Posted   []*contract.Contract
	Accepted []*contract.Contract
}

// ListMyContractsHandler handles the ListMyContracts query
type ListMyContractsHandler struct {
	contracts contract.ContractRepository
}

// NewListMyContractsHandler creates a new ListMyContractsHandler
func NewListMyContractsHandler(contracts contract.ContractRepository) *ListMyContractsHandler {
	return &ListMyContractsHandler{contracts: contracts}
}

// Handle executes the ListMyContracts query
func (h *ListMyContractsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListMyContractsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListMyContractsQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	posted, err := h.contracts.FindByPoster(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	accepted, err := h.contracts.FindByAcceptor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &ListMyContractsResponse{Posted: posted, Accepted: accepted}, nil
}
