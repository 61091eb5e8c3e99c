package player

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
)

// ExportQuery dumps the caller's full account state. Operator tier and
// above.
type ExportQuery struct{}

// ExportResponse aggregates everything the player owns.
type ExportResponse struct {
	Player    *player.Player
	Title     string
	Shipments []*shipment.Shipment
	Units     []*unit.Unit
	Orders    []*market.Order
	Contracts []*contract.Contract
}

// ExportHandler handles the Export query
type ExportHandler struct {
	players   player.PlayerRepository
	shipments shipment.ShipmentRepository
	units     unit.UnitRepository
	orders    market.OrderRepository
	contracts contract.ContractRepository
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(
	players player.PlayerRepository,
	shipments shipment.ShipmentRepository,
	units unit.UnitRepository,
	orders market.OrderRepository,
	contracts contract.ContractRepository,
) *ExportHandler {
	return &ExportHandler{
		players:   players,
		shipments: shipments,
		units:     units,
		orders:    orders,
		contracts: contracts,
	}
}

// Handle executes the Export query
func (h *ExportHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ExportQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExportQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.players.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !p.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"account export requires operator tier")
	}

	shipments, err := h.shipments.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	units, err := h.units.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	orders, err := h.orders.FindOpenByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	contracts, err := h.contracts.FindByAcceptor(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &ExportResponse{
		Player:    p,
		Title:     p.Title(),
		Shipments: shipments,
		Units:     units,
		Orders:    orders,
		Contracts: contracts,
	}, nil
}
