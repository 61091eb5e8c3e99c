package market

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

// ListZoneOrdersQuery lists the open book at the caller's current zone,
// optionally narrowed to one resource.
type ListZoneOrdersQuery struct {
	Resource string
}

// ListZoneOrdersResponse carries the zone's open orders.
type ListZoneOrdersResponse struct {
	ZoneID string
	Orders []*market.Order
}

// ListZoneOrdersHandler handles the ListZoneOrders query
type ListZoneOrdersHandler struct {
	orders market.OrderRepository
}

// NewListZoneOrdersHandler creates a new ListZoneOrdersHandler
func NewListZoneOrdersHandler(orders market.OrderRepository) *ListZoneOrdersHandler {
	return &ListZoneOrdersHandler{orders: orders}
}

// Handle executes the ListZoneOrders query
func (h *ListZoneOrdersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListZoneOrdersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListZoneOrdersQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if query.Resource != "" && !shared.IsValidResource(query.Resource) {
		return nil, shared.NewValidationError("resource", "unknown resource")
	}

	orders, err := h.orders.FindOpenByZone(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	if query.Resource != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Resource == shared.Resource(query.Resource) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	return &ListZoneOrdersResponse{ZoneID: actor.CurrentZoneID, Orders: orders}, nil
}

// ListMyOrdersQuery lists the caller's open orders across all zones.
type ListMyOrdersQuery struct{}

// ListMyOrdersResponse carries the caller's open orders.
type ListMyOrdersResponse struct {
	Orders []*market.Order
}

// ListMyOrdersHandler handles the ListMyOrders query
type ListMyOrdersHandler struct {
	orders market.OrderRepository
}

// NewListMyOrdersHandler creates a new ListMyOrdersHandler
func NewListMyOrdersHandler(orders market.OrderRepository) *ListMyOrdersHandler {
	return &ListMyOrdersHandler{orders: orders}
}

// Handle executes the ListMyOrders query
func (h *ListMyOrdersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListMyOrdersQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListMyOrdersQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := h.orders.FindOpenByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &ListMyOrdersResponse{Orders: orders}, nil
}

// GetTradesQuery returns recent trade history for one resource at the
// caller's current zone, newest first.
type GetTradesQuery struct {
	Resource string
	Limit    int
}

// GetTradesResponse carries trades plus the last recorded price.
type GetTradesResponse struct {
	Trades    []*market.Trade
	LastPrice int64
}

// GetTradesHandler handles the GetTrades query
type GetTradesHandler struct {
	trades market.TradeRepository
	prices market.LastPriceRepository
}

// NewGetTradesHandler creates a new GetTradesHandler
func NewGetTradesHandler(trades market.TradeRepository, prices market.LastPriceRepository) *GetTradesHandler {
	return &GetTradesHandler{trades: trades, prices: prices}
}

// Handle executes the GetTrades query
func (h *GetTradesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTradesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTradesQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !shared.IsValidResource(query.Resource) {
		return nil, shared.NewValidationError("resource", "unknown resource")
	}
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	trades, err := h.trades.FindByZoneResource(ctx, actor.CurrentZoneID, shared.Resource(query.Resource), limit)
	if err != nil {
		return nil, err
	}
	resp := &GetTradesResponse{Trades: trades}
	if lp, err := h.prices.Get(ctx, actor.CurrentZoneID, shared.Resource(query.Resource)); err == nil && lp != nil {
		resp.LastPrice = lp.Price
	}
	return resp, nil
}
