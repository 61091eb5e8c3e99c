package httpapi

import (
	"net/http"
	"strconv"

	marketapp "burnrate/internal/application/market"
	"burnrate/internal/domain/shared"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &marketapp.PlaceOrderCommand{
		Side:     req.Side,
		Resource: req.Resource,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if !ok {
		return
	}
	s.writePlacedOrder(w, resp.(*marketapp.PlaceOrderResponse))
}

func (s *Server) handlePlaceConditional(w http.ResponseWriter, r *http.Request) {
	var req conditionalOrderRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &marketapp.PlaceConditionalCommand{
		Side:         req.Side,
		Resource:     req.Resource,
		Price:        req.Price,
		Quantity:     req.Quantity,
		TriggerOp:    req.TriggerOp,
		TriggerPrice: req.TriggerPrice,
	})
	if !ok {
		return
	}
	s.writePlacedOrder(w, resp.(*marketapp.PlaceOrderResponse))
}

func (s *Server) handlePlaceTWAP(w http.ResponseWriter, r *http.Request) {
	var req twapOrderRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &marketapp.PlaceTWAPCommand{
		Side:          req.Side,
		Resource:      req.Resource,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		SlicePerTick:  req.SlicePerTick,
	})
	if !ok {
		return
	}
	s.writePlacedOrder(w, resp.(*marketapp.PlaceOrderResponse))
}

func (s *Server) writePlacedOrder(w http.ResponseWriter, placed *marketapp.PlaceOrderResponse) {
	writeJSON(w, http.StatusCreated, struct {
		Order orderView `json:"order"`
	}{Order: newOrderView(placed.Order)})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &marketapp.CancelOrderCommand{OrderID: r.PathValue("id")})
	if !ok {
		return
	}
	cancelled := resp.(*marketapp.CancelOrderResponse)
	writeJSON(w, http.StatusOK, struct {
		Order           orderView `json:"order"`
		CreditsRefunded int64     `json:"credits_refunded"`
		GoodsRefunded   int       `json:"goods_refunded"`
	}{
		Order:           newOrderView(cancelled.Order),
		CreditsRefunded: cancelled.CreditsRefunded,
		GoodsRefunded:   cancelled.GoodsRefunded,
	})
}

func (s *Server) handleListZoneOrders(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &marketapp.ListZoneOrdersQuery{Resource: r.URL.Query().Get("resource")})
	if !ok {
		return
	}
	book := resp.(*marketapp.ListZoneOrdersResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID string      `json:"zone_id"`
		Orders []orderView `json:"orders"`
	}{ZoneID: book.ZoneID, Orders: newOrderViews(book.Orders)})
}

func (s *Server) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &marketapp.ListMyOrdersQuery{})
	if !ok {
		return
	}
	mine := resp.(*marketapp.ListMyOrdersResponse)
	writeJSON(w, http.StatusOK, struct {
		Orders []orderView `json:"orders"`
	}{Orders: newOrderViews(mine.Orders)})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	query := &marketapp.GetTradesQuery{Resource: r.URL.Query().Get("resource")}
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
	trades := resp.(*marketapp.GetTradesResponse)
	writeJSON(w, http.StatusOK, struct {
		Trades    []tradeView `json:"trades"`
		LastPrice int64       `json:"last_price"`
	}{Trades: newTradeViews(trades.Trades), LastPrice: trades.LastPrice})
}
