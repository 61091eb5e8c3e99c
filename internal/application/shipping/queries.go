package shipping

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
)

// ListShipmentsQuery returns the caller's shipments, newest first.
type ListShipmentsQuery struct{}

// ListShipmentsResponse carries the caller's shipments.
type ListShipmentsResponse struct {
	Shipments []*shipment.Shipment
}

// ListShipmentsHandler handles the ListShipments query
type ListShipmentsHandler struct {
	shipments shipment.ShipmentRepository
}

// NewListShipmentsHandler creates a new ListShipmentsHandler
func NewListShipmentsHandler(shipments shipment.ShipmentRepository) *ListShipmentsHandler {
	return &ListShipmentsHandler{shipments: shipments}
}

// Handle executes the ListShipments query
func (h *ListShipmentsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListShipmentsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListShipmentsQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	shipments, err := h.shipments.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &ListShipmentsResponse{Shipments: shipments}, nil
}

// ListUnitsQuery returns the caller's units.
type ListUnitsQuery struct{}

// ListUnitsResponse carries the caller's units.
type ListUnitsResponse struct {
	Units []*unit.Unit
}

// ListUnitsHandler handles the ListUnits query
type ListUnitsHandler struct {
	units unit.UnitRepository
}

// NewListUnitsHandler creates a new ListUnitsHandler
func NewListUnitsHandler(units unit.UnitRepository) *ListUnitsHandler {
	return &ListUnitsHandler{units: units}
}

// Handle executes the ListUnits query
func (h *ListUnitsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListUnitsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListUnitsQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	units, err := h.units.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &ListUnitsResponse{Units: units}, nil
}

// ListUnitMarketQuery returns units listed for sale at the caller's
// current zone.
type ListUnitMarketQuery struct{}

// ListUnitMarketResponse carries the local unit listings.
type ListUnitMarketResponse struct {
	ZoneID string
	Units  []*unit.Unit
}

// ListUnitMarketHandler handles the ListUnitMarket query
type ListUnitMarketHandler struct {
	units unit.UnitRepository
}

// NewListUnitMarketHandler creates a new ListUnitMarketHandler
func NewListUnitMarketHandler(units unit.UnitRepository) *ListUnitMarketHandler {
	return &ListUnitMarketHandler{units: units}
}

// Handle executes the ListUnitMarket query
func (h *ListUnitMarketHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListUnitMarketQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListUnitMarketQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	units, err := h.units.FindForSale(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}
	return &ListUnitMarketResponse{ZoneID: actor.CurrentZoneID, Units: units}, nil
}
