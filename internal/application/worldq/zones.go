package worldq

import (
	"context"
	"fmt"

	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/world"
)

// ListZonesQuery returns every zone, optionally filtered by kind or
// owning faction.
type ListZonesQuery struct {
	Kind           string
	OwnerFactionID string
}

// ListZonesResponse carries the matching zones.
type ListZonesResponse struct {
	Zones []*world.Zone
}

// ListZonesHandler handles the ListZones query
type ListZonesHandler struct {
	zones world.ZoneRepository
}

// NewListZonesHandler creates a new ListZonesHandler
func NewListZonesHandler(zones world.ZoneRepository) *ListZonesHandler {
	return &ListZonesHandler{zones: zones}
}

// Handle executes the ListZones query
func (h *ListZonesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListZonesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListZonesQuery")
	}
	zones, err := h.zones.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*world.Zone, 0, len(zones))
	for _, z := range zones {
		if query.Kind != "" && string(z.Kind) != query.Kind {
			continue
		}
		if query.OwnerFactionID != "" && z.OwnerFactionID != query.OwnerFactionID {
			continue
		}
		filtered = append(filtered, z)
	}
	return &ListZonesResponse{Zones: filtered}, nil
}

// GetZoneQuery returns one zone by ID.
type GetZoneQuery struct {
	ZoneID string
}

// GetZoneResponse carries the zone and its adjacent routes.
type GetZoneResponse struct {
	Zone   *world.Zone
	Routes []*world.Route
}

// GetZoneHandler handles the GetZone query
type GetZoneHandler struct {
	zones world.ZoneRepository
	graph world.GraphProvider
}

// NewGetZoneHandler creates a new GetZoneHandler
func NewGetZoneHandler(zones world.ZoneRepository, graph world.GraphProvider) *GetZoneHandler {
	return &GetZoneHandler{zones: zones, graph: graph}
}

// Handle executes the GetZone query
func (h *GetZoneHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetZoneQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetZoneQuery")
	}
	zone, err := h.zones.FindByID(ctx, query.ZoneID)
	if err != nil {
		return nil, err
	}
	g, err := h.graph.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return &GetZoneResponse{Zone: zone, Routes: g.Touching(zone.ID)}, nil
}

// GetZoneEfficiencyQuery reports a zone's logistics health.
type GetZoneEfficiencyQuery struct {
	ZoneID string
}

// GetZoneEfficiencyResponse breaks the efficiency score into its parts.
type GetZoneEfficiencyResponse struct {
	ZoneID           string
	SupplyLevel      float64
	ComplianceStreak int
	StreakMultiplier float64
	Efficiency       float64
	SUStockpile      int
	BurnRate         int
	TicksUntilDry    int
}

// GetZoneEfficiencyHandler handles the GetZoneEfficiency query
type GetZoneEfficiencyHandler struct {
	zones world.ZoneRepository
}

// NewGetZoneEfficiencyHandler creates a new GetZoneEfficiencyHandler
func NewGetZoneEfficiencyHandler(zones world.ZoneRepository) *GetZoneEfficiencyHandler {
	return &GetZoneEfficiencyHandler{zones: zones}
}

// Handle executes the GetZoneEfficiency query
func (h *GetZoneEfficiencyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetZoneEfficiencyQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetZoneEfficiencyQuery")
	}
	zone, err := h.zones.FindByID(ctx, query.ZoneID)
	if err != nil {
		return nil, err
	}
	ticksUntilDry := 0
	if zone.BurnRate > 0 {
		ticksUntilDry = zone.SUStockpile / zone.BurnRate
	}
	return &GetZoneEfficiencyResponse{
		ZoneID:           zone.ID,
		SupplyLevel:      zone.SupplyLevel,
		ComplianceStreak: zone.ComplianceStreak,
		StreakMultiplier: world.StreakMultiplier(zone.ComplianceStreak),
		Efficiency:       zone.Efficiency(),
		SUStockpile:      zone.SUStockpile,
		BurnRate:         zone.BurnRate,
		TicksUntilDry:    ticksUntilDry,
	}, nil
}
