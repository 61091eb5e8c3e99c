package admin

import (
	"context"
	"fmt"
	"time"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// DashboardQuery is the operator's one-page view of world health.
type DashboardQuery struct{}

// DashboardResponse aggregates the counts an operator checks first when
// something looks wrong.
type DashboardResponse struct {
	CurrentTick        int64
	Season             int
	Week               int
	LastTickAt         time.Time
	Seed               string
	Players            int64
	Factions           int
	ZonesTotal         int
	ZonesOwned         int
	ZonesCollapsed     int
	ShipmentsInTransit int
	OpenOrders         int
	ActiveContracts    int
	Units              int
	EventTailSeq       int64
}

// DashboardHandler handles the Dashboard query
type DashboardHandler struct {
	meta         world.MetaRepository
	players      player.PlayerRepository
	factions     faction.FactionRepository
	zones        world.ZoneRepository
	shipments    shipment.ShipmentRepository
	orders       market.OrderRepository
	contracts    contract.ContractRepository
	units        unit.UnitRepository
	events       event.EventRepository
	ticksPerWeek int64
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	meta world.MetaRepository,
	players player.PlayerRepository,
	factions faction.FactionRepository,
	zones world.ZoneRepository,
	shipments shipment.ShipmentRepository,
	orders market.OrderRepository,
	contracts contract.ContractRepository,
	units unit.UnitRepository,
	events event.EventRepository,
	ticksPerWeek int64,
) *DashboardHandler {
	return &DashboardHandler{
		meta:         meta,
		players:      players,
		factions:     factions,
		zones:        zones,
		shipments:    shipments,
		orders:       orders,
		contracts:    contracts,
		units:        units,
		events:       events,
		ticksPerWeek: ticksPerWeek,
	}
}

// Handle executes the Dashboard query
func (h *DashboardHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*DashboardQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *DashboardQuery")
	}
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	playerCount, err := h.players.Count(ctx)
	if err != nil {
		return nil, err
	}
	factions, err := h.factions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	zones, err := h.zones.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	owned, collapsed := 0, 0
	for _, z := range zones {
		if z.IsOwned() {
			owned++
		}
		if z.Status == world.ZoneStatusCollapsed {
			collapsed++
		}
	}
	inTransit, err := h.shipments.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	openOrders, err := h.orders.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	activeContracts, err := h.contracts.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	units, err := h.units.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tailSeq, err := h.events.TailSeq(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		CurrentTick:        meta.CurrentTick,
		Season:             meta.Season,
		Week:               meta.Week(h.ticksPerWeek),
		LastTickAt:         meta.LastTickAt,
		Seed:               meta.Seed,
		Players:            playerCount,
		Factions:           len(factions),
		ZonesTotal:         len(zones),
		ZonesOwned:         owned,
		ZonesCollapsed:     collapsed,
		ShipmentsInTransit: len(inTransit),
		OpenOrders:         len(openOrders),
		ActiveContracts:    len(activeContracts),
		Units:              len(units),
		EventTailSeq:       tailSeq,
	}, nil
}
