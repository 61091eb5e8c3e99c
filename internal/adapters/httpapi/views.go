package httpapi

import (
	"sort"
	"time"

	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// Views are the wire shapes. Domain entities never serialize directly;
// anything secret (api keys, webhook secrets) only appears in the one
// response that creates it.

type playerView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Tier          player.Tier      `json:"tier"`
	Credits       int64            `json:"credits"`
	Inventory     shared.Inventory `json:"inventory"`
	CurrentZoneID string           `json:"current_zone_id"`
	FactionID     string           `json:"faction_id,omitempty"`
	Reputation    int              `json:"reputation"`
	ActionsToday  int              `json:"actions_today"`
	Licenses      []string         `json:"licenses"`
	TutorialStep  int              `json:"tutorial_step"`
	CreatedAtTick int64            `json:"created_at_tick"`
}

func newPlayerView(p *player.Player) playerView {
	licenses := make([]string, 0, len(p.Licenses))
	for license, held := range p.Licenses {
		if held {
			licenses = append(licenses, string(license))
		}
	}
	sort.Strings(licenses)
	return playerView{
		ID:            p.ID,
		Name:          p.Name,
		Tier:          p.Tier,
		Credits:       p.Credits,
		Inventory:     p.Inventory,
		CurrentZoneID: p.CurrentZoneID,
		FactionID:     p.FactionID,
		Reputation:    p.Reputation,
		ActionsToday:  p.ActionsToday,
		Licenses:      licenses,
		TutorialStep:  p.TutorialStep,
		CreatedAtTick: p.CreatedAtTick,
	}
}

type zoneView struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Kind               world.ZoneKind   `json:"kind"`
	OwnerFactionID     string           `json:"owner_faction_id,omitempty"`
	Status             world.ZoneStatus `json:"status"`
	SupplyLevel        float64          `json:"supply_level"`
	BurnRate           int              `json:"burn_rate"`
	ComplianceStreak   int              `json:"compliance_streak"`
	SUStockpile        int              `json:"su_stockpile"`
	Inventory          shared.Inventory `json:"inventory"`
	ProductionCapacity int              `json:"production_capacity"`
	GarrisonLevel      int              `json:"garrison_level,omitempty"`
	DepthMultiplier    float64          `json:"depth_multiplier"`
	MedkitStockpile    int              `json:"medkit_stockpile"`
	CommsStockpile     int              `json:"comms_stockpile"`
	FieldResource      shared.Resource  `json:"field_resource,omitempty"`
	CreatedAtTick      int64            `json:"created_at_tick"`
}

func newZoneView(z *world.Zone) zoneView {
	return zoneView{
		ID:                 z.ID,
		Name:               z.Name,
		Kind:               z.Kind,
		OwnerFactionID:     z.OwnerFactionID,
		Status:             z.Status,
		SupplyLevel:        z.SupplyLevel,
		BurnRate:           z.BurnRate,
		ComplianceStreak:   z.ComplianceStreak,
		SUStockpile:        z.SUStockpile,
		Inventory:          z.Inventory,
		ProductionCapacity: z.ProductionCapacity,
		GarrisonLevel:      z.GarrisonLevel,
		DepthMultiplier:    z.DepthMultiplier,
		MedkitStockpile:    z.MedkitStockpile,
		CommsStockpile:     z.CommsStockpile,
		FieldResource:      z.FieldResource,
		CreatedAtTick:      z.CreatedAtTick,
	}
}

func newZoneViews(zones []*world.Zone) []zoneView {
	views := make([]zoneView, 0, len(zones))
	for _, z := range zones {
		views = append(views, newZoneView(z))
	}
	return views
}

type routeView struct {
	ID         string  `json:"id"`
	FromZoneID string  `json:"from_zone_id"`
	ToZoneID   string  `json:"to_zone_id"`
	Distance   int     `json:"distance"`
	Capacity   int     `json:"capacity"`
	BaseRisk   float64 `json:"base_risk"`
	Chokepoint float64 `json:"chokepoint"`
}

func newRouteView(r *world.Route) routeView {
	return routeView{
		ID:         r.ID,
		FromZoneID: r.FromZoneID,
		ToZoneID:   r.ToZoneID,
		Distance:   r.Distance,
		Capacity:   r.Capacity,
		BaseRisk:   r.BaseRisk,
		Chokepoint: r.Chokepoint,
	}
}

func newRouteViews(routes []*world.Route) []routeView {
	views := make([]routeView, 0, len(routes))
	for _, r := range routes {
		views = append(views, newRouteView(r))
	}
	return views
}

type shipmentView struct {
	ID            string           `json:"id"`
	OwnerID       string           `json:"owner_id"`
	Kind          shipment.Kind    `json:"kind"`
	Path          []string         `json:"path"`
	PositionIndex int              `json:"position_index"`
	TicksToNext   int              `json:"ticks_to_next"`
	Cargo         shared.Inventory `json:"cargo"`
	EscortUnitIDs []string         `json:"escort_unit_ids,omitempty"`
	Status        shipment.Status  `json:"status"`
	CreatedAtTick int64            `json:"created_at_tick"`
}

func newShipmentView(sh *shipment.Shipment) shipmentView {
	return shipmentView{
		ID:            sh.ID,
		OwnerID:       sh.OwnerID,
		Kind:          sh.Kind,
		Path:          sh.Path,
		PositionIndex: sh.PositionIndex,
		TicksToNext:   sh.TicksToNext,
		Cargo:         sh.Cargo,
		EscortUnitIDs: sh.EscortUnitIDs,
		Status:        sh.Status,
		CreatedAtTick: sh.CreatedAtTick,
	}
}

func newShipmentViews(shipments []*shipment.Shipment) []shipmentView {
	views := make([]shipmentView, 0, len(shipments))
	for _, sh := range shipments {
		views = append(views, newShipmentView(sh))
	}
	return views
}

type unitView struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id,omitempty"`
	Kind          unit.Kind `json:"kind"`
	ZoneID        string    `json:"zone_id,omitempty"`
	Strength      int       `json:"strength"`
	Speed         int       `json:"speed"`
	Maintenance   int64     `json:"maintenance"`
	AssignmentID  string    `json:"assignment_id,omitempty"`
	ForSalePrice  int64     `json:"for_sale_price,omitempty"`
	CreatedAtTick int64     `json:"created_at_tick"`
}

func newUnitView(u *unit.Unit) unitView {
	return unitView{
		ID:            u.ID,
		OwnerID:       u.OwnerID,
		Kind:          u.Kind,
		ZoneID:        u.ZoneID,
		Strength:      u.Strength,
		Speed:         u.Speed,
		Maintenance:   u.Maintenance,
		AssignmentID:  u.AssignmentID,
		ForSalePrice:  u.ForSalePrice,
		CreatedAtTick: u.CreatedAtTick,
	}
}

func newUnitViews(units []*unit.Unit) []unitView {
	views := make([]unitView, 0, len(units))
	for _, u := range units {
		views = append(views, newUnitView(u))
	}
	return views
}

type orderView struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"owner_id"`
	ZoneID          string             `json:"zone_id"`
	Resource        shared.Resource    `json:"resource"`
	Side            market.Side        `json:"side"`
	Type            market.OrderType   `json:"type"`
	Price           int64              `json:"price"`
	Remaining       int                `json:"remaining"`
	Original        int                `json:"original"`
	EscrowedCredits int64              `json:"escrowed_credits"`
	Status          market.OrderStatus `json:"status"`
	TriggerOp       market.TriggerOp   `json:"trigger_op,omitempty"`
	TriggerPrice    int64              `json:"trigger_price,omitempty"`
	Armed           bool               `json:"armed,omitempty"`
	TotalQuantity   int                `json:"total_quantity,omitempty"`
	SlicePerTick    int                `json:"slice_per_tick,omitempty"`
	TicksRemaining  int                `json:"ticks_remaining,omitempty"`
	ParentOrderID   string             `json:"parent_order_id,omitempty"`
	CreatedAtTick   int64              `json:"created_at_tick"`
}

func newOrderView(o *market.Order) orderView {
	return orderView{
		ID:              o.ID,
		OwnerID:         o.OwnerID,
		ZoneID:          o.ZoneID,
		Resource:        o.Resource,
		Side:            o.Side,
		Type:            o.Type,
		Price:           o.Price,
		Remaining:       o.Remaining,
		Original:        o.Original,
		EscrowedCredits: o.EscrowedCredits,
		Status:          o.Status,
		TriggerOp:       o.TriggerOp,
		TriggerPrice:    o.TriggerPrice,
		Armed:           o.Armed,
		TotalQuantity:   o.TotalQuantity,
		SlicePerTick:    o.SlicePerTick,
		TicksRemaining:  o.TicksRemaining,
		ParentOrderID:   o.ParentOrderID,
		CreatedAtTick:   o.CreatedAtTick,
	}
}

func newOrderViews(orders []*market.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	return views
}

type tradeView struct {
	ID          string          `json:"id"`
	ZoneID      string          `json:"zone_id"`
	Resource    shared.Resource `json:"resource"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	BuyerID     string          `json:"buyer_id"`
	SellerID    string          `json:"seller_id"`
	Price       int64           `json:"price"`
	Quantity    int             `json:"quantity"`
	Tick        int64           `json:"tick"`
}

func newTradeViews(trades []*market.Trade) []tradeView {
	views := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, tradeView{
			ID:          t.ID,
			ZoneID:      t.ZoneID,
			Resource:    t.Resource,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			BuyerID:     t.BuyerID,
			SellerID:    t.SellerID,
			Price:       t.Price,
			Quantity:    t.Quantity,
			Tick:        t.Tick,
		})
	}
	return views
}

type contractView struct {
	ID               string              `json:"id"`
	Kind             contract.Kind       `json:"kind"`
	PosterID         string              `json:"poster_id"`
	PosterKind       contract.PosterKind `json:"poster_kind"`
	AcceptedBy       string              `json:"accepted_by,omitempty"`
	Details          contract.Details    `json:"details"`
	DeadlineTick     int64               `json:"deadline_tick"`
	RewardCredits    int64               `json:"reward_credits"`
	RewardReputation int                 `json:"reward_reputation"`
	EarlyBonusTicks  int64               `json:"early_bonus_ticks,omitempty"`
	EarlyBonus       int64               `json:"early_bonus,omitempty"`
	EscrowedCredits  int64               `json:"escrowed_credits"`
	Progress         int                 `json:"progress"`
	Status           contract.Status     `json:"status"`
	CreatedAtTick    int64               `json:"created_at_tick"`
	AcceptedAtTick   int64               `json:"accepted_at_tick,omitempty"`
	ResolvedAtTick   int64               `json:"resolved_at_tick,omitempty"`
}

func newContractView(c *contract.Contract) contractView {
	return contractView{
		ID:               c.ID,
		Kind:             c.Kind,
		PosterID:         c.PosterID,
		PosterKind:       c.PosterKind,
		AcceptedBy:       c.AcceptedBy,
		Details:          c.Details,
		DeadlineTick:     c.DeadlineTick,
		RewardCredits:    c.RewardCredits,
		RewardReputation: c.RewardReputation,
		EarlyBonusTicks:  c.EarlyBonusTicks,
		EarlyBonus:       c.EarlyBonus,
		EscrowedCredits:  c.EscrowedCredits,
		Progress:         c.Progress,
		Status:           c.Status,
		CreatedAtTick:    c.CreatedAtTick,
		AcceptedAtTick:   c.AcceptedAtTick,
		ResolvedAtTick:   c.ResolvedAtTick,
	}
}

func newContractViews(contracts []*contract.Contract) []contractView {
	views := make([]contractView, 0, len(contracts))
	for _, c := range contracts {
		views = append(views, newContractView(c))
	}
	return views
}

type memberView struct {
	PlayerID   string       `json:"player_id"`
	Rank       faction.Rank `json:"rank"`
	JoinedTick int64        `json:"joined_tick"`
}

type factionView struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Tag             string           `json:"tag"`
	FounderID       string           `json:"founder_id"`
	TreasuryCredits int64            `json:"treasury_credits"`
	Treasury        shared.Inventory `json:"treasury"`
	WithdrawLimit   int64            `json:"withdraw_limit"`
	DoctrineDigest  string           `json:"doctrine_digest,omitempty"`
	Members         []memberView     `json:"members"`
	CreatedAtTick   int64            `json:"created_at_tick"`
}

func newFactionView(f *faction.Faction) factionView {
	members := make([]memberView, 0, len(f.Members))
	for _, m := range f.Members {
		members = append(members, memberView{
			PlayerID:   m.PlayerID,
			Rank:       m.Rank,
			JoinedTick: m.JoinedTick,
		})
	}
	return factionView{
		ID:              f.ID,
		Name:            f.Name,
		Tag:             f.Tag,
		FounderID:       f.FounderID,
		TreasuryCredits: f.TreasuryCredits,
		Treasury:        f.Treasury,
		WithdrawLimit:   f.WithdrawLimit,
		DoctrineDigest:  f.DoctrineDigest,
		Members:         members,
		CreatedAtTick:   f.CreatedAtTick,
	}
}

type doctrineView struct {
	ID            string `json:"id"`
	FactionID     string `json:"faction_id"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	Digest        string `json:"digest"`
	AuthorID      string `json:"author_id"`
	CreatedAtTick int64  `json:"created_at_tick"`
	UpdatedAtTick int64  `json:"updated_at_tick"`
}

func newDoctrineView(d *faction.Doctrine) doctrineView {
	return doctrineView{
		ID:            d.ID,
		FactionID:     d.FactionID,
		Title:         d.Title,
		Body:          d.Body,
		Digest:        d.Digest,
		AuthorID:      d.AuthorID,
		CreatedAtTick: d.CreatedAtTick,
		UpdatedAtTick: d.UpdatedAtTick,
	}
}

type eventView struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	Tick      int64           `json:"tick"`
	Timestamp time.Time       `json:"timestamp"`
	ActorID   string          `json:"actor_id,omitempty"`
	ActorKind event.ActorKind `json:"actor_kind,omitempty"`
	Data      map[string]any  `json:"data,omitempty"`
}

func newEventViews(events []*event.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{
			ID:        e.ID,
			Seq:       e.Seq,
			Type:      e.Type,
			Tick:      e.Tick,
			Timestamp: e.Timestamp,
			ActorID:   e.ActorID,
			ActorKind: e.ActorKind,
			Data:      e.Data,
		})
	}
	return views
}

type scoreView struct {
	Season           int               `json:"season"`
	EntityID         string            `json:"entity_id"`
	EntityKind       season.EntityKind `json:"entity_kind"`
	EntityName       string            `json:"entity_name"`
	Total            int64             `json:"total"`
	SupplyPoints     int64             `json:"supply_points"`
	ShipmentPoints   int64             `json:"shipment_points"`
	ContractPoints   int64             `json:"contract_points"`
	ReputationPoints int64             `json:"reputation_points"`
	CombatPoints     int64             `json:"combat_points"`
	ZoneControl      int64             `json:"zone_control_points"`
	UpdatedAtTick    int64             `json:"updated_at_tick"`
}

func newScoreView(sc *season.Score) scoreView {
	return scoreView{
		Season:           sc.Season,
		EntityID:         sc.EntityID,
		EntityKind:       sc.EntityKind,
		EntityName:       sc.EntityName,
		Total:            sc.Total(),
		SupplyPoints:     sc.SupplyPoints,
		ShipmentPoints:   sc.ShipPoints,
		ContractPoints:   sc.ContractPts,
		ReputationPoints: sc.RepPoints,
		CombatPoints:     sc.CombatPoints,
		ZoneControl:      sc.ZoneControl,
		UpdatedAtTick:    sc.UpdatedAtTick,
	}
}
