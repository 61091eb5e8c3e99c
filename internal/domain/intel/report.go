package intel

import (
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// TargetType names what a scan observed.
type TargetType string

const (
	TargetZone  TargetType = "zone"
	TargetRoute TargetType = "route"
)

// IsValidTargetType reports whether the string names a scan target type.
func IsValidTargetType(s string) bool {
	return TargetType(s) == TargetZone || TargetType(s) == TargetRoute
}

// ZoneSnapshot is the full zone observation captured at scan time.
type ZoneSnapshot struct {
	Name             string           `json:"name"`
	Kind             world.ZoneKind   `json:"kind"`
	OwnerFactionID   string           `json:"owner_faction_id,omitempty"`
	Status           world.ZoneStatus `json:"status"`
	SupplyLevel      float64          `json:"supply_level"`
	BurnRate         int              `json:"burn_rate"`
	ComplianceStreak int              `json:"compliance_streak"`
	SUStockpile      int              `json:"su_stockpile"`
	Inventory        shared.Inventory `json:"inventory,omitempty"`
	GarrisonLevel    int              `json:"garrison_level"`
	MedkitStockpile  int              `json:"medkit_stockpile"`
	CommsStockpile   int              `json:"comms_stockpile"`
}

// Sighting is one in-transit shipment observed on a scanned route.
type Sighting struct {
	ShipmentID string `json:"shipment_id"`
	Kind       string `json:"kind"`
	CargoTotal int    `json:"cargo_total"`
}

// RouteSnapshot is the route observation captured at scan time.
type RouteSnapshot struct {
	FromZoneID string     `json:"from_zone_id"`
	ToZoneID   string     `json:"to_zone_id"`
	Distance   int        `json:"distance"`
	Capacity   int        `json:"capacity"`
	BaseRisk   float64    `json:"base_risk"`
	Chokepoint float64    `json:"chokepoint"`
	Sightings  []Sighting `json:"sightings,omitempty"`
}

// Report is one observation record. The snapshot is immutable after
// capture; freshness decay is applied on read, never written back.
type Report struct {
	ID            string
	GathererID    string
	FactionID     string // sharing faction at gather time, empty if none
	TargetType    TargetType
	TargetID      string
	GatheredAt    int64
	SignalQuality int
	Zone          *ZoneSnapshot
	Route         *RouteSnapshot
}

// NewZoneReport captures a zone scan at full signal quality.
func NewZoneReport(id, gathererID, factionID string, z *world.Zone, tick int64) *Report {
	return &Report{
		ID:            id,
		GathererID:    gathererID,
		FactionID:     factionID,
		TargetType:    TargetZone,
		TargetID:      z.ID,
		GatheredAt:    tick,
		SignalQuality: 100,
		Zone: &ZoneSnapshot{
			Name:             z.Name,
			Kind:             z.Kind,
			OwnerFactionID:   z.OwnerFactionID,
			Status:           z.Status,
			SupplyLevel:      z.SupplyLevel,
			BurnRate:         z.BurnRate,
			ComplianceStreak: z.ComplianceStreak,
			SUStockpile:      z.SUStockpile,
			Inventory:        z.Inventory.Clone(),
			GarrisonLevel:    z.GarrisonLevel,
			MedkitStockpile:  z.MedkitStockpile,
			CommsStockpile:   z.CommsStockpile,
		},
	}
}

// NewRouteReport captures a route scan with shipment sightings.
func NewRouteReport(id, gathererID, factionID string, r *world.Route, sightings []Sighting, tick int64) *Report {
	return &Report{
		ID:            id,
		GathererID:    gathererID,
		FactionID:     factionID,
		TargetType:    TargetRoute,
		TargetID:      r.ID,
		GatheredAt:    tick,
		SignalQuality: 100,
		Route: &RouteSnapshot{
			FromZoneID: r.FromZoneID,
			ToZoneID:   r.ToZoneID,
			Distance:   r.Distance,
			Capacity:   r.Capacity,
			BaseRisk:   r.BaseRisk,
			Chokepoint: r.Chokepoint,
			Sightings:  sightings,
		},
	}
}
