package world

import (
	"burnrate/internal/domain/shared"
)

// ZoneKind classifies a zone's role in the logistics graph
type ZoneKind string

const (
	ZoneHub        ZoneKind = "hub"
	ZoneField      ZoneKind = "field"
	ZoneFactory    ZoneKind = "factory"
	ZoneJunction   ZoneKind = "junction"
	ZoneFront      ZoneKind = "front"
	ZoneStronghold ZoneKind = "stronghold"
)

// ZoneStatus tracks whether a zone is operating or has collapsed from
// supply starvation. Collapsed zones are neutral until recaptured.
type ZoneStatus string

const (
	ZoneStatusStable    ZoneStatus = "stable"
	ZoneStatusCollapsed ZoneStatus = "collapsed"
)

type zoneKindConfig struct {
	BurnRate   int
	Income     int64
	Capturable bool
}

var zoneKindConfigs = map[ZoneKind]zoneKindConfig{
	ZoneHub:        {BurnRate: 0, Income: 0, Capturable: false},
	ZoneField:      {BurnRate: 3, Income: 5, Capturable: true},
	ZoneFactory:    {BurnRate: 5, Income: 10, Capturable: true},
	ZoneJunction:   {BurnRate: 0, Income: 0, Capturable: true},
	ZoneFront:      {BurnRate: 10, Income: 25, Capturable: true},
	ZoneStronghold: {BurnRate: 20, Income: 50, Capturable: true},
}

// BurnRateFor returns the per-tick SU cost fixed by zone kind.
func BurnRateFor(kind ZoneKind) int {
	return zoneKindConfigs[kind].BurnRate
}

// IncomeFor returns the per-tick credit income fixed by zone kind.
func IncomeFor(kind ZoneKind) int64 {
	return zoneKindConfigs[kind].Income
}

// IsValidZoneKind reports whether the string names a known zone kind.
func IsValidZoneKind(s string) bool {
	_, ok := zoneKindConfigs[ZoneKind(s)]
	return ok
}

// MaxProductionCapacity is the ceiling a factory's capacity refills to.
const MaxProductionCapacity = 100

// CapacityRefillPerTick is how much factory capacity returns each tick.
const CapacityRefillPerTick = 20

// Zone is a node in the world graph. Ownership is paid for each tick by
// burning stockpiled supply units; a zone that cannot pay collapses back
// to neutral.
type Zone struct {
	ID                 string
	Name               string
	Kind               ZoneKind
	OwnerFactionID     string // empty = neutral
	Status             ZoneStatus
	SupplyLevel        float64
	BurnRate           int
	ComplianceStreak   int
	SUStockpile        int
	Inventory          shared.Inventory
	ProductionCapacity int
	GarrisonLevel      int
	DepthMultiplier    float64
	MedkitStockpile    int
	CommsStockpile     int
	FieldResource      shared.Resource // set only on fields
	CreatedAtTick      int64
}

// NewZone creates a zone of the given kind with kind-fixed burn rate and
// empty holdings.
func NewZone(id, name string, kind ZoneKind) *Zone {
	supply := 0.0
	if BurnRateFor(kind) == 0 {
		supply = 100.0
	}
	return &Zone{
		ID:                 id,
		Name:               name,
		Kind:               kind,
		Status:             ZoneStatusStable,
		SupplyLevel:        supply,
		BurnRate:           BurnRateFor(kind),
		Inventory:          shared.NewInventory(),
		DepthMultiplier:    1.0,
		ProductionCapacity: 0,
	}
}

// IsOwned reports whether a faction currently holds the zone.
func (z *Zone) IsOwned() bool {
	return z.OwnerFactionID != ""
}

// Capturable reports whether the zone can be claimed right now: hubs are
// never capturable, everything else is when neutral.
func (z *Zone) Capturable() bool {
	return zoneKindConfigs[z.Kind].Capturable && !z.IsOwned()
}

// Capture assigns the zone to a faction, clearing collapse state. Supply
// starts at zero; the new owner must deliver before the next burn.
func (z *Zone) Capture(factionID string) error {
	if !zoneKindConfigs[z.Kind].Capturable {
		return shared.NewPreconditionError("zone_not_capturable",
			"a "+string(z.Kind)+" zone cannot be captured")
	}
	if z.IsOwned() {
		return shared.NewPreconditionError("zone_already_owned",
			"zone "+z.ID+" is already owned")
	}
	z.OwnerFactionID = factionID
	z.Status = ZoneStatusStable
	z.SupplyLevel = 0
	z.ComplianceStreak = 0
	return nil
}

// Release returns the zone to neutral, used when the owning faction
// disbands. The zone stays Stable; only ownership state clears.
func (z *Zone) Release() {
	z.OwnerFactionID = ""
	z.SupplyLevel = 0
	z.ComplianceStreak = 0
}

// ResetForSeason returns the zone to its freshly generated state:
// neutral, stable, empty of goods and stockpiles. The map itself,
// garrison level, depth multiplier, and field resource are permanent.
func (z *Zone) ResetForSeason() {
	z.OwnerFactionID = ""
	z.Status = ZoneStatusStable
	z.SupplyLevel = 0
	if z.BurnRate <= 0 {
		z.SupplyLevel = 100
	}
	z.ComplianceStreak = 0
	z.SUStockpile = 0
	z.Inventory = shared.NewInventory()
	z.ProductionCapacity = 0
	z.MedkitStockpile = 0
	z.CommsStockpile = 0
}

// BurnResult reports the outcome of one tick's supply burn.
type BurnResult struct {
	Collapsed   bool
	SupplyLevel float64
}

// ApplyBurn runs one tick of supply accounting. The supply level measures
// what fraction of this tick's burn the stockpile could satisfy, capped
// at 100. A stockpile that runs dry collapses the zone: supply zeroed,
// owner cleared, streak reset. Zones with burn 0 are always at 100 and
// never collapse.
func (z *Zone) ApplyBurn() BurnResult {
	if z.BurnRate <= 0 || !z.IsOwned() {
		if z.BurnRate <= 0 {
			z.SupplyLevel = 100
		}
		return BurnResult{SupplyLevel: z.SupplyLevel}
	}

	afterRaw := z.SUStockpile - z.BurnRate
	level := 100 * float64(afterRaw+z.BurnRate) / float64(z.BurnRate)
	if level > 100 {
		level = 100
	}
	if level < 0 {
		level = 0
	}

	if afterRaw < 0 {
		z.SUStockpile = 0
	} else {
		z.SUStockpile = afterRaw
	}

	if z.SUStockpile == 0 {
		z.SupplyLevel = 0
		z.Status = ZoneStatusCollapsed
		z.OwnerFactionID = ""
		z.ComplianceStreak = 0
		return BurnResult{Collapsed: true, SupplyLevel: 0}
	}

	z.SupplyLevel = level
	if level >= 100 {
		z.ComplianceStreak++
	} else {
		z.ComplianceStreak = 0
	}
	return BurnResult{SupplyLevel: level}
}

// DecayStockpiles ages the medkit and comms stockpiles: medkits lose one
// every 10 ticks, comms one every 20, never below zero.
func (z *Zone) DecayStockpiles(tick int64) {
	if tick%10 == 0 && z.MedkitStockpile > 0 {
		z.MedkitStockpile--
	}
	if tick%20 == 0 && z.CommsStockpile > 0 {
		z.CommsStockpile--
	}
}

// RefillCapacity restores factory production capacity toward its ceiling.
func (z *Zone) RefillCapacity() {
	if z.Kind != ZoneFactory {
		return
	}
	z.ProductionCapacity += CapacityRefillPerTick
	if z.ProductionCapacity > MaxProductionCapacity {
		z.ProductionCapacity = MaxProductionCapacity
	}
}

// CommsDefense is the interception dampening contributed by the zone's
// comms stockpile, capped at 0.5.
func (z *Zone) CommsDefense() float64 {
	defense := float64(z.CommsStockpile) / 100
	if defense > 0.5 {
		return 0.5
	}
	return defense
}

// MedkitBonus is the defense multiplier bonus contributed by the zone's
// medkit stockpile, capped at 0.5.
func (z *Zone) MedkitBonus() float64 {
	bonus := float64(z.MedkitStockpile) / 100
	if bonus > 0.5 {
		return 0.5
	}
	return bonus
}

// StreakMultiplier scales zone-control scoring by how long the zone has
// been fully supplied.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 100:
		return 3.0
	case streak >= 50:
		return 2.0
	case streak >= 20:
		return 1.5
	case streak >= 5:
		return 1.2
	default:
		return 1.0
	}
}

// Efficiency is a derived 0–3 score of how well the zone runs: supply
// satisfaction scaled by the compliance streak.
func (z *Zone) Efficiency() float64 {
	return z.SupplyLevel / 100 * StreakMultiplier(z.ComplianceStreak)
}
