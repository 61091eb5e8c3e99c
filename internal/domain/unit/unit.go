package unit

import (
	"burnrate/internal/domain/shared"
)

// Kind distinguishes defensive escorts from offensive raiders.
type Kind string

const (
	KindEscort Kind = "escort"
	KindRaider Kind = "raider"
)

type kindConfig struct {
	Strength    int
	Speed       int
	Maintenance int64
}

var kindConfigs = map[Kind]kindConfig{
	KindEscort: {Strength: 10, Speed: 1, Maintenance: 2},
	KindRaider: {Strength: 15, Speed: 2, Maintenance: 3},
}

// AmbientRaiderStrength is the attacker strength used when an
// interception fires on a route with no deployed raider.
const AmbientRaiderStrength = 10

// IsValidKind reports whether the string names a unit kind.
func IsValidKind(s string) bool {
	_, ok := kindConfigs[Kind(s)]
	return ok
}

// StrengthFor returns the base strength fixed by unit kind.
func StrengthFor(kind Kind) int {
	return kindConfigs[kind].Strength
}

// MaintenanceFor returns the per-tick credit upkeep fixed by unit kind.
func MaintenanceFor(kind Kind) int64 {
	return kindConfigs[kind].Maintenance
}

// Unit is a combat asset. Escorts attach to shipments, raiders deploy to
// routes; AssignmentID holds whichever applies.
type Unit struct {
	ID            string
	OwnerID       string
	Kind          Kind
	ZoneID        string
	Strength      int
	Speed         int
	Maintenance   int64
	AssignmentID  string // shipment id (escort) or route id (raider)
	ForSalePrice  int64  // 0 = not listed
	CreatedAtTick int64
}

// NewUnit creates a unit of the given kind at a zone with kind-fixed
// strength, speed, and maintenance.
func NewUnit(id, ownerID string, kind Kind, zoneID string, tick int64) *Unit {
	cfg := kindConfigs[kind]
	return &Unit{
		ID:            id,
		OwnerID:       ownerID,
		Kind:          kind,
		ZoneID:        zoneID,
		Strength:      cfg.Strength,
		Speed:         cfg.Speed,
		Maintenance:   cfg.Maintenance,
		CreatedAtTick: tick,
	}
}

// IsAssigned reports whether the unit is escorting or deployed.
func (u *Unit) IsAssigned() bool {
	return u.AssignmentID != ""
}

// AssignEscort attaches an escort to a shipment.
func (u *Unit) AssignEscort(shipmentID string) error {
	if u.Kind != KindEscort {
		return shared.NewPreconditionError("wrong_unit_kind",
			"only escorts can be assigned to shipments")
	}
	if u.ForSalePrice > 0 {
		return shared.NewPreconditionError("unit_listed",
			"unit is listed for sale")
	}
	u.AssignmentID = shipmentID
	return nil
}

// DeployRaider stations a raider on a route.
func (u *Unit) DeployRaider(routeID string) error {
	if u.Kind != KindRaider {
		return shared.NewPreconditionError("wrong_unit_kind",
			"only raiders can be deployed to routes")
	}
	if u.ForSalePrice > 0 {
		return shared.NewPreconditionError("unit_listed",
			"unit is listed for sale")
	}
	u.AssignmentID = routeID
	return nil
}

// ClearAssignment recalls the unit.
func (u *Unit) ClearAssignment() {
	u.AssignmentID = ""
}

// ListForSale puts the unit on the unit market at the given price.
// Assigned units must be recalled first.
func (u *Unit) ListForSale(price int64) error {
	if price <= 0 {
		return shared.NewValidationError("price", "must be positive")
	}
	if u.IsAssigned() {
		return shared.NewPreconditionError("unit_assigned",
			"recall the unit before listing it")
	}
	u.ForSalePrice = price
	return nil
}

// TransferTo hands the unit to a buyer and clears the listing.
func (u *Unit) TransferTo(newOwnerID string) {
	u.OwnerID = newOwnerID
	u.ForSalePrice = 0
	u.AssignmentID = ""
}
