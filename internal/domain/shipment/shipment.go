package shipment

import (
	"math"

	"burnrate/internal/domain/shared"
)

// Kind classifies a shipment by size, visibility, and required license.
type Kind string

const (
	KindCourier Kind = "courier"
	KindFreight Kind = "freight"
	KindConvoy  Kind = "convoy"
)

type kindConfig struct {
	Capacity   int
	Visibility float64
	License    string
}

var kindConfigs = map[Kind]kindConfig{
	KindCourier: {Capacity: 100, Visibility: 0.5, License: "courier"},
	KindFreight: {Capacity: 500, Visibility: 1.0, License: "freight"},
	KindConvoy:  {Capacity: 2000, Visibility: 2.0, License: "convoy"},
}

// Capacity returns the cargo ceiling for the kind.
func (k Kind) Capacity() int {
	return kindConfigs[k].Capacity
}

// Visibility returns the interception visibility factor for the kind.
func (k Kind) Visibility() float64 {
	return kindConfigs[k].Visibility
}

// License returns the license name required to launch the kind.
func (k Kind) License() string {
	return kindConfigs[k].License
}

// IsValidKind reports whether the string names a shipment kind.
func IsValidKind(s string) bool {
	_, ok := kindConfigs[Kind(s)]
	return ok
}

// Status is a shipment's lifecycle state. Terminal states persist for
// history.
type Status string

const (
	StatusInTransit   Status = "in_transit"
	StatusArrived     Status = "arrived"
	StatusIntercepted Status = "intercepted"
	StatusLost        Status = "lost"
)

// RouteDistance resolves the direct edge between two zones, reporting
// its distance in ticks, or false when no such edge exists.
type RouteDistance func(fromZoneID, toZoneID string) (int, bool)

// Shipment is goods in transit along an ordered zone path. PositionIndex
// points into Path; TicksToNext counts down the current edge.
type Shipment struct {
	ID            string
	OwnerID       string
	Kind          Kind
	Path          []string
	PositionIndex int
	TicksToNext   int
	Cargo         shared.Inventory
	EscortUnitIDs []string
	Status        Status
	CreatedAtTick int64
}

// NewShipment creates an in-transit shipment at path[0], validating
// cargo against the kind's capacity and path legality against the
// supplied route lookup.
func NewShipment(id, ownerID string, kind Kind, path []string, cargo shared.Inventory, dist RouteDistance, tick int64) (*Shipment, error) {
	if _, ok := kindConfigs[kind]; !ok {
		return nil, shared.NewValidationError("kind", "unknown shipment kind")
	}
	if cargo.Total() <= 0 {
		return nil, shared.NewValidationError("cargo", "must not be empty")
	}
	if cargo.Total() > kind.Capacity() {
		return nil, shared.NewPreconditionError("cargo_over_capacity",
			"cargo exceeds "+string(kind)+" capacity")
	}
	if err := ValidatePath(path, dist); err != nil {
		return nil, err
	}
	firstLeg, _ := dist(path[0], path[1])
	return &Shipment{
		ID:            id,
		OwnerID:       ownerID,
		Kind:          kind,
		Path:          path,
		PositionIndex: 0,
		TicksToNext:   firstLeg,
		Cargo:         cargo.Clone(),
		Status:        StatusInTransit,
		CreatedAtTick: tick,
	}, nil
}

// ValidatePath checks that the path has at least one edge and that every
// consecutive pair is connected by a direct route.
func ValidatePath(path []string, dist RouteDistance) error {
	if len(path) < 2 {
		return shared.NewValidationError("path", "must contain at least two zones")
	}
	for i := 0; i < len(path)-1; i++ {
		if _, ok := dist(path[i], path[i+1]); !ok {
			return shared.NewPreconditionError("no_route",
				"no route from "+path[i]+" to "+path[i+1])
		}
	}
	return nil
}

// CurrentZoneID is the zone the shipment most recently departed (or
// arrived at).
func (s *Shipment) CurrentZoneID() string {
	return s.Path[s.PositionIndex]
}

// NextZoneID is the zone at the end of the edge being traversed, or
// empty at the final position.
func (s *Shipment) NextZoneID() string {
	if s.PositionIndex+1 >= len(s.Path) {
		return ""
	}
	return s.Path[s.PositionIndex+1]
}

// DestinationZoneID is the final zone of the path.
func (s *Shipment) DestinationZoneID() string {
	return s.Path[len(s.Path)-1]
}

// HopIndex is the index of the edge currently being traversed.
func (s *Shipment) HopIndex() int {
	return s.PositionIndex
}

// Advance moves the shipment one position forward. When the new position
// is final the shipment arrives; otherwise the counter resets to the
// next edge's distance via the lookup.
func (s *Shipment) Advance(dist RouteDistance) {
	s.PositionIndex++
	if s.PositionIndex >= len(s.Path)-1 {
		s.Status = StatusArrived
		s.TicksToNext = 0
		return
	}
	next, _ := dist(s.Path[s.PositionIndex], s.Path[s.PositionIndex+1])
	s.TicksToNext = next
}

// MarkIntercepted transitions to the intercepted terminal state and
// empties the cargo.
func (s *Shipment) MarkIntercepted() {
	s.Status = StatusIntercepted
	s.Cargo = shared.NewInventory()
}

// LoseCargo removes the given fraction of every cargo line, rounding up
// so a 50% loss on 1 unit is 1.
func (s *Shipment) LoseCargo(fraction float64) shared.Inventory {
	lost := shared.NewInventory()
	if fraction <= 0 {
		return lost
	}
	for _, r := range s.Cargo.Resources() {
		qty := s.Cargo.Get(r)
		loss := int(math.Ceil(float64(qty) * fraction))
		if loss > qty {
			loss = qty
		}
		if loss > 0 {
			lost.Add(r, loss)
			_ = s.Cargo.Remove(r, loss)
		}
	}
	return lost
}

// AssignEscort attaches an escort unit id.
func (s *Shipment) AssignEscort(unitID string) {
	for _, id := range s.EscortUnitIDs {
		if id == unitID {
			return
		}
	}
	s.EscortUnitIDs = append(s.EscortUnitIDs, unitID)
}
