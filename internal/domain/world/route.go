package world

import "burnrate/internal/domain/shared"

// Route is a directed edge between two zones. Distance is measured in
// ticks; base risk and chokepoint rating feed interception odds.
type Route struct {
	ID         string
	FromZoneID string
	ToZoneID   string
	Distance   int
	Capacity   int
	BaseRisk   float64
	Chokepoint float64
}

// NewRoute creates a route, enforcing distance ≥ 1 and the documented
// risk/chokepoint bounds.
func NewRoute(id, from, to string, distance, capacity int, baseRisk, chokepoint float64) (*Route, error) {
	if distance < 1 {
		return nil, shared.NewValidationError("distance", "must be at least 1 tick")
	}
	if baseRisk < 0 || baseRisk > 0.3 {
		return nil, shared.NewValidationError("base_risk", "must be within 0.0–0.3")
	}
	if chokepoint < 1.0 || chokepoint > 3.0 {
		return nil, shared.NewValidationError("chokepoint", "must be within 1.0–3.0")
	}
	return &Route{
		ID:         id,
		FromZoneID: from,
		ToZoneID:   to,
		Distance:   distance,
		Capacity:   capacity,
		BaseRisk:   baseRisk,
		Chokepoint: chokepoint,
	}, nil
}
