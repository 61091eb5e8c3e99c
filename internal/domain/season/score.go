package season

// EntityKind distinguishes player and faction standings rows.
type EntityKind string

const (
	EntityPlayer  EntityKind = "player"
	EntityFaction EntityKind = "faction"
)

// Point values per scoring category. Accumulating categories add as the
// action happens; zone control is recomputed from scratch every tick so
// losing a zone immediately stops scoring it.
const (
	PointsPerSU              = 1
	PointsPerShipment        = 10
	PointsPerContract        = 25
	PointsPerReputation      = 2
	PointsPerCombatVictory   = 50
	PointsPerZonePerTickBase = 1
)

// Score is one entity's standing within a season. ZoneControl is the
// recomputed component; the others only ever grow.
type Score struct {
	Season        int
	EntityID      string
	EntityKind    EntityKind
	EntityName    string
	SupplyPoints  int64
	ShipPoints    int64
	ContractPts   int64
	RepPoints     int64
	CombatPoints  int64
	ZoneControl   int64
	UpdatedAtTick int64
}

// NewScore starts a zeroed standings row.
func NewScore(season int, entityID string, kind EntityKind, name string) *Score {
	return &Score{Season: season, EntityID: entityID, EntityKind: kind, EntityName: name}
}

// Total is the ranking key.
func (s *Score) Total() int64 {
	return s.SupplyPoints + s.ShipPoints + s.ContractPts + s.RepPoints + s.CombatPoints + s.ZoneControl
}

func (s *Score) AddSupply(su int, tick int64) {
	s.SupplyPoints += int64(su) * PointsPerSU
	s.UpdatedAtTick = tick
}

func (s *Score) AddShipment(tick int64) {
	s.ShipPoints += PointsPerShipment
	s.UpdatedAtTick = tick
}

func (s *Score) AddContract(tick int64) {
	s.ContractPts += PointsPerContract
	s.UpdatedAtTick = tick
}

func (s *Score) AddReputation(rep int, tick int64) {
	if rep <= 0 {
		return
	}
	s.RepPoints += int64(rep) * PointsPerReputation
	s.UpdatedAtTick = tick
}

func (s *Score) AddCombatVictory(tick int64) {
	s.CombatPoints += PointsPerCombatVictory
	s.UpdatedAtTick = tick
}

// SetZoneControl replaces the recomputed component.
func (s *Score) SetZoneControl(points int64, tick int64) {
	s.ZoneControl = points
	s.UpdatedAtTick = tick
}

// Standing is a ranked row in the leaderboard projection.
type Standing struct {
	Rank       int        `json:"rank"`
	EntityID   string     `json:"entity_id"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityName string     `json:"entity_name"`
	Total      int64      `json:"total"`
	Supply     int64      `json:"supply_points"`
	Shipments  int64      `json:"shipment_points"`
	Contracts  int64      `json:"contract_points"`
	Reputation int64      `json:"reputation_points"`
	Combat     int64      `json:"combat_points"`
	Zones      int64      `json:"zone_control_points"`
}

// Rank orders scores by total descending, entity ID ascending for a
// stable tiebreak, and assigns 1-based ranks.
func Rank(scores []*Score) []Standing {
	sorted := make([]*Score, len(scores))
	copy(sorted, scores)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			a, b := sorted[j-1], sorted[j]
			if b.Total() > a.Total() || (b.Total() == a.Total() && b.EntityID < a.EntityID) {
				sorted[j-1], sorted[j] = b, a
				continue
			}
			break
		}
	}
	standings := make([]Standing, 0, len(sorted))
	for i, s := range sorted {
		standings = append(standings, Standing{
			Rank:       i + 1,
			EntityID:   s.EntityID,
			EntityKind: s.EntityKind,
			EntityName: s.EntityName,
			Total:      s.Total(),
			Supply:     s.SupplyPoints,
			Shipments:  s.ShipPoints,
			Contracts:  s.ContractPts,
			Reputation: s.RepPoints,
			Combat:     s.CombatPoints,
			Zones:      s.ZoneControl,
		})
	}
	return standings
}
