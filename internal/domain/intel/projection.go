package intel

import "fmt"

// Freshness is the age-derived quality bucket of a report.
type Freshness string

const (
	FreshnessFresh   Freshness = "fresh"
	FreshnessStale   Freshness = "stale"
	FreshnessExpired Freshness = "expired"
)

// Age boundaries in ticks. Reports at or past DeleteAge are removed by
// the tick engine's sweep; projection never sees them.
const (
	FreshMaxAge  = 10
	StaleMaxAge  = 50
	DeleteAge    = 200
	SweepEvery   = 50
)

// FreshnessAt buckets an age.
func FreshnessAt(age int64) Freshness {
	switch {
	case age < FreshMaxAge:
		return FreshnessFresh
	case age < StaleMaxAge:
		return FreshnessStale
	default:
		return FreshnessExpired
	}
}

// SignalQualityAt computes the decayed signal quality for an age:
// full strength while fresh, linear falloff to zero across the stale
// window, zero once expired.
func SignalQualityAt(age int64) int {
	switch FreshnessAt(age) {
	case FreshnessFresh:
		return 100
	case FreshnessStale:
		return int(100 * (1 - float64(age-FreshMaxAge)/float64(StaleMaxAge-FreshMaxAge)))
	default:
		return 0
	}
}

// Projected is a report as seen at a given tick. Stale projections
// round numeric fields into ranges and redact detail; expired ones keep
// only the target and its last-seen owner.
type Projected struct {
	ReportID      string         `json:"report_id"`
	GathererID    string         `json:"gatherer_id"`
	TargetType    TargetType     `json:"target_type"`
	TargetID      string         `json:"target_id"`
	GatheredAt    int64          `json:"gathered_at"`
	Age           int64          `json:"age"`
	Freshness     Freshness      `json:"freshness"`
	SignalQuality int            `json:"signal_quality"`
	Data          map[string]any `json:"data"`
}

// Project derives the tick-C view of a report. The projection is pure:
// the stored report is never mutated, so one record can be projected at
// any number of ticks.
func Project(r *Report, currentTick int64) *Projected {
	age := currentTick - r.GatheredAt
	if age < 0 {
		age = 0
	}
	p := &Projected{
		ReportID:      r.ID,
		GathererID:    r.GathererID,
		TargetType:    r.TargetType,
		TargetID:      r.TargetID,
		GatheredAt:    r.GatheredAt,
		Age:           age,
		Freshness:     FreshnessAt(age),
		SignalQuality: SignalQualityAt(age),
	}

	switch p.Freshness {
	case FreshnessFresh:
		p.Data = freshData(r)
	case FreshnessStale:
		p.Data = staleData(r)
	default:
		p.Data = expiredData(r)
	}
	return p
}

func freshData(r *Report) map[string]any {
	switch r.TargetType {
	case TargetZone:
		z := r.Zone
		return map[string]any{
			"name":              z.Name,
			"kind":              string(z.Kind),
			"owner_faction_id":  z.OwnerFactionID,
			"status":            string(z.Status),
			"supply_level":      z.SupplyLevel,
			"burn_rate":         z.BurnRate,
			"compliance_streak": z.ComplianceStreak,
			"su_stockpile":      z.SUStockpile,
			"inventory":         z.Inventory,
			"garrison_level":    z.GarrisonLevel,
			"medkit_stockpile":  z.MedkitStockpile,
			"comms_stockpile":   z.CommsStockpile,
		}
	case TargetRoute:
		rt := r.Route
		return map[string]any{
			"from_zone_id": rt.FromZoneID,
			"to_zone_id":   rt.ToZoneID,
			"distance":     rt.Distance,
			"capacity":     rt.Capacity,
			"base_risk":    rt.BaseRisk,
			"chokepoint":   rt.Chokepoint,
			"sightings":    rt.Sightings,
		}
	}
	return map[string]any{}
}

// staleData rounds numbers to 25-wide ranges and drops the fields a
// degraded signal cannot carry: exact inventory, garrison, sightings.
func staleData(r *Report) map[string]any {
	switch r.TargetType {
	case TargetZone:
		z := r.Zone
		return map[string]any{
			"name":             z.Name,
			"kind":             string(z.Kind),
			"owner_faction_id": z.OwnerFactionID,
			"status":           string(z.Status),
			"supply_level":     RangeString(int(z.SupplyLevel)),
			"burn_rate":        z.BurnRate,
			"su_stockpile":     RangeString(z.SUStockpile),
			"medkit_stockpile": RangeString(z.MedkitStockpile),
			"comms_stockpile":  RangeString(z.CommsStockpile),
		}
	case TargetRoute:
		rt := r.Route
		return map[string]any{
			"from_zone_id":   rt.FromZoneID,
			"to_zone_id":     rt.ToZoneID,
			"distance":       rt.Distance,
			"capacity":       rt.Capacity,
			"base_risk":      rt.BaseRisk,
			"chokepoint":     rt.Chokepoint,
			"sighting_count": len(rt.Sightings),
		}
	}
	return map[string]any{}
}

func expiredData(r *Report) map[string]any {
	data := map[string]any{"target_id": r.TargetID}
	if r.TargetType == TargetZone && r.Zone != nil {
		data["last_seen_owner"] = r.Zone.OwnerFactionID
	}
	return data
}

// RangeString buckets a value into a 25-wide band, e.g. 63 → "50–75".
func RangeString(v int) string {
	if v < 0 {
		v = 0
	}
	lo := (v / 25) * 25
	return fmt.Sprintf("%d–%d", lo, lo+25)
}
