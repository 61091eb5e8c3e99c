package intel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

func scannedZone() *world.Zone {
	z := world.NewZone("zn-1", "Verdan Front", world.ZoneFront)
	z.OwnerFactionID = "fac-1"
	z.SupplyLevel = 63
	z.ComplianceStreak = 7
	z.SUStockpile = 42
	z.GarrisonLevel = 2
	z.MedkitStockpile = 4
	z.CommsStockpile = 11
	z.Inventory.Add(shared.ResourceAmmo, 9)
	return z
}

func TestFreshnessAt_Boundaries(t *testing.T) {
	tests := []struct {
		age         int64
		wantBucket  intel.Freshness
		wantQuality int
	}{
		{0, intel.FreshnessFresh, 100},
		{9, intel.FreshnessFresh, 100},
		{10, intel.FreshnessStale, 100},
		{30, intel.FreshnessStale, 50},
		{49, intel.FreshnessStale, 2},
		{50, intel.FreshnessExpired, 0},
		{199, intel.FreshnessExpired, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantBucket, intel.FreshnessAt(tt.age), "age %d", tt.age)
		assert.Equal(t, tt.wantQuality, intel.SignalQualityAt(tt.age), "age %d", tt.age)
	}
}

func TestProject_FreshZoneKeepsFullDetail(t *testing.T) {
	r := intel.NewZoneReport("il-1", "pl-1", "fac-9", scannedZone(), 100)

	p := intel.Project(r, 105)

	assert.Equal(t, intel.FreshnessFresh, p.Freshness)
	assert.Equal(t, int64(5), p.Age)
	assert.Equal(t, 100, p.SignalQuality)

	want := map[string]any{
		"name":              "Verdan Front",
		"kind":              "front",
		"owner_faction_id":  "fac-1",
		"status":            "stable",
		"supply_level":      63.0,
		"burn_rate":         10,
		"compliance_streak": 7,
		"su_stockpile":      42,
		"inventory":         shared.Inventory{shared.ResourceAmmo: 9},
		"garrison_level":    2,
		"medkit_stockpile":  4,
		"comms_stockpile":   11,
	}
	if diff := cmp.Diff(want, p.Data); diff != "" {
		t.Errorf("fresh projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_StaleZoneRoundsToRanges(t *testing.T) {
	r := intel.NewZoneReport("il-1", "pl-1", "", scannedZone(), 100)

	p := intel.Project(r, 130)

	assert.Equal(t, intel.FreshnessStale, p.Freshness)
	assert.Equal(t, 50, p.SignalQuality)

	want := map[string]any{
		"name":             "Verdan Front",
		"kind":             "front",
		"owner_faction_id": "fac-1",
		"status":           "stable",
		"supply_level":     "50–75",
		"burn_rate":        10,
		"su_stockpile":     "25–50",
		"medkit_stockpile": "0–25",
		"comms_stockpile":  "0–25",
	}
	if diff := cmp.Diff(want, p.Data); diff != "" {
		t.Errorf("stale projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_ExpiredZoneKeepsOnlyLastSeenOwner(t *testing.T) {
	r := intel.NewZoneReport("il-1", "pl-1", "", scannedZone(), 100)

	p := intel.Project(r, 160)

	assert.Equal(t, intel.FreshnessExpired, p.Freshness)
	assert.Zero(t, p.SignalQuality)

	want := map[string]any{
		"target_id":       "zn-1",
		"last_seen_owner": "fac-1",
	}
	if diff := cmp.Diff(want, p.Data); diff != "" {
		t.Errorf("expired projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_IsPure(t *testing.T) {
	r := intel.NewZoneReport("il-1", "pl-1", "", scannedZone(), 100)

	stale := intel.Project(r, 130)
	fresh := intel.Project(r, 101)

	assert.Equal(t, intel.FreshnessStale, stale.Freshness)
	assert.Equal(t, intel.FreshnessFresh, fresh.Freshness,
		"stored report must not be mutated by projection")
	assert.Equal(t, 100, r.SignalQuality)
}

func TestProject_RouteSightingsDegradeToCount(t *testing.T) {
	route, err := world.NewRoute("rt-1", "zn-1", "zn-2", 3, 20, 0.1, 1.5)
	require.NoError(t, err)
	sightings := []intel.Sighting{
		{ShipmentID: "shp-1", Kind: "freight", CargoTotal: 400},
		{ShipmentID: "shp-2", Kind: "courier", CargoTotal: 80},
	}
	r := intel.NewRouteReport("il-1", "pl-1", "", route, sightings, 100)

	fresh := intel.Project(r, 100)
	assert.Equal(t, sightings, fresh.Data["sightings"])

	stale := intel.Project(r, 120)
	_, hasDetail := stale.Data["sightings"]
	assert.False(t, hasDetail)
	assert.Equal(t, 2, stale.Data["sighting_count"])
}

func TestProject_FutureGatherClampsAgeToZero(t *testing.T) {
	r := intel.NewZoneReport("il-1", "pl-1", "", scannedZone(), 100)

	p := intel.Project(r, 90)

	assert.Zero(t, p.Age)
	assert.Equal(t, intel.FreshnessFresh, p.Freshness)
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "50–75", intel.RangeString(63))
	assert.Equal(t, "0–25", intel.RangeString(0))
	assert.Equal(t, "25–50", intel.RangeString(25))
	assert.Equal(t, "0–25", intel.RangeString(-3))
}
