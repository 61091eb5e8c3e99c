package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/world"
)

func TestApplyBurn_SupplyAccounting(t *testing.T) {
	tests := []struct {
		name          string
		kind          world.ZoneKind
		stockpile     int
		wantLevel     float64
		wantStockpile int
		wantCollapsed bool
	}{
		{
			name:          "fully supplied factory stays at 100",
			kind:          world.ZoneFactory,
			stockpile:     50,
			wantLevel:     100,
			wantStockpile: 45,
		},
		{
			name:          "stockpile equal to burn runs dry and collapses",
			kind:          world.ZoneFactory,
			stockpile:     5,
			wantLevel:     0,
			wantStockpile: 0,
			wantCollapsed: true,
		},
		{
			name:          "one spare unit keeps the zone alive",
			kind:          world.ZoneFactory,
			stockpile:     6,
			wantLevel:     100,
			wantStockpile: 1,
		},
		{
			name:          "partial stockpile collapses the zone",
			kind:          world.ZoneFront,
			stockpile:     4,
			wantLevel:     0,
			wantStockpile: 0,
			wantCollapsed: true,
		},
		{
			name:          "empty stockpile collapses the zone",
			kind:          world.ZoneStronghold,
			stockpile:     0,
			wantLevel:     0,
			wantStockpile: 0,
			wantCollapsed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := world.NewZone("zn-1", "Test", tt.kind)
			require.NoError(t, z.Capture("fac-1"))
			z.SUStockpile = tt.stockpile

			res := z.ApplyBurn()

			assert.Equal(t, tt.wantStockpile, z.SUStockpile)
			assert.Equal(t, tt.wantCollapsed, res.Collapsed)
			assert.InDelta(t, tt.wantLevel, res.SupplyLevel, 0.001)
		})
	}
}

func TestApplyBurn_ZeroBurnZonesNeverCollapse(t *testing.T) {
	hub := world.NewZone("zn-hub", "Hub", world.ZoneHub)

	res := hub.ApplyBurn()

	assert.False(t, res.Collapsed)
	assert.Equal(t, 100.0, res.SupplyLevel)
	assert.Equal(t, world.ZoneStatusStable, hub.Status)
}

func TestApplyBurn_NeutralZoneBurnsNothing(t *testing.T) {
	z := world.NewZone("zn-1", "Field", world.ZoneField)
	z.SUStockpile = 10

	res := z.ApplyBurn()

	assert.False(t, res.Collapsed)
	assert.Equal(t, 10, z.SUStockpile)
	assert.Equal(t, world.ZoneStatusStable, z.Status)
	_ = res
}

func TestApplyBurn_CollapseClearsOwnershipAndStreak(t *testing.T) {
	z := world.NewZone("zn-1", "Front", world.ZoneFront)
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 3
	z.ComplianceStreak = 12

	res := z.ApplyBurn()

	require.True(t, res.Collapsed)
	assert.Equal(t, world.ZoneStatusCollapsed, z.Status)
	assert.Empty(t, z.OwnerFactionID)
	assert.Zero(t, z.ComplianceStreak)
	assert.Zero(t, z.SupplyLevel)
}

func TestApplyBurn_FullSupplyGrowsStreak(t *testing.T) {
	z := world.NewZone("zn-1", "Field", world.ZoneField)
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 100

	for i := 0; i < 7; i++ {
		z.ApplyBurn()
	}

	assert.Equal(t, 7, z.ComplianceStreak)
	assert.Equal(t, 100-7*3, z.SUStockpile)
}

func TestStreakMultiplier_Thresholds(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{4, 1.0},
		{5, 1.2},
		{19, 1.2},
		{20, 1.5},
		{49, 1.5},
		{50, 2.0},
		{99, 2.0},
		{100, 3.0},
		{500, 3.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, world.StreakMultiplier(tt.streak),
			"streak %d", tt.streak)
	}
}

func TestCapture_RejectsHubsAndOwnedZones(t *testing.T) {
	hub := world.NewZone("zn-hub", "Hub", world.ZoneHub)
	assert.Error(t, hub.Capture("fac-1"))

	z := world.NewZone("zn-1", "Field", world.ZoneField)
	require.NoError(t, z.Capture("fac-1"))
	assert.Error(t, z.Capture("fac-2"))
	assert.Equal(t, "fac-1", z.OwnerFactionID)
}

func TestCapture_ClearsCollapseState(t *testing.T) {
	z := world.NewZone("zn-1", "Front", world.ZoneFront)
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 0
	z.ApplyBurn()
	require.Equal(t, world.ZoneStatusCollapsed, z.Status)

	require.NoError(t, z.Capture("fac-2"))

	assert.Equal(t, world.ZoneStatusStable, z.Status)
	assert.Equal(t, "fac-2", z.OwnerFactionID)
	assert.Zero(t, z.SupplyLevel)
}

func TestDecayStockpiles_Cadence(t *testing.T) {
	z := world.NewZone("zn-1", "Front", world.ZoneFront)
	z.MedkitStockpile = 3
	z.CommsStockpile = 3

	z.DecayStockpiles(10) // medkit tick
	assert.Equal(t, 2, z.MedkitStockpile)
	assert.Equal(t, 3, z.CommsStockpile)

	z.DecayStockpiles(20) // both
	assert.Equal(t, 1, z.MedkitStockpile)
	assert.Equal(t, 2, z.CommsStockpile)

	z.DecayStockpiles(21) // neither
	assert.Equal(t, 1, z.MedkitStockpile)
	assert.Equal(t, 2, z.CommsStockpile)

	z.MedkitStockpile = 0
	z.DecayStockpiles(30)
	assert.Zero(t, z.MedkitStockpile, "never goes negative")
}

func TestRefillCapacity_FactoriesOnly(t *testing.T) {
	factory := world.NewZone("zn-1", "Works", world.ZoneFactory)
	factory.ProductionCapacity = 90

	factory.RefillCapacity()
	assert.Equal(t, world.MaxProductionCapacity, factory.ProductionCapacity)

	field := world.NewZone("zn-2", "Field", world.ZoneField)
	field.RefillCapacity()
	assert.Zero(t, field.ProductionCapacity)
}

func TestCommsDefenseAndMedkitBonus_Caps(t *testing.T) {
	z := world.NewZone("zn-1", "Front", world.ZoneFront)
	z.CommsStockpile = 30
	z.MedkitStockpile = 80

	assert.InDelta(t, 0.3, z.CommsDefense(), 0.001)
	assert.InDelta(t, 0.5, z.MedkitBonus(), 0.001)

	z.CommsStockpile = 500
	assert.Equal(t, 0.5, z.CommsDefense())
}

func TestResetForSeason_KeepsMapShape(t *testing.T) {
	z := world.NewZone("zn-1", "Works", world.ZoneFactory)
	z.DepthMultiplier = 2.0
	z.GarrisonLevel = 2
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 40
	z.Inventory.Add("ore", 10)
	z.MedkitStockpile = 5
	z.ComplianceStreak = 30

	z.ResetForSeason()

	assert.Empty(t, z.OwnerFactionID)
	assert.Equal(t, world.ZoneStatusStable, z.Status)
	assert.Zero(t, z.SUStockpile)
	assert.Zero(t, z.Inventory.Total())
	assert.Zero(t, z.MedkitStockpile)
	assert.Zero(t, z.ComplianceStreak)
	assert.Equal(t, 2.0, z.DepthMultiplier, "depth multiplier is permanent")
	assert.Equal(t, 2, z.GarrisonLevel, "garrison is permanent")
}
