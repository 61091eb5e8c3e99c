package shipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
)

func TestInterceptProbability_Formula(t *testing.T) {
	in := shipment.InterceptionInput{
		BaseRisk:   0.1,
		Chokepoint: 2.0,
		Visibility: 1.0,
	}

	assert.InDelta(t, 0.2, shipment.InterceptProbability(in), 1e-9)
}

func TestInterceptProbability_EscortReductionCapped(t *testing.T) {
	in := shipment.InterceptionInput{
		BaseRisk:       0.2,
		Chokepoint:     1.0,
		Visibility:     1.0,
		EscortStrength: 20, // reduction 0.4
	}
	assert.InDelta(t, 0.2*0.6, shipment.InterceptProbability(in), 1e-9)

	in.EscortStrength = 500 // raw reduction 10, capped at 0.9
	assert.InDelta(t, 0.2*0.1, shipment.InterceptProbability(in), 1e-9)
}

func TestInterceptProbability_RaiderBonusNeedsFreshIntel(t *testing.T) {
	in := shipment.InterceptionInput{
		BaseRisk:       0.1,
		Chokepoint:     1.0,
		Visibility:     1.0,
		RaiderDeployed: true,
	}
	assert.InDelta(t, 0.1, shipment.InterceptProbability(in), 1e-9,
		"raider without fresh intel gets no bonus")

	in.RaiderFreshIntel = true
	assert.InDelta(t, 0.125, shipment.InterceptProbability(in), 1e-9)

	in.RaiderDeployed = false
	assert.InDelta(t, 0.1, shipment.InterceptProbability(in), 1e-9,
		"fresh intel without a deployed raider gets no bonus")
}

func TestInterceptProbability_CommsDefense(t *testing.T) {
	in := shipment.InterceptionInput{
		BaseRisk:     0.2,
		Chokepoint:   1.0,
		Visibility:   1.0,
		CommsDefense: 0.5,
	}

	assert.InDelta(t, 0.1, shipment.InterceptProbability(in), 1e-9)
}

func TestInterceptProbability_ClampsToOne(t *testing.T) {
	in := shipment.InterceptionInput{
		BaseRisk:         0.3,
		Chokepoint:       3.0,
		Visibility:       2.0,
		RaiderDeployed:   true,
		RaiderFreshIntel: true,
	}

	assert.Equal(t, 1.0, shipment.InterceptProbability(in))
}

func TestResolveCombat_ZeroDefenderIsDecisiveVictory(t *testing.T) {
	rng := shared.DeterministicRand("combat", "decisive")

	res := shipment.ResolveCombat(15, 0, rng)

	assert.Equal(t, shipment.OutcomeDecisiveVictory, res.Outcome)
	assert.Equal(t, 1.0, res.CargoLossFraction)
	assert.True(t, res.ShipmentLost)
	assert.False(t, res.AttackerLosesUnit)
}

func TestResolveCombat_ZeroAttackerIsDefeat(t *testing.T) {
	rng := shared.DeterministicRand("combat", "defeat")

	res := shipment.ResolveCombat(0, 20, rng)

	assert.Equal(t, shipment.OutcomeDefeat, res.Outcome)
	assert.Zero(t, res.CargoLossFraction)
	assert.False(t, res.ShipmentLost)
}

func TestResolveCombat_OutcomePartition(t *testing.T) {
	// With jitter σ = 0.2·strength, drawing many matched fights must
	// produce stalemates and both victory grades over the seed space.
	seen := map[shipment.CombatOutcome]int{}
	for i := 0; i < 200; i++ {
		rng := shared.DeterministicRand("combat", "partition", string(rune('a'+i%26)), string(rune('0'+i/26)))
		res := shipment.ResolveCombat(15, 12, rng)
		seen[res.Outcome]++

		switch res.Outcome {
		case shipment.OutcomeDecisiveVictory:
			assert.Greater(t, res.Ratio, 0.75)
			assert.True(t, res.ShipmentLost)
		case shipment.OutcomeCostlyVictory:
			assert.Greater(t, res.Ratio, 0.55)
			assert.LessOrEqual(t, res.Ratio, 0.75)
			assert.True(t, res.AttackerLosesUnit)
			assert.True(t, res.ShipmentLost)
		case shipment.OutcomeStalemate:
			assert.Greater(t, res.Ratio, 0.45)
			assert.LessOrEqual(t, res.Ratio, 0.55)
			assert.Equal(t, 0.5, res.CargoLossFraction)
			assert.False(t, res.ShipmentLost)
		case shipment.OutcomeDefeat:
			assert.LessOrEqual(t, res.Ratio, 0.45)
			assert.Zero(t, res.CargoLossFraction)
		}
	}
	assert.Greater(t, seen[shipment.OutcomeStalemate], 0,
		"matched strengths must sometimes stalemate")
}

func TestResolveCombat_DeterministicForSameSeed(t *testing.T) {
	a := shipment.ResolveCombat(15, 10, shared.DeterministicRand("shp-9", "77", "1"))
	b := shipment.ResolveCombat(15, 10, shared.DeterministicRand("shp-9", "77", "1"))

	require.Equal(t, a, b)
}
