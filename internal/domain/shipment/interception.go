package shipment

import (
	"math/rand"
)

// InterceptionInput carries everything one hop's interception roll needs.
// CommsDefense is measured at the shipment's current zone.
type InterceptionInput struct {
	BaseRisk         float64
	Chokepoint       float64
	Visibility       float64
	EscortStrength   float64 // Σ strength of assigned escorts
	RaiderDeployed   bool    // a raider sits on this route
	RaiderFreshIntel bool    // the raider's owner holds a Fresh scan of the route
	CommsDefense     float64 // ≤ 0.5
}

// MaxEscortReduction caps how much escorts can dampen interception odds.
const MaxEscortReduction = 0.9

// InterceptProbability computes the hop interception probability:
// base_risk · chokepoint · visibility · (1−escort_reduction) ·
// raider_intel_bonus · (1−comms_defense), clamped to [0,1].
func InterceptProbability(in InterceptionInput) float64 {
	escortReduction := in.EscortStrength / 50
	if escortReduction > MaxEscortReduction {
		escortReduction = MaxEscortReduction
	}
	raiderBonus := 1.0
	if in.RaiderDeployed && in.RaiderFreshIntel {
		raiderBonus = 1.25
	}
	p := in.BaseRisk * in.Chokepoint * in.Visibility *
		(1 - escortReduction) * raiderBonus * (1 - in.CommsDefense)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CombatOutcome partitions the strength ratio of an interception fight.
type CombatOutcome string

const (
	OutcomeDecisiveVictory CombatOutcome = "decisive_victory"
	OutcomeCostlyVictory   CombatOutcome = "costly_victory"
	OutcomeStalemate       CombatOutcome = "stalemate"
	OutcomeDefeat          CombatOutcome = "defeat"
)

// CombatResult is the resolution of a single weighted combat roll.
type CombatResult struct {
	Outcome           CombatOutcome
	Ratio             float64
	CargoLossFraction float64
	AttackerLosesUnit bool
	ShipmentLost      bool
}

// combatJitterSigma scales the Gaussian jitter each side adds to its
// strength: σ = 0.2 of strength.
const combatJitterSigma = 0.2

// ResolveCombat runs the single weighted roll. Each side's effective
// strength is its base plus Gaussian jitter; the ratio a/(a+d) is
// partitioned at 0.75/0.55/0.45 with strict comparisons so exact
// boundaries fall toward the defender.
func ResolveCombat(attackerStrength, defenderStrength float64, rng *rand.Rand) CombatResult {
	a := attackerStrength + rng.NormFloat64()*combatJitterSigma*attackerStrength
	d := defenderStrength + rng.NormFloat64()*combatJitterSigma*defenderStrength
	if a < 0 {
		a = 0
	}
	if d < 0 {
		d = 0
	}

	var ratio float64
	if a+d > 0 {
		ratio = a / (a + d)
	}

	switch {
	case ratio > 0.75:
		return CombatResult{
			Outcome:           OutcomeDecisiveVictory,
			Ratio:             ratio,
			CargoLossFraction: 1.0,
			ShipmentLost:      true,
		}
	case ratio > 0.55:
		return CombatResult{
			Outcome:           OutcomeCostlyVictory,
			Ratio:             ratio,
			CargoLossFraction: 1.0,
			AttackerLosesUnit: true,
			ShipmentLost:      true,
		}
	case ratio > 0.45:
		return CombatResult{
			Outcome:           OutcomeStalemate,
			Ratio:             ratio,
			CargoLossFraction: 0.5,
		}
	default:
		return CombatResult{
			Outcome: OutcomeDefeat,
			Ratio:   ratio,
		}
	}
}
