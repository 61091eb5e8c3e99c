package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
)

type interceptionContext struct {
	input       shipment.InterceptionInput
	probability float64
	attacker    float64
	defender    float64
	combat      shipment.CombatResult
}

func (ic *interceptionContext) reset() {
	ic.input = shipment.InterceptionInput{}
	ic.probability = 0
	ic.attacker = 0
	ic.defender = 0
	ic.combat = shipment.CombatResult{}
}

func (ic *interceptionContext) aRouteWithBaseRiskAndChokepoint(risk, choke float64) error {
	ic.input.BaseRisk = risk
	ic.input.Chokepoint = choke
	return nil
}

func (ic *interceptionContext) aShipmentWithNoEscorts(kind string) error {
	if !shipment.IsValidKind(kind) {
		return fmt.Errorf("unknown shipment kind %q", kind)
	}
	ic.input.Visibility = shipment.Kind(kind).Visibility()
	ic.input.EscortStrength = 0
	return nil
}

func (ic *interceptionContext) aShipmentWithEscortStrength(kind string, strength float64) error {
	if err := ic.aShipmentWithNoEscorts(kind); err != nil {
		return err
	}
	ic.input.EscortStrength = strength
	return nil
}

func (ic *interceptionContext) aRaiderIsDeployedWithFreshIntel() error {
	ic.input.RaiderDeployed = true
	ic.input.RaiderFreshIntel = true
	return nil
}

func (ic *interceptionContext) aRaiderIsDeployedWithoutIntel() error {
	ic.input.RaiderDeployed = true
	ic.input.RaiderFreshIntel = false
	return nil
}

func (ic *interceptionContext) iComputeTheInterceptionProbability() error {
	ic.probability = shipment.InterceptProbability(ic.input)
	return nil
}

func (ic *interceptionContext) theProbabilityShouldBe(want float64) error {
	if math.Abs(ic.probability-want) > 1e-9 {
		return fmt.Errorf("expected probability %v, got %v", want, ic.probability)
	}
	return nil
}

func (ic *interceptionContext) anInterceptionWithStrengths(attacker, defender float64) error {
	ic.attacker = attacker
	ic.defender = defender
	return nil
}

func (ic *interceptionContext) theCombatResolves() error {
	rng := shared.DeterministicRand("bdd-combat", "1")
	ic.combat = shipment.ResolveCombat(ic.attacker, ic.defender, rng)
	return nil
}

func (ic *interceptionContext) theOutcomeShouldBe(outcome string) error {
	if string(ic.combat.Outcome) != outcome {
		return fmt.Errorf("expected outcome %q, got %q", outcome, ic.combat.Outcome)
	}
	return nil
}

func (ic *interceptionContext) theFullCargoShouldBeLost() error {
	if ic.combat.CargoLossFraction != 1.0 {
		return fmt.Errorf("expected full cargo loss, got fraction %v", ic.combat.CargoLossFraction)
	}
	if !ic.combat.ShipmentLost {
		return fmt.Errorf("expected the shipment to be lost")
	}
	return nil
}

// InitializeInterceptionScenario registers the interception step
// definitions.
func InitializeInterceptionScenario(ctx *godog.ScenarioContext) {
	intCtx := &interceptionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		intCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a route with base risk ([\d.]+) and chokepoint ([\d.]+)$`, intCtx.aRouteWithBaseRiskAndChokepoint)
	ctx.Step(`^a (courier|freight|convoy) shipment with no escorts$`, intCtx.aShipmentWithNoEscorts)
	ctx.Step(`^a (courier|freight|convoy) shipment with escort strength ([\d.]+)$`, intCtx.aShipmentWithEscortStrength)
	ctx.Step(`^a raider is deployed on the route with fresh intel$`, intCtx.aRaiderIsDeployedWithFreshIntel)
	ctx.Step(`^a raider is deployed on the route without intel$`, intCtx.aRaiderIsDeployedWithoutIntel)
	ctx.Step(`^I compute the interception probability$`, intCtx.iComputeTheInterceptionProbability)
	ctx.Step(`^the probability should be ([\d.]+)$`, intCtx.theProbabilityShouldBe)
	ctx.Step(`^an interception with attacker strength ([\d.]+) and defender strength ([\d.]+)$`, intCtx.anInterceptionWithStrengths)
	ctx.Step(`^the combat resolves$`, intCtx.theCombatResolves)
	ctx.Step(`^the outcome should be "([^"]*)"$`, intCtx.theOutcomeShouldBe)
	ctx.Step(`^the full cargo should be lost$`, intCtx.theFullCargoShouldBeLost)
}
