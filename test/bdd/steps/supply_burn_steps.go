package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"burnrate/internal/domain/world"
)

type supplyBurnContext struct {
	zone   *world.Zone
	result world.BurnResult
}

func (sc *supplyBurnContext) reset() {
	sc.zone = nil
	sc.result = world.BurnResult{}
}

func (sc *supplyBurnContext) aFrontZoneHeldByWithStockpile(factionID string, stockpile int) error {
	sc.zone = world.NewZone("zn-front", "Marrow Line", world.ZoneFront)
	if err := sc.zone.Capture(factionID); err != nil {
		return err
	}
	sc.zone.SUStockpile = stockpile
	return nil
}

func (sc *supplyBurnContext) aHubZoneWithEmptyStockpile() error {
	sc.zone = world.NewZone("zn-hub", "Arken Terminal", world.ZoneHub)
	return nil
}

func (sc *supplyBurnContext) theSupplyBurnRuns() error {
	sc.result = sc.zone.ApplyBurn()
	return nil
}

func (sc *supplyBurnContext) theSupplyBurnRunsTimes(n int) error {
	for i := 0; i < n; i++ {
		sc.result = sc.zone.ApplyBurn()
	}
	return nil
}

func (sc *supplyBurnContext) theZoneSupplyLevelShouldBe(level float64) error {
	if sc.zone.SupplyLevel != level {
		return fmt.Errorf("expected supply level %v, got %v", level, sc.zone.SupplyLevel)
	}
	return nil
}

func (sc *supplyBurnContext) theZoneShouldStillBeHeldBy(factionID string) error {
	if sc.zone.OwnerFactionID != factionID {
		return fmt.Errorf("expected owner %q, got %q", factionID, sc.zone.OwnerFactionID)
	}
	return nil
}

func (sc *supplyBurnContext) theZoneShouldCollapse() error {
	if !sc.result.Collapsed {
		return fmt.Errorf("expected the burn to collapse the zone")
	}
	if sc.zone.Status != world.ZoneStatusCollapsed {
		return fmt.Errorf("expected status %q, got %q", world.ZoneStatusCollapsed, sc.zone.Status)
	}
	return nil
}

func (sc *supplyBurnContext) theZoneShouldBeNeutral() error {
	if sc.zone.IsOwned() {
		return fmt.Errorf("expected a neutral zone, owner is %q", sc.zone.OwnerFactionID)
	}
	return nil
}

func (sc *supplyBurnContext) theZoneShouldNotBeCollapsed() error {
	if sc.zone.Status == world.ZoneStatusCollapsed {
		return fmt.Errorf("expected the zone to stay stable")
	}
	return nil
}

func (sc *supplyBurnContext) theComplianceStreakShouldBe(streak int) error {
	if sc.zone.ComplianceStreak != streak {
		return fmt.Errorf("expected streak %d, got %d", streak, sc.zone.ComplianceStreak)
	}
	return nil
}

func (sc *supplyBurnContext) theStreakMultiplierShouldBe(mult float64) error {
	got := world.StreakMultiplier(sc.zone.ComplianceStreak)
	if math.Abs(got-mult) > 1e-9 {
		return fmt.Errorf("expected multiplier %v, got %v", mult, got)
	}
	return nil
}

// InitializeSupplyBurnScenario registers the supply burn step definitions.
func InitializeSupplyBurnScenario(ctx *godog.ScenarioContext) {
	burnCtx := &supplyBurnContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		burnCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a front zone held by faction "([^"]*)" with (\d+) supply units stockpiled$`, burnCtx.aFrontZoneHeldByWithStockpile)
	ctx.Step(`^a hub zone with an empty stockpile$`, burnCtx.aHubZoneWithEmptyStockpile)
	ctx.Step(`^the supply burn runs$`, burnCtx.theSupplyBurnRuns)
	ctx.Step(`^the supply burn runs (\d+) times$`, burnCtx.theSupplyBurnRunsTimes)
	ctx.Step(`^the zone supply level should be ([\d.]+)$`, burnCtx.theZoneSupplyLevelShouldBe)
	ctx.Step(`^the zone should still be held by "([^"]*)"$`, burnCtx.theZoneShouldStillBeHeldBy)
	ctx.Step(`^the zone should collapse$`, burnCtx.theZoneShouldCollapse)
	ctx.Step(`^the zone should be neutral$`, burnCtx.theZoneShouldBeNeutral)
	ctx.Step(`^the zone should not be collapsed$`, burnCtx.theZoneShouldNotBeCollapsed)
	ctx.Step(`^the compliance streak should be (\d+)$`, burnCtx.theComplianceStreakShouldBe)
	ctx.Step(`^the streak multiplier should be ([\d.]+)$`, burnCtx.theStreakMultiplierShouldBe)
}
