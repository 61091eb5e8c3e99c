package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"burnrate/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeSupplyBurnScenario(sc)
	steps.InitializeInterceptionScenario(sc)
	steps.InitializeMarketScenario(sc)
	steps.InitializeFactionScenario(sc)
	steps.InitializeSeasonScenario(sc)
}
