package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/shared"
)

type factionContext struct {
	faction *faction.Faction
	err     error
}

func (fc *factionContext) reset() {
	fc.faction = nil
	fc.err = nil
}

func (fc *factionContext) foundsTheFaction(founderID, name string) error {
	fc.faction = faction.NewFaction("fac-1", name, "TAG", founderID, 1)
	return nil
}

func (fc *factionContext) joinsTheFaction(playerID string) error {
	return fc.faction.AddMember(playerID, 2)
}

func (fc *factionContext) leadershipIsTransferredTo(playerID string) error {
	fc.err = fc.faction.TransferLeadership(playerID)
	return nil
}

func (fc *factionContext) triesToLeaveTheFaction(playerID string) error {
	fc.err = fc.faction.RemoveMember(playerID)
	return nil
}

func (fc *factionContext) isPromotedToOfficer(playerID string) error {
	return fc.faction.Promote(playerID)
}

func (fc *factionContext) isPromotedAgain(playerID string) error {
	fc.err = fc.faction.Promote(playerID)
	return nil
}

func (fc *factionContext) theFactionShouldHaveMembers(count int) error {
	if len(fc.faction.Members) != count {
		return fmt.Errorf("expected %d members, got %d", count, len(fc.faction.Members))
	}
	return nil
}

func (fc *factionContext) shouldHoldTheRank(playerID, rank string) error {
	got, ok := fc.faction.RankOf(playerID)
	if !ok {
		return fmt.Errorf("%q is not a member", playerID)
	}
	if string(got) != rank {
		return fmt.Errorf("expected %q to hold rank %q, got %q", playerID, rank, got)
	}
	return nil
}

func (fc *factionContext) theOperationShouldFailWithCode(code string) error {
	if fc.err == nil {
		return fmt.Errorf("expected an error with code %q, operation succeeded", code)
	}
	if got := shared.CodeOf(fc.err); got != code {
		return fmt.Errorf("expected code %q, got %q (%v)", code, got, fc.err)
	}
	return nil
}

// InitializeFactionScenario registers the faction leadership step
// definitions.
func InitializeFactionScenario(ctx *godog.ScenarioContext) {
	facCtx := &factionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		facCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^"([^"]*)" founds the faction "([^"]*)"$`, facCtx.foundsTheFaction)
	ctx.Step(`^"([^"]*)" joins the faction$`, facCtx.joinsTheFaction)
	ctx.Step(`^leadership is transferred to "([^"]*)"$`, facCtx.leadershipIsTransferredTo)
	ctx.Step(`^"([^"]*)" tries to leave the faction$`, facCtx.triesToLeaveTheFaction)
	ctx.Step(`^"([^"]*)" is promoted to officer$`, facCtx.isPromotedToOfficer)
	ctx.Step(`^"([^"]*)" is promoted again$`, facCtx.isPromotedAgain)
	ctx.Step(`^the faction should have (\d+) members?$`, facCtx.theFactionShouldHaveMembers)
	ctx.Step(`^"([^"]*)" should hold the rank "([^"]*)"$`, facCtx.shouldHoldTheRank)
	ctx.Step(`^the operation should fail with code "([^"]*)"$`, facCtx.theOperationShouldFailWithCode)
}
