package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"burnrate/internal/domain/player"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/world"
)

type seasonContext struct {
	player    *player.Player
	zone      *world.Zone
	standings []season.Standing
	prevHash  string
	archive   *season.Archive
}

func (sc *seasonContext) reset() {
	sc.player = nil
	sc.zone = nil
	sc.standings = nil
	sc.prevHash = ""
	sc.archive = nil
}

func (sc *seasonContext) aPlayerWith(credits int64, reputation int, licenseClause string) error {
	sc.player = player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 1)
	sc.player.Credits = credits
	sc.player.Reputation = reputation
	if licenseClause == "the convoy license" {
		sc.player.Licenses[player.LicenseConvoy] = true
	}
	return nil
}

func (sc *seasonContext) theSeasonResetsForThePlayer() error {
	sc.player.ResetForSeason()
	return nil
}

func (sc *seasonContext) thePlayerShouldHaveCredits(credits int64) error {
	if sc.player.Credits != credits {
		return fmt.Errorf("expected %d credits, got %d", credits, sc.player.Credits)
	}
	return nil
}

func (sc *seasonContext) thePlayerReputationShouldBe(reputation int) error {
	if sc.player.Reputation != reputation {
		return fmt.Errorf("expected reputation %d, got %d", reputation, sc.player.Reputation)
	}
	return nil
}

func (sc *seasonContext) thePlayerShouldKeepTheConvoyLicense() error {
	if !sc.player.HasLicense(player.LicenseConvoy) {
		return fmt.Errorf("expected the convoy license to survive the reset")
	}
	return nil
}

func (sc *seasonContext) thePlayerTitleShouldBe(title string) error {
	if got := sc.player.Title(); got != title {
		return fmt.Errorf("expected title %q, got %q", title, got)
	}
	return nil
}

func (sc *seasonContext) aFrontZoneHeldByWithSupplyAndStreak(factionID string, stockpile, streak int) error {
	sc.zone = world.NewZone("zn-front", "Marrow Line", world.ZoneFront)
	if err := sc.zone.Capture(factionID); err != nil {
		return err
	}
	sc.zone.SUStockpile = stockpile
	sc.zone.ComplianceStreak = streak
	return nil
}

func (sc *seasonContext) theSeasonResetsForTheZone() error {
	sc.zone.ResetForSeason()
	return nil
}

func (sc *seasonContext) theZoneShouldBeNeutralAfterReset() error {
	if sc.zone.IsOwned() {
		return fmt.Errorf("expected a neutral zone, owner is %q", sc.zone.OwnerFactionID)
	}
	return nil
}

func (sc *seasonContext) theZoneStockpileShouldBeEmpty() error {
	if sc.zone.SUStockpile != 0 {
		return fmt.Errorf("expected an empty stockpile, got %d", sc.zone.SUStockpile)
	}
	return nil
}

func (sc *seasonContext) theZoneComplianceStreakShouldBe(streak int) error {
	if sc.zone.ComplianceStreak != streak {
		return fmt.Errorf("expected streak %d, got %d", streak, sc.zone.ComplianceStreak)
	}
	return nil
}

func (sc *seasonContext) seasonStandings(seasonNum int, table *godog.Table) error {
	sc.standings = nil
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		total, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return err
		}
		sc.standings = append(sc.standings, season.Standing{
			Rank:       i,
			EntityID:   row.Cells[0].Value,
			EntityKind: season.EntityPlayer,
			Total:      total,
		})
	}
	return nil
}

func (sc *seasonContext) thePreviousArchiveHashIs(hash string) error {
	sc.prevHash = hash
	return nil
}

func (sc *seasonContext) theSeasonIsSealed() error {
	archive, err := season.Seal(3, 0, 4032,
		time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), sc.standings, sc.prevHash)
	if err != nil {
		return err
	}
	sc.archive = archive
	return nil
}

func (sc *seasonContext) theArchivesPreviousHashIsForgedTo(hash string) error {
	sc.archive.PrevHash = hash
	return nil
}

func (sc *seasonContext) theArchiveShouldVerify() error {
	ok, err := sc.archive.Verify()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected the archive to verify")
	}
	return nil
}

func (sc *seasonContext) theArchiveShouldNotVerify() error {
	ok, err := sc.archive.Verify()
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected verification to fail")
	}
	return nil
}

func (sc *seasonContext) theArchiveShouldChainFrom(hash string) error {
	if sc.archive.PrevHash != hash {
		return fmt.Errorf("expected prev hash %q, got %q", hash, sc.archive.PrevHash)
	}
	return nil
}

func (sc *seasonContext) theArchiveShouldListFirst(entityID string) error {
	standings, err := sc.archive.Standings()
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		return fmt.Errorf("archive holds no standings")
	}
	if standings[0].EntityID != entityID {
		return fmt.Errorf("expected %q first, got %q", entityID, standings[0].EntityID)
	}
	return nil
}

// InitializeSeasonScenario registers the season reset and archive step
// definitions.
func InitializeSeasonScenario(ctx *godog.ScenarioContext) {
	seaCtx := &seasonContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		seaCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a player with (\d+) credits, reputation (-?\d+), and (the convoy license|no extra licenses)$`, seaCtx.aPlayerWith)
	ctx.Step(`^the season resets for the player$`, seaCtx.theSeasonResetsForThePlayer)
	ctx.Step(`^the player should have (\d+) credits$`, seaCtx.thePlayerShouldHaveCredits)
	ctx.Step(`^the player reputation should be (-?\d+)$`, seaCtx.thePlayerReputationShouldBe)
	ctx.Step(`^the player should keep the convoy license$`, seaCtx.thePlayerShouldKeepTheConvoyLicense)
	ctx.Step(`^the player title should be "([^"]*)"$`, seaCtx.thePlayerTitleShouldBe)
	ctx.Step(`^a front zone held by "([^"]*)" with (\d+) supply units and a compliance streak of (\d+)$`, seaCtx.aFrontZoneHeldByWithSupplyAndStreak)
	ctx.Step(`^the season resets for the zone$`, seaCtx.theSeasonResetsForTheZone)
	ctx.Step(`^the zone should return to neutral$`, seaCtx.theZoneShouldBeNeutralAfterReset)
	ctx.Step(`^the zone stockpile should be empty$`, seaCtx.theZoneStockpileShouldBeEmpty)
	ctx.Step(`^the zone compliance streak should be (\d+)$`, seaCtx.theZoneComplianceStreakShouldBe)
	ctx.Step(`^season (\d+) standings:$`, seaCtx.seasonStandings)
	ctx.Step(`^the previous archive hash is "([^"]*)"$`, seaCtx.thePreviousArchiveHashIs)
	ctx.Step(`^the season is sealed$`, seaCtx.theSeasonIsSealed)
	ctx.Step(`^the archive's previous hash is forged to "([^"]*)"$`, seaCtx.theArchivesPreviousHashIsForgedTo)
	ctx.Step(`^the archive should verify$`, seaCtx.theArchiveShouldVerify)
	ctx.Step(`^the archive should not verify$`, seaCtx.theArchiveShouldNotVerify)
	ctx.Step(`^the archive should chain from "([^"]*)"$`, seaCtx.theArchiveShouldChainFrom)
	ctx.Step(`^the archive should list "([^"]*)" first$`, seaCtx.theArchiveShouldListFirst)
}
