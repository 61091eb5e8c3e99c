package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
)

func newPlayer() *player.Player {
	return player.NewPlayer("pl-1", "mara", "bk_test", "zn-hub", 100)
}

func TestNewPlayer_Defaults(t *testing.T) {
	p := newPlayer()

	assert.Equal(t, player.TierFreelance, p.Tier)
	assert.Equal(t, player.StartingCredits, p.Credits)
	assert.Equal(t, "zn-hub", p.CurrentZoneID)
	assert.True(t, p.HasLicense(player.LicenseCourier))
	assert.False(t, p.HasLicense(player.LicenseFreight))
	assert.Zero(t, p.Reputation)
}

func TestTierConfigs(t *testing.T) {
	assert.Equal(t, 200, player.TierFreelance.DailyQuota())
	assert.Equal(t, 250, player.TierOperator.DailyQuota())
	assert.Equal(t, 300, player.TierCommand.DailyQuota())

	assert.Equal(t, 10, player.TierFreelance.OrderCap())
	assert.Equal(t, 25, player.TierOperator.OrderCap())
	assert.Equal(t, 50, player.TierCommand.OrderCap())

	assert.Equal(t, 5, player.TierFreelance.ContractCap())
	assert.Equal(t, 10, player.TierOperator.ContractCap())
	assert.Equal(t, 20, player.TierCommand.ContractCap())

	assert.True(t, player.TierCommand.AtLeast(player.TierOperator))
	assert.False(t, player.TierFreelance.AtLeast(player.TierOperator))

	assert.Equal(t, 200, player.Tier("bogus").DailyQuota(), "unknown tier falls back to freelance")
}

func TestUnlockLicense_GatesAndCharges(t *testing.T) {
	p := newPlayer()
	p.Credits = 2000
	p.Reputation = 49

	err := p.UnlockLicense(player.LicenseFreight)
	require.Error(t, err)
	assert.Equal(t, "insufficient_reputation", shared.CodeOf(err))

	p.Reputation = 50
	require.NoError(t, p.UnlockLicense(player.LicenseFreight))
	assert.True(t, p.HasLicense(player.LicenseFreight))
	assert.Equal(t, int64(1000), p.Credits)

	err = p.UnlockLicense(player.LicenseFreight)
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err), "double unlock")
}

func TestUnlockLicense_ConvoyCosts(t *testing.T) {
	p := newPlayer()
	p.Reputation = 150
	p.Credits = 4999

	err := p.UnlockLicense(player.LicenseConvoy)
	require.Error(t, err)
	assert.Equal(t, "insufficient_credits", shared.CodeOf(err))
	assert.False(t, p.HasLicense(player.LicenseConvoy))

	p.Credits = 5000
	require.NoError(t, p.UnlockLicense(player.LicenseConvoy))
	assert.Zero(t, p.Credits)
}

func TestSpendCredits_FailsWithoutMutation(t *testing.T) {
	p := newPlayer()

	err := p.SpendCredits(501)
	require.Error(t, err)
	assert.Equal(t, player.StartingCredits, p.Credits)

	require.NoError(t, p.SpendCredits(500))
	assert.Zero(t, p.Credits)

	assert.Error(t, p.SpendCredits(-1))
}

func TestHalveReputation_FloorsTowardNegativeInfinity(t *testing.T) {
	tests := []struct{ in, want int }{
		{100, 50},
		{7, 3},
		{0, 0},
		{-7, -4},
		{-1, -1},
	}
	for _, tt := range tests {
		p := newPlayer()
		p.Reputation = tt.in
		p.HalveReputation()
		assert.Equal(t, tt.want, p.Reputation, "halving %d", tt.in)
	}
}

func TestResetForSeason_KeepsAccountShape(t *testing.T) {
	p := newPlayer()
	p.Credits = 9000
	p.Reputation = 300
	p.Inventory.Add(shared.ResourceOre, 50)
	p.Licenses[player.LicenseFreight] = true
	p.FactionID = "fac-1"
	p.TutorialStep = 4

	p.ResetForSeason()

	assert.Equal(t, player.StartingCredits, p.Credits)
	assert.True(t, p.Inventory.IsEmpty())
	assert.Equal(t, 150, p.Reputation)
	assert.True(t, p.HasLicense(player.LicenseFreight), "licenses survive")
	assert.Equal(t, "fac-1", p.FactionID, "membership survives")
	assert.Equal(t, 4, p.TutorialStep)
}

func TestTitle_Thresholds(t *testing.T) {
	tests := []struct {
		rep  int
		want string
	}{
		{-50, "Drifter"},
		{0, "Drifter"},
		{49, "Drifter"},
		{50, "Runner"},
		{149, "Runner"},
		{150, "Operator"},
		{399, "Operator"},
		{400, "Veteran"},
		{999, "Veteran"},
		{1000, "Legend"},
	}
	for _, tt := range tests {
		p := newPlayer()
		p.Reputation = tt.rep
		assert.Equal(t, tt.want, p.Title(), "reputation %d", tt.rep)
	}
}

func TestResetQuotaIfNewDay(t *testing.T) {
	const ticksPerDay = 1000
	p := newPlayer()
	p.ActionsToday = 150
	p.LastActionTick = 999

	p.ResetQuotaIfNewDay(999, ticksPerDay)
	assert.Equal(t, 150, p.ActionsToday, "same day keeps the count")

	p.ResetQuotaIfNewDay(1000, ticksPerDay)
	assert.Zero(t, p.ActionsToday, "day boundary resets")

	p.ActionsToday = 10
	p.ResetQuotaIfNewDay(1000, 0)
	assert.Equal(t, 10, p.ActionsToday, "zero divisor is a no-op")
}

func TestRecordActionAndActiveSince(t *testing.T) {
	p := newPlayer()

	p.RecordAction(500)
	p.RecordAction(510)

	assert.Equal(t, 2, p.ActionsToday)
	assert.Equal(t, int64(510), p.LastActionTick)
	assert.True(t, p.ActiveSince(510))
	assert.False(t, p.ActiveSince(511))
}

func TestAdvanceTutorial_Monotonic(t *testing.T) {
	p := newPlayer()

	p.AdvanceTutorial(3)
	p.AdvanceTutorial(2)

	assert.Equal(t, 3, p.TutorialStep)
}
