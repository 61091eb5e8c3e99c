package faction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/shared"
)

const ticksPerDay = 1000

func fundedFaction(t *testing.T) *faction.Faction {
	t.Helper()
	f := newFaction()
	require.NoError(t, f.AddMember("pl-officer", 101))
	require.NoError(t, f.Promote("pl-officer"))
	require.NoError(t, f.AddMember("pl-member", 102))
	require.NoError(t, f.DepositCredits(10_000))
	return f
}

func TestWithdrawCredits_FounderIsUnlimited(t *testing.T) {
	f := fundedFaction(t)

	require.NoError(t, f.WithdrawCredits("pl-founder", 9_000, 500, ticksPerDay))

	assert.Equal(t, int64(1_000), f.TreasuryCredits)
}

func TestWithdrawCredits_OfficerDailyLimit(t *testing.T) {
	f := fundedFaction(t)

	require.NoError(t, f.WithdrawCredits("pl-officer", 600, 500, ticksPerDay))

	err := f.WithdrawCredits("pl-officer", 500, 600, ticksPerDay)
	require.Error(t, err)
	assert.Equal(t, "withdraw_limit_exceeded", shared.CodeOf(err))
	assert.Equal(t, int64(9_400), f.TreasuryCredits, "failed withdrawal moves nothing")

	require.NoError(t, f.WithdrawCredits("pl-officer", 400, 700, ticksPerDay))
}

func TestWithdrawCredits_LimitResetsNextDay(t *testing.T) {
	f := fundedFaction(t)
	require.NoError(t, f.WithdrawCredits("pl-officer", 1_000, 500, ticksPerDay))

	err := f.WithdrawCredits("pl-officer", 1, 999, ticksPerDay)
	require.Error(t, err)

	require.NoError(t, f.WithdrawCredits("pl-officer", 1_000, 1_000, ticksPerDay),
		"day boundary restores the allowance")
}

func TestWithdrawCredits_RankAndFundsGating(t *testing.T) {
	f := fundedFaction(t)

	err := f.WithdrawCredits("pl-member", 10, 500, ticksPerDay)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", shared.CodeOf(err))

	err = f.WithdrawCredits("pl-founder", 20_000, 500, ticksPerDay)
	require.Error(t, err)
	assert.Equal(t, "insufficient_treasury", shared.CodeOf(err))

	assert.Error(t, f.WithdrawCredits("pl-founder", 0, 500, ticksPerDay))
	assert.Error(t, f.WithdrawCredits("pl-stranger", 10, 500, ticksPerDay))
}

func TestGoodsTreasury(t *testing.T) {
	f := fundedFaction(t)
	goods := shared.Inventory{shared.ResourceAmmo: 30}
	f.DepositGoods(goods)

	err := f.WithdrawGoods("pl-member", shared.Inventory{shared.ResourceAmmo: 1})
	require.Error(t, err, "members cannot withdraw")

	err = f.WithdrawGoods("pl-officer", shared.Inventory{shared.ResourceAmmo: 40})
	require.Error(t, err, "more than held")
	assert.Equal(t, 30, f.Treasury.Get(shared.ResourceAmmo))

	require.NoError(t, f.WithdrawGoods("pl-officer", shared.Inventory{shared.ResourceAmmo: 10}))
	assert.Equal(t, 20, f.Treasury.Get(shared.ResourceAmmo))
}

func TestEmptyTreasury(t *testing.T) {
	f := fundedFaction(t)
	f.DepositGoods(shared.Inventory{shared.ResourceOre: 5})

	f.EmptyTreasury()

	assert.Zero(t, f.TreasuryCredits)
	assert.True(t, f.Treasury.IsEmpty())
	assert.Len(t, f.Members, 3, "membership survives")
}
