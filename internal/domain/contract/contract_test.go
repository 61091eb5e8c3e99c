package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/shared"
)

func haulDetails() contract.Details {
	return contract.Details{
		FromZoneID: "zn-1",
		ToZoneID:   "zn-2",
		Resource:   shared.ResourceRations,
		Quantity:   50,
	}
}

func newHaul(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.NewContract("ct-1", contract.KindHaul, "pl-poster", contract.PosterPlayer,
		haulDetails(), 1000, 400, 10, 0, 0, 100)
	require.NoError(t, err)
	return c
}

func TestNewContract_EscrowsRewardAndBonus(t *testing.T) {
	c, err := contract.NewContract("ct-1", contract.KindHaul, "pl-1", contract.PosterPlayer,
		haulDetails(), 1000, 400, 0, 200, 100, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(500), c.EscrowedCredits, "bonus is escrowed alongside the reward")
	assert.Equal(t, contract.StatusOpen, c.Status)
}

func TestNewContract_Validation(t *testing.T) {
	_, err := contract.NewContract("ct-1", contract.KindHaul, "pl-1", contract.PosterPlayer,
		haulDetails(), 100, 400, 10, 0, 0, 100)
	assert.Error(t, err, "deadline must be in the future")

	_, err = contract.NewContract("ct-1", contract.KindHaul, "pl-1", contract.PosterPlayer,
		haulDetails(), 1000, 0, 0, 0, 0, 100)
	assert.Error(t, err, "must offer credits or reputation")

	_, err = contract.NewContract("ct-1", contract.KindHaul, "pl-1", contract.PosterPlayer,
		contract.Details{FromZoneID: "zn-1"}, 1000, 400, 0, 0, 0, 100)
	assert.Error(t, err, "haul needs both zones and cargo terms")

	_, err = contract.NewContract("ct-1", contract.KindSupply, "pl-1", contract.PosterPlayer,
		contract.Details{ZoneID: "zn-1", Amount: 0}, 1000, 400, 0, 0, 0, 100)
	assert.Error(t, err, "supply needs a positive amount")

	_, err = contract.NewContract("ct-1", contract.KindScout, "pl-1", contract.PosterPlayer,
		contract.Details{TargetType: "player", TargetID: "x"}, 1000, 400, 0, 0, 0, 100)
	assert.Error(t, err, "scout targets zones or routes")

	_, err = contract.NewContract("ct-1", contract.Kind("bounty"), "pl-1", contract.PosterPlayer,
		haulDetails(), 1000, 400, 0, 0, 0, 100)
	assert.Error(t, err, "unknown kind")
}

func TestAccept_RejectsOwnPosting(t *testing.T) {
	c := newHaul(t)

	err := c.Accept("pl-poster", 150)
	require.Error(t, err)
	assert.Equal(t, "own_contract", shared.CodeOf(err))

	require.NoError(t, c.Accept("pl-hauler", 150))
	assert.Equal(t, contract.StatusAccepted, c.Status)
	assert.Equal(t, "pl-hauler", c.AcceptedBy)

	assert.Error(t, c.Accept("pl-other", 151), "already accepted")
}

func TestAccept_FactionPostingsAcceptableByPoster(t *testing.T) {
	c, err := contract.NewContract("ct-1", contract.KindHaul, "fac-1", contract.PosterFaction,
		haulDetails(), 1000, 400, 0, 0, 0, 100)
	require.NoError(t, err)

	assert.NoError(t, c.Accept("fac-1", 150))
}

func TestComplete_PayoutAndEarlyBonus(t *testing.T) {
	c, err := contract.NewContract("ct-1", contract.KindHaul, "pl-poster", contract.PosterPlayer,
		haulDetails(), 1000, 400, 0, 200, 100, 100)
	require.NoError(t, err)
	require.NoError(t, c.Accept("pl-hauler", 150))

	payout, err := c.Complete(800)
	require.NoError(t, err)

	assert.Equal(t, int64(500), payout, "finished 200 ticks early earns the bonus")
	assert.Equal(t, contract.StatusCompleted, c.Status)
	assert.Zero(t, c.EscrowedCredits)
}

func TestComplete_NoBonusInsideWindow(t *testing.T) {
	c, err := contract.NewContract("ct-1", contract.KindHaul, "pl-poster", contract.PosterPlayer,
		haulDetails(), 1000, 400, 0, 200, 100, 100)
	require.NoError(t, err)
	require.NoError(t, c.Accept("pl-hauler", 150))

	payout, err := c.Complete(900)
	require.NoError(t, err)

	assert.Equal(t, int64(400), payout)
}

func TestComplete_RejectsPastDeadline(t *testing.T) {
	c := newHaul(t)
	require.NoError(t, c.Accept("pl-hauler", 150))

	_, err := c.Complete(1001)
	require.Error(t, err)
	assert.Equal(t, "contract_past_deadline", shared.CodeOf(err))
}

func TestCancel_RefundsMinusFee(t *testing.T) {
	c := newHaul(t)

	refund, err := c.Cancel(200)
	require.NoError(t, err)

	assert.Equal(t, int64(380), refund, "5% fee on the 400 escrow")
	assert.Equal(t, contract.StatusCancelled, c.Status)
	assert.Zero(t, c.EscrowedCredits)
}

func TestCancel_AcceptedContractsRunToResolution(t *testing.T) {
	c := newHaul(t)
	require.NoError(t, c.Accept("pl-hauler", 150))

	_, err := c.Cancel(200)
	assert.Error(t, err)
}

func TestExpire_RefundsPoster(t *testing.T) {
	c := newHaul(t)
	require.NoError(t, c.Accept("pl-hauler", 150))

	assert.False(t, c.IsDue(999))
	assert.True(t, c.IsDue(1000))

	refund := c.Expire(1000)

	assert.Equal(t, int64(380), refund)
	assert.Equal(t, contract.StatusExpired, c.Status)
	assert.False(t, c.IsDue(1001), "resolved contracts are never due again")
}

func TestAddProgress_IgnoresNonPositive(t *testing.T) {
	c, err := contract.NewContract("ct-1", contract.KindSupply, "pl-1", contract.PosterPlayer,
		contract.Details{ZoneID: "zn-1", Amount: 100}, 1000, 0, 20, 0, 0, 100)
	require.NoError(t, err)

	c.AddProgress(30)
	c.AddProgress(-5)
	c.AddProgress(0)

	assert.Equal(t, 30, c.Progress)
}
