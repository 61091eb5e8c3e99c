package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

func TestNewLimitOrder_Validation(t *testing.T) {
	_, err := market.NewLimitOrder("or-1", "pl-1", "zn-1", shared.ResourceOre,
		market.SideBuy, 0, 10, 1, 1)
	assert.Error(t, err, "price must be positive")

	_, err = market.NewLimitOrder("or-1", "pl-1", "zn-1", shared.ResourceOre,
		market.SideBuy, 10, 0, 1, 1)
	assert.Error(t, err, "quantity must be positive")
}

func TestNewLimitOrder_BuyEscrowsCredits(t *testing.T) {
	buy, err := market.NewLimitOrder("or-1", "pl-1", "zn-1", shared.ResourceOre,
		market.SideBuy, 12, 30, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(360), buy.EscrowedCredits)

	sell, err := market.NewLimitOrder("or-2", "pl-2", "zn-1", shared.ResourceOre,
		market.SideSell, 12, 30, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, sell.EscrowedCredits, "sell orders escrow goods, not credits")
}

func TestConditionalOrder_ArmingLifecycle(t *testing.T) {
	o, err := market.NewConditionalOrder("or-1", "pl-1", "zn-1", shared.ResourceFuel,
		market.SideBuy, 10, 5, market.TriggerLTE, 8, 1, 1)
	require.NoError(t, err)

	assert.False(t, o.InBook(), "unarmed conditionals stay outside the book")
	assert.False(t, o.TriggerCrossed(0), "no last price never arms")
	assert.False(t, o.TriggerCrossed(9))
	assert.True(t, o.TriggerCrossed(8))
	assert.True(t, o.TriggerCrossed(7))

	o.Arm()
	assert.True(t, o.InBook())
}

func TestConditionalOrder_GTETrigger(t *testing.T) {
	o, err := market.NewConditionalOrder("or-1", "pl-1", "zn-1", shared.ResourceFuel,
		market.SideSell, 20, 5, market.TriggerGTE, 15, 1, 1)
	require.NoError(t, err)

	assert.False(t, o.TriggerCrossed(14))
	assert.True(t, o.TriggerCrossed(15))
}

func TestConditionalOrder_Validation(t *testing.T) {
	_, err := market.NewConditionalOrder("or-1", "pl-1", "zn-1", shared.ResourceFuel,
		market.SideBuy, 10, 5, market.TriggerOp("between"), 8, 1, 1)
	assert.Error(t, err)

	_, err = market.NewConditionalOrder("or-1", "pl-1", "zn-1", shared.ResourceFuel,
		market.SideBuy, 10, 5, market.TriggerLTE, 0, 1, 1)
	assert.Error(t, err)
}

func TestTWAPOrder_SliceSchedule(t *testing.T) {
	parent, err := market.NewTWAPOrder("or-1", "pl-1", "zn-1", shared.ResourceMetal,
		market.SideBuy, 10, 25, 10, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, parent.TicksRemaining, "ceil(25/10)")
	assert.Equal(t, int64(250), parent.EscrowedCredits)
	assert.False(t, parent.InBook(), "parents never rest in the book")

	s1 := parent.NextSlice("or-1-s1", 2, 5)
	require.NotNil(t, s1)
	assert.Equal(t, 10, s1.Remaining)
	assert.Equal(t, market.TypeLimit, s1.Type)
	assert.Equal(t, "or-1", s1.ParentOrderID)
	assert.Equal(t, int64(100), s1.EscrowedCredits)
	assert.Equal(t, int64(150), parent.EscrowedCredits, "escrow follows the slice")

	s2 := parent.NextSlice("or-1-s2", 3, 6)
	require.NotNil(t, s2)
	assert.Equal(t, 10, s2.Remaining)

	s3 := parent.NextSlice("or-1-s3", 4, 7)
	require.NotNil(t, s3)
	assert.Equal(t, 5, s3.Remaining, "final slice carries the remainder")
	assert.Equal(t, int64(50), s3.EscrowedCredits)
	assert.Zero(t, parent.Remaining)
	assert.Zero(t, parent.EscrowedCredits)

	assert.Nil(t, parent.NextSlice("or-1-s4", 5, 8), "exhausted parent injects nothing")
}

func TestTWAPOrder_Validation(t *testing.T) {
	_, err := market.NewTWAPOrder("or-1", "pl-1", "zn-1", shared.ResourceMetal,
		market.SideBuy, 10, 25, 0, 1, 1)
	assert.Error(t, err, "slice must be positive")

	_, err = market.NewTWAPOrder("or-1", "pl-1", "zn-1", shared.ResourceMetal,
		market.SideBuy, 10, 25, 30, 1, 1)
	assert.Error(t, err, "slice must not exceed total")
}

func TestMaxOpenOrders(t *testing.T) {
	assert.Equal(t, 40, market.MaxOpenOrders(1.0))
	assert.Equal(t, 80, market.MaxOpenOrders(2.0))
	assert.Equal(t, 60, market.MaxOpenOrders(1.5))
	assert.Equal(t, 50, market.MaxOpenOrders(1.25))
	assert.Equal(t, 45, market.MaxOpenOrders(1.11), "rounds up")
	assert.Equal(t, 40, market.MaxOpenOrders(0), "zero multiplier falls back to base")
}
