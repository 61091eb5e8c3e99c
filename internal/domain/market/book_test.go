package market_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

func stableTradeIDs() market.NewTradeID {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tr-%d", n)
	}
}

func limit(t *testing.T, id, owner string, side market.Side, price int64, qty int, seq int64) *market.Order {
	t.Helper()
	o, err := market.NewLimitOrder(id, owner, "zn-1", shared.ResourceOre, side, price, qty, 1, seq)
	require.NoError(t, err)
	return o
}

func TestNewBook_FiltersAndSorts(t *testing.T) {
	orders := []*market.Order{
		limit(t, "b1", "x", market.SideBuy, 10, 5, 1),
		limit(t, "b2", "y", market.SideBuy, 12, 5, 2),
		limit(t, "b3", "z", market.SideBuy, 12, 5, 3),
		limit(t, "s1", "w", market.SideSell, 15, 5, 4),
	}
	other := limit(t, "b9", "x", market.SideBuy, 99, 5, 5)
	other.ZoneID = "zn-2"
	orders = append(orders, other)

	parent, err := market.NewTWAPOrder("tw", "x", "zn-1", shared.ResourceOre,
		market.SideBuy, 20, 50, 10, 1, 6)
	require.NoError(t, err)
	orders = append(orders, parent)

	b := market.NewBook("zn-1", shared.ResourceOre, orders)

	require.Len(t, b.Buys, 3)
	assert.Equal(t, "b2", b.Buys[0].ID, "highest price first, earlier seq breaks ties")
	assert.Equal(t, "b3", b.Buys[1].ID)
	assert.Equal(t, "b1", b.Buys[2].ID)
	assert.Equal(t, "s1", b.BestSell().ID)
	assert.Equal(t, 4, b.Depth())
}

func TestMatch_TradesAtMakerPriceWithEscrowRefund(t *testing.T) {
	// Resting sell 50@12, incoming buy 30@14: one trade of 30 at the
	// maker's 12, buyer refunded the 2-credit improvement per unit.
	sell := limit(t, "s1", "seller", market.SideSell, 12, 50, 1)
	buy := limit(t, "b1", "buyer", market.SideBuy, 14, 30, 2)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{sell, buy})

	res := b.Match(10, stableTradeIDs())

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, int64(12), tr.Price)
	assert.Equal(t, 30, tr.Quantity)
	assert.Equal(t, "buyer", tr.BuyerID)
	assert.Equal(t, "seller", tr.SellerID)
	assert.Equal(t, int64(10), tr.Tick)

	assert.Equal(t, market.StatusFilled, buy.Status)
	assert.Zero(t, buy.EscrowedCredits)
	assert.Equal(t, market.StatusOpen, sell.Status)
	assert.Equal(t, 20, sell.Remaining)

	require.Len(t, res.Fills, 2)
	buyFill := res.Fills[0]
	assert.Equal(t, int64((14-12)*30), buyFill.CreditRefund)
	sellFill := res.Fills[1]
	assert.Equal(t, int64(12), sellFill.Price)
	assert.Zero(t, sellFill.CreditRefund)
}

func TestMatch_BuyMakerSetsPrice(t *testing.T) {
	buy := limit(t, "b1", "buyer", market.SideBuy, 14, 30, 1)
	sell := limit(t, "s1", "seller", market.SideSell, 12, 30, 2)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{sell, buy})

	res := b.Match(10, stableTradeIDs())

	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(14), res.Trades[0].Price, "resting buy is the maker")
	assert.Zero(t, res.Fills[0].CreditRefund, "no improvement at own limit")
}

func TestMatch_NoCrossNoTrade(t *testing.T) {
	buy := limit(t, "b1", "buyer", market.SideBuy, 10, 5, 1)
	sell := limit(t, "s1", "seller", market.SideSell, 11, 5, 2)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{sell, buy})

	res := b.Match(10, stableTradeIDs())

	assert.Empty(t, res.Trades)
	assert.Equal(t, market.StatusOpen, buy.Status)
	assert.Equal(t, market.StatusOpen, sell.Status)
}

func TestMatch_SweepsMultipleLevels(t *testing.T) {
	s1 := limit(t, "s1", "alice", market.SideSell, 10, 10, 1)
	s2 := limit(t, "s2", "bob", market.SideSell, 12, 10, 2)
	buy := limit(t, "b1", "carol", market.SideBuy, 12, 15, 3)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{s1, s2, buy})

	res := b.Match(10, stableTradeIDs())

	require.Len(t, res.Trades, 2)
	assert.Equal(t, int64(10), res.Trades[0].Price)
	assert.Equal(t, 10, res.Trades[0].Quantity)
	assert.Equal(t, int64(12), res.Trades[1].Price)
	assert.Equal(t, 5, res.Trades[1].Quantity)

	assert.Equal(t, market.StatusFilled, buy.Status)
	assert.Equal(t, market.StatusFilled, s1.Status)
	assert.Equal(t, 5, s2.Remaining)
}

func TestMatch_WashTradeCancelsYoungerOrder(t *testing.T) {
	sell := limit(t, "s1", "alice", market.SideSell, 10, 10, 1)
	wash := limit(t, "b1", "alice", market.SideBuy, 12, 10, 2)
	other := limit(t, "b2", "bob", market.SideBuy, 11, 10, 3)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{sell, wash, other})

	res := b.Match(10, stableTradeIDs())

	require.Len(t, res.Cancelled, 1)
	assert.Equal(t, "b1", res.Cancelled[0].ID, "the younger side of the self-cross cancels")
	assert.Equal(t, market.StatusCancelled, wash.Status)

	// Matching continues past the cancellation.
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "bob", res.Trades[0].BuyerID)
	assert.Equal(t, int64(10), res.Trades[0].Price)
}

func TestMatch_PriceTimePriorityAcrossEqualPrices(t *testing.T) {
	s1 := limit(t, "s1", "alice", market.SideSell, 10, 5, 1)
	s2 := limit(t, "s2", "bob", market.SideSell, 10, 5, 2)
	buy := limit(t, "b1", "carol", market.SideBuy, 10, 5, 3)
	b := market.NewBook("zn-1", shared.ResourceOre, []*market.Order{s2, s1, buy})

	res := b.Match(10, stableTradeIDs())

	require.Len(t, res.Trades, 1)
	assert.Equal(t, "s1", res.Trades[0].SellOrderID, "earlier seq fills first")
	assert.Equal(t, market.StatusOpen, s2.Status)
}
