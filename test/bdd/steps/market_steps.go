package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

type marketContext struct {
	orders      []*market.Order
	byOwner     map[string]*market.Order
	conditional *market.Order
	lastPrice   int64
	nextSeq     int64
	book        *market.Book
	result      market.MatchResult
}

func (mc *marketContext) reset() {
	mc.orders = nil
	mc.byOwner = make(map[string]*market.Order)
	mc.conditional = nil
	mc.lastPrice = 0
	mc.nextSeq = 0
	mc.book = nil
	mc.result = market.MatchResult{}
}

func (mc *marketContext) addLimit(side market.Side, qty int, price int64, owner string) error {
	mc.nextSeq++
	o, err := market.NewLimitOrder(
		fmt.Sprintf("ord-%d", mc.nextSeq), owner, "zn-hub",
		shared.ResourceOre, side, price, qty, 1, mc.nextSeq)
	if err != nil {
		return err
	}
	mc.orders = append(mc.orders, o)
	mc.byOwner[owner] = o
	return nil
}

func (mc *marketContext) anOpenSellOrder(qty int, price int64, owner string) error {
	return mc.addLimit(market.SideSell, qty, price, owner)
}

func (mc *marketContext) anOpenBuyOrder(qty int, price int64, owner string) error {
	return mc.addLimit(market.SideBuy, qty, price, owner)
}

func (mc *marketContext) aConditionalOrder(side string, qty int, price int64, direction string, triggerPrice int64) error {
	op := market.TriggerGTE
	if direction == "falls" {
		op = market.TriggerLTE
	}
	mc.nextSeq++
	o, err := market.NewConditionalOrder(
		fmt.Sprintf("ord-%d", mc.nextSeq), "trader", "zn-hub",
		shared.ResourceOre, market.Side(side), price, qty, op, triggerPrice, 1, mc.nextSeq)
	if err != nil {
		return err
	}
	mc.conditional = o
	mc.orders = append(mc.orders, o)
	return nil
}

func (mc *marketContext) theZoneHasNoLastTradePrice() error {
	mc.lastPrice = 0
	return nil
}

func (mc *marketContext) theLastTradePriceIs(price int64) error {
	mc.lastPrice = price
	return nil
}

func (mc *marketContext) theArmingCheckRuns() error {
	if mc.conditional.TriggerCrossed(mc.lastPrice) {
		mc.conditional.Arm()
	}
	return nil
}

func (mc *marketContext) theOrderShouldBeArmed() error {
	if !mc.conditional.Armed {
		return fmt.Errorf("expected the conditional to be armed")
	}
	return nil
}

func (mc *marketContext) theOrderShouldStayUnarmed() error {
	if mc.conditional.Armed {
		return fmt.Errorf("expected the conditional to stay unarmed")
	}
	return nil
}

func (mc *marketContext) theBookIsAssembled() error {
	mc.book = market.NewBook("zn-hub", shared.ResourceOre, mc.orders)
	return nil
}

func (mc *marketContext) theBookShouldBeEmpty() error {
	if mc.book.Depth() != 0 {
		return fmt.Errorf("expected an empty book, depth is %d", mc.book.Depth())
	}
	return nil
}

func (mc *marketContext) theBookMatches() error {
	mc.book = market.NewBook("zn-hub", shared.ResourceOre, mc.orders)
	n := 0
	mc.result = mc.book.Match(1, func() string {
		n++
		return fmt.Sprintf("trade-%d", n)
	})
	return nil
}

func (mc *marketContext) tradesShouldExecute(count int) error {
	if len(mc.result.Trades) != count {
		return fmt.Errorf("expected %d trades, got %d", count, len(mc.result.Trades))
	}
	return nil
}

func (mc *marketContext) noTradesShouldExecute() error {
	return mc.tradesShouldExecute(0)
}

func (mc *marketContext) theTradeShouldBe(qty int, price int64) error {
	if len(mc.result.Trades) == 0 {
		return fmt.Errorf("no trades executed")
	}
	tr := mc.result.Trades[0]
	if tr.Quantity != qty || tr.Price != price {
		return fmt.Errorf("expected %d at %d, got %d at %d", qty, price, tr.Quantity, tr.Price)
	}
	return nil
}

func (mc *marketContext) theBuyerShouldBeRefunded(refund int64) error {
	var total int64
	for _, f := range mc.result.Fills {
		total += f.CreditRefund
	}
	if total != refund {
		return fmt.Errorf("expected refund %d, got %d", refund, total)
	}
	return nil
}

func (mc *marketContext) theSellOrderShouldHaveRemaining(remaining int) error {
	for _, o := range mc.orders {
		if o.Side == market.SideSell {
			if o.Remaining != remaining {
				return fmt.Errorf("expected %d remaining, got %d", remaining, o.Remaining)
			}
			return nil
		}
	}
	return fmt.Errorf("no sell order in scenario")
}

func (mc *marketContext) ordersShouldBeCancelled(count int) error {
	if len(mc.result.Cancelled) != count {
		return fmt.Errorf("expected %d cancellations, got %d", count, len(mc.result.Cancelled))
	}
	return nil
}

func (mc *marketContext) theTradeShouldFillTheOrderFrom(owner string) error {
	if len(mc.result.Trades) == 0 {
		return fmt.Errorf("no trades executed")
	}
	o := mc.byOwner[owner]
	if o == nil {
		return fmt.Errorf("no order from %q in scenario", owner)
	}
	tr := mc.result.Trades[0]
	if tr.BuyOrderID != o.ID && tr.SellOrderID != o.ID {
		return fmt.Errorf("expected the trade to fill %s's order %s", owner, o.ID)
	}
	return nil
}

// InitializeMarketScenario registers the order book and conditional
// order step definitions.
func InitializeMarketScenario(ctx *godog.ScenarioContext) {
	mktCtx := &marketContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		mktCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^an open sell order of (\d+) ore at (\d+) credits from "([^"]*)"$`, mktCtx.anOpenSellOrder)
	ctx.Step(`^an open buy order of (\d+) ore at (\d+) credits from "([^"]*)"$`, mktCtx.anOpenBuyOrder)
	ctx.Step(`^a conditional (sell|buy) of (\d+) ore at (\d+) credits triggering when price (falls|rises) to (\d+)$`, mktCtx.aConditionalOrder)
	ctx.Step(`^the zone has no last trade price$`, mktCtx.theZoneHasNoLastTradePrice)
	ctx.Step(`^the last trade price is (\d+)$`, mktCtx.theLastTradePriceIs)
	ctx.Step(`^the arming check runs$`, mktCtx.theArmingCheckRuns)
	ctx.Step(`^the order should be armed$`, mktCtx.theOrderShouldBeArmed)
	ctx.Step(`^the order should stay unarmed$`, mktCtx.theOrderShouldStayUnarmed)
	ctx.Step(`^the book is assembled$`, mktCtx.theBookIsAssembled)
	ctx.Step(`^the book should be empty$`, mktCtx.theBookShouldBeEmpty)
	ctx.Step(`^the book matches$`, mktCtx.theBookMatches)
	ctx.Step(`^(\d+) trades? should execute$`, mktCtx.tradesShouldExecute)
	ctx.Step(`^no trades should execute$`, mktCtx.noTradesShouldExecute)
	ctx.Step(`^the trade should be (\d+) ore at (\d+) credits$`, mktCtx.theTradeShouldBe)
	ctx.Step(`^the buyer should be refunded (\d+) credits of escrow$`, mktCtx.theBuyerShouldBeRefunded)
	ctx.Step(`^the sell order should have (\d+) remaining$`, mktCtx.theSellOrderShouldHaveRemaining)
	ctx.Step(`^(\d+) orders? should be cancelled$`, mktCtx.ordersShouldBeCancelled)
	ctx.Step(`^the trade should fill the order from "([^"]*)"$`, mktCtx.theTradeShouldFillTheOrderFrom)
}
