package tick

import (
	"context"
	"sort"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

// progressTWAP injects each TWAP parent's next slice as a plain limit
// order carrying its share of the escrow, then counts the parent down
// and expires it once every slice is out.
func (e *Engine) progressTWAP(ctx context.Context, tick int64) error {
	open, err := e.orders.FindOpen(ctx)
	if err != nil {
		return err
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Seq < open[j].Seq })

	for _, o := range open {
		if o.Type != market.TypeTWAP {
			continue
		}
		seq, err := e.orders.NextSeq(ctx)
		if err != nil {
			return err
		}
		if slice := o.NextSlice(shared.NewID(), tick, seq); slice != nil {
			if err := e.orders.Add(ctx, slice); err != nil {
				return err
			}
		}
		if o.TicksRemaining > 0 {
			o.TicksRemaining--
		}
		if o.TicksRemaining == 0 {
			o.Status = market.StatusExpired
			err := e.emitter.EmitSystem(ctx, event.TypeOrderExpired, tick, map[string]any{
				"order":  o.ID,
				"owner":  o.OwnerID,
				"reason": "twap_complete",
			})
			if err != nil {
				return err
			}
		}
		if err := e.orders.Update(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// armConditionals re-evaluates every unarmed conditional against its
// zone's last trade price and arms the ones whose trigger crossed.
// Zones with no trade history never arm anything.
func (e *Engine) armConditionals(ctx context.Context) error {
	open, err := e.orders.FindOpen(ctx)
	if err != nil {
		return err
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Seq < open[j].Seq })

	for _, o := range open {
		if o.Type != market.TypeConditional || o.Armed {
			continue
		}
		lp, err := e.prices.Get(ctx, o.ZoneID, o.Resource)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				continue
			}
			return err
		}
		if !o.TriggerCrossed(lp.Price) {
			continue
		}
		o.Arm()
		if err := e.orders.Update(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

type bookKey struct {
	zoneID   string
	resource shared.Resource
}

// matchMarkets runs price-time priority matching for every (zone,
// resource) book with live orders, settles the fills, refunds wash
// cancellations, and records trades and last prices.
func (e *Engine) matchMarkets(ctx context.Context, tick int64) error {
	open, err := e.orders.FindOpen(ctx)
	if err != nil {
		return err
	}

	grouped := make(map[bookKey][]*market.Order)
	for _, o := range open {
		if !o.InBook() {
			continue
		}
		k := bookKey{zoneID: o.ZoneID, resource: o.Resource}
		grouped[k] = append(grouped[k], o)
	}
	keys := make([]bookKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].zoneID != keys[j].zoneID {
			return keys[i].zoneID < keys[j].zoneID
		}
		return keys[i].resource < keys[j].resource
	})

	for _, k := range keys {
		book := market.NewBook(k.zoneID, k.resource, grouped[k])
		res := book.Match(tick, shared.NewID)
		if err := e.settleBook(ctx, k, res, tick); err != nil {
			return err
		}
	}
	return nil
}

// settleBook persists one book's matching pass: trades recorded, the
// last price advanced, buyer goods and seller credits moved, buy-side
// price-improvement refunds released, and wash-cancelled orders
// refunded in full.
func (e *Engine) settleBook(ctx context.Context, k bookKey, res market.MatchResult, tick int64) error {
	for _, t := range res.Trades {
		if err := e.trades.Add(ctx, t); err != nil {
			return err
		}
		metrics.RecordTrade(string(t.Resource), t.Price, t.Quantity)
		err := e.emitter.EmitSystem(ctx, event.TypeTradeExecuted, tick, map[string]any{
			"zone":     t.ZoneID,
			"resource": string(t.Resource),
			"buyer":    t.BuyerID,
			"seller":   t.SellerID,
			"price":    t.Price,
			"quantity": t.Quantity,
		})
		if err != nil {
			return err
		}
	}
	if n := len(res.Trades); n > 0 {
		last := res.Trades[n-1]
		err := e.prices.Save(ctx, &market.LastPrice{
			ZoneID:   k.zoneID,
			Resource: k.resource,
			Price:    last.Price,
			Tick:     tick,
		})
		if err != nil {
			return err
		}
		metrics.SetLastTradePrice(k.zoneID, string(k.resource), float64(last.Price))
	}

	updated := make(map[string]*market.Order)
	for _, f := range res.Fills {
		updated[f.Order.ID] = f.Order
		switch f.Order.Side {
		case market.SideBuy:
			buyer, err := e.players.FindByID(ctx, f.Order.OwnerID)
			if err != nil {
				return err
			}
			buyer.Inventory.Add(k.resource, f.Quantity)
			if err := e.players.Update(ctx, buyer); err != nil {
				return err
			}
			if f.CreditRefund > 0 {
				if err := e.players.AddCredits(ctx, f.Order.OwnerID, f.CreditRefund); err != nil {
					return err
				}
			}
		case market.SideSell:
			proceeds := f.Price * int64(f.Quantity)
			if err := e.players.AddCredits(ctx, f.Order.OwnerID, proceeds); err != nil {
				return err
			}
		}
	}

	for _, o := range res.Cancelled {
		updated[o.ID] = o
		if err := e.refundOrder(ctx, o); err != nil {
			return err
		}
		err := e.emitter.EmitSystem(ctx, event.TypeOrderCancelled, tick, map[string]any{
			"order":  o.ID,
			"owner":  o.OwnerID,
			"reason": "wash",
		})
		if err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(updated))
	for id := range updated {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := e.orders.Update(ctx, updated[id]); err != nil {
			return err
		}
	}
	return nil
}

// refundOrder returns an order's escrow to its owner: remaining credits
// for buys, remaining goods for sells.
func (e *Engine) refundOrder(ctx context.Context, o *market.Order) error {
	switch o.Side {
	case market.SideBuy:
		if o.EscrowedCredits > 0 {
			if err := e.players.AddCredits(ctx, o.OwnerID, o.EscrowedCredits); err != nil {
				return err
			}
			o.EscrowedCredits = 0
		}
	case market.SideSell:
		if o.Remaining > 0 {
			owner, err := e.players.FindByID(ctx, o.OwnerID)
			if err != nil {
				return err
			}
			owner.Inventory.Add(o.Resource, o.Remaining)
			if err := e.players.Update(ctx, owner); err != nil {
				return err
			}
		}
	}
	return nil
}
