package market

import (
	"sort"

	"burnrate/internal/domain/shared"
)

// Book is the live order book for one (zone, resource) pair: buys sorted
// best-first (descending price, then placement order), sells ascending.
// Only orders whose InBook() is true belong here; TWAP parents and
// unarmed conditionals are kept outside by the caller.
type Book struct {
	ZoneID   string
	Resource shared.Resource
	Buys     []*Order
	Sells    []*Order
}

// NewBook assembles a book from the open orders of one zone and
// resource. Orders on other books or not yet live are skipped.
func NewBook(zoneID string, resource shared.Resource, orders []*Order) *Book {
	b := &Book{ZoneID: zoneID, Resource: resource}
	for _, o := range orders {
		if o.ZoneID != zoneID || o.Resource != resource || !o.InBook() {
			continue
		}
		switch o.Side {
		case SideBuy:
			b.Buys = append(b.Buys, o)
		case SideSell:
			b.Sells = append(b.Sells, o)
		}
	}
	b.sortSides()
	return b
}

func (b *Book) sortSides() {
	sort.Slice(b.Buys, func(i, j int) bool {
		if b.Buys[i].Price != b.Buys[j].Price {
			return b.Buys[i].Price > b.Buys[j].Price
		}
		return b.Buys[i].Seq < b.Buys[j].Seq
	})
	sort.Slice(b.Sells, func(i, j int) bool {
		if b.Sells[i].Price != b.Sells[j].Price {
			return b.Sells[i].Price < b.Sells[j].Price
		}
		return b.Sells[i].Seq < b.Sells[j].Seq
	})
}

// Depth is the number of resting orders on both sides.
func (b *Book) Depth() int {
	return len(b.Buys) + len(b.Sells)
}

// BestBuy returns the highest-priced resting buy, or nil.
func (b *Book) BestBuy() *Order {
	if len(b.Buys) == 0 {
		return nil
	}
	return b.Buys[0]
}

// BestSell returns the lowest-priced resting sell, or nil.
func (b *Book) BestSell() *Order {
	if len(b.Sells) == 0 {
		return nil
	}
	return b.Sells[0]
}

// Fill is one side's settlement obligation from a single trade. Refund
// is the buy-side escrow released when the maker price undercuts the
// buyer's limit.
type Fill struct {
	Order        *Order
	Quantity     int
	Price        int64
	CreditRefund int64
}

// MatchResult is everything one matching pass produced. Cancelled holds
// orders removed without trading (wash-trade takers); the caller refunds
// their escrow.
type MatchResult struct {
	Trades    []*Trade
	Fills     []Fill
	Cancelled []*Order
}

// NewTradeID mints trade ids; injected so tests can make them stable.
type NewTradeID func() string

// Match runs price-time priority matching: while the best buy price
// reaches the best sell price, the two trade min(remaining) at the
// resting (earlier) order's price. When both sides belong to the same
// player the younger order is cancelled instead of trading. Fully
// filled orders are marked Filled and dropped from the book.
func (b *Book) Match(tick int64, newID NewTradeID) MatchResult {
	var res MatchResult
	for len(b.Buys) > 0 && len(b.Sells) > 0 {
		buy, sell := b.Buys[0], b.Sells[0]
		if buy.Price < sell.Price {
			break
		}

		// Wash trade: cancel the taker side and keep matching.
		if buy.OwnerID == sell.OwnerID {
			younger := buy
			if sell.Seq > buy.Seq {
				younger = sell
			}
			younger.Status = StatusCancelled
			res.Cancelled = append(res.Cancelled, younger)
			b.removeTop(younger.Side)
			continue
		}

		maker := buy
		if sell.Seq < buy.Seq {
			maker = sell
		}
		price := maker.Price

		qty := buy.Remaining
		if sell.Remaining < qty {
			qty = sell.Remaining
		}

		buy.Remaining -= qty
		sell.Remaining -= qty

		buyFill := Fill{Order: buy, Quantity: qty, Price: price}
		// Buy escrow was taken at the limit; a cheaper maker price
		// releases the difference immediately.
		buyFill.CreditRefund = (buy.Price - price) * int64(qty)
		buy.EscrowedCredits -= buy.Price * int64(qty)

		res.Trades = append(res.Trades, &Trade{
			ID:          newID(),
			ZoneID:      b.ZoneID,
			Resource:    b.Resource,
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			BuyerID:     buy.OwnerID,
			SellerID:    sell.OwnerID,
			Price:       price,
			Quantity:    qty,
			Tick:        tick,
		})
		res.Fills = append(res.Fills, buyFill, Fill{Order: sell, Quantity: qty, Price: price})

		if buy.Remaining == 0 {
			buy.Status = StatusFilled
			b.removeTop(SideBuy)
		}
		if sell.Remaining == 0 {
			sell.Status = StatusFilled
			b.removeTop(SideSell)
		}
	}
	return res
}

func (b *Book) removeTop(side Side) {
	switch side {
	case SideBuy:
		b.Buys = b.Buys[1:]
	case SideSell:
		b.Sells = b.Sells[1:]
	}
}

// LastPrice records the most recent trade price for a (zone, resource)
// pair; conditional orders arm against it.
type LastPrice struct {
	ZoneID   string
	Resource shared.Resource
	Price    int64
	Tick     int64
}

// BaseBookDepth is the open-order ceiling of a zone with depth
// multiplier 1.0.
const BaseBookDepth = 40

// MaxOpenOrders returns a zone's book capacity given its depth
// multiplier, rounding up.
func MaxOpenOrders(depthMultiplier float64) int {
	if depthMultiplier <= 0 {
		return BaseBookDepth
	}
	n := int(float64(BaseBookDepth) * depthMultiplier)
	if float64(n) < float64(BaseBookDepth)*depthMultiplier {
		n++
	}
	return n
}
