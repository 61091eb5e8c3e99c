package market

import (
	"burnrate/internal/domain/shared"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType distinguishes plain limit orders from the conditional and
// time-weighted variants.
type OrderType string

const (
	TypeLimit       OrderType = "limit"
	TypeConditional OrderType = "conditional"
	TypeTWAP        OrderType = "twap"
)

// TriggerOp is the comparison a conditional order applies to the zone's
// last trade price.
type TriggerOp string

const (
	TriggerLTE TriggerOp = "lte"
	TriggerGTE TriggerOp = "gte"
)

// OrderStatus is an order's lifecycle state.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
	StatusExpired   OrderStatus = "expired"
)

// Order is an entry in a zone's book for one resource. Buy orders hold
// their escrowed credits on the order itself so refunds are exact; sell
// orders escrow goods at placement. Seq totally orders placement for
// price-time priority.
type Order struct {
	ID              string
	OwnerID         string
	ZoneID          string
	Resource        shared.Resource
	Side            Side
	Type            OrderType
	Price           int64
	Remaining       int
	Original        int
	EscrowedCredits int64
	Status          OrderStatus

	// Conditional fields. An unarmed conditional sits outside the live
	// book until its trigger crosses.
	TriggerOp    TriggerOp
	TriggerPrice int64
	Armed        bool

	// TWAP fields. The parent never enters the book; injected slices
	// reference it through ParentOrderID.
	TotalQuantity  int
	SlicePerTick   int
	TicksRemaining int
	ParentOrderID  string

	CreatedAtTick int64
	Seq           int64
}

// NewLimitOrder creates a plain resting order.
func NewLimitOrder(id, ownerID, zoneID string, resource shared.Resource, side Side, price int64, qty int, tick, seq int64) (*Order, error) {
	if err := validateOrder(price, qty); err != nil {
		return nil, err
	}
	o := &Order{
		ID:            id,
		OwnerID:       ownerID,
		ZoneID:        zoneID,
		Resource:      resource,
		Side:          side,
		Type:          TypeLimit,
		Price:         price,
		Remaining:     qty,
		Original:      qty,
		Status:        StatusOpen,
		CreatedAtTick: tick,
		Seq:           seq,
	}
	if side == SideBuy {
		o.EscrowedCredits = price * int64(qty)
	}
	return o, nil
}

// NewConditionalOrder creates an unarmed conditional order. Escrow is
// held from placement so arming never fails on funds.
func NewConditionalOrder(id, ownerID, zoneID string, resource shared.Resource, side Side, price int64, qty int, op TriggerOp, triggerPrice int64, tick, seq int64) (*Order, error) {
	if err := validateOrder(price, qty); err != nil {
		return nil, err
	}
	if op != TriggerLTE && op != TriggerGTE {
		return nil, shared.NewValidationError("trigger", "op must be lte or gte")
	}
	if triggerPrice <= 0 {
		return nil, shared.NewValidationError("trigger_price", "must be positive")
	}
	o := &Order{
		ID:            id,
		OwnerID:       ownerID,
		ZoneID:        zoneID,
		Resource:      resource,
		Side:          side,
		Type:          TypeConditional,
		Price:         price,
		Remaining:     qty,
		Original:      qty,
		Status:        StatusOpen,
		TriggerOp:     op,
		TriggerPrice:  triggerPrice,
		CreatedAtTick: tick,
		Seq:           seq,
	}
	if side == SideBuy {
		o.EscrowedCredits = price * int64(qty)
	}
	return o, nil
}

// NewTWAPOrder creates a time-weighted parent order. Remaining tracks
// the not-yet-injected quantity; TicksRemaining counts injection ticks.
func NewTWAPOrder(id, ownerID, zoneID string, resource shared.Resource, side Side, price int64, total, slicePerTick int, tick, seq int64) (*Order, error) {
	if err := validateOrder(price, total); err != nil {
		return nil, err
	}
	if slicePerTick <= 0 {
		return nil, shared.NewValidationError("slice_per_tick", "must be positive")
	}
	if slicePerTick > total {
		return nil, shared.NewValidationError("slice_per_tick", "must not exceed total quantity")
	}
	ticks := total / slicePerTick
	if total%slicePerTick != 0 {
		ticks++
	}
	o := &Order{
		ID:             id,
		OwnerID:        ownerID,
		ZoneID:         zoneID,
		Resource:       resource,
		Side:           side,
		Type:           TypeTWAP,
		Price:          price,
		Remaining:      total,
		Original:       total,
		Status:         StatusOpen,
		TotalQuantity:  total,
		SlicePerTick:   slicePerTick,
		TicksRemaining: ticks,
		CreatedAtTick:  tick,
		Seq:            seq,
	}
	if side == SideBuy {
		o.EscrowedCredits = price * int64(total)
	}
	return o, nil
}

func validateOrder(price int64, qty int) error {
	if price <= 0 {
		return shared.NewValidationError("price", "must be positive")
	}
	if qty <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	return nil
}

// TriggerCrossed reports whether the conditional trigger is satisfied by
// the given last trade price. A zone with no trades yet never arms.
func (o *Order) TriggerCrossed(lastPrice int64) bool {
	if lastPrice <= 0 {
		return false
	}
	switch o.TriggerOp {
	case TriggerLTE:
		return lastPrice <= o.TriggerPrice
	case TriggerGTE:
		return lastPrice >= o.TriggerPrice
	default:
		return false
	}
}

// Arm converts a crossed conditional into a live book entry.
func (o *Order) Arm() {
	o.Armed = true
}

// NextSlice splits the next TWAP slice off the parent, returning the new
// slice order carrying its share of the escrow. Returns nil when the
// parent has nothing left to inject.
func (o *Order) NextSlice(sliceID string, tick, seq int64) *Order {
	if o.Type != TypeTWAP || o.Remaining <= 0 {
		return nil
	}
	qty := o.SlicePerTick
	if qty > o.Remaining {
		qty = o.Remaining
	}
	slice := &Order{
		ID:            sliceID,
		OwnerID:       o.OwnerID,
		ZoneID:        o.ZoneID,
		Resource:      o.Resource,
		Side:          o.Side,
		Type:          TypeLimit,
		Price:         o.Price,
		Remaining:     qty,
		Original:      qty,
		Status:        StatusOpen,
		ParentOrderID: o.ID,
		CreatedAtTick: tick,
		Seq:           seq,
	}
	if o.Side == SideBuy {
		slice.EscrowedCredits = o.Price * int64(qty)
		o.EscrowedCredits -= slice.EscrowedCredits
	}
	o.Remaining -= qty
	return slice
}

// IsOpen reports whether the order still rests or can still inject.
func (o *Order) IsOpen() bool {
	return o.Status == StatusOpen
}

// InBook reports whether the order belongs in the live matching book:
// plain limits and armed conditionals. TWAP parents and unarmed
// conditionals never rest in the book.
func (o *Order) InBook() bool {
	if o.Status != StatusOpen {
		return false
	}
	switch o.Type {
	case TypeLimit:
		return true
	case TypeConditional:
		return o.Armed
	default:
		return false
	}
}
