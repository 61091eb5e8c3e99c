package market

import (
	"context"
	"fmt"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// PlaceOrderCommand places a plain limit order in the caller's current
// zone. Matching happens during the tick, never at placement.
type PlaceOrderCommand struct {
	Side     string
	Resource string
	Price    int64
	Quantity int
}

func (c *PlaceOrderCommand) ActionName() string { return "place_order" }

func (c *PlaceOrderCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.MarketLock(actor.CurrentZoneID)}
}

// PlaceConditionalCommand places an order that enters the book only once
// the zone's last trade price crosses the trigger. Operator tier and up.
type PlaceConditionalCommand struct {
	Side         string
	Resource     string
	Price        int64
	Quantity     int
	TriggerOp    string
	TriggerPrice int64
}

func (c *PlaceConditionalCommand) ActionName() string { return "place_conditional" }

func (c *PlaceConditionalCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.MarketLock(actor.CurrentZoneID)}
}

// PlaceTWAPCommand places a time-weighted order that injects equal
// per-tick slices into the book. Operator tier and up.
type PlaceTWAPCommand struct {
	Side          string
	Resource      string
	Price         int64
	TotalQuantity int
	SlicePerTick  int
}

func (c *PlaceTWAPCommand) ActionName() string { return "place_twap" }

func (c *PlaceTWAPCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.MarketLock(actor.CurrentZoneID)}
}

// PlaceOrderResponse reports the resting order.
type PlaceOrderResponse struct {
	Order *market.Order
}

// PlaceOrderHandler handles the three order placement commands. They
// share the escrow and cap checks, so one handler serves them all.
type PlaceOrderHandler struct {
	players player.PlayerRepository
	zones   world.ZoneRepository
	orders  market.OrderRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewPlaceOrderHandler creates a new PlaceOrderHandler
func NewPlaceOrderHandler(
	players player.PlayerRepository,
	zones world.ZoneRepository,
	orders market.OrderRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *PlaceOrderHandler {
	return &PlaceOrderHandler{
		players: players,
		zones:   zones,
		orders:  orders,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes an order placement command
func (h *PlaceOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	switch cmd := request.(type) {
	case *PlaceOrderCommand:
		return h.place(ctx, actor, cmd.Side, cmd.Resource, cmd.Quantity, func(seq, tick int64) (*market.Order, error) {
			return market.NewLimitOrder(shared.NewID(), actor.ID, actor.CurrentZoneID,
				shared.Resource(cmd.Resource), market.Side(cmd.Side), cmd.Price, cmd.Quantity, tick, seq)
		})
	case *PlaceConditionalCommand:
		if !actor.Tier.AtLeast(player.TierOperator) {
			return nil, shared.NewPreconditionError("tier_too_low",
				"conditional orders require operator tier")
		}
		return h.place(ctx, actor, cmd.Side, cmd.Resource, cmd.Quantity, func(seq, tick int64) (*market.Order, error) {
			return market.NewConditionalOrder(shared.NewID(), actor.ID, actor.CurrentZoneID,
				shared.Resource(cmd.Resource), market.Side(cmd.Side), cmd.Price, cmd.Quantity,
				market.TriggerOp(cmd.TriggerOp), cmd.TriggerPrice, tick, seq)
		})
	case *PlaceTWAPCommand:
		if !actor.Tier.AtLeast(player.TierOperator) {
			return nil, shared.NewPreconditionError("tier_too_low",
				"time-weighted orders require operator tier")
		}
		return h.place(ctx, actor, cmd.Side, cmd.Resource, cmd.TotalQuantity, func(seq, tick int64) (*market.Order, error) {
			return market.NewTWAPOrder(shared.NewID(), actor.ID, actor.CurrentZoneID,
				shared.Resource(cmd.Resource), market.Side(cmd.Side), cmd.Price,
				cmd.TotalQuantity, cmd.SlicePerTick, tick, seq)
		})
	default:
		return nil, fmt.Errorf("invalid request type: expected an order placement command")
	}
}

// place runs the shared placement path: caps, escrow, persistence.
// escrowQty is the full quantity whose funds or goods are locked up;
// for TWAP that is the total across all slices.
func (h *PlaceOrderHandler) place(
	ctx context.Context,
	actor *player.Player,
	side, resource string,
	escrowQty int,
	build func(seq, tick int64) (*market.Order, error),
) (mediator.Response, error) {
	if side != string(market.SideBuy) && side != string(market.SideSell) {
		return nil, shared.NewValidationError("side", "must be buy or sell")
	}
	if !shared.IsValidResource(resource) {
		return nil, shared.NewValidationError("resource", "unknown resource")
	}

	zone, err := h.zones.FindByID(ctx, actor.CurrentZoneID)
	if err != nil {
		return nil, err
	}

	open, err := h.orders.CountOpenByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if open >= int64(actor.Tier.OrderCap()) {
		return nil, shared.NewPreconditionError("order_cap_reached",
			fmt.Sprintf("tier allows %d open orders", actor.Tier.OrderCap()))
	}

	zoneOrders, err := h.orders.FindOpenByZone(ctx, zone.ID)
	if err != nil {
		return nil, err
	}
	if len(zoneOrders) >= market.MaxOpenOrders(zone.DepthMultiplier) {
		return nil, shared.NewPreconditionError("book_full",
			"the zone's order book is at capacity")
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := h.orders.NextSeq(ctx)
	if err != nil {
		return nil, err
	}

	order, err := build(seq, meta.CurrentTick)
	if err != nil {
		return nil, err
	}

	// Escrow up front so matching and arming never fail on funds.
	switch order.Side {
	case market.SideBuy:
		if err := actor.SpendCredits(order.Price * int64(escrowQty)); err != nil {
			return nil, err
		}
	case market.SideSell:
		if err := actor.Inventory.Remove(order.Resource, escrowQty); err != nil {
			return nil, err
		}
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.orders.Add(ctx, order); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeOrderPlaced, meta.CurrentTick, actor.ID, map[string]any{
			"order":    order.ID,
			"zone":     order.ZoneID,
			"resource": string(order.Resource),
			"side":     string(order.Side),
			"type":     string(order.Type),
			"price":    order.Price,
			"quantity": order.Original,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderPlaced(string(order.Side), string(order.Type))
	return &PlaceOrderResponse{Order: order}, nil
}
