package market

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CancelOrderCommand pulls one of the caller's open orders and refunds
// whatever is still escrowed on it.
type CancelOrderCommand struct {
	OrderID string
}

func (c *CancelOrderCommand) ActionName() string { return "cancel_order" }

func (c *CancelOrderCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.PlayerLock(actor.ID)}
}

// CancelOrderResponse reports the refund.
type CancelOrderResponse struct {
	Order           *market.Order
	CreditsRefunded int64
	GoodsRefunded   int
}

// CancelOrderHandler handles the CancelOrder command
type CancelOrderHandler struct {
	players player.PlayerRepository
	orders  market.OrderRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewCancelOrderHandler creates a new CancelOrderHandler
func NewCancelOrderHandler(
	players player.PlayerRepository,
	orders market.OrderRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *CancelOrderHandler {
	return &CancelOrderHandler{
		players: players,
		orders:  orders,
		meta:    meta,
		txm:     txm,
		emitter: emitter,
	}
}

// Handle executes the CancelOrder command
func (h *CancelOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CancelOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelOrderCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != actor.ID {
		return nil, shared.NewPreconditionError("not_your_order", "order is not yours")
	}
	if !order.IsOpen() {
		return nil, shared.NewPreconditionError("order_not_open",
			"only open orders can be cancelled")
	}

	var creditsBack int64
	var goodsBack int
	switch order.Side {
	case market.SideBuy:
		creditsBack = order.EscrowedCredits
		actor.AddCredits(creditsBack)
		order.EscrowedCredits = 0
	case market.SideSell:
		goodsBack = order.Remaining
		actor.Inventory.Add(order.Resource, goodsBack)
	}
	order.Status = market.StatusCancelled

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.orders.Update(ctx, order); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeOrderCancelled, meta.CurrentTick, actor.ID, map[string]any{
			"order":  order.ID,
			"reason": "manual",
		})
	})
	if err != nil {
		return nil, err
	}

	return &CancelOrderResponse{
		Order:           order,
		CreditsRefunded: creditsBack,
		GoodsRefunded:   goodsBack,
	}, nil
}
