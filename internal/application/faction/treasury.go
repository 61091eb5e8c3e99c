package faction

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// TreasuryDepositCommand moves credits and goods from the caller's
// inventory into the faction treasury. Any member may deposit.
type TreasuryDepositCommand struct {
	Credits int64
	Goods   map[string]int
}

func (c *TreasuryDepositCommand) ActionName() string { return "treasury_deposit" }

func (c *TreasuryDepositCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// TreasuryWithdrawCommand moves credits and goods from the treasury to
// the caller. Officers respect the daily credit limit; founders do not.
type TreasuryWithdrawCommand struct {
	Credits int64
	Goods   map[string]int
}

func (c *TreasuryWithdrawCommand) ActionName() string { return "treasury_withdraw" }

func (c *TreasuryWithdrawCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// TreasuryResponse reports the treasury after the transfer.
type TreasuryResponse struct {
	TreasuryCredits int64
	Treasury        shared.Inventory
	PlayerCredits   int64
	PlayerInventory shared.Inventory
}

// TreasuryHandler handles the treasury deposit and withdraw commands.
type TreasuryHandler struct {
	players     player.PlayerRepository
	factions    faction.FactionRepository
	meta        world.MetaRepository
	txm         shared.TxManager
	emitter     *actions.Emitter
	ticksPerDay int64
}

// NewTreasuryHandler creates a new TreasuryHandler
func NewTreasuryHandler(
	players player.PlayerRepository,
	factions faction.FactionRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
	ticksPerDay int64,
) *TreasuryHandler {
	return &TreasuryHandler{
		players:     players,
		factions:    factions,
		meta:        meta,
		txm:         txm,
		emitter:     emitter,
		ticksPerDay: ticksPerDay,
	}
}

// Handle executes a treasury command
func (h *TreasuryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	f, err := h.factions.FindByID(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}

	switch cmd := request.(type) {
	case *TreasuryDepositCommand:
		return h.deposit(ctx, actor, f, cmd)
	case *TreasuryWithdrawCommand:
		return h.withdraw(ctx, actor, f, cmd)
	default:
		return nil, fmt.Errorf("invalid request type: expected a treasury command")
	}
}

func goodsInventory(goods map[string]int) (shared.Inventory, error) {
	inv := shared.NewInventory()
	for name, qty := range goods {
		if !shared.IsValidResource(name) {
			return nil, shared.NewValidationError("goods", "unknown resource "+name)
		}
		if qty <= 0 {
			return nil, shared.NewValidationError("goods", "quantities must be positive")
		}
		inv.Add(shared.Resource(name), qty)
	}
	return inv, nil
}

func (h *TreasuryHandler) deposit(ctx context.Context, actor *player.Player, f *faction.Faction, cmd *TreasuryDepositCommand) (mediator.Response, error) {
	if cmd.Credits < 0 {
		return nil, shared.NewValidationError("credits", "must be non-negative")
	}
	goods, err := goodsInventory(cmd.Goods)
	if err != nil {
		return nil, err
	}
	if cmd.Credits == 0 && goods.IsEmpty() {
		return nil, shared.NewValidationError("deposit", "nothing to deposit")
	}
	if !f.Can(actor.ID, faction.CapDepositTreasury) {
		return nil, shared.NewPreconditionError("permission_denied",
			"rank cannot deposit to the treasury")
	}

	if cmd.Credits > 0 {
		if err := actor.SpendCredits(cmd.Credits); err != nil {
			return nil, err
		}
		if err := f.DepositCredits(cmd.Credits); err != nil {
			return nil, err
		}
	}
	if !goods.IsEmpty() {
		if err := actor.Inventory.RemoveAll(goods); err != nil {
			return nil, err
		}
		f.DepositGoods(goods)
	}
	return h.save(ctx, actor, f, event.TypeTreasuryDeposit, cmd.Credits, goods)
}

func (h *TreasuryHandler) withdraw(ctx context.Context, actor *player.Player, f *faction.Faction, cmd *TreasuryWithdrawCommand) (mediator.Response, error) {
	if cmd.Credits < 0 {
		return nil, shared.NewValidationError("credits", "must be non-negative")
	}
	goods, err := goodsInventory(cmd.Goods)
	if err != nil {
		return nil, err
	}
	if cmd.Credits == 0 && goods.IsEmpty() {
		return nil, shared.NewValidationError("withdraw", "nothing to withdraw")
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.Credits > 0 {
		if err := f.WithdrawCredits(actor.ID, cmd.Credits, meta.CurrentTick, h.ticksPerDay); err != nil {
			return nil, err
		}
		actor.AddCredits(cmd.Credits)
	}
	if !goods.IsEmpty() {
		if err := f.WithdrawGoods(actor.ID, goods); err != nil {
			return nil, err
		}
		actor.Inventory.AddAll(goods)
	}
	return h.save(ctx, actor, f, event.TypeTreasuryWithdraw, cmd.Credits, goods)
}

func (h *TreasuryHandler) save(ctx context.Context, actor *player.Player, f *faction.Faction, eventType string, credits int64, goods shared.Inventory) (mediator.Response, error) {
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		data := map[string]any{"faction": f.ID, "credits": credits}
		if !goods.IsEmpty() {
			data["goods"] = goods
		}
		return h.emitter.Emit(ctx, eventType, meta.CurrentTick, actor.ID, data)
	})
	if err != nil {
		return nil, err
	}
	return &TreasuryResponse{
		TreasuryCredits: f.TreasuryCredits,
		Treasury:        f.Treasury.Clone(),
		PlayerCredits:   actor.Credits,
		PlayerInventory: actor.Inventory.Clone(),
	}, nil
}
