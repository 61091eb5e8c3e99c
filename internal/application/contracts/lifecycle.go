package contracts

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/application/season"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CompletionReputation is the flat reputation award for finishing any
// contract, on top of whatever the posting offers.
const CompletionReputation = 10

// AcceptContractCommand binds an open contract to the caller.
type AcceptContractCommand struct {
	ContractID string
}

func (c *AcceptContractCommand) ActionName() string { return "accept_contract" }

func (c *AcceptContractCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ContractLock(c.ContractID)}
}

// CompleteContractCommand claims a finished contract's payout. The
// type-specific criterion is verified here.
type CompleteContractCommand struct {
	ContractID string
}

func (c *CompleteContractCommand) ActionName() string { return "complete_contract" }

func (c *CompleteContractCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ContractLock(c.ContractID)}
}

// CancelContractCommand withdraws the caller's open posting, refunding
// escrow minus the cancellation fee.
type CancelContractCommand struct {
	ContractID string
}

func (c *CancelContractCommand) ActionName() string { return "cancel_contract" }

func (c *CancelContractCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.ContractLock(c.ContractID)}
}

// ContractResponse reports the contract after a lifecycle change.
type ContractResponse struct {
	Contract *contract.Contract
	Payout   int64
	Refund   int64
}

// LifecycleHandler handles accept, complete, and cancel.
type LifecycleHandler struct {
	players   player.PlayerRepository
	factions  faction.FactionRepository
	contracts contract.ContractRepository
	zones     world.ZoneRepository
	intel     intel.ReportRepository
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
	recorder  *season.Recorder
}

// NewLifecycleHandler creates a new LifecycleHandler
func NewLifecycleHandler(
	players player.PlayerRepository,
	factions faction.FactionRepository,
	contracts contract.ContractRepository,
	zones world.ZoneRepository,
	intelRepo intel.ReportRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
	recorder *season.Recorder,
) *LifecycleHandler {
	return &LifecycleHandler{
		players:   players,
		factions:  factions,
		contracts: contracts,
		zones:     zones,
		intel:     intelRepo,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
		recorder:  recorder,
	}
}

// Handle executes a contract lifecycle command
func (h *LifecycleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	switch cmd := request.(type) {
	case *AcceptContractCommand:
		return h.accept(ctx, actor, cmd)
	case *CompleteContractCommand:
		return h.complete(ctx, actor, cmd)
	case *CancelContractCommand:
		return h.cancel(ctx, actor, cmd)
	default:
		return nil, fmt.Errorf("invalid request type: expected a contract lifecycle command")
	}
}

func (h *LifecycleHandler) accept(ctx context.Context, actor *player.Player, cmd *AcceptContractCommand) (mediator.Response, error) {
	c, err := h.contracts.FindByID(ctx, cmd.ContractID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Accept(actor.ID, meta.CurrentTick); err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.contracts.Update(ctx, c); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeContractAccepted, meta.CurrentTick, actor.ID, map[string]any{
			"contract": c.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ContractResponse{Contract: c}, nil
}

func (h *LifecycleHandler) complete(ctx context.Context, actor *player.Player, cmd *CompleteContractCommand) (mediator.Response, error) {
	c, err := h.contracts.FindByID(ctx, cmd.ContractID)
	if err != nil {
		return nil, err
	}
	if c.AcceptedBy != actor.ID {
		return nil, shared.NewPreconditionError("not_the_acceptor",
			"only the acceptor can complete a contract")
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	deliverTo, err := h.verifyCriterion(ctx, actor, c, meta.CurrentTick)
	if err != nil {
		return nil, err
	}

	payout, err := c.Complete(meta.CurrentTick)
	if err != nil {
		return nil, err
	}
	actor.AddCredits(payout)
	repGain := CompletionReputation + c.RewardReputation
	actor.AddReputation(repGain)

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.contracts.Update(ctx, c); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		if deliverTo != nil {
			if err := h.zones.Update(ctx, deliverTo); err != nil {
				return err
			}
		}
		if err := h.recorder.PlayerContract(ctx, meta.Season, actor, meta.CurrentTick); err != nil {
			return err
		}
		if err := h.recorder.PlayerReputation(ctx, meta.Season, actor, repGain, meta.CurrentTick); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeContractCompleted, meta.CurrentTick, actor.ID, map[string]any{
			"contract": c.ID,
			"payout":   payout,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ContractResponse{Contract: c, Payout: payout}, nil
}

// verifyCriterion checks the type-specific completion condition and
// applies its side effects to in-memory state. Haul consumes the cargo
// from the acceptor and lands it in the destination zone, returned for
// persistence.
func (h *LifecycleHandler) verifyCriterion(ctx context.Context, actor *player.Player, c *contract.Contract, tick int64) (*world.Zone, error) {
	switch c.Kind {
	case contract.KindHaul:
		if actor.CurrentZoneID != c.Details.ToZoneID {
			return nil, shared.NewPreconditionError("wrong_zone",
				"delivery must happen at the destination zone")
		}
		if !actor.Inventory.Has(c.Details.Resource, c.Details.Quantity) {
			return nil, shared.NewPreconditionError("insufficient_goods",
				"contracted goods are not in your inventory")
		}
		zone, err := h.zones.FindByID(ctx, c.Details.ToZoneID)
		if err != nil {
			return nil, err
		}
		if err := actor.Inventory.Remove(c.Details.Resource, c.Details.Quantity); err != nil {
			return nil, err
		}
		zone.Inventory.Add(c.Details.Resource, c.Details.Quantity)
		return zone, nil

	case contract.KindSupply:
		if c.Progress < c.Details.Amount {
			return nil, shared.NewPreconditionError("supply_incomplete",
				fmt.Sprintf("%d of %d supply units delivered", c.Progress, c.Details.Amount))
		}
		return nil, nil

	case contract.KindScout:
		report, err := h.intel.FreshestByTarget(ctx, actor.ID,
			intel.TargetType(c.Details.TargetType), c.Details.TargetID)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return nil, shared.NewPreconditionError("no_intel",
					"no intel gathered on the target")
			}
			return nil, err
		}
		if intel.FreshnessAt(tick-report.GatheredAt) != intel.FreshnessFresh {
			return nil, shared.NewPreconditionError("intel_stale",
				"intel on the target is no longer fresh")
		}
		return nil, nil
	}
	return nil, shared.NewValidationError("kind", "unknown contract kind")
}

func (h *LifecycleHandler) cancel(ctx context.Context, actor *player.Player, cmd *CancelContractCommand) (mediator.Response, error) {
	c, err := h.contracts.FindByID(ctx, cmd.ContractID)
	if err != nil {
		return nil, err
	}

	var fundingFaction *faction.Faction
	switch c.PosterKind {
	case contract.PosterPlayer:
		if c.PosterID != actor.ID {
			return nil, shared.NewPreconditionError("not_the_poster",
				"only the poster can cancel a contract")
		}
	case contract.PosterFaction:
		fundingFaction, err = h.factions.FindByID(ctx, c.PosterID)
		if err != nil {
			return nil, err
		}
		if !fundingFaction.Can(actor.ID, faction.CapPostContracts) {
			return nil, shared.NewPreconditionError("permission_denied",
				"rank cannot manage faction contracts")
		}
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	refund, err := c.Cancel(meta.CurrentTick)
	if err != nil {
		return nil, err
	}
	if fundingFaction != nil {
		fundingFaction.TreasuryCredits += refund
	} else {
		actor.AddCredits(refund)
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.contracts.Update(ctx, c); err != nil {
			return err
		}
		if fundingFaction != nil {
			if err := h.factions.Update(ctx, fundingFaction); err != nil {
				return err
			}
		} else {
			if err := h.players.Update(ctx, actor); err != nil {
				return err
			}
		}
		return h.emitter.Emit(ctx, event.TypeContractCancelled, meta.CurrentTick, actor.ID, map[string]any{
			"contract": c.ID,
			"refund":   refund,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ContractResponse{Contract: c, Refund: refund}, nil
}
