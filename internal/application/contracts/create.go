package contracts

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CreateContractCommand posts a job. FactionFunded escrows the reward
// from the faction treasury instead of the caller's balance, gated on
// the contract-posting capability.
type CreateContractCommand struct {
	Kind             string
	Details          contract.Details
	DeadlineTick     int64
	RewardCredits    int64
	RewardReputation int
	EarlyBonusTicks  int64
	EarlyBonus       int64
	FactionFunded    bool
}

func (c *CreateContractCommand) ActionName() string { return "create_contract" }

func (c *CreateContractCommand) LockKeys(actor *player.Player) []string {
	if c.FactionFunded {
		return []string{actions.FactionLock(actor.FactionID)}
	}
	return []string{actions.PlayerLock(actor.ID)}
}

// CreateContractResponse reports the posted contract.
type CreateContractResponse struct {
	Contract *contract.Contract
}

// CreateContractHandler handles the CreateContract command
type CreateContractHandler struct {
	players   player.PlayerRepository
	factions  faction.FactionRepository
	contracts contract.ContractRepository
	zones     world.ZoneRepository
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewCreateContractHandler creates a new CreateContractHandler
func NewCreateContractHandler(
	players player.PlayerRepository,
	factions faction.FactionRepository,
	contracts contract.ContractRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *CreateContractHandler {
	return &CreateContractHandler{
		players:   players,
		factions:  factions,
		contracts: contracts,
		zones:     zones,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes the CreateContract command
func (h *CreateContractHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateContractCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateContractCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !contract.IsValidKind(cmd.Kind) {
		return nil, shared.NewValidationError("kind", "must be haul, supply, or scout")
	}
	if err := h.validateTargets(ctx, contract.Kind(cmd.Kind), cmd.Details); err != nil {
		return nil, err
	}

	posterID := actor.ID
	posterKind := contract.PosterPlayer
	var fundingFaction *faction.Faction
	if cmd.FactionFunded {
		if actor.FactionID == "" {
			return nil, shared.NewPreconditionError("not_in_faction",
				"faction-funded contracts need a faction")
		}
		fundingFaction, err = h.factions.FindByID(ctx, actor.FactionID)
		if err != nil {
			return nil, err
		}
		if !fundingFaction.Can(actor.ID, faction.CapPostContracts) {
			return nil, shared.NewPreconditionError("permission_denied",
				"rank cannot post contracts with faction funds")
		}
		posterID = fundingFaction.ID
		posterKind = contract.PosterFaction
	}

	open, err := h.contracts.CountOpenByPoster(ctx, posterID)
	if err != nil {
		return nil, err
	}
	if open >= int64(actor.Tier.ContractCap()) {
		return nil, shared.NewPreconditionError("contract_cap_reached",
			fmt.Sprintf("tier allows %d open contracts", actor.Tier.ContractCap()))
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	c, err := contract.NewContract(shared.NewID(), contract.Kind(cmd.Kind), posterID, posterKind,
		cmd.Details, cmd.DeadlineTick, cmd.RewardCredits, cmd.RewardReputation,
		cmd.EarlyBonusTicks, cmd.EarlyBonus, meta.CurrentTick)
	if err != nil {
		return nil, err
	}

	// Escrow the full payout at posting.
	if posterKind == contract.PosterFaction {
		if fundingFaction.TreasuryCredits < c.EscrowedCredits {
			return nil, shared.NewPreconditionError("insufficient_treasury",
				"insufficient treasury credits")
		}
		fundingFaction.TreasuryCredits -= c.EscrowedCredits
	} else {
		if err := actor.SpendCredits(c.EscrowedCredits); err != nil {
			return nil, err
		}
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.contracts.Add(ctx, c); err != nil {
			return err
		}
		if posterKind == contract.PosterFaction {
			if err := h.factions.Update(ctx, fundingFaction); err != nil {
				return err
			}
		} else {
			if err := h.players.Update(ctx, actor); err != nil {
				return err
			}
		}
		return h.emitter.Emit(ctx, event.TypeContractCreated, meta.CurrentTick, actor.ID, map[string]any{
			"contract": c.ID,
			"kind":     string(c.Kind),
			"poster":   posterID,
			"reward":   c.RewardCredits,
		})
	})
	if err != nil {
		return nil, err
	}
	return &CreateContractResponse{Contract: c}, nil
}

// validateTargets confirms the referenced zones exist so a typo does not
// produce an uncompletable posting.
func (h *CreateContractHandler) validateTargets(ctx context.Context, kind contract.Kind, d contract.Details) error {
	check := func(zoneID string) error {
		if zoneID == "" {
			return nil
		}
		_, err := h.zones.FindByID(ctx, zoneID)
		return err
	}
	switch kind {
	case contract.KindHaul:
		if err := check(d.FromZoneID); err != nil {
			return err
		}
		return check(d.ToZoneID)
	case contract.KindSupply:
		return check(d.ZoneID)
	case contract.KindScout:
		if d.TargetType == "zone" {
			return check(d.TargetID)
		}
	}
	return nil
}
