package faction

import (
	"context"
	"fmt"
	"strings"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CreateFactionCommand founds a faction. The caller becomes Founder and
// must not already belong to one.
type CreateFactionCommand struct {
	Name string
	Tag  string
}

func (c *CreateFactionCommand) ActionName() string { return "create_faction" }

func (c *CreateFactionCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.PlayerLock(actor.ID)}
}

// CreateFactionResponse reports the new faction.
type CreateFactionResponse struct {
	Faction *faction.Faction
}

// JoinFactionCommand joins an existing faction at Member rank.
type JoinFactionCommand struct {
	FactionID string
}

func (c *JoinFactionCommand) ActionName() string { return "join_faction" }

func (c *JoinFactionCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(c.FactionID)}
}

// JoinFactionResponse reports the joined faction.
type JoinFactionResponse struct {
	Faction *faction.Faction
}

// LeaveFactionCommand leaves the caller's faction. Founders must
// transfer leadership or disband instead.
type LeaveFactionCommand struct{}

func (c *LeaveFactionCommand) ActionName() string { return "leave_faction" }

func (c *LeaveFactionCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// LeaveFactionResponse acknowledges the departure.
type LeaveFactionResponse struct {
	FactionID string
}

// PromoteMemberCommand raises a Member to Officer. Founder only.
type PromoteMemberCommand struct {
	PlayerID string
}

func (c *PromoteMemberCommand) ActionName() string { return "promote_member" }

func (c *PromoteMemberCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID), actions.PlayerLock(c.PlayerID)}
}

// DemoteMemberCommand lowers an Officer to Member. Founder only.
type DemoteMemberCommand struct {
	PlayerID string
}

func (c *DemoteMemberCommand) ActionName() string { return "demote_member" }

func (c *DemoteMemberCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID), actions.PlayerLock(c.PlayerID)}
}

// KickMemberCommand removes a member. Officers can kick Members; kicking
// an Officer takes the Founder.
type KickMemberCommand struct {
	PlayerID string
}

func (c *KickMemberCommand) ActionName() string { return "kick_member" }

func (c *KickMemberCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID), actions.PlayerLock(c.PlayerID)}
}

// TransferLeadershipCommand hands Founder to another member and demotes
// the caller to Officer, in one step.
type TransferLeadershipCommand struct {
	PlayerID string
}

func (c *TransferLeadershipCommand) ActionName() string { return "transfer_leadership" }

func (c *TransferLeadershipCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID), actions.PlayerLock(c.PlayerID)}
}

// DisbandFactionCommand dissolves the faction: members released, owned
// zones revert to neutral, treasury is forfeit. Founder only.
type DisbandFactionCommand struct{}

func (c *DisbandFactionCommand) ActionName() string { return "disband_faction" }

func (c *DisbandFactionCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// MembershipResponse reports the faction after a rank or roster change.
type MembershipResponse struct {
	Faction *faction.Faction
}

// MembershipHandler handles the faction membership commands.
type MembershipHandler struct {
	players  player.PlayerRepository
	factions faction.FactionRepository
	zones    world.ZoneRepository
	meta     world.MetaRepository
	txm      shared.TxManager
	emitter  *actions.Emitter
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(
	players player.PlayerRepository,
	factions faction.FactionRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *MembershipHandler {
	return &MembershipHandler{
		players:  players,
		factions: factions,
		zones:    zones,
		meta:     meta,
		txm:      txm,
		emitter:  emitter,
	}
}

// Handle executes a membership command
func (h *MembershipHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	switch cmd := request.(type) {
	case *CreateFactionCommand:
		return h.create(ctx, actor, cmd)
	case *JoinFactionCommand:
		return h.join(ctx, actor, cmd)
	case *LeaveFactionCommand:
		return h.leave(ctx, actor)
	case *PromoteMemberCommand:
		return h.promote(ctx, actor, cmd)
	case *DemoteMemberCommand:
		return h.demote(ctx, actor, cmd)
	case *KickMemberCommand:
		return h.kick(ctx, actor, cmd)
	case *TransferLeadershipCommand:
		return h.transfer(ctx, actor, cmd)
	case *DisbandFactionCommand:
		return h.disband(ctx, actor)
	default:
		return nil, fmt.Errorf("invalid request type: expected a membership command")
	}
}

// ownFaction loads the caller's faction, failing when unaffiliated.
func (h *MembershipHandler) ownFaction(ctx context.Context, actor *player.Player) (*faction.Faction, error) {
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	return h.factions.FindByID(ctx, actor.FactionID)
}

func (h *MembershipHandler) create(ctx context.Context, actor *player.Player, cmd *CreateFactionCommand) (mediator.Response, error) {
	if actor.FactionID != "" {
		return nil, shared.NewConflictError("already_in_faction",
			"leave your current faction first")
	}
	name := strings.TrimSpace(cmd.Name)
	tag := strings.ToUpper(strings.TrimSpace(cmd.Tag))
	if len(name) < 3 || len(name) > 30 {
		return nil, shared.NewValidationError("name", "must be 3-30 characters")
	}
	if len(tag) < 2 || len(tag) > 5 {
		return nil, shared.NewValidationError("tag", "must be 2-5 characters")
	}
	if existing, err := h.factions.FindByName(ctx, name); err == nil && existing != nil {
		return nil, shared.NewConflictError("name_taken", "faction name is taken")
	}
	if existing, err := h.factions.FindByTag(ctx, tag); err == nil && existing != nil {
		return nil, shared.NewConflictError("tag_taken", "faction tag is taken")
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	f := faction.NewFaction(shared.NewID(), name, tag, actor.ID, meta.CurrentTick)
	actor.FactionID = f.ID

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.factions.Add(ctx, f); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeFactionCreated, meta.CurrentTick, actor.ID, map[string]any{
			"faction": f.ID,
			"name":    f.Name,
			"tag":     f.Tag,
		})
	})
	if err != nil {
		return nil, err
	}
	return &CreateFactionResponse{Faction: f}, nil
}

func (h *MembershipHandler) join(ctx context.Context, actor *player.Player, cmd *JoinFactionCommand) (mediator.Response, error) {
	if actor.FactionID != "" {
		return nil, shared.NewConflictError("already_in_faction",
			"leave your current faction first")
	}
	f, err := h.factions.FindByID(ctx, cmd.FactionID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.AddMember(actor.ID, meta.CurrentTick); err != nil {
		return nil, err
	}
	actor.FactionID = f.ID

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeFactionJoined, meta.CurrentTick, actor.ID, map[string]any{
			"faction": f.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &JoinFactionResponse{Faction: f}, nil
}

func (h *MembershipHandler) leave(ctx context.Context, actor *player.Player) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := f.RemoveMember(actor.ID); err != nil {
		return nil, err
	}
	left := actor.FactionID
	actor.FactionID = ""

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
		return h.emitter.Emit(ctx, event.TypeFactionLeft, meta.CurrentTick, actor.ID, map[string]any{
			"faction": left,
		})
	})
	if err != nil {
		return nil, err
	}
	return &LeaveFactionResponse{FactionID: left}, nil
}

func (h *MembershipHandler) promote(ctx context.Context, actor *player.Player, cmd *PromoteMemberCommand) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !f.Can(actor.ID, faction.CapPromoteOfficer) {
		return nil, shared.NewPreconditionError("permission_denied",
			"only the founder can promote officers")
	}
	if err := f.Promote(cmd.PlayerID); err != nil {
		return nil, err
	}
	return h.saveRosterChange(ctx, actor, f, event.TypeMemberPromoted, cmd.PlayerID)
}

func (h *MembershipHandler) demote(ctx context.Context, actor *player.Player, cmd *DemoteMemberCommand) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !f.Can(actor.ID, faction.CapPromoteOfficer) {
		return nil, shared.NewPreconditionError("permission_denied",
			"only the founder can demote officers")
	}
	if err := f.Demote(cmd.PlayerID); err != nil {
		return nil, err
	}
	return h.saveRosterChange(ctx, actor, f, event.TypeMemberDemoted, cmd.PlayerID)
}

func (h *MembershipHandler) kick(ctx context.Context, actor *player.Player, cmd *KickMemberCommand) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if cmd.PlayerID == actor.ID {
		return nil, shared.NewPreconditionError("cannot_kick_self", "use leave instead")
	}
	rank, isMember := f.RankOf(cmd.PlayerID)
	if !isMember {
		return nil, shared.NewNotFoundError("member", cmd.PlayerID)
	}
	required := faction.CapKickMember
	if rank == faction.RankOfficer {
		required = faction.CapKickOfficer
	}
	if !f.Can(actor.ID, required) {
		return nil, shared.NewPreconditionError("permission_denied",
			"rank cannot kick this member")
	}
	if err := f.RemoveMember(cmd.PlayerID); err != nil {
		return nil, err
	}

	kicked, err := h.players.FindByID(ctx, cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	kicked.FactionID = ""

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		if err := h.players.Update(ctx, kicked); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeMemberKicked, meta.CurrentTick, actor.ID, map[string]any{
			"faction": f.ID,
			"player":  cmd.PlayerID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &MembershipResponse{Faction: f}, nil
}

func (h *MembershipHandler) transfer(ctx context.Context, actor *player.Player, cmd *TransferLeadershipCommand) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !f.Can(actor.ID, faction.CapTransferLeadership) {
		return nil, shared.NewPreconditionError("permission_denied",
			"only the founder can transfer leadership")
	}
	if err := f.TransferLeadership(cmd.PlayerID); err != nil {
		return nil, err
	}
	return h.saveRosterChange(ctx, actor, f, event.TypeLeadershipTransferred, cmd.PlayerID)
}

func (h *MembershipHandler) disband(ctx context.Context, actor *player.Player) (mediator.Response, error) {
	f, err := h.ownFaction(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !f.Can(actor.ID, faction.CapDisband) {
		return nil, shared.NewPreconditionError("permission_denied",
			"only the founder can disband the faction")
	}

	zones, err := h.zones.FindByOwner(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		// Owned zones revert to neutral so ownership never dangles.
		for _, z := range zones {
			z.Release()
			if err := h.zones.Update(ctx, z); err != nil {
				return err
			}
		}
		for _, memberID := range f.MemberIDs() {
			member, err := h.players.FindByID(ctx, memberID)
			if err != nil {
				return err
			}
			member.FactionID = ""
			if err := h.players.Update(ctx, member); err != nil {
				return err
			}
		}
		if err := h.factions.Delete(ctx, f.ID); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeFactionLeft, meta.CurrentTick, actor.ID, map[string]any{
			"faction":   f.ID,
			"disbanded": true,
		})
	})
	if err != nil {
		return nil, err
	}
	return &MembershipResponse{Faction: f}, nil
}

func (h *MembershipHandler) saveRosterChange(ctx context.Context, actor *player.Player, f *faction.Faction, eventType, subjectID string) (mediator.Response, error) {
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, eventType, meta.CurrentTick, actor.ID, map[string]any{
			"faction": f.ID,
			"player":  subjectID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &MembershipResponse{Faction: f}, nil
}
