package faction

import (
	"burnrate/internal/domain/shared"
)

// Rank orders a member's authority inside a faction.
type Rank string

const (
	RankFounder Rank = "founder"
	RankOfficer Rank = "officer"
	RankMember  Rank = "member"
)

// Relation is a faction's stance toward another faction.
type Relation string

const (
	RelationAllied  Relation = "allied"
	RelationNeutral Relation = "neutral"
	RelationWar     Relation = "war"
)

// Member is one membership entry. WithdrawnToday tracks the officer
// daily treasury limit in tick-day arithmetic.
type Member struct {
	PlayerID         string
	Rank             Rank
	JoinedTick       int64
	WithdrawnToday   int64
	LastWithdrawTick int64
}

// Faction is a player organization holding zones, a shared treasury, and
// doctrine documents. Exactly one member is Founder.
type Faction struct {
	ID              string
	Name            string
	Tag             string
	FounderID       string
	TreasuryCredits int64
	Treasury        shared.Inventory
	WithdrawLimit   int64 // officer daily credit withdrawal ceiling
	DoctrineDigest  string
	Upgrades        map[string]int
	Relations       map[string]Relation
	Members         []*Member
	CreatedAtTick   int64
}

// DefaultWithdrawLimit is the officer daily withdrawal ceiling assigned
// at creation; founders can change it later.
const DefaultWithdrawLimit int64 = 1000

// NewFaction creates a faction with the founder as its only member.
func NewFaction(id, name, tag, founderID string, tick int64) *Faction {
	return &Faction{
		ID:              id,
		Name:            name,
		Tag:             tag,
		FounderID:       founderID,
		Treasury:        shared.NewInventory(),
		WithdrawLimit:   DefaultWithdrawLimit,
		Upgrades:        make(map[string]int),
		Relations:       make(map[string]Relation),
		Members:         []*Member{{PlayerID: founderID, Rank: RankFounder, JoinedTick: tick}},
		CreatedAtTick:   tick,
	}
}

// MemberByPlayer returns the membership entry for a player, or nil.
func (f *Faction) MemberByPlayer(playerID string) *Member {
	for _, m := range f.Members {
		if m.PlayerID == playerID {
			return m
		}
	}
	return nil
}

// RankOf returns a player's rank and whether they are a member at all.
func (f *Faction) RankOf(playerID string) (Rank, bool) {
	if m := f.MemberByPlayer(playerID); m != nil {
		return m.Rank, true
	}
	return "", false
}

// AddMember joins a player at Member rank.
func (f *Faction) AddMember(playerID string, tick int64) error {
	if f.MemberByPlayer(playerID) != nil {
		return shared.NewConflictError("already_member",
			"player is already a member of this faction")
	}
	f.Members = append(f.Members, &Member{PlayerID: playerID, Rank: RankMember, JoinedTick: tick})
	return nil
}

// RemoveMember drops a membership entry. The founder cannot be removed;
// leadership must be transferred or the faction disbanded.
func (f *Faction) RemoveMember(playerID string) error {
	m := f.MemberByPlayer(playerID)
	if m == nil {
		return shared.NewNotFoundError("member", playerID)
	}
	if m.Rank == RankFounder {
		return shared.NewPreconditionError("founder_cannot_leave",
			"transfer leadership or disband before leaving")
	}
	for i, existing := range f.Members {
		if existing.PlayerID == playerID {
			f.Members = append(f.Members[:i], f.Members[i+1:]...)
			break
		}
	}
	return nil
}

// Promote raises a Member to Officer.
func (f *Faction) Promote(playerID string) error {
	m := f.MemberByPlayer(playerID)
	if m == nil {
		return shared.NewNotFoundError("member", playerID)
	}
	if m.Rank != RankMember {
		return shared.NewPreconditionError("invalid_promotion",
			"only members can be promoted to officer")
	}
	m.Rank = RankOfficer
	return nil
}

// Demote lowers an Officer to Member.
func (f *Faction) Demote(playerID string) error {
	m := f.MemberByPlayer(playerID)
	if m == nil {
		return shared.NewNotFoundError("member", playerID)
	}
	if m.Rank != RankOfficer {
		return shared.NewPreconditionError("invalid_demotion",
			"only officers can be demoted")
	}
	m.Rank = RankMember
	return nil
}

// TransferLeadership reassigns Founder to another member and demotes the
// previous founder to Officer, atomically from the caller's perspective.
func (f *Faction) TransferLeadership(toPlayerID string) error {
	target := f.MemberByPlayer(toPlayerID)
	if target == nil {
		return shared.NewNotFoundError("member", toPlayerID)
	}
	if target.Rank == RankFounder {
		return shared.NewPreconditionError("already_founder",
			"player is already the founder")
	}
	previous := f.MemberByPlayer(f.FounderID)
	if previous != nil {
		previous.Rank = RankOfficer
	}
	target.Rank = RankFounder
	f.FounderID = toPlayerID
	return nil
}

// MemberIDs returns every member's player id.
func (f *Faction) MemberIDs() []string {
	ids := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		ids = append(ids, m.PlayerID)
	}
	return ids
}

// RelationTo returns the stance toward another faction, Neutral when
// none is recorded.
func (f *Faction) RelationTo(factionID string) Relation {
	if r, ok := f.Relations[factionID]; ok {
		return r
	}
	return RelationNeutral
}
