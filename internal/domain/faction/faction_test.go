package faction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/shared"
)

func newFaction() *faction.Faction {
	return faction.NewFaction("fac-1", "Iron Column", "IRC", "pl-founder", 100)
}

func TestNewFaction_FounderIsOnlyMember(t *testing.T) {
	f := newFaction()

	require.Len(t, f.Members, 1)
	rank, ok := f.RankOf("pl-founder")
	require.True(t, ok)
	assert.Equal(t, faction.RankFounder, rank)
	assert.Equal(t, faction.DefaultWithdrawLimit, f.WithdrawLimit)
}

func TestMembershipLifecycle(t *testing.T) {
	f := newFaction()

	require.NoError(t, f.AddMember("pl-2", 101))
	assert.Error(t, f.AddMember("pl-2", 102), "double join")

	require.NoError(t, f.Promote("pl-2"))
	rank, _ := f.RankOf("pl-2")
	assert.Equal(t, faction.RankOfficer, rank)

	assert.Error(t, f.Promote("pl-2"), "officers cannot be promoted again")

	require.NoError(t, f.Demote("pl-2"))
	rank, _ = f.RankOf("pl-2")
	assert.Equal(t, faction.RankMember, rank)

	require.NoError(t, f.RemoveMember("pl-2"))
	_, ok := f.RankOf("pl-2")
	assert.False(t, ok)

	err := f.RemoveMember("pl-founder")
	require.Error(t, err)
	assert.Equal(t, "founder_cannot_leave", shared.CodeOf(err))
}

func TestTransferLeadership(t *testing.T) {
	f := newFaction()
	require.NoError(t, f.AddMember("pl-2", 101))

	require.NoError(t, f.TransferLeadership("pl-2"))

	assert.Equal(t, "pl-2", f.FounderID)
	rank, _ := f.RankOf("pl-2")
	assert.Equal(t, faction.RankFounder, rank)
	rank, _ = f.RankOf("pl-founder")
	assert.Equal(t, faction.RankOfficer, rank, "previous founder becomes officer")

	assert.Error(t, f.TransferLeadership("pl-2"), "already the founder")
	assert.Error(t, f.TransferLeadership("pl-missing"))
}

func TestRankCapabilityMatrix(t *testing.T) {
	tests := []struct {
		rank faction.Rank
		cap  faction.Capability
		want bool
	}{
		{faction.RankFounder, faction.CapDisband, true},
		{faction.RankFounder, faction.CapTransferLeadership, true},
		{faction.RankFounder, faction.CapKickOfficer, true},
		{faction.RankOfficer, faction.CapDisband, false},
		{faction.RankOfficer, faction.CapTransferLeadership, false},
		{faction.RankOfficer, faction.CapKickMember, true},
		{faction.RankOfficer, faction.CapKickOfficer, false},
		{faction.RankOfficer, faction.CapWithdrawTreasury, true},
		{faction.RankOfficer, faction.CapEditDoctrine, true},
		{faction.RankMember, faction.CapDepositTreasury, true},
		{faction.RankMember, faction.CapViewIntel, true},
		{faction.RankMember, faction.CapWithdrawTreasury, false},
		{faction.RankMember, faction.CapKickMember, false},
		{faction.RankMember, faction.CapPostContracts, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rank.Can(tt.cap), "%s / %s", tt.rank, tt.cap)
	}
}

func TestFactionCan_NonMembersHoldNothing(t *testing.T) {
	f := newFaction()

	assert.True(t, f.Can("pl-founder", faction.CapDisband))
	assert.False(t, f.Can("pl-stranger", faction.CapViewIntel))
}

func TestRelationTo_DefaultsNeutral(t *testing.T) {
	f := newFaction()
	f.Relations["fac-2"] = faction.RelationWar

	assert.Equal(t, faction.RelationWar, f.RelationTo("fac-2"))
	assert.Equal(t, faction.RelationNeutral, f.RelationTo("fac-3"))
}
