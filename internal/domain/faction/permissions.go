package faction

// Capability names a faction permission from the rank matrix.
type Capability string

const (
	CapEditSettings       Capability = "edit_settings"
	CapDisband            Capability = "disband"
	CapTransferLeadership Capability = "transfer_leadership"
	CapPromoteOfficer     Capability = "promote_officer" // promote to / demote from Officer
	CapKickMember         Capability = "kick_member"
	CapKickOfficer        Capability = "kick_officer"
	CapWithdrawTreasury   Capability = "withdraw_treasury"
	CapDepositTreasury    Capability = "deposit_treasury"
	CapPostContracts      Capability = "post_contracts" // with faction funds
	CapEditDoctrine       Capability = "edit_doctrine"
	CapViewIntel          Capability = "view_intel"
)

var rankCapabilities = map[Rank]map[Capability]bool{
	RankFounder: {
		CapEditSettings:       true,
		CapDisband:            true,
		CapTransferLeadership: true,
		CapPromoteOfficer:     true,
		CapKickMember:         true,
		CapKickOfficer:        true,
		CapWithdrawTreasury:   true,
		CapDepositTreasury:    true,
		CapPostContracts:      true,
		CapEditDoctrine:       true,
		CapViewIntel:          true,
	},
	RankOfficer: {
		CapKickMember:       true,
		CapWithdrawTreasury: true, // bounded by the daily limit
		CapDepositTreasury:  true,
		CapPostContracts:    true,
		CapEditDoctrine:     true,
		CapViewIntel:        true,
	},
	RankMember: {
		CapDepositTreasury: true,
		CapViewIntel:       true,
	},
}

// Can reports whether the rank grants the capability.
func (r Rank) Can(cap Capability) bool {
	return rankCapabilities[r][cap]
}

// Can reports whether the player holds the capability in this faction.
// Non-members hold nothing.
func (f *Faction) Can(playerID string, cap Capability) bool {
	rank, ok := f.RankOf(playerID)
	if !ok {
		return false
	}
	return rank.Can(cap)
}
