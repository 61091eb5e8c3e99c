package faction

import (
	"burnrate/internal/domain/shared"
)

// DepositCredits moves credits into the treasury. Any member may deposit.
func (f *Faction) DepositCredits(amount int64) error {
	if amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	f.TreasuryCredits += amount
	return nil
}

// WithdrawCredits moves credits out of the treasury on behalf of a
// member. Founders withdraw without limit; officers are capped by the
// faction's daily limit, tracked per member in tick-day arithmetic.
func (f *Faction) WithdrawCredits(playerID string, amount int64, currentTick, ticksPerDay int64) error {
	if amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	m := f.MemberByPlayer(playerID)
	if m == nil {
		return shared.NewNotFoundError("member", playerID)
	}
	if !m.Rank.Can(CapWithdrawTreasury) {
		return shared.NewPreconditionError("permission_denied",
			"rank cannot withdraw from the treasury")
	}
	if f.TreasuryCredits < amount {
		return shared.NewPreconditionError("insufficient_treasury",
			"insufficient treasury credits")
	}
	if m.Rank == RankOfficer {
		if ticksPerDay > 0 && m.LastWithdrawTick/ticksPerDay != currentTick/ticksPerDay {
			m.WithdrawnToday = 0
		}
		if m.WithdrawnToday+amount > f.WithdrawLimit {
			return shared.NewPreconditionError("withdraw_limit_exceeded",
				"officer daily withdrawal limit exceeded")
		}
		m.WithdrawnToday += amount
		m.LastWithdrawTick = currentTick
	}
	f.TreasuryCredits -= amount
	return nil
}

// DepositGoods moves resources into the treasury.
func (f *Faction) DepositGoods(goods shared.Inventory) {
	f.Treasury.AddAll(goods)
}

// EmptyTreasury zeroes credits and goods at season reset. Membership and
// doctrine are untouched.
func (f *Faction) EmptyTreasury() {
	f.TreasuryCredits = 0
	f.Treasury = shared.NewInventory()
}

// WithdrawGoods moves resources out of the treasury. The credit daily
// limit does not apply to goods; rank gating matches credits.
func (f *Faction) WithdrawGoods(playerID string, goods shared.Inventory) error {
	m := f.MemberByPlayer(playerID)
	if m == nil {
		return shared.NewNotFoundError("member", playerID)
	}
	if !m.Rank.Can(CapWithdrawTreasury) {
		return shared.NewPreconditionError("permission_denied",
			"rank cannot withdraw from the treasury")
	}
	return f.Treasury.RemoveAll(goods)
}
