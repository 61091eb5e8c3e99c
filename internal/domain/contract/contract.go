package contract

import (
	"burnrate/internal/domain/shared"
)

// Kind classifies what a contract asks of its acceptor.
type Kind string

const (
	KindHaul   Kind = "haul"   // deliver goods to a zone
	KindSupply Kind = "supply" // raise a zone's SU stockpile
	KindScout  Kind = "scout"  // bring back fresh intel on a target
)

// IsValidKind reports whether the string names a contract kind.
func IsValidKind(s string) bool {
	switch Kind(s) {
	case KindHaul, KindSupply, KindScout:
		return true
	}
	return false
}

// Status is a contract's lifecycle state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// PosterKind distinguishes player-funded from faction-funded postings.
type PosterKind string

const (
	PosterPlayer  PosterKind = "player"
	PosterFaction PosterKind = "faction"
)

// CancellationFeePct is the escrow share forfeited when a contract is
// cancelled or expires; the remainder returns to the poster.
const CancellationFeePct = 0.05

// Details carries the type-specific terms. Haul uses From/To/Resource/
// Quantity; Supply uses Zone/Amount; Scout uses TargetType/TargetID.
type Details struct {
	FromZoneID string          `json:"from_zone_id,omitempty"`
	ToZoneID   string          `json:"to_zone_id,omitempty"`
	Resource   shared.Resource `json:"resource,omitempty"`
	Quantity   int             `json:"quantity,omitempty"`
	ZoneID     string          `json:"zone_id,omitempty"`
	Amount     int             `json:"amount,omitempty"`
	TargetType string          `json:"target_type,omitempty"`
	TargetID   string          `json:"target_id,omitempty"`
}

// Contract is a job posting. The reward in credits is escrowed from the
// poster at creation and released on completion; reputation rewards are
// minted, not escrowed.
type Contract struct {
	ID               string
	Kind             Kind
	PosterID         string
	PosterKind       PosterKind
	AcceptedBy       string // empty until accepted
	Details          Details
	DeadlineTick     int64
	RewardCredits    int64
	RewardReputation int
	EarlyBonusTicks  int64 // finish this many ticks before the deadline…
	EarlyBonus       int64 // …to earn this many extra credits
	EscrowedCredits  int64
	Progress         int // supply contracts: SU delivered so far
	Status           Status
	CreatedAtTick    int64
	AcceptedAtTick   int64
	ResolvedAtTick   int64
}

// NewContract creates an open contract with the reward escrowed. The
// early bonus is escrowed alongside the base reward so completion never
// fails on poster funds.
func NewContract(id string, kind Kind, posterID string, posterKind PosterKind, details Details, deadline int64, rewardCredits int64, rewardReputation int, earlyBonusTicks, earlyBonus int64, tick int64) (*Contract, error) {
	if rewardCredits < 0 || earlyBonus < 0 {
		return nil, shared.NewValidationError("reward", "must be non-negative")
	}
	if rewardCredits == 0 && rewardReputation == 0 {
		return nil, shared.NewValidationError("reward", "contract must offer credits or reputation")
	}
	if deadline <= tick {
		return nil, shared.NewValidationError("deadline", "must be a future tick")
	}
	if err := validateDetails(kind, details); err != nil {
		return nil, err
	}
	return &Contract{
		ID:               id,
		Kind:             kind,
		PosterID:         posterID,
		PosterKind:       posterKind,
		Details:          details,
		DeadlineTick:     deadline,
		RewardCredits:    rewardCredits,
		RewardReputation: rewardReputation,
		EarlyBonusTicks:  earlyBonusTicks,
		EarlyBonus:       earlyBonus,
		EscrowedCredits:  rewardCredits + earlyBonus,
		Status:           StatusOpen,
		CreatedAtTick:    tick,
	}, nil
}

func validateDetails(kind Kind, d Details) error {
	switch kind {
	case KindHaul:
		if d.FromZoneID == "" || d.ToZoneID == "" {
			return shared.NewValidationError("details", "haul contracts need from and to zones")
		}
		if d.Resource == "" || d.Quantity <= 0 {
			return shared.NewValidationError("details", "haul contracts need a resource and positive quantity")
		}
	case KindSupply:
		if d.ZoneID == "" || d.Amount <= 0 {
			return shared.NewValidationError("details", "supply contracts need a zone and positive amount")
		}
	case KindScout:
		if d.TargetType != "zone" && d.TargetType != "route" {
			return shared.NewValidationError("details", "scout target type must be zone or route")
		}
		if d.TargetID == "" {
			return shared.NewValidationError("details", "scout contracts need a target id")
		}
	default:
		return shared.NewValidationError("kind", "unknown contract kind")
	}
	return nil
}

// Accept binds the contract to an acceptor. Posters cannot accept their
// own postings.
func (c *Contract) Accept(playerID string, tick int64) error {
	if c.Status != StatusOpen {
		return shared.NewPreconditionError("contract_not_open",
			"contract is not open for acceptance")
	}
	if c.PosterKind == PosterPlayer && c.PosterID == playerID {
		return shared.NewPreconditionError("own_contract",
			"cannot accept your own contract")
	}
	c.Status = StatusAccepted
	c.AcceptedBy = playerID
	c.AcceptedAtTick = tick
	return nil
}

// Complete releases the contract, reporting the credit payout including
// any earned early bonus. The caller verified the type-specific
// criterion and moves the credits.
func (c *Contract) Complete(tick int64) (payout int64, err error) {
	if c.Status != StatusAccepted {
		return 0, shared.NewPreconditionError("contract_not_accepted",
			"contract is not in progress")
	}
	if tick > c.DeadlineTick {
		return 0, shared.NewPreconditionError("contract_past_deadline",
			"contract deadline has passed")
	}
	payout = c.RewardCredits
	if c.EarlyBonus > 0 && c.DeadlineTick-tick >= c.EarlyBonusTicks {
		payout += c.EarlyBonus
	}
	c.Status = StatusCompleted
	c.ResolvedAtTick = tick
	c.EscrowedCredits = 0
	return payout, nil
}

// Cancel withdraws an open contract, reporting the refund after the
// cancellation fee. Accepted contracts cannot be cancelled by the
// poster; they run to completion or expiry.
func (c *Contract) Cancel(tick int64) (refund int64, err error) {
	if c.Status != StatusOpen {
		return 0, shared.NewPreconditionError("contract_not_open",
			"only open contracts can be cancelled")
	}
	c.Status = StatusCancelled
	c.ResolvedAtTick = tick
	refund = refundAfterFee(c.EscrowedCredits)
	c.EscrowedCredits = 0
	return refund, nil
}

// Expire times out an open or accepted contract at its deadline,
// reporting the poster's refund after the cancellation fee.
func (c *Contract) Expire(tick int64) (refund int64) {
	c.Status = StatusExpired
	c.ResolvedAtTick = tick
	refund = refundAfterFee(c.EscrowedCredits)
	c.EscrowedCredits = 0
	return refund
}

// IsDue reports whether the deadline has passed at the given tick.
func (c *Contract) IsDue(tick int64) bool {
	return (c.Status == StatusOpen || c.Status == StatusAccepted) && c.DeadlineTick <= tick
}

// AddProgress accumulates toward a supply contract's amount.
func (c *Contract) AddProgress(amount int) {
	if amount > 0 {
		c.Progress += amount
	}
}

func refundAfterFee(escrow int64) int64 {
	fee := int64(float64(escrow) * CancellationFeePct)
	return escrow - fee
}
