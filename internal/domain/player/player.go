package player

import (
	"burnrate/internal/domain/shared"
)

// Tier is a player's account tier, controlling daily action quota and
// open order/contract caps.
type Tier string

const (
	TierFreelance Tier = "freelance"
	TierOperator  Tier = "operator"
	TierCommand   Tier = "command"
)

type tierConfig struct {
	DailyActions int
	OrderCap     int
	ContractCap  int
}

var tierConfigs = map[Tier]tierConfig{
	TierFreelance: {DailyActions: 200, OrderCap: 10, ContractCap: 5},
	TierOperator:  {DailyActions: 250, OrderCap: 25, ContractCap: 10},
	TierCommand:   {DailyActions: 300, OrderCap: 50, ContractCap: 20},
}

// DailyQuota returns the tier's daily action allowance.
func (t Tier) DailyQuota() int {
	if cfg, ok := tierConfigs[t]; ok {
		return cfg.DailyActions
	}
	return tierConfigs[TierFreelance].DailyActions
}

// OrderCap returns the tier's open market order cap.
func (t Tier) OrderCap() int {
	if cfg, ok := tierConfigs[t]; ok {
		return cfg.OrderCap
	}
	return tierConfigs[TierFreelance].OrderCap
}

// ContractCap returns the tier's open posted contract cap.
func (t Tier) ContractCap() int {
	if cfg, ok := tierConfigs[t]; ok {
		return cfg.ContractCap
	}
	return tierConfigs[TierFreelance].ContractCap
}

// AtLeast reports whether the tier grants the privileges of other.
func (t Tier) AtLeast(other Tier) bool {
	rank := map[Tier]int{TierFreelance: 0, TierOperator: 1, TierCommand: 2}
	return rank[t] >= rank[other]
}

// License gates which shipment kinds a player may launch.
type License string

const (
	LicenseCourier License = "courier"
	LicenseFreight License = "freight"
	LicenseConvoy  License = "convoy"
)

type licenseRequirement struct {
	Reputation int
	Cost       int64
}

var licenseRequirements = map[License]licenseRequirement{
	LicenseFreight: {Reputation: 50, Cost: 1000},
	LicenseConvoy:  {Reputation: 150, Cost: 5000},
}

// LicenseRequirement returns the reputation and credit cost to unlock a
// license; courier needs nothing and is held from join.
func LicenseRequirement(l License) (reputation int, cost int64, ok bool) {
	req, ok := licenseRequirements[l]
	return req.Reputation, req.Cost, ok
}

// Reputation titles, floor thresholds. Reputation survives season resets
// (halved), so titles do too.
var titleThresholds = []struct {
	Min   int
	Title string
}{
	{1000, "Legend"},
	{400, "Veteran"},
	{150, "Operator"},
	{50, "Runner"},
	{0, "Drifter"},
}

// StartingCredits is the balance a new player joins with, and the
// balance every player normalizes to at season reset.
const StartingCredits int64 = 500

// Player is an account. A player is always at exactly one zone.
type Player struct {
	ID             string
	Name           string
	APIKey         string
	Tier           Tier
	Credits        int64
	Inventory      shared.Inventory
	CurrentZoneID  string
	FactionID      string // empty = unaffiliated
	Reputation     int
	ActionsToday   int
	LastActionTick int64
	Licenses       map[License]bool
	TutorialStep   int
	CreatedAtTick  int64
}

// NewPlayer creates a freshly joined player at the given hub with
// starting credits and the courier license.
func NewPlayer(id, name, apiKey, hubZoneID string, tick int64) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		APIKey:        apiKey,
		Tier:          TierFreelance,
		Credits:       StartingCredits,
		Inventory:     shared.NewInventory(),
		CurrentZoneID: hubZoneID,
		Licenses:      map[License]bool{LicenseCourier: true},
		CreatedAtTick: tick,
	}
}

// HasLicense reports whether the player holds the given license.
func (p *Player) HasLicense(l License) bool {
	return p.Licenses[l]
}

// UnlockLicense burns credits to grant a license, gated on reputation.
func (p *Player) UnlockLicense(l License) error {
	if p.HasLicense(l) {
		return shared.NewConflictError("license_already_held",
			"license "+string(l)+" already held")
	}
	rep, cost, ok := LicenseRequirement(l)
	if !ok {
		return shared.NewValidationError("license", "unknown license type")
	}
	if p.Reputation < rep {
		return shared.NewPreconditionError("insufficient_reputation",
			"license "+string(l)+" requires more reputation")
	}
	if err := p.SpendCredits(cost); err != nil {
		return err
	}
	p.Licenses[l] = true
	return nil
}

// SpendCredits debits the balance, failing without mutation when funds
// are short.
func (p *Player) SpendCredits(amount int64) error {
	if amount < 0 {
		return shared.NewValidationError("amount", "must be non-negative")
	}
	if p.Credits < amount {
		return shared.NewPreconditionError("insufficient_credits",
			"insufficient credits")
	}
	p.Credits -= amount
	return nil
}

// AddCredits credits the balance. Negative deltas are rejected; use
// SpendCredits to debit.
func (p *Player) AddCredits(amount int64) {
	if amount > 0 {
		p.Credits += amount
	}
}

// AddReputation applies a reputation delta; reputation may go negative.
func (p *Player) AddReputation(delta int) {
	p.Reputation += delta
}

// HalveReputation floors the halved value, used by season reset.
func (p *Player) HalveReputation() {
	if p.Reputation >= 0 {
		p.Reputation /= 2
	} else {
		p.Reputation = (p.Reputation - 1) / 2
	}
}

// ResetForSeason normalizes the account for a new season: credits back
// to the starting balance, inventory cleared, reputation halved. The
// account itself, its licenses, tier, faction membership, location, and
// tutorial progress all survive.
func (p *Player) ResetForSeason() {
	p.Credits = StartingCredits
	p.Inventory = shared.NewInventory()
	p.HalveReputation()
}

// Title returns the reputation-derived title.
func (p *Player) Title() string {
	for _, t := range titleThresholds {
		if p.Reputation >= t.Min {
			return t.Title
		}
	}
	return titleThresholds[len(titleThresholds)-1].Title
}

// ResetQuotaIfNewDay zeroes actions_today when the current tick falls on
// a later day (in tick arithmetic) than the last recorded action.
func (p *Player) ResetQuotaIfNewDay(currentTick, ticksPerDay int64) {
	if ticksPerDay <= 0 {
		return
	}
	if currentTick/ticksPerDay != p.LastActionTick/ticksPerDay {
		p.ActionsToday = 0
	}
}

// RecordAction counts one action against today's quota.
func (p *Player) RecordAction(tick int64) {
	p.ActionsToday++
	p.LastActionTick = tick
}

// ActiveSince reports whether the player acted at or after the given tick.
func (p *Player) ActiveSince(tick int64) bool {
	return p.LastActionTick >= tick
}

// AdvanceTutorial bumps the tutorial step to at least step.
func (p *Player) AdvanceTutorial(step int) {
	if step > p.TutorialStep {
		p.TutorialStep = step
	}
}
