package actions

import (
	"context"

	"burnrate/internal/domain/player"
)

// Action marks a mutating request. The gate middleware authenticates,
// rate-limits, locks, and quota-checks every request implementing it;
// plain queries pass through untouched.
type Action interface {
	// ActionName is the stable name used in events and metrics.
	ActionName() string
	// LockKeys lists the aggregate locks the action needs beyond the
	// actor's own lock, derived from the command and the actor (for
	// current-zone actions). Keys are acquired in sorted order so
	// concurrent actions cannot deadlock; the gate revalidates them
	// against a fresh actor after acquisition.
	LockKeys(actor *player.Player) []string
}

// Context marker set by the batch executor after it has consumed the
// whole batch's rate allowance up front.
type rateExemptKey struct{}

// WithRateConsumed marks the context as already rate-accounted.
func WithRateConsumed(ctx context.Context) context.Context {
	return context.WithValue(ctx, rateExemptKey{}, true)
}

func rateConsumed(ctx context.Context) bool {
	exempt, _ := ctx.Value(rateExemptKey{}).(bool)
	return exempt
}

// PlayerLock returns the canonical lock key for a player aggregate.
func PlayerLock(playerID string) string { return "player:" + playerID }

// ZoneLock returns the canonical lock key for a zone aggregate.
func ZoneLock(zoneID string) string { return "zone:" + zoneID }

// FactionLock returns the canonical lock key for a faction aggregate.
func FactionLock(factionID string) string { return "faction:" + factionID }

// ShipmentLock returns the canonical lock key for a shipment aggregate.
func ShipmentLock(shipmentID string) string { return "shipment:" + shipmentID }

// UnitLock returns the canonical lock key for a unit aggregate.
func UnitLock(unitID string) string { return "unit:" + unitID }

// MarketLock returns the canonical lock key for one zone's order book.
func MarketLock(zoneID string) string { return "market:" + zoneID }

// ContractLock returns the canonical lock key for a contract aggregate.
func ContractLock(contractID string) string { return "contract:" + contractID }
