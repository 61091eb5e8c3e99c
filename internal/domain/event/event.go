package event

import "time"

// ActorKind classifies who produced an event.
type ActorKind string

const (
	ActorPlayer  ActorKind = "player"
	ActorFaction ActorKind = "faction"
	ActorSystem  ActorKind = "system"
)

// Event types. Events are append-only; these names are the public
// contract for webhook filters and history queries.
const (
	TypePlayerJoined          = "player_joined"
	TypePlayerTraveled        = "player_traveled"
	TypeResourcesExtracted    = "resources_extracted"
	TypeGoodsProduced         = "goods_produced"
	TypeLicenseUnlocked       = "license_unlocked"
	TypeShipmentLaunched      = "shipment_launched"
	TypeShipmentArrived       = "shipment_arrived"
	TypeShipmentIntercepted   = "shipment_intercepted"
	TypeCombatResolved        = "combat_resolved"
	TypeUnitCreated           = "unit_created"
	TypeUnitSold              = "unit_sold"
	TypeUnitDeleted           = "unit_deleted"
	TypeOrderPlaced           = "order_placed"
	TypeOrderCancelled        = "order_cancelled"
	TypeOrderExpired          = "order_expired"
	TypeTradeExecuted         = "trade_executed"
	TypeZoneSupplied          = "zone_supplied"
	TypeZoneCaptured          = "zone_captured"
	TypeZoneCollapsed         = "zone_collapsed"
	TypeStockpileAdded        = "stockpile_added"
	TypeFactionCreated        = "faction_created"
	TypeFactionJoined         = "faction_joined"
	TypeFactionLeft           = "faction_left"
	TypeMemberPromoted        = "member_promoted"
	TypeMemberDemoted         = "member_demoted"
	TypeMemberKicked          = "member_kicked"
	TypeLeadershipTransferred = "leadership_transferred"
	TypeTreasuryDeposit       = "treasury_deposit"
	TypeTreasuryWithdraw      = "treasury_withdraw"
	TypeDoctrineUpdated       = "doctrine_updated"
	TypeContractCreated       = "contract_created"
	TypeContractAccepted      = "contract_accepted"
	TypeContractCompleted     = "contract_completed"
	TypeContractCancelled     = "contract_cancelled"
	TypeContractExpired       = "contract_expired"
	TypeIntelGathered         = "intel_gathered"
	TypeWebhookRegistered     = "webhook_registered"
	TypeWebhookDeleted        = "webhook_deleted"
	TypeWebhookDisabled       = "webhook_disabled"
	TypeTickCompleted         = "tick_completed"
	TypeTickAborted           = "tick_aborted"
	TypeSeasonReset           = "season_reset"
)

// PublicTypes are the world-visible event types every player may read
// regardless of actor.
var PublicTypes = []string{
	TypeZoneCaptured,
	TypeZoneCollapsed,
	TypeSeasonReset,
	TypeTickCompleted,
}

// Event is an immutable audit record. Seq is a storage-assigned
// monotone sequence used by the webhook dispatcher's per-subscription
// cursor; events within one tick share a Tick stamp but only Seq orders
// them.
type Event struct {
	ID        string
	Seq       int64
	Type      string
	Tick      int64
	Timestamp time.Time
	ActorID   string
	ActorKind ActorKind
	Data      map[string]any
}

// New creates an event record; Seq is assigned at persistence.
func New(id, eventType string, tick int64, ts time.Time, actorID string, actorKind ActorKind, data map[string]any) *Event {
	if data == nil {
		data = map[string]any{}
	}
	return &Event{
		ID:        id,
		Type:      eventType,
		Tick:      tick,
		Timestamp: ts,
		ActorID:   actorID,
		ActorKind: actorKind,
		Data:      data,
	}
}
