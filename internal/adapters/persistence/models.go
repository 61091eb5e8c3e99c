package persistence

import (
	"encoding/json"
	"fmt"
	"time"
)

// PlayerModel represents the players table
type PlayerModel struct {
	ID             string `gorm:"column:id;primaryKey"`
	Name           string `gorm:"column:name;uniqueIndex;not null"`
	APIKey         string `gorm:"column:api_key;uniqueIndex;not null"`
	Tier           string `gorm:"column:tier;not null"`
	Credits        int64  `gorm:"column:credits;not null"`
	Inventory      string `gorm:"column:inventory;type:text"` // JSON as text
	CurrentZoneID  string `gorm:"column:current_zone_id;not null"`
	FactionID      string `gorm:"column:faction_id;index"`
	Reputation     int    `gorm:"column:reputation;not null;default:0"`
	ActionsToday   int    `gorm:"column:actions_today;not null;default:0"`
	LastActionTick int64  `gorm:"column:last_action_tick;not null;default:0"`
	Licenses       string `gorm:"column:licenses;type:text"` // JSON as text
	TutorialStep   int    `gorm:"column:tutorial_step;not null;default:0"`
	CreatedAtTick  int64  `gorm:"column:created_at_tick;not null"`
}

func (PlayerModel) TableName() string {
	return "players"
}

// ZoneModel represents the zones table
type ZoneModel struct {
	ID                 string  `gorm:"column:id;primaryKey"`
	Name               string  `gorm:"column:name;not null"`
	Kind               string  `gorm:"column:kind;not null"`
	OwnerFactionID     string  `gorm:"column:owner_faction_id;index"`
	Status             string  `gorm:"column:status;not null"`
	SupplyLevel        float64 `gorm:"column:supply_level;not null"`
	BurnRate           int     `gorm:"column:burn_rate;not null"`
	ComplianceStreak   int     `gorm:"column:compliance_streak;not null;default:0"`
	SUStockpile        int     `gorm:"column:su_stockpile;not null;default:0"`
	Inventory          string  `gorm:"column:inventory;type:text"` // JSON as text
	ProductionCapacity int     `gorm:"column:production_capacity;not null;default:0"`
	GarrisonLevel      int     `gorm:"column:garrison_level;not null;default:0"`
	DepthMultiplier    float64 `gorm:"column:depth_multiplier;not null;default:1"`
	MedkitStockpile    int     `gorm:"column:medkit_stockpile;not null;default:0"`
	CommsStockpile     int     `gorm:"column:comms_stockpile;not null;default:0"`
	FieldResource      string  `gorm:"column:field_resource"`
	CreatedAtTick      int64   `gorm:"column:created_at_tick;not null;default:0"`
}

func (ZoneModel) TableName() string {
	return "zones"
}

// RouteModel represents the routes table. Routes are undirected; each
// edge is stored once.
type RouteModel struct {
	ID         string  `gorm:"column:id;primaryKey"`
	FromZoneID string  `gorm:"column:from_zone_id;index;not null"`
	ToZoneID   string  `gorm:"column:to_zone_id;index;not null"`
	Distance   int     `gorm:"column:distance;not null"`
	Capacity   int     `gorm:"column:capacity;not null"`
	BaseRisk   float64 `gorm:"column:base_risk;not null"`
	Chokepoint float64 `gorm:"column:chokepoint;not null"`
}

func (RouteModel) TableName() string {
	return "routes"
}

// MetaModel represents the single-row world_meta table
type MetaModel struct {
	ID              int       `gorm:"column:id;primaryKey"`
	CurrentTick     int64     `gorm:"column:current_tick;not null"`
	LastTickAt      time.Time `gorm:"column:last_tick_at;not null"`
	Season          int       `gorm:"column:season;not null"`
	SeasonStartTick int64     `gorm:"column:season_start_tick;not null"`
	Seed            string    `gorm:"column:seed;not null"`
	ArchiveHash     string    `gorm:"column:archive_hash"`
}

func (MetaModel) TableName() string {
	return "world_meta"
}

// FactionModel represents the factions table. Members, relations, and
// upgrades are small aggregate maps stored as JSON blobs.
type FactionModel struct {
	ID              string `gorm:"column:id;primaryKey"`
	Name            string `gorm:"column:name;uniqueIndex;not null"`
	Tag             string `gorm:"column:tag;uniqueIndex;not null"`
	FounderID       string `gorm:"column:founder_id;not null"`
	TreasuryCredits int64  `gorm:"column:treasury_credits;not null;default:0"`
	Treasury        string `gorm:"column:treasury;type:text"` // JSON as text
	WithdrawLimit   int64  `gorm:"column:withdraw_limit;not null"`
	DoctrineDigest  string `gorm:"column:doctrine_digest"`
	Upgrades        string `gorm:"column:upgrades;type:text"`  // JSON as text
	Relations       string `gorm:"column:relations;type:text"` // JSON as text
	Members         string `gorm:"column:members;type:text"`   // JSON as text
	CreatedAtTick   int64  `gorm:"column:created_at_tick;not null"`
}

func (FactionModel) TableName() string {
	return "factions"
}

// DoctrineModel represents the doctrines table
type DoctrineModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	FactionID     string `gorm:"column:faction_id;index;not null"`
	Title         string `gorm:"column:title;not null"`
	Body          string `gorm:"column:body;type:text;not null"`
	Digest        string `gorm:"column:digest;not null"`
	AuthorID      string `gorm:"column:author_id;not null"`
	CreatedAtTick int64  `gorm:"column:created_at_tick;not null"`
	UpdatedAtTick int64  `gorm:"column:updated_at_tick;not null"`
}

func (DoctrineModel) TableName() string {
	return "doctrines"
}

// ShipmentModel represents the shipments table
type ShipmentModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	OwnerID       string `gorm:"column:owner_id;index;not null"`
	Kind          string `gorm:"column:kind;not null"`
	Path          string `gorm:"column:path;type:text;not null"` // JSON as text
	PositionIndex int    `gorm:"column:position_index;not null"`
	TicksToNext   int    `gorm:"column:ticks_to_next;not null"`
	Cargo         string `gorm:"column:cargo;type:text"`           // JSON as text
	EscortUnitIDs string `gorm:"column:escort_unit_ids;type:text"` // JSON as text
	Status        string `gorm:"column:status;index;not null"`
	CreatedAtTick int64  `gorm:"column:created_at_tick;not null"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}

// UnitModel represents the units table
type UnitModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	OwnerID       string `gorm:"column:owner_id;index;not null"`
	Kind          string `gorm:"column:kind;not null"`
	ZoneID        string `gorm:"column:zone_id;index"`
	Strength      int    `gorm:"column:strength;not null"`
	Speed         int    `gorm:"column:speed;not null"`
	Maintenance   int64  `gorm:"column:maintenance;not null"`
	AssignmentID  string `gorm:"column:assignment_id;index"`
	ForSalePrice  int64  `gorm:"column:for_sale_price;not null;default:0"`
	CreatedAtTick int64  `gorm:"column:created_at_tick;not null"`
}

func (UnitModel) TableName() string {
	return "units"
}

// OrderModel represents the orders table
type OrderModel struct {
	ID              string `gorm:"column:id;primaryKey"`
	OwnerID         string `gorm:"column:owner_id;index;not null"`
	ZoneID          string `gorm:"column:zone_id;index;not null"`
	Resource        string `gorm:"column:resource;not null"`
	Side            string `gorm:"column:side;not null"`
	Type            string `gorm:"column:type;not null"`
	Price           int64  `gorm:"column:price;not null"`
	Remaining       int    `gorm:"column:remaining;not null"`
	Original        int    `gorm:"column:original;not null"`
	EscrowedCredits int64  `gorm:"column:escrowed_credits;not null;default:0"`
	Status          string `gorm:"column:status;index;not null"`
	TriggerOp       string `gorm:"column:trigger_op"`
	TriggerPrice    int64  `gorm:"column:trigger_price;not null;default:0"`
	Armed           bool   `gorm:"column:armed;not null;default:false"`
	TotalQuantity   int    `gorm:"column:total_quantity;not null;default:0"`
	SlicePerTick    int    `gorm:"column:slice_per_tick;not null;default:0"`
	TicksRemaining  int    `gorm:"column:ticks_remaining;not null;default:0"`
	ParentOrderID   string `gorm:"column:parent_order_id;index"`
	CreatedAtTick   int64  `gorm:"column:created_at_tick;not null"`
	Seq             int64  `gorm:"column:seq;index;not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// TradeModel represents the trades table
type TradeModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	ZoneID      string `gorm:"column:zone_id;index:idx_trades_market;not null"`
	Resource    string `gorm:"column:resource;index:idx_trades_market;not null"`
	BuyOrderID  string `gorm:"column:buy_order_id;not null"`
	SellOrderID string `gorm:"column:sell_order_id;not null"`
	BuyerID     string `gorm:"column:buyer_id;not null"`
	SellerID    string `gorm:"column:seller_id;not null"`
	Price       int64  `gorm:"column:price;not null"`
	Quantity    int    `gorm:"column:quantity;not null"`
	Tick        int64  `gorm:"column:tick;index;not null"`
}

func (TradeModel) TableName() string {
	return "trades"
}

// LastPriceModel represents the last_prices table, one row per
// (zone, resource) market
type LastPriceModel struct {
	ZoneID   string `gorm:"column:zone_id;primaryKey"`
	Resource string `gorm:"column:resource;primaryKey"`
	Price    int64  `gorm:"column:price;not null"`
	Tick     int64  `gorm:"column:tick;not null"`
}

func (LastPriceModel) TableName() string {
	return "last_prices"
}

// ContractModel represents the contracts table
type ContractModel struct {
	ID               string `gorm:"column:id;primaryKey"`
	Kind             string `gorm:"column:kind;not null"`
	PosterID         string `gorm:"column:poster_id;index;not null"`
	PosterKind       string `gorm:"column:poster_kind;not null"`
	AcceptedBy       string `gorm:"column:accepted_by;index"`
	Details          string `gorm:"column:details;type:text;not null"` // JSON as text
	DeadlineTick     int64  `gorm:"column:deadline_tick;not null"`
	RewardCredits    int64  `gorm:"column:reward_credits;not null"`
	RewardReputation int    `gorm:"column:reward_reputation;not null;default:0"`
	EarlyBonusTicks  int64  `gorm:"column:early_bonus_ticks;not null;default:0"`
	EarlyBonus       int64  `gorm:"column:early_bonus;not null;default:0"`
	EscrowedCredits  int64  `gorm:"column:escrowed_credits;not null;default:0"`
	Progress         int    `gorm:"column:progress;not null;default:0"`
	Status           string `gorm:"column:status;index;not null"`
	CreatedAtTick    int64  `gorm:"column:created_at_tick;not null"`
	AcceptedAtTick   int64  `gorm:"column:accepted_at_tick;not null;default:0"`
	ResolvedAtTick   int64  `gorm:"column:resolved_at_tick;not null;default:0"`
}

func (ContractModel) TableName() string {
	return "contracts"
}

// IntelReportModel represents the intel_reports table. The zone or
// route snapshot is immutable after capture and stored as a JSON blob.
type IntelReportModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	GathererID    string `gorm:"column:gatherer_id;index;not null"`
	FactionID     string `gorm:"column:faction_id;index"`
	TargetType    string `gorm:"column:target_type;index:idx_intel_target;not null"`
	TargetID      string `gorm:"column:target_id;index:idx_intel_target;not null"`
	GatheredAt    int64  `gorm:"column:gathered_at;index;not null"`
	SignalQuality int    `gorm:"column:signal_quality;not null"`
	Zone          string `gorm:"column:zone;type:text"`  // JSON as text, empty unless a zone scan
	Route         string `gorm:"column:route;type:text"` // JSON as text, empty unless a route scan
}

func (IntelReportModel) TableName() string {
	return "intel_reports"
}

// EventModel represents the append-only events table. Seq is the
// storage-assigned delivery order.
type EventModel struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	ID        string    `gorm:"column:id;uniqueIndex;not null"`
	Type      string    `gorm:"column:type;index;not null"`
	Tick      int64     `gorm:"column:tick;index;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	ActorID   string    `gorm:"column:actor_id;index;not null"`
	ActorKind string    `gorm:"column:actor_kind;not null"`
	Data      string    `gorm:"column:data;type:text"` // JSON as text
}

func (EventModel) TableName() string {
	return "events"
}

// WebhookModel represents the webhooks table
type WebhookModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	PlayerID      string `gorm:"column:player_id;index;not null"`
	URL           string `gorm:"column:url;not null"`
	EventFilter   string `gorm:"column:event_filter;type:text"` // JSON as text
	Secret        string `gorm:"column:secret"`
	FailureCount  int    `gorm:"column:failure_count;not null;default:0"`
	Disabled      bool   `gorm:"column:disabled;index;not null;default:false"`
	CursorSeq     int64  `gorm:"column:cursor_seq;not null;default:0"`
	CreatedAtTick int64  `gorm:"column:created_at_tick;not null"`
}

func (WebhookModel) TableName() string {
	return "webhooks"
}

// ScoreModel represents the season_scores table, one row per
// (season, entity)
type ScoreModel struct {
	Season        int    `gorm:"column:season;primaryKey"`
	EntityID      string `gorm:"column:entity_id;primaryKey"`
	EntityKind    string `gorm:"column:entity_kind;not null"`
	EntityName    string `gorm:"column:entity_name;not null"`
	SupplyPoints  int64  `gorm:"column:supply_points;not null;default:0"`
	ShipPoints    int64  `gorm:"column:ship_points;not null;default:0"`
	ContractPts   int64  `gorm:"column:contract_points;not null;default:0"`
	RepPoints     int64  `gorm:"column:rep_points;not null;default:0"`
	CombatPoints  int64  `gorm:"column:combat_points;not null;default:0"`
	ZoneControl   int64  `gorm:"column:zone_control;not null;default:0"`
	UpdatedAtTick int64  `gorm:"column:updated_at_tick;not null;default:0"`
}

func (ScoreModel) TableName() string {
	return "season_scores"
}

// ArchiveModel represents the season_archives table. Standings are
// stored lz4-compressed.
type ArchiveModel struct {
	Season      int       `gorm:"column:season;primaryKey"`
	StartedTick int64     `gorm:"column:started_tick;not null"`
	EndedTick   int64     `gorm:"column:ended_tick;not null"`
	SealedAt    time.Time `gorm:"column:sealed_at;not null"`
	Compressed  []byte    `gorm:"column:compressed;not null"`
	Hash        string    `gorm:"column:hash;not null"`
	PrevHash    string    `gorm:"column:prev_hash"`
}

func (ArchiveModel) TableName() string {
	return "season_archives"
}

// CounterModel represents the counters table backing monotone sequences
// that must survive restarts (the order book arrival sequence).
type CounterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

func (CounterModel) TableName() string {
	return "counters"
}

// toJSON marshals an aggregate blob column. nil maps marshal to a valid
// empty JSON value, so columns never hold the empty string.
func toJSON(v any) (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob column: %w", err)
	}
	return string(bytes), nil
}

// fromJSON unmarshals a blob column; the empty string reads as the
// target's zero value.
func fromJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to unmarshal blob column: %w", err)
	}
	return nil
}
