package faction

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// FactionSummary is the public roster view.
type FactionSummary struct {
	ID          string
	Name        string
	Tag         string
	MemberCount int
	ZonesOwned  int
}

// ListFactionsQuery lists every faction with public stats.
type ListFactionsQuery struct{}

// ListFactionsResponse carries the summaries.
type ListFactionsResponse struct {
	Factions []FactionSummary
}

// ListFactionsHandler handles the ListFactions query
type ListFactionsHandler struct {
	factions faction.FactionRepository
	zones    world.ZoneRepository
}

// NewListFactionsHandler creates a new ListFactionsHandler
func NewListFactionsHandler(factions faction.FactionRepository, zones world.ZoneRepository) *ListFactionsHandler {
	return &ListFactionsHandler{factions: factions, zones: zones}
}

// Handle executes the ListFactions query
func (h *ListFactionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListFactionsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListFactionsQuery")
	}
	factions, err := h.factions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ListFactionsResponse{}
	for _, f := range factions {
		owned, err := h.zones.FindByOwner(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		resp.Factions = append(resp.Factions, FactionSummary{
			ID:          f.ID,
			Name:        f.Name,
			Tag:         f.Tag,
			MemberCount: len(f.Members),
			ZonesOwned:  len(owned),
		})
	}
	return resp, nil
}

// GetMyFactionQuery returns the caller's faction with full membership
// and treasury detail.
type GetMyFactionQuery struct{}

// GetMyFactionResponse carries the faction and the caller's rank.
type GetMyFactionResponse struct {
	Faction *faction.Faction
	Rank    faction.Rank
}

// GetMyFactionHandler handles the GetMyFaction query
type GetMyFactionHandler struct {
	factions faction.FactionRepository
}

// NewGetMyFactionHandler creates a new GetMyFactionHandler
func NewGetMyFactionHandler(factions faction.FactionRepository) *GetMyFactionHandler {
	return &GetMyFactionHandler{factions: factions}
}

// Handle executes the GetMyFaction query
func (h *GetMyFactionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetMyFactionQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMyFactionQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	f, err := h.factions.FindByID(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}
	rank, _ := f.RankOf(actor.ID)
	return &GetMyFactionResponse{Faction: f, Rank: rank}, nil
}

// ZoneHolding is one owned zone in the analytics view.
type ZoneHolding struct {
	ZoneID           string
	Kind             world.ZoneKind
	SupplyLevel      float64
	ComplianceStreak int
	SUStockpile      int
	BurnRate         int
}

// GetFactionAnalyticsQuery returns supply and treasury analytics for the
// caller's faction. Operator tier and up.
type GetFactionAnalyticsQuery struct{}

// GetFactionAnalyticsResponse aggregates holdings and upkeep.
type GetFactionAnalyticsResponse struct {
	FactionID       string
	MemberCount     int
	ActiveMembers   int
	TreasuryCredits int64
	Treasury        shared.Inventory
	ZonesOwned      int
	TotalBurnPerDay int
	Holdings        []ZoneHolding
}

// GetFactionAnalyticsHandler handles the GetFactionAnalytics query
type GetFactionAnalyticsHandler struct {
	players     player.PlayerRepository
	factions    faction.FactionRepository
	zones       world.ZoneRepository
	meta        world.MetaRepository
	ticksPerDay int64
}

// NewGetFactionAnalyticsHandler creates a new GetFactionAnalyticsHandler
func NewGetFactionAnalyticsHandler(
	players player.PlayerRepository,
	factions faction.FactionRepository,
	zones world.ZoneRepository,
	meta world.MetaRepository,
	ticksPerDay int64,
) *GetFactionAnalyticsHandler {
	return &GetFactionAnalyticsHandler{
		players:     players,
		factions:    factions,
		zones:       zones,
		meta:        meta,
		ticksPerDay: ticksPerDay,
	}
}

// Handle executes the GetFactionAnalytics query
func (h *GetFactionAnalyticsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetFactionAnalyticsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFactionAnalyticsQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"faction analytics require operator tier")
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	f, err := h.factions.FindByID(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}
	owned, err := h.zones.FindByOwner(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	resp := &GetFactionAnalyticsResponse{
		FactionID:       f.ID,
		MemberCount:     len(f.Members),
		TreasuryCredits: f.TreasuryCredits,
		Treasury:        f.Treasury.Clone(),
		ZonesOwned:      len(owned),
	}

	dayStart := meta.CurrentTick - h.ticksPerDay
	for _, memberID := range f.MemberIDs() {
		member, err := h.players.FindByID(ctx, memberID)
		if err != nil {
			continue
		}
		if member.ActiveSince(dayStart) {
			resp.ActiveMembers++
		}
	}

	for _, z := range owned {
		resp.TotalBurnPerDay += z.BurnRate * int(h.ticksPerDay)
		resp.Holdings = append(resp.Holdings, ZoneHolding{
			ZoneID:           z.ID,
			Kind:             z.Kind,
			SupplyLevel:      z.SupplyLevel,
			ComplianceStreak: z.ComplianceStreak,
			SUStockpile:      z.SUStockpile,
			BurnRate:         z.BurnRate,
		})
	}
	return resp, nil
}

// GetFactionAuditQuery returns recent faction-scoped events: treasury
// movement, roster changes, doctrine edits. Operator tier and up.
type GetFactionAuditQuery struct {
	Limit int
}

// GetFactionAuditResponse carries the audit trail, newest first.
type GetFactionAuditResponse struct {
	Events []*event.Event
}

// GetFactionAuditHandler handles the GetFactionAudit query
type GetFactionAuditHandler struct {
	factions faction.FactionRepository
	events   event.EventRepository
}

// NewGetFactionAuditHandler creates a new GetFactionAuditHandler
func NewGetFactionAuditHandler(factions faction.FactionRepository, events event.EventRepository) *GetFactionAuditHandler {
	return &GetFactionAuditHandler{factions: factions, events: events}
}

// auditTypes are the event types that constitute the faction audit trail.
var auditTypes = map[string]bool{
	event.TypeFactionCreated:        true,
	event.TypeFactionJoined:         true,
	event.TypeFactionLeft:           true,
	event.TypeMemberPromoted:        true,
	event.TypeMemberDemoted:         true,
	event.TypeMemberKicked:          true,
	event.TypeLeadershipTransferred: true,
	event.TypeTreasuryDeposit:       true,
	event.TypeTreasuryWithdraw:      true,
	event.TypeDoctrineUpdated:       true,
}

// Handle executes the GetFactionAudit query
func (h *GetFactionAuditHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetFactionAuditQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFactionAuditQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"faction audit requires operator tier")
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	f, err := h.factions.FindByID(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// Roster and treasury events are emitted by member actors; collect
	// each member's trail and keep the faction-relevant types.
	var trail []*event.Event
	for _, memberID := range f.MemberIDs() {
		memberEvents, err := h.events.FindByActor(ctx, memberID, limit)
		if err != nil {
			return nil, err
		}
		for _, e := range memberEvents {
			if auditTypes[e.Type] && e.Data["faction"] == f.ID {
				trail = append(trail, e)
			}
		}
	}
	sortEventsBySeqDesc(trail)
	if len(trail) > limit {
		trail = trail[:limit]
	}
	return &GetFactionAuditResponse{Events: trail}, nil
}

func sortEventsBySeqDesc(events []*event.Event) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Seq > events[j-1].Seq; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
