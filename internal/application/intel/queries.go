package intel

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// ListIntelQuery lists the caller's reports projected to the current
// tick, newest first.
type ListIntelQuery struct {
	Limit int
}

// ListIntelResponse carries projected reports.
type ListIntelResponse struct {
	Reports []*intel.Projected
}

// ListIntelHandler handles the ListIntel query
type ListIntelHandler struct {
	reports intel.ReportRepository
	meta    world.MetaRepository
}

// NewListIntelHandler creates a new ListIntelHandler
func NewListIntelHandler(reports intel.ReportRepository, meta world.MetaRepository) *ListIntelHandler {
	return &ListIntelHandler{reports: reports, meta: meta}
}

// Handle executes the ListIntel query
func (h *ListIntelHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListIntelQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListIntelQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	reports, err := h.reports.FindByGatherer(ctx, actor.ID, limit)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &ListIntelResponse{Reports: projectAll(reports, meta.CurrentTick)}, nil
}

// GetIntelByTargetQuery returns the caller's visible reports on one
// target, projected, newest first. Visibility is own reports plus the
// faction's when affiliated.
type GetIntelByTargetQuery struct {
	TargetType string
	TargetID   string
}

// GetIntelByTargetResponse carries the projections.
type GetIntelByTargetResponse struct {
	Reports []*intel.Projected
}

// GetIntelByTargetHandler handles the GetIntelByTarget query
type GetIntelByTargetHandler struct {
	reports  intel.ReportRepository
	factions faction.FactionRepository
	meta     world.MetaRepository
}

// NewGetIntelByTargetHandler creates a new GetIntelByTargetHandler
func NewGetIntelByTargetHandler(reports intel.ReportRepository, factions faction.FactionRepository, meta world.MetaRepository) *GetIntelByTargetHandler {
	return &GetIntelByTargetHandler{reports: reports, factions: factions, meta: meta}
}

// Handle executes the GetIntelByTarget query
func (h *GetIntelByTargetHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetIntelByTargetQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetIntelByTargetQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !intel.IsValidTargetType(query.TargetType) {
		return nil, shared.NewValidationError("target_type", "must be zone or route")
	}

	visible := map[string]bool{actor.ID: true}
	if actor.FactionID != "" {
		f, err := h.factions.FindByID(ctx, actor.FactionID)
		if err == nil {
			for _, id := range f.MemberIDs() {
				visible[id] = true
			}
		}
	}

	all, err := h.reports.FindByTarget(ctx, intel.TargetType(query.TargetType), query.TargetID)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	resp := &GetIntelByTargetResponse{}
	for _, r := range all {
		if visible[r.GathererID] {
			resp.Reports = append(resp.Reports, intel.Project(r, meta.CurrentTick))
		}
	}
	return resp, nil
}

// GetFactionIntelQuery lists the faction's shared intel: the union of
// reports gathered by current members. Membership changes move
// visibility from that tick forward.
type GetFactionIntelQuery struct {
	Limit int
}

// GetFactionIntelResponse carries the projections.
type GetFactionIntelResponse struct {
	Reports []*intel.Projected
}

// GetFactionIntelHandler handles the GetFactionIntel query
type GetFactionIntelHandler struct {
	reports  intel.ReportRepository
	factions faction.FactionRepository
	meta     world.MetaRepository
}

// NewGetFactionIntelHandler creates a new GetFactionIntelHandler
func NewGetFactionIntelHandler(reports intel.ReportRepository, factions faction.FactionRepository, meta world.MetaRepository) *GetFactionIntelHandler {
	return &GetFactionIntelHandler{reports: reports, factions: factions, meta: meta}
}

// Handle executes the GetFactionIntel query
func (h *GetFactionIntelHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetFactionIntelQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFactionIntelQuery")
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
	if !f.Can(actor.ID, faction.CapViewIntel) {
		return nil, shared.NewPreconditionError("permission_denied",
			"rank cannot view shared intel")
	}
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	reports, err := h.reports.FindByGatherers(ctx, f.MemberIDs(), limit)
	if err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &GetFactionIntelResponse{Reports: projectAll(reports, meta.CurrentTick)}, nil
}

func projectAll(reports []*intel.Report, tick int64) []*intel.Projected {
	projected := make([]*intel.Projected, 0, len(reports))
	for _, r := range reports {
		projected = append(projected, intel.Project(r, tick))
	}
	return projected
}
