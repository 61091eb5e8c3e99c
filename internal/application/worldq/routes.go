package worldq

import (
	"context"
	"fmt"

	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/world"
)

// ListRoutesQuery returns the route graph, optionally restricted to
// edges touching one zone.
type ListRoutesQuery struct {
	ZoneID string
}

// ListRoutesResponse carries the matching routes.
type ListRoutesResponse struct {
	Routes []*world.Route
}

// ListRoutesHandler handles the ListRoutes query
type ListRoutesHandler struct {
	graph world.GraphProvider
}

// NewListRoutesHandler creates a new ListRoutesHandler
func NewListRoutesHandler(graph world.GraphProvider) *ListRoutesHandler {
	return &ListRoutesHandler{graph: graph}
}

// Handle executes the ListRoutes query
func (h *ListRoutesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRoutesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRoutesQuery")
	}
	g, err := h.graph.Graph(ctx)
	if err != nil {
		return nil, err
	}
	if query.ZoneID != "" {
		return &ListRoutesResponse{Routes: g.Touching(query.ZoneID)}, nil
	}
	return &ListRoutesResponse{Routes: g.Routes()}, nil
}
