package player

import (
	"context"
	"fmt"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
)

// ListEventsQuery returns the caller's event history: their own events
// plus world-public types, newest first.
type ListEventsQuery struct {
	SinceTick int64
	Limit     int
}

// ListEventsResponse carries the events.
type ListEventsResponse struct {
	Events []*event.Event
}

// ListEventsHandler handles the ListEvents query
type ListEventsHandler struct {
	events event.EventRepository
}

// NewListEventsHandler creates a new ListEventsHandler
func NewListEventsHandler(events event.EventRepository) *ListEventsHandler {
	return &ListEventsHandler{events: events}
}

// Handle executes the ListEvents query
func (h *ListEventsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListEventsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListEventsQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := h.events.FindVisible(ctx, actor.ID, query.SinceTick, limit)
	if err != nil {
		return nil, err
	}
	return &ListEventsResponse{Events: events}, nil
}
