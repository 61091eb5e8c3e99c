// Package admin holds the operator-only commands: forcing a tick,
// initializing the world, and the ops dashboard. All handlers require
// the admin key; none of them are player actions, so the gate and
// quotas do not apply.
package admin

import (
	"context"
	"fmt"
	"time"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/application/tick"
)

// ForceTickCommand advances the world one tick immediately, skipping
// the interval check. The idempotent claim still applies, so a forced
// tick cannot double-advance against the scheduler.
type ForceTickCommand struct{}

// ForceTickResponse reports the advance outcome.
type ForceTickResponse struct {
	Tick     int64
	Advanced bool
	Duration time.Duration
}

// ForceTickHandler handles the ForceTick command
type ForceTickHandler struct {
	engine *tick.Engine
}

// NewForceTickHandler creates a new ForceTickHandler
func NewForceTickHandler(engine *tick.Engine) *ForceTickHandler {
	return &ForceTickHandler{engine: engine}
}

// Handle executes the ForceTick command
func (h *ForceTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ForceTickCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ForceTickCommand")
	}
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	result, err := h.engine.Advance(ctx, true)
	if err != nil {
		return nil, err
	}
	return &ForceTickResponse{
		Tick:     result.Tick,
		Advanced: result.Advanced,
		Duration: result.Duration,
	}, nil
}
