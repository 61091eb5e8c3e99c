package actions

import (
	"context"

	"burnrate/internal/domain/event"
	"burnrate/internal/domain/shared"
)

// Emitter appends events to the log. Handlers emit inside their
// transaction so a rolled-back action leaves no trace.
type Emitter struct {
	events event.EventRepository
	clock  shared.Clock
}

func NewEmitter(events event.EventRepository, clock shared.Clock) *Emitter {
	return &Emitter{events: events, clock: clock}
}

// Emit records one event for a player actor.
func (e *Emitter) Emit(ctx context.Context, eventType string, tick int64, actorID string, data map[string]any) error {
	return e.emit(ctx, eventType, tick, actorID, event.ActorPlayer, data)
}

// EmitFaction records one event for a faction actor.
func (e *Emitter) EmitFaction(ctx context.Context, eventType string, tick int64, factionID string, data map[string]any) error {
	return e.emit(ctx, eventType, tick, factionID, event.ActorFaction, data)
}

// EmitSystem records one event produced by the tick pipeline itself.
func (e *Emitter) EmitSystem(ctx context.Context, eventType string, tick int64, data map[string]any) error {
	return e.emit(ctx, eventType, tick, "system", event.ActorSystem, data)
}

func (e *Emitter) emit(ctx context.Context, eventType string, tick int64, actorID string, kind event.ActorKind, data map[string]any) error {
	return e.events.Append(ctx, event.New(shared.NewID(), eventType, tick, e.clock.Now(), actorID, kind, data))
}
