package event

import "context"

// EventRepository persists the append-only event log. Append assigns
// Seq. FindAfterSeq feeds webhook cursors: events with Seq strictly
// greater than the cursor, visible to the given actor (their own events
// plus world-public types), in Seq order.
type EventRepository interface {
	Append(ctx context.Context, e *Event) error
	FindByActor(ctx context.Context, actorID string, limit int) ([]*Event, error)
	FindVisible(ctx context.Context, actorID string, sinceTick int64, limit int) ([]*Event, error)
	FindAfterSeq(ctx context.Context, actorID string, afterSeq int64, limit int) ([]*Event, error)
	TailSeq(ctx context.Context) (int64, error)
}

// WebhookRepository persists delivery subscriptions.
type WebhookRepository interface {
	FindByID(ctx context.Context, id string) (*Webhook, error)
	FindByPlayer(ctx context.Context, playerID string) ([]*Webhook, error)
	FindEnabled(ctx context.Context) ([]*Webhook, error)
	Add(ctx context.Context, w *Webhook) error
	Update(ctx context.Context, w *Webhook) error
	Delete(ctx context.Context, id string) error
}
