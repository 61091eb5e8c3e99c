// Package webhook delivers the event log to player subscriptions. The
// dispatcher is kicked after every committed tick and action batch,
// drains each enabled subscription from its own cursor, and signs every
// delivery. A failing endpoint stalls only its own stream; five
// consecutive failures disable the subscription.
package webhook

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/shared"
)

// maxConcurrentDeliveries bounds the fan-out across subscriptions.
const maxConcurrentDeliveries = 8

// Config carries the dispatcher's tuning knobs.
type Config struct {
	// Timeout bounds each delivery attempt.
	Timeout time.Duration
	// Batch is how many events one subscription drains per wake.
	Batch int
}

// Dispatcher drains the event log to registered webhooks.
type Dispatcher struct {
	webhooks event.WebhookRepository
	events   event.EventRepository
	client   *resty.Client
	clock    shared.Clock
	logger   *zap.Logger
	wake     chan struct{}
	cfg      Config
}

// NewDispatcher creates a new Dispatcher. Retries are left off: the
// cursor model already re-attempts undelivered events on the next wake.
func NewDispatcher(
	webhooks event.WebhookRepository,
	events event.EventRepository,
	clock shared.Clock,
	logger *zap.Logger,
	cfg Config,
) *Dispatcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "burnrate-webhook")

	return &Dispatcher{
		webhooks: webhooks,
		events:   events,
		client:   client,
		clock:    clock,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		cfg:      cfg,
	}
}

// Kick wakes the dispatcher without blocking the caller. Multiple kicks
// while a drain is running coalesce into one pending wake.
func (d *Dispatcher) Kick() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run drains on every kick until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("webhook dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("webhook dispatcher stopped")
			return
		case <-d.wake:
			d.drain(ctx)
		}
	}
}

// drain fans out across enabled subscriptions. Each goroutine owns its
// webhook row; cursors never interleave.
func (d *Dispatcher) drain(ctx context.Context) {
	hooks, err := d.webhooks.FindEnabled(ctx)
	if err != nil {
		d.logger.Error("failed to load webhooks", zap.Error(err))
		return
	}
	if len(hooks) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDeliveries)
	for _, w := range hooks {
		g.Go(func() error {
			d.drainOne(ctx, w)
			return nil
		})
	}
	_ = g.Wait()
}

// drainOne delivers everything past the subscription's cursor in
// sequence order. The first failure stops the stream so order is
// preserved; the cursor stays put and the next wake retries.
func (d *Dispatcher) drainOne(ctx context.Context, w *event.Webhook) {
	for {
		events, err := d.events.FindAfterSeq(ctx, w.PlayerID, w.CursorSeq, d.cfg.Batch)
		if err != nil {
			d.logger.Error("failed to read events for webhook",
				zap.String("webhook", w.ID), zap.Error(err))
			return
		}
		if len(events) == 0 {
			return
		}

		failed := false
		for _, e := range events {
			if !w.Wants(e.Type) {
				w.Skip(e.Seq)
				continue
			}
			if d.deliver(ctx, w, e) {
				w.RecordSuccess(e.Seq)
				continue
			}
			if w.RecordFailure() {
				metrics.RecordWebhookDisabled()
				d.logger.Warn("webhook disabled after repeated failures",
					zap.String("webhook", w.ID),
					zap.String("url", w.URL))
			}
			failed = true
			break
		}

		if err := d.webhooks.Update(ctx, w); err != nil {
			d.logger.Error("failed to persist webhook cursor",
				zap.String("webhook", w.ID), zap.Error(err))
			return
		}
		if failed || w.Disabled || len(events) < d.cfg.Batch {
			return
		}
	}
}

// deliveryPayload is the wire shape of one delivered event.
type deliveryPayload struct {
	ID        string         `json:"id"`
	Seq       int64          `json:"seq"`
	Type      string         `json:"type"`
	Tick      int64          `json:"tick"`
	Timestamp time.Time      `json:"timestamp"`
	ActorID   string         `json:"actor_id"`
	ActorKind string         `json:"actor_kind"`
	Data      map[string]any `json:"data"`
}

// deliver posts one signed event. The signature MACs the unix timestamp
// header concatenated with the body, so receivers can reject replays.
func (d *Dispatcher) deliver(ctx context.Context, w *event.Webhook, e *event.Event) bool {
	body, err := json.Marshal(deliveryPayload{
		ID:        e.ID,
		Seq:       e.Seq,
		Type:      e.Type,
		Tick:      e.Tick,
		Timestamp: e.Timestamp,
		ActorID:   e.ActorID,
		ActorKind: string(e.ActorKind),
		Data:      e.Data,
	})
	if err != nil {
		d.logger.Error("failed to encode webhook payload",
			zap.String("event", e.ID), zap.Error(err))
		return false
	}

	ts := strconv.FormatInt(d.clock.Now().Unix(), 10)
	signed := make([]byte, 0, len(ts)+len(body))
	signed = append(signed, ts...)
	signed = append(signed, body...)

	started := d.clock.Now()
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("X-Burnrate-Timestamp", ts).
		SetHeader("X-Burnrate-Signature", shared.SignHex(w.Secret, signed)).
		SetBody(body).
		Post(w.URL)
	duration := d.clock.Since(started).Seconds()

	ok := err == nil && resp.StatusCode() >= 200 && resp.StatusCode() < 300
	metrics.RecordWebhookDelivery(duration, ok)
	if !ok {
		status := 0
		if resp != nil {
			status = resp.StatusCode()
		}
		d.logger.Debug("webhook delivery failed",
			zap.String("webhook", w.ID),
			zap.Int64("seq", e.Seq),
			zap.Int("status", status),
			zap.Error(err))
	}
	return ok
}
