package event

import (
	"net/url"
	"strings"

	"burnrate/internal/domain/shared"
)

// MaxWebhookFailures is the consecutive-failure count at which a
// subscription is disabled instead of retried.
const MaxWebhookFailures = 5

// Webhook is a player-owned delivery subscription. CursorSeq is the
// highest event Seq already delivered; the dispatcher drains everything
// after it in order, so a slow endpoint delays only its own stream.
type Webhook struct {
	ID            string
	PlayerID      string
	URL           string
	EventFilter   []string
	Secret        string
	FailureCount  int
	Disabled      bool
	CursorSeq     int64
	CreatedAtTick int64
}

// NewWebhook validates the target URL and filter entries. An empty
// filter subscribes to every event visible to the owner. The cursor
// starts at the current tail so history is never replayed.
func NewWebhook(id, playerID, rawURL string, filter []string, secret string, tailSeq, tick int64) (*Webhook, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, shared.NewValidationError("url", "must be an absolute http(s) URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, shared.NewValidationError("url", "scheme must be http or https")
	}
	if secret == "" {
		return nil, shared.NewValidationError("secret", "is required")
	}
	for _, f := range filter {
		if strings.TrimSpace(f) == "" {
			return nil, shared.NewValidationError("events", "filter entries must be non-empty")
		}
	}
	return &Webhook{
		ID:            id,
		PlayerID:      playerID,
		URL:           rawURL,
		EventFilter:   filter,
		Secret:        secret,
		CursorSeq:     tailSeq,
		CreatedAtTick: tick,
	}, nil
}

// Wants reports whether the subscription's filter matches the event
// type. Visibility (own events plus world-public types) is enforced by
// the dispatcher's query, not here.
func (w *Webhook) Wants(eventType string) bool {
	if len(w.EventFilter) == 0 {
		return true
	}
	for _, f := range w.EventFilter {
		if f == eventType {
			return true
		}
	}
	return false
}

// RecordFailure increments the failure counter and disables the
// subscription once it reaches MaxWebhookFailures. Returns true when
// this call disabled it.
func (w *Webhook) RecordFailure() bool {
	w.FailureCount++
	if w.FailureCount >= MaxWebhookFailures && !w.Disabled {
		w.Disabled = true
		return true
	}
	return false
}

// RecordSuccess resets the failure counter and advances the cursor.
func (w *Webhook) RecordSuccess(seq int64) {
	w.FailureCount = 0
	if seq > w.CursorSeq {
		w.CursorSeq = seq
	}
}

// Skip advances the cursor past an event the filter rejects without
// touching the failure counter.
func (w *Webhook) Skip(seq int64) {
	if seq > w.CursorSeq {
		w.CursorSeq = seq
	}
}
