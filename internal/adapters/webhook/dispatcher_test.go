package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/adapters/webhook"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/shared"
	"burnrate/test/helpers"
)

// capture records every delivery the test endpoint receives.
type capture struct {
	mu        sync.Mutex
	status    int
	bodies    [][]byte
	signature []string
	timestamp []string
}

func (c *capture) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, body)
	c.signature = append(c.signature, r.Header.Get("X-Burnrate-Signature"))
	c.timestamp = append(c.timestamp, r.Header.Get("X-Burnrate-Timestamp"))
	status := c.status
	c.mu.Unlock()
	w.WriteHeader(status)
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bodies)
}

type dispatcherFixture struct {
	dispatcher *webhook.Dispatcher
	webhooks   *persistence.GormWebhookRepository
	events     *persistence.GormEventRepository
	clock      *shared.MockClock
	server     *httptest.Server
	capture    *capture
}

func newDispatcherFixture(t *testing.T, status int) *dispatcherFixture {
	t.Helper()
	db := helpers.NewTestDB(t)

	rec := &capture{status: status}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(server.Close)

	webhooks := persistence.NewGormWebhookRepository(db)
	events := persistence.NewGormEventRepository(db)
	clock := shared.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	d := webhook.NewDispatcher(webhooks, events, clock, zap.NewNop(), webhook.Config{
		Timeout: 2 * time.Second,
		Batch:   2,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go d.Run(ctx)

	return &dispatcherFixture{
		dispatcher: d,
		webhooks:   webhooks,
		events:     events,
		clock:      clock,
		server:     server,
		capture:    rec,
	}
}

func (f *dispatcherFixture) appendEvent(t *testing.T, eventType, actorID string) *event.Event {
	t.Helper()
	e := event.New(uuid.NewString(), eventType, 1, f.clock.Now(), actorID, event.ActorPlayer, map[string]any{"k": "v"})
	require.NoError(t, f.events.Append(context.Background(), e))
	return e
}

func (f *dispatcherFixture) subscribe(t *testing.T, filter []string) *event.Webhook {
	t.Helper()
	w, err := event.NewWebhook("wh-1", "pl-1", f.server.URL, filter, "hush", 0, 1)
	require.NoError(t, err)
	require.NoError(t, f.webhooks.Add(context.Background(), w))
	return w
}

func TestDispatcher_DeliversSignedEventsInOrder(t *testing.T) {
	f := newDispatcherFixture(t, http.StatusOK)
	first := f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	second := f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	third := f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	f.subscribe(t, nil)

	f.dispatcher.Kick()

	require.Eventually(t, func() bool {
		got, err := f.webhooks.FindByID(context.Background(), "wh-1")
		return err == nil && got.CursorSeq == third.Seq
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, 3, f.capture.count())
	f.capture.mu.Lock()
	defer f.capture.mu.Unlock()
	wantSeqs := []int64{first.Seq, second.Seq, third.Seq}
	for i, body := range f.capture.bodies {
		var payload struct {
			Seq  int64  `json:"seq"`
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, wantSeqs[i], payload.Seq, "replayed oldest first")
		assert.Equal(t, event.TypeShipmentArrived, payload.Type)

		signed := append([]byte(f.capture.timestamp[i]), body...)
		assert.Equal(t, shared.SignHex("hush", signed), f.capture.signature[i])
	}

	got, err := f.webhooks.FindByID(context.Background(), "wh-1")
	require.NoError(t, err)
	assert.Equal(t, third.Seq, got.CursorSeq)
	assert.Zero(t, got.FailureCount)
}

func TestDispatcher_FilterSkipsWithoutStallingCursor(t *testing.T) {
	f := newDispatcherFixture(t, http.StatusOK)
	f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	wanted := f.appendEvent(t, event.TypeShipmentIntercepted, "pl-1")
	f.subscribe(t, []string{event.TypeShipmentIntercepted})

	f.dispatcher.Kick()

	require.Eventually(t, func() bool {
		got, err := f.webhooks.FindByID(context.Background(), "wh-1")
		return err == nil && got.CursorSeq == wanted.Seq
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, 1, f.capture.count(), "the filtered event was skipped, not posted")
	f.capture.mu.Lock()
	var payload struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(f.capture.bodies[0], &payload))
	f.capture.mu.Unlock()
	assert.Equal(t, event.TypeShipmentIntercepted, payload.Type)
}

func TestDispatcher_OnlyDeliversEventsVisibleToOwner(t *testing.T) {
	f := newDispatcherFixture(t, http.StatusOK)
	f.appendEvent(t, event.TypeShipmentArrived, "pl-2")
	mine := f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	f.subscribe(t, nil)

	f.dispatcher.Kick()

	require.Eventually(t, func() bool {
		got, err := f.webhooks.FindByID(context.Background(), "wh-1")
		return err == nil && got.CursorSeq == mine.Seq
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, f.capture.count(), "another player's event never left the log")
}

func TestDispatcher_DisablesAfterRepeatedFailures(t *testing.T) {
	f := newDispatcherFixture(t, http.StatusInternalServerError)
	f.appendEvent(t, event.TypeShipmentArrived, "pl-1")
	f.subscribe(t, nil)

	// Each drain fails once and leaves the cursor in place; repeated
	// kicks accumulate failures until the subscription disables.
	require.Eventually(t, func() bool {
		f.dispatcher.Kick()
		got, err := f.webhooks.FindByID(context.Background(), "wh-1")
		return err == nil && got.Disabled
	}, 5*time.Second, 20*time.Millisecond)

	got, err := f.webhooks.FindByID(context.Background(), "wh-1")
	require.NoError(t, err)
	assert.Equal(t, event.MaxWebhookFailures, got.FailureCount)
	assert.Zero(t, got.CursorSeq, "nothing was delivered")

	enabled, err := f.webhooks.FindEnabled(context.Background())
	require.NoError(t, err)
	assert.Empty(t, enabled, "disabled subscriptions leave the drain set")
}
