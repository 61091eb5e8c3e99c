package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/event"
)

func newHook(t *testing.T, filter []string) *event.Webhook {
	t.Helper()
	w, err := event.NewWebhook("wh-1", "pl-1", "https://example.com/hook", filter, "s3cret", 40, 100)
	require.NoError(t, err)
	return w
}

func TestNewWebhook_Validation(t *testing.T) {
	_, err := event.NewWebhook("wh-1", "pl-1", "not a url", nil, "s", 0, 0)
	assert.Error(t, err)

	_, err = event.NewWebhook("wh-1", "pl-1", "ftp://example.com", nil, "s", 0, 0)
	assert.Error(t, err, "scheme must be http or https")

	_, err = event.NewWebhook("wh-1", "pl-1", "https://example.com", nil, "", 0, 0)
	assert.Error(t, err, "secret required")

	_, err = event.NewWebhook("wh-1", "pl-1", "https://example.com", []string{" "}, "s", 0, 0)
	assert.Error(t, err, "blank filter entry")
}

func TestNewWebhook_CursorStartsAtTail(t *testing.T) {
	w := newHook(t, nil)

	assert.Equal(t, int64(40), w.CursorSeq, "history is never replayed")
	assert.False(t, w.Disabled)
}

func TestWants(t *testing.T) {
	all := newHook(t, nil)
	assert.True(t, all.Wants("tick_completed"))
	assert.True(t, all.Wants("shipment_arrived"))

	some := newHook(t, []string{"shipment_arrived", "shipment_intercepted"})
	assert.True(t, some.Wants("shipment_arrived"))
	assert.False(t, some.Wants("tick_completed"))
}

func TestRecordFailure_DisablesAtThreshold(t *testing.T) {
	w := newHook(t, nil)

	for i := 0; i < event.MaxWebhookFailures-1; i++ {
		assert.False(t, w.RecordFailure(), "failure %d", i+1)
		assert.False(t, w.Disabled)
	}

	assert.True(t, w.RecordFailure(), "fifth consecutive failure disables")
	assert.True(t, w.Disabled)
	assert.False(t, w.RecordFailure(), "already disabled, not disabled again")
}

func TestRecordSuccess_ResetsFailuresAndAdvancesCursor(t *testing.T) {
	w := newHook(t, nil)
	w.RecordFailure()
	w.RecordFailure()

	w.RecordSuccess(55)

	assert.Zero(t, w.FailureCount)
	assert.Equal(t, int64(55), w.CursorSeq)

	w.RecordSuccess(50)
	assert.Equal(t, int64(55), w.CursorSeq, "cursor never rewinds")
}

func TestSkip_AdvancesCursorWithoutFailures(t *testing.T) {
	w := newHook(t, []string{"tick_completed"})
	w.RecordFailure()

	w.Skip(60)

	assert.Equal(t, int64(60), w.CursorSeq)
	assert.Equal(t, 1, w.FailureCount, "skipping is not a delivery outcome")
}
