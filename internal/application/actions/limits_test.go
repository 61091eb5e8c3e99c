package actions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"burnrate/internal/application/actions"
)

func TestLimiters_BurstThenThrottle(t *testing.T) {
	limiters := actions.NewLimiters()

	for i := 0; i < actions.ActionBurst; i++ {
		ok, _ := limiters.Allow("pl-1")
		assert.True(t, ok, "burst token %d", i+1)
	}

	ok, retryAfter := limiters.Allow("pl-1")
	assert.False(t, ok, "burst exhausted")
	assert.Greater(t, retryAfter.Milliseconds(), int64(0),
		"denial reports when the next token arrives")
}

func TestLimiters_PlayersAreIndependent(t *testing.T) {
	limiters := actions.NewLimiters()

	for i := 0; i < actions.ActionBurst; i++ {
		limiters.Allow("pl-1")
	}

	ok, _ := limiters.Allow("pl-2")
	assert.True(t, ok, "one player's exhaustion must not throttle another")
}

func TestAllowN_BatchReservesFullSize(t *testing.T) {
	limiters := actions.NewLimiters()

	ok, _ := limiters.AllowN("pl-1", actions.ActionBurst)
	assert.True(t, ok, "a burst-sized batch fits")

	ok, retryAfter := limiters.AllowN("pl-1", 2)
	assert.False(t, ok)
	assert.Greater(t, retryAfter.Milliseconds(), int64(0))
}

func TestAllowN_OversizedBatchNeverFits(t *testing.T) {
	limiters := actions.NewLimiters()

	ok, retryAfter := limiters.AllowN("pl-1", actions.ActionBurst+1)

	assert.False(t, ok, "a batch above the burst ceiling cannot reserve")
	assert.Greater(t, retryAfter.Milliseconds(), int64(0))

	ok, _ = limiters.Allow("pl-1")
	assert.True(t, ok, "the failed oversized reservation must not consume tokens")
}
