package actions

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Per-player action throughput: sustained one action per second with a
// burst of ten.
const (
	ActionsPerSecond = 1
	ActionBurst      = 10
)

// Limiters keeps one token bucket per player, created lazily.
type Limiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLimiters() *Limiters {
	return &Limiters{limiters: make(map[string]*rate.Limiter)}
}

func (l *Limiters) limiter(playerID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[playerID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(ActionsPerSecond), ActionBurst)
		l.limiters[playerID] = lim
	}
	return lim
}

// Allow consumes one token. When denied it reports how long until the
// next token so callers can set Retry-After.
func (l *Limiters) Allow(playerID string) (bool, time.Duration) {
	return l.AllowN(playerID, 1)
}

// AllowN consumes n tokens at once; batches reserve their full size up
// front so a batch cannot outrun the per-action budget.
func (l *Limiters) AllowN(playerID string, n int) (bool, time.Duration) {
	lim := l.limiter(playerID)
	res := lim.ReserveN(time.Now(), n)
	if !res.OK() {
		return false, time.Duration(n) * time.Second
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}
