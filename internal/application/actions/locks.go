package actions

import (
	"sort"
	"sync"
)

// WorldGate serializes player actions against the tick pipeline.
// Actions hold it shared; the tick engine holds it exclusive while it
// advances the world.
type WorldGate struct {
	mu sync.RWMutex
}

func NewWorldGate() *WorldGate {
	return &WorldGate{}
}

func (g *WorldGate) EnterAction() { g.mu.RLock() }
func (g *WorldGate) LeaveAction() { g.mu.RUnlock() }
func (g *WorldGate) EnterTick()   { g.mu.Lock() }
func (g *WorldGate) LeaveTick()   { g.mu.Unlock() }

// KeyedLocks hands out one mutex per aggregate key. Acquire sorts and
// deduplicates keys before locking so two actions touching the same
// aggregates always lock in the same order.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedLocks) lock(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Acquire locks every key and returns the release function. Release
// unlocks in reverse order.
func (k *KeyedLocks) Acquire(keys []string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, key)
	}
	sort.Strings(uniq)

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, key := range uniq {
		m := k.lock(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
