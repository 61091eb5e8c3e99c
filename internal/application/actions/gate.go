package actions

import (
	"context"
	"sort"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// lockRevalidations bounds the acquire/reload loop when a concurrent
// action keeps moving the actor between aggregates.
const lockRevalidations = 3

// Gate enforces the per-action checks every mutating request passes
// through: authentication, per-player rate limit, the world read lock,
// per-aggregate locks, and the daily action quota. The handler and the
// quota charge run in one transaction, so an action either mutates and
// counts or does neither.
type Gate struct {
	limiters    *Limiters
	worldGate   *WorldGate
	locks       *KeyedLocks
	players     player.PlayerRepository
	meta        world.MetaRepository
	txm         shared.TxManager
	ticksPerDay int64
}

func NewGate(
	limiters *Limiters,
	worldGate *WorldGate,
	locks *KeyedLocks,
	players player.PlayerRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	ticksPerDay int64,
) *Gate {
	return &Gate{
		limiters:    limiters,
		worldGate:   worldGate,
		locks:       locks,
		players:     players,
		meta:        meta,
		txm:         txm,
		ticksPerDay: ticksPerDay,
	}
}

// Middleware wraps action requests; queries pass straight through.
func (g *Gate) Middleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		action, ok := request.(Action)
		if !ok {
			return next(ctx, request)
		}

		actor, err := auth.RequirePlayer(ctx)
		if err != nil {
			return nil, err
		}

		if !rateConsumed(ctx) {
			allowed, retryAfter := g.limiters.Allow(actor.ID)
			if !allowed {
				return nil, shared.NewRateLimitedError(retryAfter)
			}
		}

		g.worldGate.EnterAction()
		defer g.worldGate.LeaveAction()

		fresh, release, err := g.lockAndLoad(ctx, action, actor)
		if err != nil {
			return nil, err
		}
		defer release()

		meta, err := g.meta.Get(ctx)
		if err != nil {
			return nil, err
		}

		fresh.ResetQuotaIfNewDay(meta.CurrentTick, g.ticksPerDay)
		if quota := fresh.Tier.DailyQuota(); fresh.ActionsToday >= quota {
			return nil, shared.NewQuotaExceededError(fresh.ActionsToday, quota)
		}

		var resp mediator.Response
		err = g.txm.Do(ctx, func(txCtx context.Context) error {
			var handlerErr error
			resp, handlerErr = next(auth.WithPlayer(txCtx, fresh), request)
			if handlerErr != nil {
				return handlerErr
			}
			return g.chargeAction(txCtx, actor.ID, meta.CurrentTick)
		})
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// lockAndLoad acquires the action's aggregate locks, then confirms the
// key set against a freshly loaded actor. A concurrent action (travel,
// faction change) can invalidate keys derived from the context copy, so
// the loop re-acquires with the fresh set until it is stable.
func (g *Gate) lockAndLoad(ctx context.Context, action Action, actor *player.Player) (*player.Player, func(), error) {
	keys := lockSet(action, actor)
	for attempt := 0; ; attempt++ {
		release := g.locks.Acquire(keys)
		fresh, err := g.players.FindByID(ctx, actor.ID)
		if err != nil {
			release()
			return nil, nil, err
		}
		freshKeys := lockSet(action, fresh)
		if sameKeys(keys, freshKeys) {
			return fresh, release, nil
		}
		release()
		keys = freshKeys
		if attempt == lockRevalidations {
			return nil, nil, shared.NewTransactionConflictError(
				"aggregate set kept changing under concurrent actions")
		}
	}
}

// chargeAction reloads the row the handler may have rewritten and
// counts the action. Runs under the still-held player lock, inside the
// same transaction as the handler's mutation.
func (g *Gate) chargeAction(ctx context.Context, playerID string, tick int64) error {
	p, err := g.players.FindByID(ctx, playerID)
	if err != nil {
		return err
	}
	p.ResetQuotaIfNewDay(tick, g.ticksPerDay)
	p.RecordAction(tick)
	return g.players.Update(ctx, p)
}

func lockSet(action Action, actor *player.Player) []string {
	keys := append(action.LockKeys(actor), PlayerLock(actor.ID))
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)
	return uniq
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
