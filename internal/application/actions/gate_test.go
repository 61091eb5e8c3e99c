package actions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
	"burnrate/test/helpers"
)

type stubAction struct{}

func (stubAction) ActionName() string               { return "stub" }
func (stubAction) LockKeys(*player.Player) []string { return nil }

type gateFixture struct {
	gate    *actions.Gate
	players player.PlayerRepository
	actor   *player.Player
	ctx     context.Context
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	players := persistence.NewGormPlayerRepository(db)
	metaRepo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()

	require.NoError(t, metaRepo.Save(ctx, &world.Meta{
		ID:          world.MetaID,
		CurrentTick: 100,
		LastTickAt:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Season:      1,
		Seed:        "1",
	}))

	actor := player.NewPlayer("pl-1", "Vex", "key-1", "zn-hub", 100)
	require.NoError(t, players.Add(ctx, actor))

	gate := actions.NewGate(
		actions.NewLimiters(),
		actions.NewWorldGate(),
		actions.NewKeyedLocks(),
		players,
		metaRepo,
		persistence.NewGormTxManager(db),
		1000,
	)
	return &gateFixture{
		gate:    gate,
		players: players,
		actor:   actor,
		ctx:     auth.WithPlayer(ctx, actor),
	}
}

func (f *gateFixture) run(t *testing.T, next mediator.HandlerFunc) (mediator.Response, error) {
	t.Helper()
	return f.gate.Middleware()(f.ctx, stubAction{}, next)
}

func TestGate_ChargesQuotaWithHandlerMutation(t *testing.T) {
	f := newGateFixture(t)

	resp, err := f.run(t, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		actor, err := auth.RequirePlayer(ctx)
		if err != nil {
			return nil, err
		}
		actor.Credits += 50
		return "ok", f.players.Update(ctx, actor)
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	stored, err := f.players.FindByID(context.Background(), f.actor.ID)
	require.NoError(t, err)
	assert.Equal(t, player.StartingCredits+50, stored.Credits)
	assert.Equal(t, 1, stored.ActionsToday)
	assert.Equal(t, int64(100), stored.LastActionTick)
}

func TestGate_HandlerFailureRollsBackMutationAndQuota(t *testing.T) {
	f := newGateFixture(t)
	boom := errors.New("boom")

	_, err := f.run(t, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		actor, authErr := auth.RequirePlayer(ctx)
		if authErr != nil {
			return nil, authErr
		}
		actor.Credits += 50
		if updateErr := f.players.Update(ctx, actor); updateErr != nil {
			return nil, updateErr
		}
		return nil, boom
	})

	require.ErrorIs(t, err, boom)

	stored, findErr := f.players.FindByID(context.Background(), f.actor.ID)
	require.NoError(t, findErr)
	assert.Equal(t, player.StartingCredits, stored.Credits, "handler write rolled back")
	assert.Zero(t, stored.ActionsToday, "no quota charged for a failed action")
}

func TestGate_RejectsWhenQuotaExhausted(t *testing.T) {
	f := newGateFixture(t)
	f.actor.ActionsToday = player.TierFreelance.DailyQuota()
	f.actor.LastActionTick = 100
	require.NoError(t, f.players.Update(context.Background(), f.actor))

	handlerRan := false
	_, err := f.run(t, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		handlerRan = true
		return nil, nil
	})

	require.Error(t, err)
	assert.Equal(t, shared.KindQuotaExceeded, shared.KindOf(err))
	assert.False(t, handlerRan)
}

func TestGate_QueriesBypassTheGate(t *testing.T) {
	f := newGateFixture(t)

	resp, err := f.gate.Middleware()(context.Background(), "plain-query", func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}
