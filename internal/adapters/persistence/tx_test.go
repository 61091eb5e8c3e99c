package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/domain/player"
	"burnrate/test/helpers"
)

func TestTxManager_CommitsOnNilError(t *testing.T) {
	db := helpers.NewTestDB(t)
	tx := persistence.NewGormTxManager(db)
	players := persistence.NewGormPlayerRepository(db)

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		return players.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0))
	})
	require.NoError(t, err)

	_, err = players.FindByID(context.Background(), "pl-1")
	assert.NoError(t, err)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := helpers.NewTestDB(t)
	tx := persistence.NewGormTxManager(db)
	players := persistence.NewGormPlayerRepository(db)
	boom := errors.New("boom")

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		if err := players.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := players.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "the insert must not survive the rollback")
}

func TestTxManager_ReadsOwnWrites(t *testing.T) {
	db := helpers.NewTestDB(t)
	tx := persistence.NewGormTxManager(db)
	players := persistence.NewGormPlayerRepository(db)

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		if err := players.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0)); err != nil {
			return err
		}
		got, err := players.FindByID(ctx, "pl-1")
		if err != nil {
			return err
		}
		assert.Equal(t, "mara", got.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestTxManager_NestedDoJoinsOuterTransaction(t *testing.T) {
	db := helpers.NewTestDB(t)
	tx := persistence.NewGormTxManager(db)
	players := persistence.NewGormPlayerRepository(db)
	boom := errors.New("boom")

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		inner := tx.Do(ctx, func(ctx context.Context) error {
			return players.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0))
		})
		require.NoError(t, inner, "inner Do must not open a second transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := players.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "the inner write rolls back with the outer transaction")
}
