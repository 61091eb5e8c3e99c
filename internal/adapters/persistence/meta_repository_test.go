package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
	"burnrate/test/helpers"
)

func TestMetaRepository_SaveAndGet(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()
	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	// Act
	err := repo.Save(ctx, &world.Meta{
		CurrentTick:     42,
		LastTickAt:      stamp,
		Season:          3,
		SeasonStartTick: 30,
		Seed:            "1771",
		ArchiveHash:     "abc123",
	})
	require.NoError(t, err)
	got, err := repo.Get(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, world.MetaID, got.ID)
	assert.Equal(t, int64(42), got.CurrentTick)
	assert.True(t, got.LastTickAt.Equal(stamp))
	assert.Equal(t, 3, got.Season)
	assert.Equal(t, int64(30), got.SeasonStartTick)
	assert.Equal(t, "1771", got.Seed)
	assert.Equal(t, "abc123", got.ArchiveHash)
}

func TestMetaRepository_GetWithoutRowIsNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMetaRepository(db)

	_, err := repo.Get(context.Background())

	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestMetaRepository_ClaimTickCAS(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()
	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &world.Meta{CurrentTick: 10, LastTickAt: stamp, Season: 1}))

	// First claimant wins.
	claimed, err := repo.ClaimTick(ctx, 11, stamp.Add(time.Second), stamp)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claimant carrying the stale stamp loses.
	claimed, err = repo.ClaimTick(ctx, 11, stamp.Add(2*time.Second), stamp)
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.CurrentTick)
	assert.True(t, got.LastTickAt.Equal(stamp.Add(time.Second)), "the loser must not move the stamp")
}

func TestMetaRepository_ClaimTickRequiresPredecessorTick(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()
	stamp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &world.Meta{CurrentTick: 10, LastTickAt: stamp, Season: 1}))

	claimed, err := repo.ClaimTick(ctx, 13, stamp.Add(time.Second), stamp)

	require.NoError(t, err)
	assert.False(t, claimed, "claims only advance by exactly one tick")
}
