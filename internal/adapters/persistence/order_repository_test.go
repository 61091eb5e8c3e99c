package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
	"burnrate/test/helpers"
)

func TestOrderRepository_NextSeqIsMonotonic(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		seq, err := repo.NextSeq(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}
}

func TestOrderRepository_OpenOrderQueries(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	add := func(id, owner, zone string, seq int64) *market.Order {
		o, err := market.NewLimitOrder(id, owner, zone, shared.ResourceOre, market.SideSell, 10, 5, 1, seq)
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, o))
		return o
	}
	add("ord-1", "pl-1", "zn-a", 1)
	add("ord-2", "pl-1", "zn-b", 2)
	filled := add("ord-3", "pl-2", "zn-a", 3)
	add("ord-4", "pl-2", "zn-a", 4)

	filled.Status = market.StatusFilled
	require.NoError(t, repo.Update(ctx, filled))

	byZone, err := repo.FindOpenByZone(ctx, "zn-a")
	require.NoError(t, err)
	require.Len(t, byZone, 2)
	assert.Equal(t, "ord-1", byZone[0].ID, "listed in arrival order")
	assert.Equal(t, "ord-4", byZone[1].ID)

	byOwner, err := repo.FindOpenByOwner(ctx, "pl-1")
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	count, err := repo.CountOpenByOwner(ctx, "pl-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "filled orders do not count against the cap")
}

func TestOrderRepository_RoundTripKeepsTriggerAndSliceState(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	o, err := market.NewTWAPOrder("ord-twap", "pl-1", "zn-a", shared.ResourceFuel, market.SideSell, 9, 25, 10, 4, 7)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, o))

	got, err := repo.FindByID(ctx, "ord-twap")
	require.NoError(t, err)
	assert.Equal(t, market.TypeTWAP, got.Type)
	assert.Equal(t, 25, got.TotalQuantity)
	assert.Equal(t, 10, got.SlicePerTick)
	assert.Equal(t, got.TicksRemaining, o.TicksRemaining)
	assert.Equal(t, int64(7), got.Seq)

	_, err = repo.FindByID(ctx, "ord-missing")
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestOrderRepository_DeleteAll(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	o, err := market.NewLimitOrder("ord-1", "pl-1", "zn-a", shared.ResourceOre, market.SideBuy, 10, 5, 1, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, o))

	require.NoError(t, repo.DeleteAll(ctx))

	open, err := repo.FindOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
