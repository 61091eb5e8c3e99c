package season_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	appseason "burnrate/internal/application/season"
	"burnrate/internal/domain/world"
	"burnrate/test/helpers"
)

func TestGetSeason_ReportsWeekAndRemainingTicks(t *testing.T) {
	db := helpers.NewTestDB(t)
	metaRepo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()
	require.NoError(t, metaRepo.Save(ctx, &world.Meta{
		ID:              world.MetaID,
		CurrentTick:     2500,
		LastTickAt:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Season:          2,
		SeasonStartTick: 0,
		Seed:            "7",
	}))

	handler := appseason.NewGetSeasonHandler(metaRepo, 1000, 4)
	resp, err := handler.Handle(ctx, &appseason.GetSeasonQuery{})
	require.NoError(t, err)

	got := resp.(*appseason.GetSeasonResponse)
	assert.Equal(t, 2, got.Season)
	assert.Equal(t, 3, got.Week)
	assert.Equal(t, int64(2500), got.CurrentTick)
	assert.Equal(t, int64(1500), got.TicksRemaining)
}

func TestGetSeason_RemainingNeverGoesNegative(t *testing.T) {
	db := helpers.NewTestDB(t)
	metaRepo := persistence.NewGormMetaRepository(db)
	ctx := context.Background()
	require.NoError(t, metaRepo.Save(ctx, &world.Meta{
		ID:          world.MetaID,
		CurrentTick: 9000,
		LastTickAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Season:      1,
	}))

	handler := appseason.NewGetSeasonHandler(metaRepo, 1000, 4)
	resp, err := handler.Handle(ctx, &appseason.GetSeasonQuery{})
	require.NoError(t, err)

	got := resp.(*appseason.GetSeasonResponse)
	assert.Equal(t, 10, got.Week)
	assert.Zero(t, got.TicksRemaining)
}
