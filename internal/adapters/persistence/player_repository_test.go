package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/test/helpers"
)

func TestPlayerRepository_RoundTrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	ctx := context.Background()

	p := player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 7)
	p.Inventory.Add(shared.ResourceOre, 12)
	p.Inventory.Add(shared.ResourceFuel, 3)
	p.Licenses[player.LicenseFreight] = true
	p.Reputation = 80
	p.FactionID = "fac-1"
	p.TutorialStep = 2

	// Act
	require.NoError(t, repo.Add(ctx, p))
	got, err := repo.FindByID(ctx, "pl-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "mara", got.Name)
	assert.Equal(t, player.TierFreelance, got.Tier)
	assert.Equal(t, player.StartingCredits, got.Credits)
	assert.Equal(t, 12, got.Inventory.Get(shared.ResourceOre))
	assert.Equal(t, 3, got.Inventory.Get(shared.ResourceFuel))
	assert.True(t, got.HasLicense(player.LicenseCourier))
	assert.True(t, got.HasLicense(player.LicenseFreight))
	assert.False(t, got.HasLicense(player.LicenseConvoy))
	assert.Equal(t, 80, got.Reputation)
	assert.Equal(t, "fac-1", got.FactionID)
	assert.Equal(t, 2, got.TutorialStep)
	assert.Equal(t, int64(7), got.CreatedAtTick)
}

func TestPlayerRepository_FindByAPIKey(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0)))

	got, err := repo.FindByAPIKey(ctx, "bk_abc")
	require.NoError(t, err)
	assert.Equal(t, "pl-1", got.ID)

	_, err = repo.FindByAPIKey(ctx, "bk_wrong")
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestPlayerRepository_UpdatePersistsMutations(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	ctx := context.Background()
	p := player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0)
	require.NoError(t, repo.Add(ctx, p))

	p.Credits = 1234
	p.CurrentZoneID = "zn-field"
	p.RecordAction(55)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), got.Credits)
	assert.Equal(t, "zn-field", got.CurrentZoneID)
	assert.Equal(t, 1, got.ActionsToday)
	assert.Equal(t, int64(55), got.LastActionTick)
}

func TestPlayerRepository_AddCreditsIsCumulative(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, player.NewPlayer("pl-1", "mara", "bk_abc", "zn-hub", 0)))

	require.NoError(t, repo.AddCredits(ctx, "pl-1", 250))
	require.NoError(t, repo.AddCredits(ctx, "pl-1", 50))

	got, err := repo.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, player.StartingCredits+300, got.Credits)
}

func TestPlayerRepository_FindByFaction(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)
	ctx := context.Background()
	for _, spec := range []struct{ id, faction string }{
		{"pl-1", "fac-1"},
		{"pl-2", "fac-1"},
		{"pl-3", "fac-2"},
		{"pl-4", ""},
	} {
		p := player.NewPlayer(spec.id, "name-"+spec.id, "bk_"+spec.id, "zn-hub", 0)
		p.FactionID = spec.faction
		require.NoError(t, repo.Add(ctx, p))
	}

	got, err := repo.FindByFaction(ctx, "fac-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"pl-1", "pl-2"}, ids)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
