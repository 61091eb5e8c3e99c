package season_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/season"
)

func sampleStandings() []season.Standing {
	return []season.Standing{
		{Rank: 1, EntityID: "pl-b", EntityKind: season.EntityPlayer, EntityName: "b", Total: 300, Supply: 300},
		{Rank: 2, EntityID: "fac-1", EntityKind: season.EntityFaction, EntityName: "Iron Column", Total: 120, Zones: 120},
	}
}

func TestSeal_RoundTripsStandings(t *testing.T) {
	sealedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a, err := season.Seal(1, 0, 10_000, sealedAt, sampleStandings(), "")
	require.NoError(t, err)

	got, err := a.Standings()
	require.NoError(t, err)
	assert.Equal(t, sampleStandings(), got)
	assert.Equal(t, 1, a.Season)
	assert.Equal(t, int64(10_000), a.EndedTick)
	assert.NotEmpty(t, a.Hash)
	assert.Empty(t, a.PrevHash)
}

func TestSeal_ChainsOverPreviousHash(t *testing.T) {
	sealedAt := time.Now().UTC()

	first, err := season.Seal(1, 0, 10_000, sealedAt, sampleStandings(), "")
	require.NoError(t, err)
	second, err := season.Seal(2, 10_000, 20_000, sealedAt, sampleStandings(), first.Hash)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.PrevHash)
	assert.NotEqual(t, first.Hash, second.Hash,
		"identical standings still chain to a new digest")
}

func TestVerify_DetectsTampering(t *testing.T) {
	a, err := season.Seal(1, 0, 10_000, time.Now().UTC(), sampleStandings(), "")
	require.NoError(t, err)

	ok, err := a.Verify()
	require.NoError(t, err)
	assert.True(t, ok)

	a.PrevHash = "forged"
	ok, err = a.Verify()
	require.NoError(t, err)
	assert.False(t, ok)
}
