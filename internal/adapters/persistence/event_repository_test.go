package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/domain/event"
	"burnrate/test/helpers"
)

func appendEvent(t *testing.T, repo *persistence.GormEventRepository, eventType string, tick int64, actorID string, kind event.ActorKind) *event.Event {
	t.Helper()
	e := event.New(uuid.NewString(), eventType, tick, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), actorID, kind, map[string]any{"tick": tick})
	require.NoError(t, repo.Append(context.Background(), e))
	return e
}

func TestEventRepository_AppendAssignsIncreasingSeq(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	first := appendEvent(t, repo, event.TypePlayerJoined, 1, "pl-1", event.ActorPlayer)
	second := appendEvent(t, repo, event.TypePlayerTraveled, 2, "pl-1", event.ActorPlayer)

	assert.Positive(t, first.Seq)
	assert.Greater(t, second.Seq, first.Seq)

	tail, err := repo.TailSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.Seq, tail)
}

func TestEventRepository_TailSeqIsZeroWhenEmpty(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	tail, err := repo.TailSeq(context.Background())
	require.NoError(t, err)
	assert.Zero(t, tail)
}

func TestEventRepository_FindByActorIsNewestFirst(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	appendEvent(t, repo, event.TypePlayerJoined, 1, "pl-1", event.ActorPlayer)
	appendEvent(t, repo, event.TypePlayerJoined, 1, "pl-2", event.ActorPlayer)
	appendEvent(t, repo, event.TypePlayerTraveled, 3, "pl-1", event.ActorPlayer)

	got, err := repo.FindByActor(context.Background(), "pl-1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, event.TypePlayerTraveled, got[0].Type)
	assert.Equal(t, event.TypePlayerJoined, got[1].Type)
}

func TestEventRepository_FindAfterSeqReplaysOwnAndPublicInOrder(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	mine := appendEvent(t, repo, event.TypeShipmentArrived, 5, "pl-1", event.ActorPlayer)
	appendEvent(t, repo, event.TypeShipmentArrived, 5, "pl-2", event.ActorPlayer)
	public := appendEvent(t, repo, event.TypeTickCompleted, 5, "system", event.ActorSystem)
	appendEvent(t, repo, event.TypeUnitDeleted, 6, "pl-2", event.ActorPlayer)
	later := appendEvent(t, repo, event.TypeZoneCollapsed, 6, "system", event.ActorSystem)

	got, err := repo.FindAfterSeq(context.Background(), "pl-1", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, mine.Seq, got[0].Seq, "oldest first")
	assert.Equal(t, public.Seq, got[1].Seq)
	assert.Equal(t, later.Seq, got[2].Seq)

	// Cursor past the first delivery only replays the remainder.
	got, err = repo.FindAfterSeq(context.Background(), "pl-1", mine.Seq, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, public.Seq, got[0].Seq)
}

func TestEventRepository_FindVisibleFiltersByTick(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEventRepository(db)

	appendEvent(t, repo, event.TypeShipmentArrived, 2, "pl-1", event.ActorPlayer)
	appendEvent(t, repo, event.TypeShipmentArrived, 8, "pl-1", event.ActorPlayer)
	appendEvent(t, repo, event.TypeSeasonReset, 9, "system", event.ActorSystem)
	appendEvent(t, repo, event.TypeUnitDeleted, 9, "pl-2", event.ActorPlayer)

	got, err := repo.FindVisible(context.Background(), "pl-1", 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, event.TypeSeasonReset, got[0].Type, "newest first")
	assert.Equal(t, event.TypeShipmentArrived, got[1].Type)
}
