package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/world"
)

func mustRoute(t *testing.T, id, from, to string, distance int) *world.Route {
	t.Helper()
	r, err := world.NewRoute(id, from, to, distance, 10, 0.05, 1.0)
	require.NoError(t, err)
	return r
}

func TestNewRoute_Bounds(t *testing.T) {
	_, err := world.NewRoute("rt-1", "a", "b", 0, 10, 0.05, 1.0)
	assert.Error(t, err, "distance below 1")

	_, err = world.NewRoute("rt-1", "a", "b", 3, 10, 0.31, 1.0)
	assert.Error(t, err, "risk above 0.3")

	_, err = world.NewRoute("rt-1", "a", "b", 3, 10, 0.05, 3.5)
	assert.Error(t, err, "chokepoint above 3.0")

	r, err := world.NewRoute("rt-1", "a", "b", 3, 10, 0.3, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Distance)
}

func TestGraph_EdgesServeBothDirections(t *testing.T) {
	g := world.NewGraph([]*world.Route{
		mustRoute(t, "rt-ab", "a", "b", 2),
		mustRoute(t, "rt-bc", "b", "c", 4),
	})

	r, ok := g.RouteBetween("b", "a")
	require.True(t, ok)
	assert.Equal(t, "rt-ab", r.ID)

	d, ok := g.Distance("c", "b")
	require.True(t, ok)
	assert.Equal(t, 4, d)

	_, ok = g.Distance("a", "c")
	assert.False(t, ok, "no direct edge")
}

func TestGraph_TouchingDeduplicates(t *testing.T) {
	g := world.NewGraph([]*world.Route{
		mustRoute(t, "rt-ab", "a", "b", 2),
		mustRoute(t, "rt-ac", "a", "c", 3),
	})

	edges := g.Touching("a")

	assert.Len(t, edges, 2)
	assert.Len(t, g.Touching("b"), 1)
	assert.Empty(t, g.Touching("zzz"))
}

func TestRecipeFor_ScalesInputs(t *testing.T) {
	cost, ok := world.RecipeFor(world.OutputSU, 3)
	require.True(t, ok)
	assert.Equal(t, 6, cost.Get("rations"))
	assert.Equal(t, 3, cost.Get("fuel"))
	assert.Equal(t, 3, cost.Get("parts"))
	assert.Equal(t, 3, cost.Get("ammo"))

	_, ok = world.RecipeFor("plasma", 1)
	assert.False(t, ok)
}

func TestMeta_Week(t *testing.T) {
	m := &world.Meta{CurrentTick: 2100, SeasonStartTick: 0}
	assert.Equal(t, 3, m.Week(1000))

	m.SeasonStartTick = 2000
	assert.Equal(t, 1, m.Week(1000))

	assert.Equal(t, 1, m.Week(0), "guard against zero divisor")
}
