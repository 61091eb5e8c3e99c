package worldgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
	"burnrate/internal/worldgen"
)

func TestGenerate_RejectsCountOutOfBounds(t *testing.T) {
	_, err := worldgen.Generate("seed", worldgen.MinZones-1)
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = worldgen.Generate("seed", worldgen.MaxZones+1)
	require.Error(t, err)
}

func TestGenerate_IsDeterministicPerSeed(t *testing.T) {
	a, err := worldgen.Generate("season-7", 40)
	require.NoError(t, err)
	b, err := worldgen.Generate("season-7", 40)
	require.NoError(t, err)

	require.Len(t, b.Zones, len(a.Zones))
	for i := range a.Zones {
		assert.Equal(t, a.Zones[i].ID, b.Zones[i].ID)
		assert.Equal(t, a.Zones[i].Name, b.Zones[i].Name)
		assert.Equal(t, a.Zones[i].Kind, b.Zones[i].Kind)
		assert.Equal(t, a.Zones[i].FieldResource, b.Zones[i].FieldResource)
	}
	require.Len(t, b.Routes, len(a.Routes))
	for i := range a.Routes {
		assert.Equal(t, a.Routes[i].ID, b.Routes[i].ID)
		assert.Equal(t, a.Routes[i].Distance, b.Routes[i].Distance)
		assert.Equal(t, a.Routes[i].BaseRisk, b.Routes[i].BaseRisk)
	}

	other, err := worldgen.Generate("season-8", 40)
	require.NoError(t, err)
	assert.NotEqual(t, a.Zones[0].ID, other.Zones[0].ID, "a different seed makes a different map")
}

func TestGenerate_EveryKindIsRepresented(t *testing.T) {
	w, err := worldgen.Generate("seed", worldgen.MinZones)
	require.NoError(t, err)
	require.Len(t, w.Zones, worldgen.MinZones)

	byKind := map[world.ZoneKind]int{}
	names := map[string]bool{}
	for _, z := range w.Zones {
		byKind[z.Kind]++
		assert.False(t, names[z.Name], "zone names are unique")
		names[z.Name] = true
	}
	for _, kind := range []world.ZoneKind{
		world.ZoneHub, world.ZoneFactory, world.ZoneField,
		world.ZoneFront, world.ZoneStronghold,
	} {
		assert.Positive(t, byKind[kind], "kind %s must appear even on the smallest map", kind)
	}
}

func TestGenerate_ZoneKindSetup(t *testing.T) {
	w, err := worldgen.Generate("seed", 60)
	require.NoError(t, err)

	for _, z := range w.Zones {
		switch z.Kind {
		case world.ZoneField:
			assert.Contains(t, shared.RawResources, z.FieldResource,
				"fields extract a raw resource")
		case world.ZoneHub:
			assert.Equal(t, 2.0, z.DepthMultiplier)
		case world.ZoneFront, world.ZoneStronghold:
			assert.GreaterOrEqual(t, z.GarrisonLevel, 1)
			assert.LessOrEqual(t, z.GarrisonLevel, 3)
		}
	}
}

func TestGenerate_GraphIsConnected(t *testing.T) {
	w, err := worldgen.Generate("seed", 50)
	require.NoError(t, err)

	adj := map[string][]string{}
	for _, r := range w.Routes {
		adj[r.FromZoneID] = append(adj[r.FromZoneID], r.ToZoneID)
		adj[r.ToZoneID] = append(adj[r.ToZoneID], r.FromZoneID)

		assert.GreaterOrEqual(t, r.BaseRisk, 0.0)
		assert.LessOrEqual(t, r.BaseRisk, 0.3)
		assert.GreaterOrEqual(t, r.Chokepoint, 1.0)
		assert.LessOrEqual(t, r.Chokepoint, 3.0)
	}

	visited := map[string]bool{}
	queue := []string{w.Zones[0].ID}
	visited[w.Zones[0].ID] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	assert.Len(t, visited, len(w.Zones), "every zone must be reachable")
}
