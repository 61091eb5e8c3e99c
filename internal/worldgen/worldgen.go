// Package worldgen builds the starting world: a connected zone graph
// with the standard kind distribution, per-field raw resources, and
// route risk parameters. Everything is a pure function of the seed, so
// two servers configured alike generate identical maps.
package worldgen

import (
	"fmt"
	"math/rand"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// Zone count bounds. Outside them the distribution degenerates: too few
// zones starve the spanning tree, too many exhaust the name pools.
const (
	MinZones = 8
	MaxZones = 200
)

// kindShare is the target fraction of each zone kind, scaled to the
// requested count by largest remainder. The shares mirror the standard
// map: a few hubs, a production belt, contested fronts.
var kindShares = []struct {
	kind  world.ZoneKind
	share float64
	min   int
}{
	{world.ZoneHub, 0.07, 1},
	{world.ZoneFactory, 0.21, 1},
	{world.ZoneField, 0.29, 1},
	{world.ZoneJunction, 0.26, 0},
	{world.ZoneFront, 0.17, 1},
	{world.ZoneStronghold, 0.08, 1},
}

var namePrefixes = []string{
	"Arken", "Brev", "Cinder", "Dray", "Ersk", "Fenn", "Grath", "Hollow",
	"Iron", "Juno", "Karst", "Lorn", "Marrow", "Nerev", "Ostre", "Pell",
	"Quarry", "Rusk", "Sable", "Tamber", "Ulric", "Vanta", "Wrenn", "Yez",
}

var nameSuffixes = map[world.ZoneKind][]string{
	world.ZoneHub:        {"Terminal", "Yard", "Exchange", "Gate"},
	world.ZoneField:      {"Flats", "Basin", "Expanse", "Reach"},
	world.ZoneFactory:    {"Works", "Foundry", "Mills", "Plant"},
	world.ZoneJunction:   {"Crossing", "Fork", "Pass", "Relay"},
	world.ZoneFront:      {"Line", "Salient", "Breach", "Verge"},
	world.ZoneStronghold: {"Bastion", "Citadel", "Redoubt", "Hold"},
}

// World is a generated map ready to persist.
type World struct {
	Zones  []*world.Zone
	Routes []*world.Route
}

// Generate builds a world of approximately zoneCount zones. The graph
// is always connected: shipments can reach every zone from every hub.
func Generate(seed string, zoneCount int) (*World, error) {
	if zoneCount < MinZones || zoneCount > MaxZones {
		return nil, shared.NewValidationError("zone_count",
			fmt.Sprintf("must be within %d–%d", MinZones, MaxZones))
	}
	rng := shared.DeterministicRand("worldgen", seed)

	zones := generateZones(rng, zoneCount)
	routes, err := generateRoutes(rng, zones)
	if err != nil {
		return nil, err
	}
	return &World{Zones: zones, Routes: routes}, nil
}

// generateZones allocates kinds by largest remainder, then names each
// zone and assigns field resources.
func generateZones(rng *rand.Rand, count int) []*world.Zone {
	counts := allocateKinds(count)

	usedNames := make(map[string]bool)
	zones := make([]*world.Zone, 0, count)
	for _, ks := range kindShares {
		for i := 0; i < counts[ks.kind]; i++ {
			name := pickName(rng, ks.kind, usedNames)
			z := world.NewZone(newZoneID(rng), name, ks.kind)
			if ks.kind == world.ZoneField {
				z.FieldResource = shared.RawResources[rng.Intn(len(shared.RawResources))]
			}
			if ks.kind == world.ZoneFront || ks.kind == world.ZoneStronghold {
				z.GarrisonLevel = 1 + rng.Intn(3)
			}
			if ks.kind == world.ZoneHub {
				// Hubs carry the deepest books.
				z.DepthMultiplier = 2.0
			}
			zones = append(zones, z)
		}
	}
	return zones
}

// allocateKinds splits count across kinds by share, honoring per-kind
// minimums and assigning remainders to the largest fractional parts.
func allocateKinds(count int) map[world.ZoneKind]int {
	counts := make(map[world.ZoneKind]int, len(kindShares))
	type frac struct {
		kind world.ZoneKind
		rem  float64
	}
	fracs := make([]frac, 0, len(kindShares))
	assigned := 0
	for _, ks := range kindShares {
		exact := ks.share * float64(count)
		n := int(exact)
		if n < ks.min {
			n = ks.min
		}
		counts[ks.kind] = n
		assigned += n
		fracs = append(fracs, frac{ks.kind, exact - float64(int(exact))})
	}
	// Distribute the leftover to the largest remainders, round-robin
	// when exhausted.
	for i := 0; assigned < count; i++ {
		best := -1
		for j := range fracs {
			if best == -1 || fracs[j].rem > fracs[best].rem {
				best = j
			}
		}
		counts[fracs[best].kind]++
		fracs[best].rem = -1
		assigned++
		if i >= len(fracs) {
			for j := range fracs {
				fracs[j].rem = 0
			}
		}
	}
	// Over-allocation from minimums trims the biggest buckets first.
	for assigned > count {
		biggest := kindShares[0].kind
		for _, ks := range kindShares {
			if counts[ks.kind] > counts[biggest] && counts[ks.kind] > ks.min {
				biggest = ks.kind
			}
		}
		counts[biggest]--
		assigned--
	}
	return counts
}

func pickName(rng *rand.Rand, kind world.ZoneKind, used map[string]bool) string {
	suffixes := nameSuffixes[kind]
	for attempt := 0; ; attempt++ {
		name := namePrefixes[rng.Intn(len(namePrefixes))] + " " + suffixes[rng.Intn(len(suffixes))]
		if attempt > 40 {
			name = fmt.Sprintf("%s %d", name, rng.Intn(90)+10)
		}
		if !used[name] {
			used[name] = true
			return name
		}
	}
}

// newZoneID derives zone ids from the generation RNG rather than the
// uuid package so the whole map replays from the seed.
func newZoneID(rng *rand.Rand) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, 12)
	for i := range b {
		b[i] = hexdigits[rng.Intn(16)]
	}
	return "zn-" + string(b)
}

func newRouteID(rng *rand.Rand) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, 12)
	for i := range b {
		b[i] = hexdigits[rng.Intn(16)]
	}
	return "rt-" + string(b)
}

// generateRoutes connects the zones: a random spanning tree guarantees
// reachability, then extra edges thicken the map to about 1.6 edges per
// zone. Risk rises toward fronts and strongholds; junction edges carry
// higher chokepoint ratings.
func generateRoutes(rng *rand.Rand, zones []*world.Zone) ([]*world.Route, error) {
	order := rng.Perm(len(zones))
	seen := make(map[string]bool)
	var routes []*world.Route

	link := func(a, b *world.Zone) error {
		key := edgeKey(a.ID, b.ID)
		if seen[key] {
			return nil
		}
		seen[key] = true
		r, err := world.NewRoute(
			newRouteID(rng),
			a.ID, b.ID,
			1+rng.Intn(4),
			100+rng.Intn(400),
			riskFor(rng, a, b),
			chokepointFor(rng, a, b),
		)
		if err != nil {
			return err
		}
		routes = append(routes, r)
		return nil
	}

	for i := 1; i < len(order); i++ {
		a := zones[order[i]]
		b := zones[order[rng.Intn(i)]]
		if err := link(a, b); err != nil {
			return nil, err
		}
	}

	target := int(float64(len(zones)) * 1.6)
	for attempts := 0; len(routes) < target && attempts < target*20; attempts++ {
		a := zones[rng.Intn(len(zones))]
		b := zones[rng.Intn(len(zones))]
		if a.ID == b.ID {
			continue
		}
		if err := link(a, b); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

func edgeKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// riskFor scales base interception risk by how contested the endpoints
// are. Hub-adjacent lanes stay safe; lanes into the fight do not.
func riskFor(rng *rand.Rand, a, b *world.Zone) float64 {
	risk := 0.02 + rng.Float64()*0.06
	for _, z := range []*world.Zone{a, b} {
		switch z.Kind {
		case world.ZoneFront:
			risk += 0.08
		case world.ZoneStronghold:
			risk += 0.05
		}
	}
	if risk > 0.3 {
		risk = 0.3
	}
	return risk
}

// chokepointFor rates how much an edge funnels traffic. Junctions are
// the natural ambush ground.
func chokepointFor(rng *rand.Rand, a, b *world.Zone) float64 {
	ch := 1.0 + rng.Float64()*0.5
	if a.Kind == world.ZoneJunction || b.Kind == world.ZoneJunction {
		ch += 0.5 + rng.Float64()
	}
	if ch > 3.0 {
		ch = 3.0
	}
	return ch
}
