package shipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
)

// lineDist connects a→b→c→d with per-edge distances.
func lineDist(edges map[[2]string]int) shipment.RouteDistance {
	return func(from, to string) (int, bool) {
		if d, ok := edges[[2]string{from, to}]; ok {
			return d, true
		}
		if d, ok := edges[[2]string{to, from}]; ok {
			return d, true
		}
		return 0, false
	}
}

func testDist() shipment.RouteDistance {
	return lineDist(map[[2]string]int{
		{"a", "b"}: 2,
		{"b", "c"}: 3,
		{"c", "d"}: 1,
	})
}

func cargo(qty int) shared.Inventory {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceOre, qty)
	return inv
}

func TestNewShipment_ValidatesCargoAndPath(t *testing.T) {
	dist := testDist()

	_, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, shared.NewInventory(), dist, 5)
	assert.Error(t, err, "empty cargo")

	_, err = shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, cargo(101), dist, 5)
	require.Error(t, err)
	assert.Equal(t, "cargo_over_capacity", shared.CodeOf(err))

	_, err = shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a"}, cargo(10), dist, 5)
	assert.Error(t, err, "single-zone path")

	_, err = shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "c"}, cargo(10), dist, 5)
	require.Error(t, err)
	assert.Equal(t, "no_route", shared.CodeOf(err))

	_, err = shipment.NewShipment("shp-1", "pl-1", shipment.Kind("barge"),
		[]string{"a", "b"}, cargo(10), dist, 5)
	assert.Error(t, err, "unknown kind")
}

func TestNewShipment_StartsOnFirstEdge(t *testing.T) {
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindFreight,
		[]string{"a", "b", "c"}, cargo(200), testDist(), 5)
	require.NoError(t, err)

	assert.Equal(t, shipment.StatusInTransit, s.Status)
	assert.Equal(t, 0, s.PositionIndex)
	assert.Equal(t, 2, s.TicksToNext)
	assert.Equal(t, "a", s.CurrentZoneID())
	assert.Equal(t, "b", s.NextZoneID())
	assert.Equal(t, "c", s.DestinationZoneID())
}

func TestNewShipment_ClonesCargo(t *testing.T) {
	c := cargo(50)
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, c, testDist(), 5)
	require.NoError(t, err)

	c.Add(shared.ResourceOre, 999)

	assert.Equal(t, 50, s.Cargo.Get(shared.ResourceOre))
}

func TestAdvance_WalksPathAndArrives(t *testing.T) {
	dist := testDist()
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindConvoy,
		[]string{"a", "b", "c", "d"}, cargo(1000), dist, 0)
	require.NoError(t, err)

	s.Advance(dist)
	assert.Equal(t, "b", s.CurrentZoneID())
	assert.Equal(t, 3, s.TicksToNext, "resets to next edge distance")
	assert.Equal(t, shipment.StatusInTransit, s.Status)

	s.Advance(dist)
	assert.Equal(t, "c", s.CurrentZoneID())
	assert.Equal(t, 1, s.TicksToNext)

	s.Advance(dist)
	assert.Equal(t, shipment.StatusArrived, s.Status)
	assert.Equal(t, "d", s.CurrentZoneID())
	assert.Zero(t, s.TicksToNext)
}

func TestKindConfigs(t *testing.T) {
	assert.Equal(t, 100, shipment.KindCourier.Capacity())
	assert.Equal(t, 500, shipment.KindFreight.Capacity())
	assert.Equal(t, 2000, shipment.KindConvoy.Capacity())

	assert.Equal(t, 0.5, shipment.KindCourier.Visibility())
	assert.Equal(t, 1.0, shipment.KindFreight.Visibility())
	assert.Equal(t, 2.0, shipment.KindConvoy.Visibility())

	assert.Equal(t, "convoy", shipment.KindConvoy.License())
	assert.True(t, shipment.IsValidKind("freight"))
	assert.False(t, shipment.IsValidKind("barge"))
}

func TestLoseCargo_RoundsUpPerLine(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceOre, 1)
	inv.Add(shared.ResourceFuel, 3)
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, inv, testDist(), 0)
	require.NoError(t, err)

	lost := s.LoseCargo(0.5)

	assert.Equal(t, 1, lost.Get(shared.ResourceOre), "ceil(0.5) = 1")
	assert.Equal(t, 2, lost.Get(shared.ResourceFuel), "ceil(1.5) = 2")
	assert.Zero(t, s.Cargo.Get(shared.ResourceOre))
	assert.Equal(t, 1, s.Cargo.Get(shared.ResourceFuel))
}

func TestLoseCargo_FullFractionEmptiesEverything(t *testing.T) {
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, cargo(37), testDist(), 0)
	require.NoError(t, err)

	lost := s.LoseCargo(1.0)

	assert.Equal(t, 37, lost.Get(shared.ResourceOre))
	assert.True(t, s.Cargo.IsEmpty())
}

func TestMarkIntercepted_EmptiesCargo(t *testing.T) {
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, cargo(40), testDist(), 0)
	require.NoError(t, err)

	s.MarkIntercepted()

	assert.Equal(t, shipment.StatusIntercepted, s.Status)
	assert.True(t, s.Cargo.IsEmpty())
}

func TestAssignEscort_Deduplicates(t *testing.T) {
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"a", "b"}, cargo(10), testDist(), 0)
	require.NoError(t, err)

	s.AssignEscort("un-1")
	s.AssignEscort("un-2")
	s.AssignEscort("un-1")

	assert.Equal(t, []string{"un-1", "un-2"}, s.EscortUnitIDs)
}
