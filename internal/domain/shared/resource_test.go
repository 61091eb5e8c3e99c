package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/shared"
)

func TestInventory_RemoveValidatesBeforeMutation(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceOre, 5)

	err := inv.Remove(shared.ResourceOre, 6)

	require.Error(t, err)
	assert.Equal(t, shared.KindPrecondition, shared.KindOf(err))
	assert.Equal(t, 5, inv.Get(shared.ResourceOre), "failed remove must not mutate")
}

func TestInventory_RemoveDeletesZeroEntries(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceFuel, 3)

	require.NoError(t, inv.Remove(shared.ResourceFuel, 3))

	_, present := inv[shared.ResourceFuel]
	assert.False(t, present)
	assert.True(t, inv.IsEmpty())
}

func TestInventory_RemoveAllIsAtomic(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceOre, 10)
	inv.Add(shared.ResourceFuel, 1)

	cost := shared.Inventory{shared.ResourceOre: 2, shared.ResourceFuel: 2}
	err := inv.RemoveAll(cost)

	require.Error(t, err)
	assert.Equal(t, 10, inv.Get(shared.ResourceOre), "partial removal must not happen")
	assert.Equal(t, 1, inv.Get(shared.ResourceFuel))

	require.NoError(t, inv.RemoveAll(shared.Inventory{shared.ResourceOre: 2, shared.ResourceFuel: 1}))
	assert.Equal(t, 8, inv.Get(shared.ResourceOre))
}

func TestInventory_CloneIsIndependent(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceGrain, 4)

	clone := inv.Clone()
	clone.Add(shared.ResourceGrain, 100)

	assert.Equal(t, 4, inv.Get(shared.ResourceGrain))
	assert.Equal(t, 104, clone.Get(shared.ResourceGrain))
}

func TestInventory_ResourcesSorted(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceParts, 1)
	inv.Add(shared.ResourceAmmo, 1)
	inv.Add(shared.ResourceFuel, 1)

	got := inv.Resources()

	assert.Equal(t, []shared.Resource{shared.ResourceAmmo, shared.ResourceFuel, shared.ResourceParts}, got)
}

func TestInventory_AddIgnoresNonPositive(t *testing.T) {
	inv := shared.NewInventory()
	inv.Add(shared.ResourceOre, 0)
	inv.Add(shared.ResourceOre, -5)

	assert.True(t, inv.IsEmpty())
}

func TestIsValidResource(t *testing.T) {
	assert.True(t, shared.IsValidResource("comms"))
	assert.False(t, shared.IsValidResource("su"), "su is produced, not traded")
	assert.False(t, shared.IsValidResource(""))
}
