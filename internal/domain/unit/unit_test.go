package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/unit"
)

func TestKindConfigs(t *testing.T) {
	assert.Equal(t, 10, unit.StrengthFor(unit.KindEscort))
	assert.Equal(t, 15, unit.StrengthFor(unit.KindRaider))
	assert.Equal(t, int64(2), unit.MaintenanceFor(unit.KindEscort))
	assert.Equal(t, int64(3), unit.MaintenanceFor(unit.KindRaider))

	assert.True(t, unit.IsValidKind("raider"))
	assert.False(t, unit.IsValidKind("dreadnought"))
}

func TestAssignments_KindGated(t *testing.T) {
	escort := unit.NewUnit("un-1", "pl-1", unit.KindEscort, "zn-1", 0)
	raider := unit.NewUnit("un-2", "pl-1", unit.KindRaider, "zn-1", 0)

	require.NoError(t, escort.AssignEscort("shp-1"))
	assert.True(t, escort.IsAssigned())
	assert.Error(t, escort.DeployRaider("rt-1"))

	require.NoError(t, raider.DeployRaider("rt-1"))
	assert.Equal(t, "rt-1", raider.AssignmentID)
	assert.Error(t, raider.AssignEscort("shp-1"))

	escort.ClearAssignment()
	assert.False(t, escort.IsAssigned())
}

func TestListForSale_RequiresIdleUnit(t *testing.T) {
	u := unit.NewUnit("un-1", "pl-1", unit.KindEscort, "zn-1", 0)
	require.NoError(t, u.AssignEscort("shp-1"))

	assert.Error(t, u.ListForSale(100), "assigned units cannot be listed")

	u.ClearAssignment()
	assert.Error(t, u.ListForSale(0))
	require.NoError(t, u.ListForSale(100))

	assert.Error(t, u.AssignEscort("shp-2"), "listed units cannot be assigned")
}

func TestTransferTo_ClearsListingAndAssignment(t *testing.T) {
	u := unit.NewUnit("un-1", "pl-1", unit.KindEscort, "zn-1", 0)
	require.NoError(t, u.ListForSale(150))

	u.TransferTo("pl-2")

	assert.Equal(t, "pl-2", u.OwnerID)
	assert.Zero(t, u.ForSalePrice)
	assert.False(t, u.IsAssigned())
}
