package season_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"burnrate/internal/domain/season"
)

func TestScore_PointValues(t *testing.T) {
	s := season.NewScore(1, "pl-1", season.EntityPlayer, "mara")

	s.AddSupply(30, 10)
	s.AddShipment(11)
	s.AddContract(12)
	s.AddReputation(5, 13)
	s.AddCombatVictory(14)
	s.SetZoneControl(7, 15)

	assert.Equal(t, int64(30), s.SupplyPoints)
	assert.Equal(t, int64(10), s.ShipPoints)
	assert.Equal(t, int64(25), s.ContractPts)
	assert.Equal(t, int64(10), s.RepPoints)
	assert.Equal(t, int64(50), s.CombatPoints)
	assert.Equal(t, int64(7), s.ZoneControl)
	assert.Equal(t, int64(132), s.Total())
	assert.Equal(t, int64(15), s.UpdatedAtTick)
}

func TestScore_NegativeReputationScoresNothing(t *testing.T) {
	s := season.NewScore(1, "pl-1", season.EntityPlayer, "mara")

	s.AddReputation(-10, 10)
	s.AddReputation(0, 11)

	assert.Zero(t, s.RepPoints)
}

func TestScore_SetZoneControlReplaces(t *testing.T) {
	s := season.NewScore(1, "fac-1", season.EntityFaction, "Iron Column")

	s.SetZoneControl(40, 10)
	s.SetZoneControl(12, 11)

	assert.Equal(t, int64(12), s.ZoneControl, "zone control is recomputed, not accumulated")
}

func TestRank_OrdersByTotalThenEntityID(t *testing.T) {
	a := season.NewScore(1, "pl-a", season.EntityPlayer, "a")
	a.AddSupply(100, 1)
	b := season.NewScore(1, "pl-b", season.EntityPlayer, "b")
	b.AddSupply(300, 1)
	c := season.NewScore(1, "pl-c", season.EntityPlayer, "c")
	c.AddSupply(100, 1)

	standings := season.Rank([]*season.Score{c, a, b})

	assert.Equal(t, []string{"pl-b", "pl-a", "pl-c"}, []string{
		standings[0].EntityID, standings[1].EntityID, standings[2].EntityID,
	})
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 3, standings[2].Rank)
	assert.Equal(t, int64(300), standings[0].Total)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	a := season.NewScore(1, "pl-a", season.EntityPlayer, "a")
	b := season.NewScore(1, "pl-b", season.EntityPlayer, "b")
	b.AddSupply(10, 1)
	input := []*season.Score{a, b}

	season.Rank(input)

	assert.Equal(t, "pl-a", input[0].EntityID)
}
