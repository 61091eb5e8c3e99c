package world

import "burnrate/internal/domain/shared"

// Producible outputs that are not inventory resources.
const (
	OutputSU     = "su"
	OutputEscort = "escort"
	OutputRaider = "raider"
)

// Recipes maps each producible output to its per-unit inputs. Resource
// outputs land in the producer's inventory; su feeds zone stockpiles and
// escort/raider create units.
var Recipes = map[string]shared.Inventory{
	string(shared.ResourceMetal):     {shared.ResourceOre: 2, shared.ResourceFuel: 1},
	string(shared.ResourceChemicals): {shared.ResourceOre: 1, shared.ResourceFuel: 2},
	string(shared.ResourceRations):   {shared.ResourceGrain: 3, shared.ResourceFuel: 1},
	string(shared.ResourceTextiles):  {shared.ResourceFiber: 2, shared.ResourceChemicals: 1},
	string(shared.ResourceAmmo):      {shared.ResourceMetal: 1, shared.ResourceChemicals: 1},
	string(shared.ResourceMedkits):   {shared.ResourceChemicals: 1, shared.ResourceTextiles: 1},
	string(shared.ResourceParts):     {shared.ResourceMetal: 1, shared.ResourceTextiles: 1},
	string(shared.ResourceComms):     {shared.ResourceMetal: 1, shared.ResourceChemicals: 1, shared.ResourceParts: 1},
	OutputSU:                         {shared.ResourceRations: 2, shared.ResourceFuel: 1, shared.ResourceParts: 1, shared.ResourceAmmo: 1},
	OutputEscort:                     {shared.ResourceMetal: 2, shared.ResourceParts: 1, shared.ResourceRations: 1},
	OutputRaider:                     {shared.ResourceMetal: 2, shared.ResourceParts: 2, shared.ResourceComms: 1},
}

// RecipeFor returns the per-unit inputs for an output, scaled by qty.
func RecipeFor(output string, qty int) (shared.Inventory, bool) {
	recipe, ok := Recipes[output]
	if !ok {
		return nil, false
	}
	cost := shared.NewInventory()
	for r, perUnit := range recipe {
		cost[r] = perUnit * qty
	}
	return cost, true
}

// SUCost returns the inputs needed to assemble amount supply units.
func SUCost(amount int) shared.Inventory {
	cost, _ := RecipeFor(OutputSU, amount)
	return cost
}
