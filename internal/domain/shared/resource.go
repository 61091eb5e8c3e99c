package shared

import "sort"

// Resource identifies a tradable good.
type Resource string

const (
	ResourceOre       Resource = "ore"
	ResourceFuel      Resource = "fuel"
	ResourceGrain     Resource = "grain"
	ResourceFiber     Resource = "fiber"
	ResourceMetal     Resource = "metal"
	ResourceChemicals Resource = "chemicals"
	ResourceRations   Resource = "rations"
	ResourceTextiles  Resource = "textiles"
	ResourceAmmo      Resource = "ammo"
	ResourceMedkits   Resource = "medkits"
	ResourceParts     Resource = "parts"
	ResourceComms     Resource = "comms"
)

// AllResources lists every tradable resource in stable order.
var AllResources = []Resource{
	ResourceOre,
	ResourceFuel,
	ResourceGrain,
	ResourceFiber,
	ResourceMetal,
	ResourceChemicals,
	ResourceRations,
	ResourceTextiles,
	ResourceAmmo,
	ResourceMedkits,
	ResourceParts,
	ResourceComms,
}

// RawResources are extractable at Field zones.
var RawResources = []Resource{ResourceOre, ResourceFuel, ResourceGrain, ResourceFiber}

// IsValidResource reports whether the string names a known resource.
func IsValidResource(s string) bool {
	for _, r := range AllResources {
		if string(r) == s {
			return true
		}
	}
	return false
}

// Inventory maps resources to quantities. Quantities never go negative;
// removal is validated before mutation.
type Inventory map[Resource]int

// NewInventory returns an empty inventory.
func NewInventory() Inventory {
	return make(Inventory)
}

// Get returns the held quantity of a resource (0 if absent).
func (inv Inventory) Get(r Resource) int {
	return inv[r]
}

// Has reports whether at least qty of a resource is held.
func (inv Inventory) Has(r Resource, qty int) bool {
	return inv[r] >= qty
}

// HasAll reports whether every quantity in costs is held.
func (inv Inventory) HasAll(costs Inventory) bool {
	for r, qty := range costs {
		if inv[r] < qty {
			return false
		}
	}
	return true
}

// Add credits qty of a resource. Non-positive quantities are ignored.
func (inv Inventory) Add(r Resource, qty int) {
	if qty <= 0 {
		return
	}
	inv[r] += qty
}

// AddAll credits every quantity in goods.
func (inv Inventory) AddAll(goods Inventory) {
	for r, qty := range goods {
		inv.Add(r, qty)
	}
}

// Remove debits qty of a resource, failing without mutation when the
// held quantity is insufficient. Zero entries are deleted to keep
// serialized inventories compact.
func (inv Inventory) Remove(r Resource, qty int) error {
	if qty <= 0 {
		return nil
	}
	if inv[r] < qty {
		return NewPreconditionError("insufficient_resources",
			"insufficient "+string(r)+" in inventory")
	}
	inv[r] -= qty
	if inv[r] == 0 {
		delete(inv, r)
	}
	return nil
}

// RemoveAll debits every quantity in costs atomically: either all are
// present and removed, or nothing changes.
func (inv Inventory) RemoveAll(costs Inventory) error {
	if !inv.HasAll(costs) {
		return NewPreconditionError("insufficient_resources",
			"insufficient resources in inventory")
	}
	for r, qty := range costs {
		_ = inv.Remove(r, qty)
	}
	return nil
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for r, qty := range inv {
		out[r] = qty
	}
	return out
}

// Total sums all held quantities.
func (inv Inventory) Total() int {
	total := 0
	for _, qty := range inv {
		total += qty
	}
	return total
}

// Resources returns the held resource names in sorted order, for
// deterministic iteration.
func (inv Inventory) Resources() []Resource {
	out := make([]Resource, 0, len(inv))
	for r := range inv {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsEmpty reports whether nothing is held.
func (inv Inventory) IsEmpty() bool {
	for _, qty := range inv {
		if qty > 0 {
			return false
		}
	}
	return true
}
