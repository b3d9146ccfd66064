package allocation

// Inventory is the per-SKU on-hand position carried across weeks.
// It is owned by a single Engine and is not safe for concurrent use.
type Inventory struct {
	onHand map[string]int
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{onHand: make(map[string]int)}
}

// OnHand returns the units on hand for sku (0 when unknown).
func (inv *Inventory) OnHand(sku string) int {
	return inv.onHand[sku]
}

// Set replaces the on-hand position of sku. Negative values are floored at 0.
func (inv *Inventory) Set(sku string, units int) {
	if units < 0 {
		units = 0
	}
	inv.onHand[sku] = units
}

// Add adds units to the on-hand position of sku.
func (inv *Inventory) Add(sku string, units int) {
	inv.Set(sku, inv.onHand[sku]+units)
}

// Len returns the number of tracked SKUs.
func (inv *Inventory) Len() int {
	return len(inv.onHand)
}

// Snapshot returns a copy of the current positions.
func (inv *Inventory) Snapshot() map[string]int {
	out := make(map[string]int, len(inv.onHand))
	for sku, units := range inv.onHand {
		out[sku] = units
	}
	return out
}
