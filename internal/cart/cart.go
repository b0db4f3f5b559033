// Package cart holds the quantity table for one ordering session: how many
// of each menu item are queued for the next dispense.
package cart

import "chat2snack.ai/internal/menu"

// Cart maps every menu item to a quantity in [0, menu.MaxQty]. All five
// slots are always present; a fresh cart is all zeros. A cart belongs to
// exactly one dispatch session and is never shared across goroutines.
type Cart struct {
	qty map[menu.Item]int
}

func New() *Cart {
	c := &Cart{qty: make(map[menu.Item]int, len(menu.Palette))}
	for _, it := range menu.Palette {
		c.qty[it] = 0
	}
	return c
}

func (c *Cart) Get(it menu.Item) int { return c.qty[it] }

// Set writes a quantity, clamping into [0, MaxQty] as a second line of
// defense. Callers are expected to pre-clamp via Apply.
func (c *Cart) Set(it menu.Item, q int) {
	c.qty[it] = clamp(q)
}

// Reset zeroes every slot. Called after each successful dispense encode.
func (c *Cart) Reset() {
	for _, it := range menu.Palette {
		c.qty[it] = 0
	}
}

// IsEmpty reports whether every quantity is zero.
func (c *Cart) IsEmpty() bool {
	for _, q := range c.qty {
		if q != 0 {
			return false
		}
	}
	return true
}

// Line is one populated cart slot.
type Line struct {
	Item menu.Item `json:"item"`
	Qty  int       `json:"qty"`
}

// Snapshot returns the populated slots in wire order.
func (c *Cart) Snapshot() []Line {
	var out []Line
	for _, it := range menu.Palette {
		if q := c.qty[it]; q > 0 {
			out = append(out, Line{Item: it, Qty: q})
		}
	}
	return out
}

// Apply adds a signed delta to one slot, clamping the result into
// [0, MaxQty], and returns the new quantity with the action label
// ("Added" for positive deltas, "Removed" otherwise). Clamping is silent
// here; callers who want to warn about oversized requests compare the
// requested amount against MaxQty before calling.
func Apply(c *Cart, it menu.Item, delta int) (int, string) {
	q := clamp(c.qty[it] + delta)
	c.qty[it] = q
	label := "Removed"
	if delta > 0 {
		label = "Added"
	}
	return q, label
}

func clamp(q int) int {
	if q > menu.MaxQty {
		return menu.MaxQty
	}
	if q < 0 {
		return 0
	}
	return q
}
