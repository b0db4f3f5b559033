// Package fpga encodes a cart into the 16-bit command word consumed by the
// dispenser hardware. The bit layout and the byte order on the wire are a
// fixed external contract.
package fpga

import (
	"fmt"

	"chat2snack.ai/internal/cart"
	"chat2snack.ai/internal/menu"
)

// Word packs every slot quantity into its 3-bit field and sets the GO flag
// (bit 15) when dispense is requested. Pure: the cart is only read.
func Word(c *cart.Cart, dispense bool) uint16 {
	var w uint16
	for _, it := range menu.Palette {
		w |= uint16(c.Get(it)&menu.MaxQty) << menu.BitOffset(it)
	}
	if dispense {
		w |= 1 << menu.DispenseBit
	}
	return w
}

// BinaryString renders a command word for diagnostics: exactly 16
// characters, most significant bit first.
func BinaryString(w uint16) string {
	return fmt.Sprintf("%016b", w)
}

// Payload splits a command word into its two-byte wire form: low byte
// first, high byte second. The hardware reassembles hi*256+lo; the order
// must not be changed.
func Payload(w uint16) (lo, hi byte) {
	return byte(w & 0xFF), byte(w >> 8)
}
