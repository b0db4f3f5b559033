package menu

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Item is one of the five dispenser slots. The set is closed: the hardware
// command word has room for exactly these, at fixed bit offsets.
type Item string

const (
	Burger   Item = "burger"
	Fries    Item = "fries"
	Soda     Item = "soda"
	IceCream Item = "ice_cream"
	Pizza    Item = "pizza"
)

// Palette lists the items in wire order (ascending bit offset).
var Palette = []Item{Burger, Fries, Soda, IceCream, Pizza}

// Command word layout. Each slot carries a 3-bit quantity; bit 15 is the
// dispense/GO flag.
const (
	QtyBits     = 3
	MaxQty      = 7 // (1 << QtyBits) - 1
	DispenseBit = 15
)

var bitOffsets = map[Item]uint{
	Burger:   0,
	Fries:    3,
	Soda:     6,
	IceCream: 9,
	Pizza:    12,
}

// BitOffset returns the command-word offset for a palette item.
func BitOffset(it Item) uint { return bitOffsets[it] }

// aliases maps accepted spellings to canonical identifiers.
var aliases = map[string]Item{
	"icecream": IceCream,
}

// Normalize resolves a lowercased token to a canonical item.
func Normalize(name string) (Item, bool) {
	if it, ok := aliases[name]; ok {
		return it, true
	}
	it := Item(name)
	if _, ok := bitOffsets[it]; ok {
		return it, true
	}
	return "", false
}

// DisplayName renders an identifier for humans ("ice_cream" -> "Ice Cream").
func DisplayName(it Item) string {
	words := strings.Split(string(it), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Digest identifies the menu contents so clients can detect drift.
func Digest() string {
	b, _ := json.Marshal(Palette)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
