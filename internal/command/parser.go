// Package command parses the newline-delimited instruction blocks produced
// by the ordering oracle. The stream is untrusted: the parser tags each
// line as a structured operation or an invalid marker and never touches
// cart state itself.
package command

import (
	"strconv"
	"strings"

	"chat2snack.ai/internal/menu"
)

type Kind int

const (
	KindAdd Kind = iota + 1
	KindRemove
	KindDispense
	KindInvalid
)

// Reasons attached to KindInvalid ops.
const (
	ReasonMalformed = "malformed"
	ReasonUnknown   = "unknown"
)

// Op is one classified instruction line. Qty is always the non-negative
// amount as written; removal is expressed through Kind, and Delta folds the
// sign back in for the mutator.
type Op struct {
	Kind   Kind
	Item   menu.Item
	Qty    int
	Reason string
	Raw    string
}

// Delta returns the signed quantity change this op requests.
func (o Op) Delta() int {
	if o.Kind == KindRemove {
		return -o.Qty
	}
	return o.Qty
}

// Parse splits a raw instruction block into ordered operations, one per
// non-empty line. Malformed or unrecognized lines yield KindInvalid ops so
// a single bad line never hides the rest of the block.
func Parse(block string) []Op {
	var ops []Op
	for _, line := range strings.Split(block, "\n") {
		clean := stripQuotes(strings.TrimSpace(line))
		fields := strings.Fields(strings.ToLower(clean))
		if len(fields) == 0 {
			continue
		}
		ops = append(ops, classify(fields, clean))
	}
	return ops
}

func classify(fields []string, raw string) Op {
	switch fields[0] {
	case "dispense":
		if len(fields) == 1 {
			return Op{Kind: KindDispense, Raw: raw}
		}
	case "add", "remove":
		if len(fields) != 3 {
			break
		}
		qty, err := strconv.Atoi(fields[2])
		if err != nil || qty < 0 {
			return Op{Kind: KindInvalid, Reason: ReasonMalformed, Raw: raw}
		}
		item, ok := menu.Normalize(fields[1])
		if !ok {
			return Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: raw}
		}
		kind := KindAdd
		if fields[0] == "remove" {
			kind = KindRemove
		}
		return Op{Kind: kind, Item: item, Qty: qty, Raw: raw}
	}
	return Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: raw}
}

// stripQuotes removes one layer of matching surrounding quotes; oracles
// sometimes wrap each command line in ' or ".
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
