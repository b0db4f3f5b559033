package command

import (
	"testing"

	"chat2snack.ai/internal/menu"
)

func TestParseSingleLines(t *testing.T) {
	cases := []struct {
		in   string
		want Op
	}{
		{"add burger 2", Op{Kind: KindAdd, Item: menu.Burger, Qty: 2, Raw: "add burger 2"}},
		{"remove fries 1", Op{Kind: KindRemove, Item: menu.Fries, Qty: 1, Raw: "remove fries 1"}},
		{"add icecream 3", Op{Kind: KindAdd, Item: menu.IceCream, Qty: 3, Raw: "add icecream 3"}},
		{"ADD Soda 4", Op{Kind: KindAdd, Item: menu.Soda, Qty: 4, Raw: "ADD Soda 4"}},
		{"dispense", Op{Kind: KindDispense, Raw: "dispense"}},
		{"  dispense  ", Op{Kind: KindDispense, Raw: "dispense"}},
		{"'add pizza 1'", Op{Kind: KindAdd, Item: menu.Pizza, Qty: 1, Raw: "add pizza 1"}},
		{`"remove soda 2"`, Op{Kind: KindRemove, Item: menu.Soda, Qty: 2, Raw: "remove soda 2"}},
		{"banana 5", Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: "banana 5"}},
		{"add banana 5", Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: "add banana 5"}},
		{"add burger", Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: "add burger"}},
		{"add burger 2 3", Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: "add burger 2 3"}},
		{"dispense now", Op{Kind: KindInvalid, Reason: ReasonUnknown, Raw: "dispense now"}},
		{"add burger two", Op{Kind: KindInvalid, Reason: ReasonMalformed, Raw: "add burger two"}},
		{"add burger -2", Op{Kind: KindInvalid, Reason: ReasonMalformed, Raw: "add burger -2"}},
		{"add burger 2.5", Op{Kind: KindInvalid, Reason: ReasonMalformed, Raw: "add burger 2.5"}},
		// quantity above the hardware max passes the grammar; clamping is
		// a mutation-time concern.
		{"add burger 99", Op{Kind: KindAdd, Item: menu.Burger, Qty: 99, Raw: "add burger 99"}},
	}
	for _, c := range cases {
		ops := Parse(c.in)
		if len(ops) != 1 {
			t.Fatalf("Parse(%q): %d ops, want 1", c.in, len(ops))
		}
		if ops[0] != c.want {
			t.Fatalf("Parse(%q) = %+v want %+v", c.in, ops[0], c.want)
		}
	}
}

func TestParseBlockOrderAndBlankLines(t *testing.T) {
	block := "\nadd soda 2\n\n   \nremove soda 1\ndispense\n"
	ops := Parse(block)
	if len(ops) != 3 {
		t.Fatalf("got %d ops: %+v", len(ops), ops)
	}
	if ops[0].Kind != KindAdd || ops[1].Kind != KindRemove || ops[2].Kind != KindDispense {
		t.Fatalf("wrong order: %+v", ops)
	}
}

func TestParseAdversarialInput(t *testing.T) {
	block := "🍔🍔🍔\n'add' 'burger' '2'\nadd  burger\t3\nsure, adding a burger now!"
	ops := Parse(block)
	if len(ops) != 4 {
		t.Fatalf("got %d ops", len(ops))
	}
	if ops[0].Kind != KindInvalid || ops[0].Reason != ReasonUnknown {
		t.Fatalf("emoji line: %+v", ops[0])
	}
	// Quoting individual tokens is not the protocol; only a full-line
	// quote layer is stripped.
	if ops[1].Kind != KindInvalid {
		t.Fatalf("token-quoted line: %+v", ops[1])
	}
	if ops[2].Kind != KindAdd || ops[2].Qty != 3 {
		t.Fatalf("mixed whitespace line: %+v", ops[2])
	}
	if ops[3].Kind != KindInvalid {
		t.Fatalf("chatty line: %+v", ops[3])
	}
}

func TestDelta(t *testing.T) {
	if d := (Op{Kind: KindAdd, Qty: 4}).Delta(); d != 4 {
		t.Fatalf("add delta = %d", d)
	}
	if d := (Op{Kind: KindRemove, Qty: 4}).Delta(); d != -4 {
		t.Fatalf("remove delta = %d", d)
	}
}

func TestParseEmptyBlock(t *testing.T) {
	if ops := Parse(""); len(ops) != 0 {
		t.Fatalf("empty block produced ops: %+v", ops)
	}
	if ops := Parse("\n\n  \n"); len(ops) != 0 {
		t.Fatalf("blank block produced ops: %+v", ops)
	}
}
