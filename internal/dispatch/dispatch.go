// Package dispatch owns the quantity table for one ordering session and
// drives each instruction block through parse, apply, encode, and send.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"chat2snack.ai/internal/cart"
	"chat2snack.ai/internal/command"
	"chat2snack.ai/internal/fpga"
	"chat2snack.ai/internal/menu"
	"chat2snack.ai/internal/protocol"
	"chat2snack.ai/internal/transport/serial"
)

// BlockLogEntry is journaled once per processed instruction block.
type BlockLogEntry struct {
	At          time.Time           `json:"at"`
	Block       string              `json:"block"`
	Feedback    []protocol.Feedback `json:"feedback"`
	PreviewWord uint16              `json:"preview_word"`
	Dispensed   int                 `json:"dispensed"`
}

// DispenseRecord captures one fired dispense for the history index.
type DispenseRecord struct {
	At   time.Time
	Word uint16
	Lo   byte
	Hi   byte
	Cart []cart.Line
}

// BlockJournal persists processed blocks; best effort.
type BlockJournal interface {
	WriteBlock(e BlockLogEntry) error
}

// DispenseIndex records fired dispenses; best effort.
type DispenseIndex interface {
	RecordDispense(r DispenseRecord)
}

// Config wires a session's collaborators. Link is required (use
// serial.NewSimulated when no hardware is attached); Journal and Index
// may be nil.
type Config struct {
	Link    serial.Link
	Journal BlockJournal
	Index   DispenseIndex
	Logger  *log.Logger
}

// Session processes instruction blocks against its own cart. Not safe for
// concurrent use: one block is fully applied before the next is accepted.
type Session struct {
	cart    *cart.Cart
	link    serial.Link
	journal BlockJournal
	index   DispenseIndex
	log     *log.Logger
}

func NewSession(cfg Config) *Session {
	return &Session{
		cart:    cart.New(),
		link:    cfg.Link,
		journal: cfg.Journal,
		index:   cfg.Index,
		log:     cfg.Logger,
	}
}

// Cart exposes the session's table for rendering; callers must not mutate
// it outside Process.
func (s *Session) Cart() *cart.Cart { return s.cart }

// Result is the observable outcome of one block: ordered feedback, the
// final snapshot, and a preview encoding with the GO flag clear.
type Result struct {
	Feedback      []protocol.Feedback
	Cart          []protocol.CartLine
	PreviewWord   uint16
	PreviewBinary string
	Dispensed     int
}

// Process parses a raw instruction block and applies every operation in
// order. No operation is fatal: invalid lines surface as warnings, a dead
// link downgrades a dispense to a simulated one, and lines after a
// dispense act on the freshly cleared cart.
func (s *Session) Process(ctx context.Context, block string) Result {
	var res Result
	for _, op := range command.Parse(block) {
		switch op.Kind {
		case command.KindAdd, command.KindRemove:
			s.applyDelta(op, &res)
		case command.KindDispense:
			s.dispense(ctx, &res)
		case command.KindInvalid:
			res.warn(invalidCode(op.Reason), "%s command: %q", op.Reason, op.Raw)
		}
	}

	res.PreviewWord = fpga.Word(s.cart, false)
	res.PreviewBinary = fpga.BinaryString(res.PreviewWord)
	for _, l := range s.cart.Snapshot() {
		res.Cart = append(res.Cart, protocol.CartLine{Item: string(l.Item), Qty: l.Qty})
	}

	if s.journal != nil {
		e := BlockLogEntry{
			At:          time.Now().UTC(),
			Block:       block,
			Feedback:    res.Feedback,
			PreviewWord: res.PreviewWord,
			Dispensed:   res.Dispensed,
		}
		if err := s.journal.WriteBlock(e); err != nil && s.log != nil {
			s.log.Printf("journal write: %v", err)
		}
	}
	return res
}

func (s *Session) applyDelta(op command.Op, res *Result) {
	qty := op.Qty
	if qty > menu.MaxQty {
		// Clamp-and-warn: the request itself exceeds the hardware
		// capacity, distinct from the running total overflowing.
		res.warn(protocol.ErrQtyClamped,
			"Requested quantity (%d) for %s exceeds the max (%d). Clamping to %d.",
			qty, op.Item, menu.MaxQty, menu.MaxQty)
		qty = menu.MaxQty
	}
	delta := qty
	if op.Kind == command.KindRemove {
		delta = -qty
	}
	_, label := cart.Apply(s.cart, op.Item, delta)
	res.info("%s %d %s(s).", label, qty, op.Item)
}

func (s *Session) dispense(ctx context.Context, res *Result) {
	word := fpga.Word(s.cart, true)
	lo, hi := fpga.Payload(word)

	if err := s.link.Send(ctx, [2]byte{lo, hi}); err != nil {
		res.warn(protocol.ErrTransportUnavailable, "could not reach dispenser: %v", err)
		if s.log != nil {
			s.log.Printf("dispense send failed (word=%s): %v", fpga.BinaryString(word), err)
		}
	} else if s.log != nil {
		s.log.Printf("dispense sent word=%s lo=%#02x hi=%#02x", fpga.BinaryString(word), lo, hi)
	}

	if s.index != nil {
		s.index.RecordDispense(DispenseRecord{
			At:   time.Now().UTC(),
			Word: word,
			Lo:   lo,
			Hi:   hi,
			Cart: s.cart.Snapshot(),
		})
	}

	// The ledger's job is bookkeeping, not transport guarantee: the cart
	// clears even when the physical send failed.
	s.cart.Reset()
	res.Dispensed++
	res.info("Order dispensed and cart cleared.")
}

func (r *Result) info(format string, args ...any) {
	r.Feedback = append(r.Feedback, protocol.Feedback{
		Severity: protocol.SeverityInfo,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Result) warn(code, format string, args ...any) {
	if !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
	}
	r.Feedback = append(r.Feedback, protocol.Feedback{
		Severity: protocol.SeverityWarn,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func invalidCode(reason string) string {
	if reason == command.ReasonMalformed {
		return protocol.ErrMalformedCommand
	}
	return protocol.ErrUnknownCommand
}
