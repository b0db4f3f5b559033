// Package serial carries the two-byte command payload to the dispenser
// hardware over its byte-oriented link.
package serial

import "context"

// Link is a blocking, timeout-bounded channel to the dispenser. Payload
// order is low byte first, high byte second. A failed send is recoverable:
// the dispatch loop reports it and moves on.
type Link interface {
	Send(ctx context.Context, payload [2]byte) error
	Close() error
}
