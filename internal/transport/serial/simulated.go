package serial

import (
	"context"
	"log"
	"sync"
)

// Simulated stands in for the hardware when no port is available. Sends
// always succeed and are logged, matching the dev workflow where the
// dispenser is not on the bench.
type Simulated struct {
	log *log.Logger

	mu   sync.Mutex
	sent [][2]byte
}

func NewSimulated(logger *log.Logger) *Simulated {
	return &Simulated{log: logger}
}

func (s *Simulated) Send(_ context.Context, payload [2]byte) error {
	s.mu.Lock()
	s.sent = append(s.sent, payload)
	s.mu.Unlock()
	if s.log != nil {
		s.log.Printf("(simulated) sent payload lo=%#02x hi=%#02x", payload[0], payload[1])
	}
	return nil
}

func (s *Simulated) Close() error { return nil }

// Sent returns a copy of every payload delivered so far.
func (s *Simulated) Sent() [][2]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]byte, len(s.sent))
	copy(out, s.sent)
	return out
}
