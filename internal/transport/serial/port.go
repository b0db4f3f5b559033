package serial

import (
	"context"
	"fmt"
	"time"

	hw "go.bug.st/serial"
)

// Port sends command payloads over a real serial device.
type Port struct {
	name    string
	port    hw.Port
	timeout time.Duration
}

// Open dials the named device at the given baud rate. timeout bounds each
// Send; the hardware expects writes to complete well within a second.
func Open(name string, baud int, timeout time.Duration) (*Port, error) {
	p, err := hw.Open(name, &hw.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Port{name: name, port: p, timeout: timeout}, nil
}

// Send writes the two payload bytes. The underlying write has no native
// deadline, so it runs in a goroutine and loses the race against the
// timeout or the caller's context.
func (p *Port) Send(ctx context.Context, payload [2]byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := p.port.Write(payload[:])
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("write %s: %w", p.name, ctx.Err())
	}
}

func (p *Port) Close() error { return p.port.Close() }
