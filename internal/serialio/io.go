package serialio

import (
	"errors"
	"fmt"
	"time"
)

var (
	errWriteTimeout    = errors.New("serialio: write timeout")
	errResponseTimeout = errors.New("serialio: response timeout")
)

// writeWithTimeout writes the full frame, failing with errWriteTimeout if
// the write cannot complete within timeout. go.bug.st/serial's Write is
// itself blocking without a deadline knob, so the bound is enforced by
// racing the write against a timer in a helper goroutine; a serial port at
// the configured baud rate finishes in microseconds to low milliseconds for
// ccTalk-sized frames, so this is a safety net rather than the common path.
func (p *Port) writeWithTimeout(frame []byte, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		_, err := p.port.Write(frame)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("serialio: write: %w", err)
		}
		return nil
	case <-time.After(timeout):
		return errWriteTimeout
	}
}

// readUntilQuiet implements the response-timeout-then-inter-chunk-timeout
// read loop of §4.1: the first byte uses responseTimeout, every following
// read re-arms the 50ms quiet window, and the read stops as soon as a read
// call returns no bytes within that window.
func (p *Port) readUntilQuiet(responseTimeout time.Duration) ([]byte, error) {
	if err := p.port.SetReadTimeout(responseTimeout); err != nil {
		return nil, fmt.Errorf("serialio: set read timeout: %w", err)
	}

	buf := make([]byte, 256)
	n, err := p.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("serialio: read: %w", err)
	}
	if n == 0 {
		return nil, errResponseTimeout
	}

	captured := append([]byte{}, buf[:n]...)

	if err := p.port.SetReadTimeout(interChunkTimeout); err != nil {
		return nil, fmt.Errorf("serialio: set read timeout: %w", err)
	}

	for {
		n, err := p.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("serialio: read: %w", err)
		}
		if n == 0 {
			return captured, nil
		}
		captured = append(captured, buf[:n]...)
	}
}
