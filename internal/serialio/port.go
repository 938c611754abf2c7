// Package serialio implements the Serial Transport: half-duplex byte I/O
// on a ccTalk line, with write and inter-byte read timeouts, and echo
// stripping for the line's local loopback.
package serialio

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Port settings fixed by the protocol; baud rate is the only knob exposed
// to configuration.
const (
	dataBits = 8
	parity   = serial.NoParity
	stopBits = serial.OneStopBit
)

// interChunkTimeout is the quiet-window timeout applied to every read after
// the first byte of a reply has arrived.
const interChunkTimeout = 50 * time.Millisecond

// DefaultBaudRate is used unless overridden by configuration.
const DefaultBaudRate = 9600

// Outcome is the single result of one Send call, mirroring the four
// mutually exclusive signals the transport is allowed to produce.
type Outcome int

const (
	OutcomeResponseReceived Outcome = iota
	OutcomeResponseTimeout
	OutcomeRequestTimeout
	OutcomePortError
)

// Result is the full outcome of a Send call.
type Result struct {
	Outcome Outcome
	Payload []byte // set iff Outcome == OutcomeResponseReceived
	Err     error  // set iff Outcome == OutcomePortError
}

// Port is a serial connection to a single ccTalk device line.
type Port struct {
	port serial.Port
	name string
}

// Open opens the named serial device at the given baud rate and returns a
// new Port. It does not close a Port opened earlier on the same device; a
// previous Port is closed by its owner with Close.
func Open(name string, baudRate int) (*Port, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: dataBits,
		Parity:   parity,
		StopBits: stopBits,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("serialio: open %s: %w", name, err)
	}
	return &Port{port: p, name: name}, nil
}

// Close closes the underlying port.
func (p *Port) Close() error {
	return p.port.Close()
}

// Send performs one write-then-read cycle per §4.1:
//  1. write the full frame, bounded by writeTimeout;
//  2. if !needsResponse, stop after the write;
//  3. otherwise read with responseTimeout for the first byte and a 50ms
//     inter-chunk timeout after that, until the quiet window expires;
//  4. strip the echoed request bytes (the line echoes everything it
//     transmits) from the front of the captured buffer.
func (p *Port) Send(frame []byte, needsResponse bool, writeTimeout, responseTimeout time.Duration) Result {
	if err := p.writeWithTimeout(frame, writeTimeout); err != nil {
		if err == errWriteTimeout {
			return Result{Outcome: OutcomeRequestTimeout}
		}
		return Result{Outcome: OutcomePortError, Err: err}
	}

	if !needsResponse {
		return Result{Outcome: OutcomeResponseReceived, Payload: nil}
	}

	captured, err := p.readUntilQuiet(responseTimeout)
	if err != nil {
		if err == errResponseTimeout {
			return Result{Outcome: OutcomeResponseTimeout}
		}
		return Result{Outcome: OutcomePortError, Err: err}
	}

	payload := stripEcho(captured, frame)
	return Result{Outcome: OutcomeResponseReceived, Payload: payload}
}

func stripEcho(captured, sentFrame []byte) []byte {
	if len(captured) <= len(sentFrame) {
		return nil
	}
	return captured[len(sentFrame):]
}
