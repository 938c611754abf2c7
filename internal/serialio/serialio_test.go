package serialio

import (
	"errors"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort is a minimal serial.Port that echoes whatever is written to it
// and then appends a canned reply, so Send's echo-stripping logic can be
// exercised without real hardware.
type fakePort struct {
	written    []byte
	rx         []byte
	readTimeout time.Duration
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.rx) == 0 {
		return 0, nil
	}
	n := copy(p, f.rx)
	f.rx = f.rx[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakePort) Close() error { return nil }

func (f *fakePort) SetMode(*serial.Mode) error { return nil }

func (f *fakePort) Break(time.Duration) error { return nil }

func (f *fakePort) Drain() error { return nil }

func (f *fakePort) ResetInputBuffer() error { return nil }

func (f *fakePort) ResetOutputBuffer() error { return nil }

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.readTimeout = t
	return nil
}

func (f *fakePort) SetDTR(bool) error { return nil }

func (f *fakePort) SetRTS(bool) error { return nil }

func (f *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

func TestSend_StripsEcho(t *testing.T) {
	frame := []byte{0x01, 0x03, 0x00, 0x01, 0xFA, 0x00, 0x01, 0xFF}
	reply := []byte{0xAA, 0xBB, 0xCC}
	fp := &fakePort{rx: append(append([]byte{}, frame...), reply...)}
	p := &Port{port: fp}

	res := p.Send(frame, true, 500*time.Millisecond, 1500*time.Millisecond)
	if res.Outcome != OutcomeResponseReceived {
		t.Fatalf("outcome = %v, want OutcomeResponseReceived (err=%v)", res.Outcome, res.Err)
	}
	if string(res.Payload) != string(reply) {
		t.Fatalf("payload = %v, want %v", res.Payload, reply)
	}
}

func TestSend_NoResponseExpected(t *testing.T) {
	frame := []byte{0x01, 0x00, 0x00, 0x01}
	fp := &fakePort{}
	p := &Port{port: fp}

	res := p.Send(frame, false, 500*time.Millisecond, 1500*time.Millisecond)
	if res.Outcome != OutcomeResponseReceived {
		t.Fatalf("outcome = %v, want OutcomeResponseReceived", res.Outcome)
	}
	if res.Payload != nil {
		t.Fatalf("payload = %v, want nil", res.Payload)
	}
}

func TestSend_ResponseTimeout(t *testing.T) {
	frame := []byte{0x01, 0x00, 0x00, 0x01}
	fp := &fakePort{}
	p := &Port{port: fp}

	res := p.Send(frame, true, 500*time.Millisecond, 10*time.Millisecond)
	if res.Outcome != OutcomeResponseTimeout {
		t.Fatalf("outcome = %v, want OutcomeResponseTimeout", res.Outcome)
	}
}

func TestStripEcho_ShortCapture(t *testing.T) {
	if got := stripEcho([]byte{1, 2}, []byte{1, 2, 3}); got != nil {
		t.Fatalf("stripEcho with short capture = %v, want nil", got)
	}
}

func TestReadUntilQuiet_PropagatesReadError(t *testing.T) {
	// errReadFailed exercises the non-timeout error branch in readUntilQuiet.
	fp := &failingPort{err: errReadFailed}
	p := &Port{port: fp}
	_, err := p.readUntilQuiet(10 * time.Millisecond)
	if err == nil || errors.Is(err, errResponseTimeout) {
		t.Fatalf("err = %v, want wrapped errReadFailed", err)
	}
}

var errReadFailed = errors.New("fake read failure")

type failingPort struct {
	fakePort
	err error
}

func (f *failingPort) Read(p []byte) (int, error) {
	return 0, f.err
}
