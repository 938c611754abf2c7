package status

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/device"
)

var errTestSinkFailure = errors.New("fake register sink: write failed")

type fakeRegisterSink struct {
	lastUnitID uint8
	lastAddr   uint16
	lastRegs   []uint16
	// block holds every register written so far, by absolute address, so
	// tests can read a slot regardless of whether it arrived in a full-block
	// or a single-register write.
	block map[uint16]uint16
	fail  bool
}

func (f *fakeRegisterSink) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errTestSinkFailure
	}
	f.lastUnitID = unitID
	f.lastAddr = addr
	f.lastRegs = append([]uint16{}, regs...)
	if f.block == nil {
		f.block = map[uint16]uint16{}
	}
	for i, r := range regs {
		f.block[addr+uint16(i)] = r
	}
	return nil
}

func TestWriter_FirstWriteIsFullBlockWithDeviceName(t *testing.T) {
	sink := &fakeRegisterSink{}
	w := NewWriter(sink, 1, 0, "COIN-01")

	if err := w.WriteSnapshot(Snapshot{Health: HealthOK}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.lastRegs) != SlotsPerDevice {
		t.Fatalf("expected full block write (%d regs), got %d", SlotsPerDevice, len(sink.lastRegs))
	}

	want := EncodeDeviceNameRegs("COIN-01")
	for i := 0; i < SlotDeviceNameSlots; i++ {
		if sink.lastRegs[SlotDeviceNameStart+i] != want[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", i, sink.lastRegs[SlotDeviceNameStart+i], want[i])
		}
	}
}

func TestWriter_SecondWriteIsIncrementalOnly(t *testing.T) {
	sink := &fakeRegisterSink{}
	w := NewWriter(sink, 1, 0, "COIN-01")

	if err := w.WriteSnapshot(Snapshot{Health: HealthOK}); err != nil {
		t.Fatalf("full assert failed: %v", err)
	}
	if err := w.WriteSnapshot(Snapshot{Health: HealthFault, LastFaultCode: 7, SecondsInFault: 1}); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}
	if len(sink.lastRegs) == SlotsPerDevice {
		t.Fatalf("incremental update re-wrote the full block")
	}
}

func TestWriter_PartialFailureForcesFullReassert(t *testing.T) {
	sink := &fakeRegisterSink{}
	w := NewWriter(sink, 1, 0, "COIN-01")
	w.WriteSnapshot(Snapshot{Health: HealthOK})

	sink.fail = true
	if err := w.WriteSnapshot(Snapshot{Health: HealthFault}); err == nil {
		t.Fatalf("expected the sink failure to propagate")
	}
	sink.fail = false

	if err := w.WriteSnapshot(Snapshot{Health: HealthFault, LastFaultCode: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.lastRegs) != SlotsPerDevice {
		t.Fatalf("expected a full re-assert after a prior failure, got %d regs", len(sink.lastRegs))
	}
}

func TestWriter_AddressRespectsBaseSlot(t *testing.T) {
	sink := &fakeRegisterSink{}
	w := NewWriter(sink, 5, 2, "")
	w.WriteSnapshot(Snapshot{Health: HealthOK})

	want := uint16(2) * SlotsPerDevice
	if sink.lastAddr != want {
		t.Fatalf("base address = %d, want %d", sink.lastAddr, want)
	}
	if sink.lastUnitID != 5 {
		t.Fatalf("unit id = %d, want 5", sink.lastUnitID)
	}
}

func TestHealthFromState(t *testing.T) {
	cases := []struct {
		state device.State
		want  uint16
	}{
		{device.Initialized, HealthOK},
		{device.NormalAccepting, HealthOK},
		{device.NormalRejecting, HealthOK},
		{device.DiagnosticsPolling, HealthOK},
		{device.UnexpectedDown, HealthFault},
		{device.ExternalReset, HealthFault},
		{device.InitializationFailed, HealthFault},
		{device.UninitializedDown, HealthDown},
		{device.ShutDown, HealthDisabled},
	}
	for _, c := range cases {
		if got := HealthFromState(c.state); got != c.want {
			t.Fatalf("HealthFromState(%v) = %d, want %d", c.state, got, c.want)
		}
	}
}

func TestTracker_TracksSecondsInFaultAcrossStateChanges(t *testing.T) {
	sink := &fakeRegisterSink{}
	tracker := NewTracker(sink, 1, 0, "COIN-01")

	t0 := time.Unix(1000, 0)
	if err := tracker.HandleEvent(device.Event{Kind: device.EventDeviceStateChanged, NewState: device.UnexpectedDown}, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.block[SlotSecondsInFault] != 0 {
		t.Fatalf("seconds-in-fault at fault onset = %d, want 0", sink.block[SlotSecondsInFault])
	}

	later := t0.Add(30 * time.Second)
	if err := tracker.HandleEvent(device.Event{Kind: device.EventResponseDecodeError}, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.block[SlotSecondsInFault] != 30 {
		t.Fatalf("seconds-in-fault = %d, want 30", sink.block[SlotSecondsInFault])
	}

	recovered := later.Add(time.Second)
	if err := tracker.HandleEvent(device.Event{Kind: device.EventDeviceStateChanged, NewState: device.NormalAccepting}, recovered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.block[SlotSecondsInFault] != 0 {
		t.Fatalf("seconds-in-fault after recovery = %d, want 0", sink.block[SlotSecondsInFault])
	}
}
