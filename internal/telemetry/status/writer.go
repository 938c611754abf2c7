// internal/telemetry/status/writer.go
package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/device"
)

// registerSink is the narrow Modbus surface the status block needs: one
// holding-register write per delivery.
type registerSink interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Writer delivers a Snapshot into a device's fixed-size status block,
// writing only the slots that changed since the last successful delivery
// and falling back to a full-block re-assert after any partial failure —
// the same identity-drift guard the teacher's device status writer uses.
type Writer struct {
	sink     registerSink
	unitID   uint8
	baseAddr uint16
	nameRegs []uint16

	needFull bool
	last     Snapshot
}

// NewWriter builds a status Writer for one device's status block. baseSlot
// selects which SlotsPerDevice-sized block within the sink's address space
// this device owns.
func NewWriter(sink registerSink, unitID uint8, baseSlot uint16, deviceName string) *Writer {
	return &Writer{
		sink:     sink,
		unitID:   unitID,
		baseAddr: baseSlot * SlotsPerDevice,
		nameRegs: EncodeDeviceNameRegs(deviceName),
		needFull: true,
		last:     Snapshot{Health: HealthUnknown},
	}
}

// WriteSnapshot delivers s. On any write failure, the next successful call
// re-asserts the full block rather than trusting a partially-applied diff.
func (w *Writer) WriteSnapshot(s Snapshot) error {
	if w == nil || w.sink == nil {
		return errors.New("status writer: disabled")
	}
	if s.SecondsInFault > 65535 {
		s.SecondsInFault = 65535
	}

	if w.needFull {
		if err := w.sink.WriteRegisters(w.unitID, w.baseAddr, w.fullBlockRegs(s)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		w.needFull = false
		w.last = s
		return nil
	}

	var errs []string
	if w.last.Health != s.Health {
		if err := w.sink.WriteRegisters(w.unitID, w.baseAddr+SlotHealthCode, []uint16{s.Health}); err != nil {
			errs = append(errs, fmt.Sprintf("health write failed: %v", err))
		} else {
			w.last.Health = s.Health
		}
	}
	if w.last.LastFaultCode != s.LastFaultCode {
		if err := w.sink.WriteRegisters(w.unitID, w.baseAddr+SlotLastFaultCode, []uint16{s.LastFaultCode}); err != nil {
			errs = append(errs, fmt.Sprintf("last fault code write failed: %v", err))
		} else {
			w.last.LastFaultCode = s.LastFaultCode
		}
	}
	if w.last.SecondsInFault != s.SecondsInFault {
		if err := w.sink.WriteRegisters(w.unitID, w.baseAddr+SlotSecondsInFault, []uint16{s.SecondsInFault}); err != nil {
			errs = append(errs, fmt.Sprintf("seconds-in-fault write failed: %v", err))
		} else {
			w.last.SecondsInFault = s.SecondsInFault
		}
	}

	if len(errs) > 0 {
		w.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (w *Writer) fullBlockRegs(s Snapshot) []uint16 {
	regs := Encode(s)
	for i := 0; i < SlotDeviceNameSlots; i++ {
		dst := SlotDeviceNameStart + i
		if dst < len(regs) && i < len(w.nameRegs) {
			regs[dst] = w.nameRegs[i]
		}
	}
	return regs
}

// HealthFromState maps the Supervisor's nine-state lifecycle onto the
// five-value health vocabulary this block reports externally — an HMI
// operator cares whether the device is up, down, faulted or disabled, not
// which of the nine internal states it is in. An unmapped state reports
// HealthUnknown.
func HealthFromState(s device.State) uint16 {
	switch s {
	case device.Initialized, device.NormalAccepting, device.NormalRejecting, device.DiagnosticsPolling:
		return HealthOK
	case device.UnexpectedDown, device.ExternalReset, device.InitializationFailed:
		return HealthFault
	case device.UninitializedDown:
		return HealthDown
	case device.ShutDown:
		return HealthDisabled
	default:
		return HealthUnknown
	}
}

// Tracker turns a Supervisor's Event stream into periodic Snapshot
// deliveries, tracking how long the device has continuously reported a
// fault-health state.
type Tracker struct {
	writer *Writer

	health     uint16
	lastFault  uint16
	faultSince time.Time
}

// NewTracker builds a Tracker delivering through a freshly-constructed
// Writer.
func NewTracker(sink registerSink, unitID uint8, baseSlot uint16, deviceName string) *Tracker {
	return &Tracker{writer: NewWriter(sink, unitID, baseSlot, deviceName), health: HealthUnknown}
}

// HandleEvent updates the tracked snapshot from one device.Event and
// re-delivers it. Events that don't affect health/fault tracking are
// ignored.
func (t *Tracker) HandleEvent(ev device.Event, now time.Time) error {
	switch ev.Kind {
	case device.EventDeviceStateChanged:
		t.setHealth(HealthFromState(ev.NewState), now)
	case device.EventResponseDecodeError:
		t.lastFault = 1
	default:
		return nil
	}
	return t.flush(now)
}

func (t *Tracker) setHealth(health uint16, now time.Time) {
	if health == HealthFault && t.health != HealthFault {
		t.faultSince = now
	}
	if health != HealthFault {
		t.faultSince = time.Time{}
	}
	t.health = health
}

func (t *Tracker) flush(now time.Time) error {
	var seconds uint16
	if !t.faultSince.IsZero() {
		elapsed := now.Sub(t.faultSince) / time.Second
		if elapsed > 65535 {
			elapsed = 65535
		}
		seconds = uint16(elapsed)
	}
	return t.writer.WriteSnapshot(Snapshot{Health: t.health, LastFaultCode: t.lastFault, SecondsInFault: seconds})
}
