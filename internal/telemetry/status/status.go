// Package status maps a ccTalk device's lifecycle state onto the fixed
// Modbus status block layout an external SCADA/HMI integration polls.
package status

// Device Status Block layout. Protocol-locked: these values MUST NOT be
// made configurable, since changing them breaks every external consumer
// without a coordinated release.

// SlotsPerDevice is the fixed number of holding registers per device.
const SlotsPerDevice = 20

const (
	SlotHealthCode     = 0
	SlotLastFaultCode  = 1
	SlotSecondsInFault = 2
)

const SlotReservedStart = 3
const SlotReservedEnd = 10

// DeviceName occupies slots 11-18; slot 19, the last of the block, is unused.
const SlotDeviceNameStart = 11
const SlotDeviceNameSlots = 8
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1
const DeviceNameMaxChars = 16

// Health codes, independent of the device package's own State — this is
// the coarser, five-value vocabulary an external SCADA system expects,
// not the nine-state lifecycle the Supervisor itself tracks.
const (
	HealthUnknown  uint16 = 0
	HealthOK       uint16 = 1
	HealthFault    uint16 = 2
	HealthDown     uint16 = 3
	HealthDisabled uint16 = 4
)

// Snapshot is exactly what the status sink is allowed to deliver: no
// logic, no memory of the past beyond what the caller hands it.
type Snapshot struct {
	Health         uint16
	LastFaultCode  uint16
	SecondsInFault uint16
}

// Encode converts a Snapshot into a full device status block.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)
	regs[SlotHealthCode] = s.Health
	regs[SlotLastFaultCode] = s.LastFaultCode
	regs[SlotSecondsInFault] = s.SecondsInFault
	return regs
}

// EncodeDeviceNameRegs packs up to 16 ASCII characters into 8 big-endian
// uint16 registers, two characters per register.
func EncodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}
	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}
