package cctalk

import "time"

// pollingUnitMultiplierMs maps the unit byte of a GetPollingPriority reply
// to a millisecond multiplier.
var pollingUnitMultiplierMs = map[uint8]int64{
	0: 0, // "see device docs" — not usable
	1: 1,
	2: 10,
	3: 1_000,
	4: 60_000,
	5: 3_600_000,
	6: 86_400_000,
	7: 604_800_000,
	8: 18_144_000_000,
	9: 31_557_600_000,
}

// DefaultNormalPollingInterval is used whenever the device-reported
// interval is zero or exceeds one second.
const DefaultNormalPollingInterval = 100 * time.Millisecond

// DecodePollingInterval decodes a GetPollingPriority reply's [unit, value]
// payload into a polling interval, falling back to
// DefaultNormalPollingInterval when the result is zero or implausibly
// large.
func DecodePollingInterval(unit, value uint8) time.Duration {
	mult, ok := pollingUnitMultiplierMs[unit]
	if !ok {
		return DefaultNormalPollingInterval
	}
	ms := mult * int64(value)
	if ms <= 0 || ms > 1000 {
		return DefaultNormalPollingInterval
	}
	return time.Duration(ms) * time.Millisecond
}
