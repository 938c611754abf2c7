package cctalk

import "strconv"

// CountryScaling is the per-country multiplier applied to a bill's value
// code (or, for coin acceptors, to a caller-supplied default). Valid iff
// at least one field is non-zero.
type CountryScaling struct {
	ScalingFactor uint16
	DecimalPlaces uint8
}

// Valid reports whether the device reported usable scaling data for a
// country, as opposed to an unsupported-country response.
func (s CountryScaling) Valid() bool {
	return s.ScalingFactor != 0 || s.DecimalPlaces != 0
}

// Identifier is a coin or bill entry at a 1-based position, parsed from the
// raw ID string reported by GetCoinId/GetBillId.
type Identifier struct {
	IDString      string
	Country       string
	IssueCode     byte
	ValueCode     uint64
	CoinDecimals  uint8 // only set for coins; 0 for bills
	Scaling       CountryScaling
}

// Value returns the identifier's value and the power-of-ten divisor to
// apply to it, combining country scaling with the coin's own decimal
// places (bills never set CoinDecimals, so the divisor there is purely the
// country's decimal places).
func (id Identifier) Value() (value uint64, divisor uint8) {
	divisor = id.Scaling.DecimalPlaces + id.CoinDecimals
	return id.ValueCode * uint64(id.Scaling.ScalingFactor), divisor
}

// IsEmptySlot reports whether a raw ID string reported by the device means
// "no coin/bill configured at this position": empty, all dots, or a
// leading zero byte.
func IsEmptySlot(raw string) bool {
	if raw == "" {
		return true
	}
	if raw[0] == 0 {
		return true
	}
	allDots := true
	for i := 0; i < len(raw); i++ {
		if raw[i] != '.' {
			allDots = false
			break
		}
	}
	return allDots
}

// ParseIdentifier parses a raw ID string into an Identifier. Length 7
// means a bill (value code is the raw 4-digit number); length 6 means a
// coin (value code resolves through the coin value table). The caller
// must check IsEmptySlot first; ParseIdentifier does not special-case
// empty/placeholder strings.
func ParseIdentifier(raw string) (Identifier, bool) {
	switch len(raw) {
	case 7:
		n, err := strconv.ParseUint(raw[2:6], 10, 64)
		if err != nil {
			return Identifier{}, false
		}
		return Identifier{
			IDString:  raw,
			Country:   raw[0:2],
			IssueCode: raw[6],
			ValueCode: n,
		}, true

	case 6:
		cv := CoinValueFromCode(raw[2:5])
		return Identifier{
			IDString:     raw,
			Country:      raw[0:2],
			IssueCode:    raw[5],
			ValueCode:    cv.IntegerValue,
			CoinDecimals: cv.DecimalPlaces,
		}, true

	default:
		return Identifier{}, false
	}
}
