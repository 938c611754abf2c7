package cctalk

// CoinValue is the decoded meaning of a coin's 3-character value code:
// the value is integer_value / 10^decimal_places in the device's base unit.
type CoinValue struct {
	IntegerValue   uint64
	DecimalPlaces  uint8
}

// coinValueTable maps a coin identifier's 3-character value code to its
// decoded value. Reproduced verbatim from the device firmware's own table;
// do not add or remove entries without a source to match.
var coinValueTable = map[string]CoinValue{
	"5m0": {5, 3},
	"10m": {1, 2},
	".01": {1, 2},
	"20m": {2, 2},
	".02": {2, 2},
	"25m": {25, 3},
	"50m": {5, 2},
	".05": {5, 2},
	".10": {1, 1},
	".20": {2, 1},
	".25": {25, 2},
	".50": {5, 1},
	"001": {1, 0},
	"002": {2, 0},
	"2.5": {25, 1},
	"005": {5, 0},
	"010": {10, 0},
	"020": {20, 0},
	"025": {25, 0},
	"050": {50, 0},
	"100": {100, 0},
	"200": {200, 0},
	"250": {250, 0},
	"500": {500, 0},
	"1K0": {1000, 0},
	"2K0": {2000, 0},
	"2K5": {2500, 0},
	"5K0": {5000, 0},
	"10K": {10000, 0},
	"20K": {20000, 0},
	"25K": {25000, 0},
	"50K": {50000, 0},
	"M10": {100000, 0},
	"M20": {200000, 0},
	"M25": {250000, 0},
	"M50": {500000, 0},
	"1M0": {1000000, 0},
	"2M0": {2000000, 0},
	"2M5": {2500000, 0},
	"5M0": {5000000, 0},
	"10M": {10000000, 0},
	"20M": {20000000, 0},
	"25M": {25000000, 0},
	"50M": {50000000, 0},
	"G10": {100000000, 0},
}

// CoinValueFromCode looks up a 3-character coin value code. An unrecognized
// code returns the zero CoinValue, matching the device firmware's own
// fallback behavior (value 0, decimal places 0).
func CoinValueFromCode(code string) CoinValue {
	return coinValueTable[code]
}
