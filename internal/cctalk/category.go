package cctalk

import "strings"

// Category is the device's reported equipment category, a tagged variant
// per the design notes — never represented via subclassing.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCoinAcceptor
	CategoryPayout
	CategoryReel
	CategoryBillValidator
	CategoryCardReader
	CategoryChanger
	CategoryDisplay
	CategoryKeypad
	CategoryDongle
	CategoryMeter
	CategoryBootloader
	CategoryPower
	CategoryPrinter
	CategoryRng
	CategoryHopperScale
	CategoryCoinFeeder
	CategoryBillRecycler
	CategoryEscrow
	CategoryDebug
)

var categoryByName = map[string]Category{
	"Coin Acceptor": CategoryCoinAcceptor,
	"Payout":         CategoryPayout,
	"Reel":           CategoryReel,
	"Bill Validator": CategoryBillValidator,
	"Card Reader":    CategoryCardReader,
	"Changer":        CategoryChanger,
	"Display":        CategoryDisplay,
	"Keypad":         CategoryKeypad,
	"Dongle":         CategoryDongle,
	"Meter":          CategoryMeter,
	"Bootloader":     CategoryBootloader,
	"Power":          CategoryPower,
	"Printer":        CategoryPrinter,
	"Rng":            CategoryRng,
	"Hopper Scale":   CategoryHopperScale,
	"Coin Feeder":    CategoryCoinFeeder,
	"Bill Recycler":  CategoryBillRecycler,
	"Escrow":         CategoryEscrow,
	"Debug":          CategoryDebug,
}

var categoryNames = map[Category]string{
	CategoryUnknown:       "Unknown",
	CategoryCoinAcceptor:  "Coin Acceptor",
	CategoryPayout:        "Payout",
	CategoryReel:          "Reel",
	CategoryBillValidator: "Bill Validator",
	CategoryCardReader:    "Card Reader",
	CategoryChanger:       "Changer",
	CategoryDisplay:       "Display",
	CategoryKeypad:        "Keypad",
	CategoryDongle:        "Dongle",
	CategoryMeter:         "Meter",
	CategoryBootloader:    "Bootloader",
	CategoryPower:         "Power",
	CategoryPrinter:       "Printer",
	CategoryRng:           "Rng",
	CategoryHopperScale:   "Hopper Scale",
	CategoryCoinFeeder:    "Coin Feeder",
	CategoryBillRecycler:  "Bill Recycler",
	CategoryEscrow:        "Escrow",
	CategoryDebug:         "Debug",
}

// CategoryFromReportedName maps a GetEquipmentCategory reply to a Category.
// Underscores are normalized to spaces before lookup, per the device's
// habit of using either separator across firmware revisions.
func CategoryFromReportedName(reported string) Category {
	normalized := strings.ReplaceAll(reported, "_", " ")
	if c, ok := categoryByName[normalized]; ok {
		return c
	}
	return CategoryUnknown
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "Unknown"
}
