package cctalk

// EventRecord is one entry from the device's rolling event window, as
// returned by ReadBufferedCredit (coin acceptors) or ReadBufferedBillEvents
// (bill validators).
type EventRecord struct {
	ResultA uint8
	ResultB uint8
}

// IsError reports whether the record is an error/status event rather than
// a credit event.
func (e EventRecord) IsError() bool {
	return e.ResultA == 0
}

// CoinView decodes a coin acceptor's interpretation of the record.
type CoinView struct {
	IsError    bool
	EventCode  CoinEventCode // valid iff IsError
	Position   uint8         // valid iff !IsError; 1..16
	SorterPath uint8         // valid iff !IsError
}

// DecodeCoin interprets the record under coin-acceptor semantics.
func (e EventRecord) DecodeCoin() CoinView {
	if e.IsError() {
		return CoinView{IsError: true, EventCode: CoinEventCode(e.ResultB)}
	}
	return CoinView{Position: e.ResultA, SorterPath: e.ResultB}
}

// BillView decodes a bill validator's interpretation of the record.
type BillView struct {
	IsError     bool
	ErrorCode   BillErrorCode   // valid iff IsError
	EventType   BillEventType   // valid iff IsError
	Position    uint8           // valid iff !IsError; 1..255
	SuccessCode BillSuccessCode // valid iff !IsError
}

// DecodeBill interprets the record under bill-validator semantics.
func (e EventRecord) DecodeBill() BillView {
	if e.IsError() {
		code := BillErrorCode(e.ResultB)
		return BillView{IsError: true, ErrorCode: code, EventType: BillErrorEventType(code)}
	}
	return BillView{Position: e.ResultA, SuccessCode: BillSuccessCode(e.ResultB)}
}

// RouteCommand is the argument to RouteBill.
type RouteCommand uint8

const (
	RouteReturnBill      RouteCommand = 0
	RouteToStacker       RouteCommand = 1
	RouteIncreaseTimeout RouteCommand = 255
)

// RouteStatus is RouteBill's non-ACK reply payload (a single byte); an ACK
// (empty payload) means Routed.
type RouteStatus uint8

const (
	RouteStatusRouted        RouteStatus = 0
	RouteStatusEscrowEmpty   RouteStatus = 254
	RouteStatusFailedToRoute RouteStatus = 255
)
