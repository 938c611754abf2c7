package device

import (
	"testing"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/cctalklog"
)

// newTestSupervisor builds a Supervisor without its background run()
// goroutine, so processCreditEventLog and requestSwitchState can be driven
// synchronously from the test goroutine exactly as run() would drive them.
func newTestSupervisor(category cctalk.Category, link linkController) *Supervisor {
	return &Supervisor{
		link:                link,
		logger:              cctalklog.Discard{},
		category:            category,
		identifiers:         map[uint8]cctalk.Identifier{},
		coinCountryScaling:  map[string]cctalk.CountryScaling{},
		normalPollingInterval: 0,
	}
}

func drainEvents(ch chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestProcessCreditEventLog_CoinAccepted(t *testing.T) {
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, newFakeLink())
	s.identifiers[3] = cctalk.Identifier{IDString: "EU0050A"}
	events := make(chan Event, 8)
	s.Subscribe(events)

	s.lastEventNum = 5
	record := cctalk.EventRecord{ResultA: 3, ResultB: 7} // position 3, sorter path 7
	s.processCreditEventLog(true, nil, 6, []cctalk.EventRecord{record})

	got := drainEvents(events)
	var credited bool
	for _, ev := range got {
		if ev.Kind == EventCreditAccepted {
			credited = true
			if ev.Position != 3 {
				t.Fatalf("credited position = %d, want 3", ev.Position)
			}
		}
	}
	if !credited {
		t.Fatalf("expected a credit-accepted event, got %+v", got)
	}
}

func TestProcessCreditEventLog_StartupSuppressesCredit(t *testing.T) {
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, newFakeLink())
	s.identifiers[1] = cctalk.Identifier{IDString: "EU0010A"}
	events := make(chan Event, 8)
	s.Subscribe(events)

	// lastEventNum starts at 0: any events already buffered predate host
	// startup and must never generate a credit.
	record := cctalk.EventRecord{ResultA: 1, ResultB: 0}
	s.processCreditEventLog(true, nil, 3, []cctalk.EventRecord{record, record, record})

	for _, ev := range drainEvents(events) {
		if ev.Kind == EventCreditAccepted {
			t.Fatalf("expected no credit during startup suppression, got %+v", ev)
		}
	}
}

func TestProcessCreditEventLog_CounterDropToZeroTriggersExternalReset(t *testing.T) {
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, newFakeLink())
	s.state = NormalAccepting
	s.lastEventNum = 9

	// A freshly reset device reports counter 0 alongside its (zeroed) event
	// window; an empty window with counter 0 is treated as a timeout instead.
	zeroed := make([]cctalk.EventRecord, 5)
	s.processCreditEventLog(true, nil, 0, zeroed)

	if s.state != ExternalReset {
		t.Fatalf("state = %v, want ExternalReset", s.state)
	}
	if s.lastEventNum != 0 {
		t.Fatalf("lastEventNum = %d, want 0", s.lastEventNum)
	}
}

func TestProcessCreditEventLog_CommandErrorIsIgnored(t *testing.T) {
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, newFakeLink())
	s.state = NormalAccepting
	s.lastEventNum = 9

	s.processCreditEventLog(true, errPortTimeout, 3, nil)

	if s.state != NormalAccepting {
		t.Fatalf("state changed to %v on a command error, want unchanged", s.state)
	}
	if s.lastEventNum != 9 {
		t.Fatalf("lastEventNum changed to %d on a command error, want unchanged", s.lastEventNum)
	}
}

func TestProcessCreditEventLog_CounterWrapAroundSkipsZero(t *testing.T) {
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, newFakeLink())
	s.identifiers[1] = cctalk.Identifier{IDString: "EU0010A"}
	events := make(chan Event, 8)
	s.Subscribe(events)

	s.lastEventNum = 254
	// Counter wraps 254 -> 255 -> (skip 0) -> 1: two new events, newest first.
	newest := cctalk.EventRecord{ResultA: 1, ResultB: 0}
	older := cctalk.EventRecord{ResultA: 1, ResultB: 0}
	s.processCreditEventLog(true, nil, 1, []cctalk.EventRecord{newest, older})

	if s.lastEventNum != 1 {
		t.Fatalf("lastEventNum = %d, want 1", s.lastEventNum)
	}
	count := 0
	for _, ev := range drainEvents(events) {
		if ev.Kind == EventCreditAccepted {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("credited %d events across the wraparound, want 2", count)
	}
}

func TestProcessCreditEventLog_BillEscrowAccepted(t *testing.T) {
	link := newFakeLink()
	link.script(cctalk.HeaderRouteBill, scriptedReply{payload: nil})
	s := newTestSupervisor(cctalk.CategoryBillValidator, link)
	s.identifiers[2] = cctalk.Identifier{IDString: "EU0020A"}
	s.billValidator = func(position uint8, id cctalk.Identifier) bool { return true }

	record := cctalk.EventRecord{ResultA: 2, ResultB: byte(cctalk.BillValidatedAndHeldInEscrow)}
	s.lastEventNum = 1
	s.processCreditEventLog(true, nil, 2, []cctalk.EventRecord{record})

	calls := link.callsFor(cctalk.HeaderRouteBill)
	if len(calls) != 1 {
		t.Fatalf("RouteBill calls = %d, want 1", len(calls))
	}
	if calls[0] != byte(cctalk.RouteToStacker) {
		t.Fatalf("RouteBill argument = %d, want RouteToStacker", calls[0])
	}
}

func TestProcessCreditEventLog_BillEscrowRejectedWhenNotAccepting(t *testing.T) {
	link := newFakeLink()
	link.script(cctalk.HeaderRouteBill, scriptedReply{payload: nil})
	s := newTestSupervisor(cctalk.CategoryBillValidator, link)
	s.identifiers[4] = cctalk.Identifier{IDString: "EU0050A"}
	s.billValidator = func(position uint8, id cctalk.Identifier) bool { return true }

	record := cctalk.EventRecord{ResultA: 4, ResultB: byte(cctalk.BillValidatedAndHeldInEscrow)}
	s.lastEventNum = 1
	// accepting=false forces rejection even though the validator func would accept.
	s.processCreditEventLog(false, nil, 2, []cctalk.EventRecord{record})

	calls := link.callsFor(cctalk.HeaderRouteBill)
	if len(calls) != 1 {
		t.Fatalf("RouteBill calls = %d, want 1", len(calls))
	}
	if calls[0] != byte(cctalk.RouteReturnBill) {
		t.Fatalf("RouteBill argument = %d, want RouteReturnBill", calls[0])
	}
}

func TestProcessCreditEventLog_OnlyNewestEscrowEventRoutes(t *testing.T) {
	link := newFakeLink()
	link.script(cctalk.HeaderRouteBill, scriptedReply{payload: nil})
	s := newTestSupervisor(cctalk.CategoryBillValidator, link)
	s.identifiers[1] = cctalk.Identifier{IDString: "EU0010A"}
	s.billValidator = func(position uint8, id cctalk.Identifier) bool { return true }

	stale := cctalk.EventRecord{ResultA: 1, ResultB: byte(cctalk.BillValidatedAndHeldInEscrow)}
	fresh := cctalk.EventRecord{ResultA: 1, ResultB: byte(cctalk.BillValidatedAndHeldInEscrow)}
	s.lastEventNum = 3
	// newEvents is newest-first: index 0 is fresh, index 1 is stale.
	s.processCreditEventLog(true, nil, 5, []cctalk.EventRecord{fresh, stale})

	calls := link.callsFor(cctalk.HeaderRouteBill)
	if len(calls) != 1 {
		t.Fatalf("RouteBill calls = %d, want exactly 1 (only the newest escrow event)", len(calls))
	}
}

func TestProcessCreditEventLog_SelfCheckFaultEscalatesToDiagnostics(t *testing.T) {
	link := newFakeLink()
	link.script(cctalk.HeaderPerformSelfCheck, scriptedReply{payload: []byte{byte(cctalk.FaultOnInductiveCoils)}})
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, link)
	s.state = NormalAccepting

	// An "Unknown" rejection-type coin error event triggers a self-check.
	errEvent := cctalk.EventRecord{ResultA: 0, ResultB: byte(cctalk.CoinEventMotorException)}
	s.lastEventNum = 1
	s.processCreditEventLog(true, nil, 2, []cctalk.EventRecord{errEvent})

	if s.state != DiagnosticsPolling {
		t.Fatalf("state = %v, want DiagnosticsPolling after a non-OK self-check fault", s.state)
	}
}

func TestProcessCreditEventLog_SelfCheckOkStaysInState(t *testing.T) {
	link := newFakeLink()
	link.script(cctalk.HeaderPerformSelfCheck, scriptedReply{payload: []byte{byte(cctalk.FaultOk)}})
	s := newTestSupervisor(cctalk.CategoryCoinAcceptor, link)
	s.state = NormalAccepting

	errEvent := cctalk.EventRecord{ResultA: 0, ResultB: byte(cctalk.CoinEventMotorException)}
	s.lastEventNum = 1
	s.processCreditEventLog(true, nil, 2, []cctalk.EventRecord{errEvent})

	if s.state != NormalAccepting {
		t.Fatalf("state = %v, want unchanged NormalAccepting when self-check reports OK", s.state)
	}
}
