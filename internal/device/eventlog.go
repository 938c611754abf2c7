package device

import (
	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/sequencer"
)

// processCreditEventLog implements the event-log processor of §4.5.5: a
// command timeout (err != nil) is silently ignored, a counter that dropped
// to 0 means the device reset (possible credit loss), and otherwise every
// event since last_event_num is walked oldest-to-newest, classifying
// errors, crediting accepted coins/bills, and — for bills left in escrow by
// the newest event only — running a self-check/routing mini-sequence
// before returning.
func (s *Supervisor) processCreditEventLog(accepting bool, err error, counter uint8, events []cctalk.EventRecord) {
	if err != nil {
		return
	}
	if counter == 0 && len(events) == 0 {
		return
	}
	if s.lastEventNum == 0 && counter == 0 {
		return
	}
	if s.lastEventNum != 0 && counter == 0 {
		s.logf("! the device appears to have been reset, possible loss of credit")
		s.lastEventNum = 0
		s.requestSwitchState(ExternalReset, func(error) {})
		return
	}
	if s.lastEventNum == counter {
		return
	}

	startup := s.lastEventNum == 0
	if startup && counter != 0 {
		s.logf("! detected device that was up (and generating events) before host startup; ignoring \"credit accepted\" events")
	}

	numNew := int(counter) - int(s.lastEventNum)
	if numNew < 0 {
		numNew += 255
	}
	s.lastEventNum = counter

	if numNew > len(events) {
		s.logf("! event counter difference %d is greater than buffer size %d, possible loss of credit", numNew, len(events))
		numNew = len(events)
	}

	// events is newest-first; keep only the numNew freshest.
	newEvents := events[:numNew]
	s.logf("* found %d new event(s); processing from oldest to newest", len(newEvents))

	selfCheckRequested := false
	billRoutingPending := false
	billRoutingForceReject := false
	var routingPos uint8

	for i := len(newEvents) - 1; i >= 0; i-- {
		ev := newEvents[i]
		processingLast := i == 0

		if s.category == cctalk.CategoryCoinAcceptor {
			view := ev.DecodeCoin()
			if view.IsError {
				rejection := cctalk.CoinEventRejectionType(view.EventCode)
				s.logf("$ coin status/error event code %d found, rejection type: %v", view.EventCode, rejection)
				if rejection == cctalk.CoinUnknown {
					selfCheckRequested = true
				}
				continue
			}
			id := s.identifiers[view.Position]
			if startup {
				s.logf("$ the following is a startup event message, ignore it:")
			}
			s.logf("$ coin (position %d, ID %s) has been accepted to sorter path %d", view.Position, id.IDString, view.SorterPath)
			if !accepting && !startup {
				s.logf("! coin accepted even though we're in rejecting mode; internal error")
			}
			if accepting && !startup {
				s.publish(Event{Kind: EventCreditAccepted, Position: view.Position, Identifier: id})
			}
			continue
		}

		// Bill validator.
		view := ev.DecodeBill()
		if view.IsError {
			s.logf("$ bill status/error event code %d found, event type: %v", view.ErrorCode, view.EventType)
			if view.EventType != cctalk.BillEventStatus && view.EventType != cctalk.BillEventReject {
				selfCheckRequested = true
			}
			continue
		}

		id := s.identifiers[view.Position]
		switch view.SuccessCode {
		case cctalk.BillValidatedAndHeldInEscrow:
			if !processingLast {
				if startup {
					s.logf("$ the following is a startup event message, ignore it:")
				}
				s.logf("$ bill (position %d, ID %s) is or was in escrow, too late to process an old event; ignoring", view.Position, id.IDString)
				continue
			}
			if !accepting {
				if startup {
					s.logf("$ the following is a startup event message, ignore it:")
				}
				s.logf("$ bill (position %d, ID %s) is or was in escrow, even though we're in rejecting mode; ignoring", view.Position, id.IDString)
				billRoutingForceReject = true
			}
			billRoutingPending = true
			routingPos = view.Position

		case cctalk.BillValidatedAndAccepted:
			if startup {
				s.logf("$ the following is a startup event message, ignore it:")
			}
			s.logf("$ bill (position %d, ID %s) has been accepted", view.Position, id.IDString)
			if !accepting && !startup {
				s.logf("! bill accepted even though we're in rejecting mode; internal error")
			}
			if accepting && !startup {
				s.publish(Event{Kind: EventCreditAccepted, Position: view.Position, Identifier: id})
			}
		}
	}

	if !billRoutingPending && !selfCheckRequested {
		return
	}

	s.runEscrowAndSelfCheckSequence(billRoutingPending, billRoutingForceReject, selfCheckRequested, routingPos)
}

// runEscrowAndSelfCheckSequence mirrors the original's auxiliary
// AsyncSerializer: optionally run a self-check to see whether a new error
// event indicates a persistent fault, then decide the pending escrowed
// bill's fate, then escalate to DiagnosticsPolling if the fault persists.
func (s *Supervisor) runEscrowAndSelfCheckSequence(billPending, forceReject, selfCheckRequested bool, pos uint8) {
	fault := cctalk.FaultOk
	done := make(chan struct{})
	seq := sequencer.New(func(*sequencer.Sequencer) { close(done) })

	if selfCheckRequested {
		seq.Add(func(sq *sequencer.Sequencer) {
			s.logf("* at least one new event has an error code, requesting SelfCheck to see if there is a global fault code")
			got, err := s.performSelfCheck()
			if err == nil {
				fault = got
			} else {
				fault = cctalk.FaultCustomCommandError
			}
			sq.ContinueSequence(true)
		})
	}

	if billPending {
		seq.Add(func(sq *sequencer.Sequencer) {
			id := s.identifiers[pos]
			accept := false
			switch {
			case !fault.OK():
				s.logf("* SelfCheck returned a non-OK fault code; pending bill in escrow will be rejected")
			case forceReject:
				s.logf("! forcing bill validation rejection due to being in NormalRejecting state; internal error")
			default:
				if s.billValidator != nil {
					accept = s.billValidator(pos, id)
				}
				s.logf("* bill validating function status: accept=%v", accept)
			}

			route := cctalk.RouteReturnBill
			if accept {
				route = cctalk.RouteToStacker
			}
			s.logf("$ bill (position %d, ID %s) is in escrow, sending a request for route=%d", pos, id.IDString, route)
			status, _ := s.routeBill(route)
			s.logf("$ bill (position %d, ID %s) routing status: %d", pos, id.IDString, status)
			sq.ContinueSequence(true)
		})
	}

	if selfCheckRequested {
		seq.Add(func(sq *sequencer.Sequencer) {
			if fault.OK() {
				sq.ContinueSequence(true)
				return
			}
			s.logf("* SelfCheck returned a non-OK fault code, switching to diagnostics polling mode")
			s.requestSwitchState(DiagnosticsPolling, func(error) { sq.ContinueSequence(true) })
		})
	}

	seq.Start()
	<-done
}
