package device

import (
	"fmt"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

// EventKind tags the variant carried by Event, since Go has no tagged
// union: the four host-facing signals of §4.5.6, collapsed onto one
// channel type so a single subscriber loop can select on it.
type EventKind int

const (
	EventLogMessage EventKind = iota
	EventDeviceStateChanged
	EventCreditAccepted
	EventResponseDecodeError
)

// Event is published on a Supervisor's subscriber channels. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	// EventLogMessage
	Text string

	// EventDeviceStateChanged
	OldState State
	NewState State

	// EventCreditAccepted
	Position   uint8
	Identifier cctalk.Identifier

	// EventResponseDecodeError
	RequestID uint64
}

// BillValidationFunc decides whether a bill currently held in escrow
// should be routed to the stacker (true) or returned (false).
type BillValidationFunc func(position uint8, id cctalk.Identifier) bool

func (s *Supervisor) publish(ev Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// A slow subscriber must not block the supervisor; it misses events
			// rather than stalling the device's single-threaded control loop.
		}
	}
}

func (s *Supervisor) logf(format string, args ...any) {
	s.logger.Logf(format, args...)
	s.publish(Event{Kind: EventLogMessage, Text: fmt.Sprintf(format, args...)})
}

// Subscribe registers a channel that receives every Event this Supervisor
// publishes. The channel should be buffered; a full channel drops events
// rather than blocking.
func (s *Supervisor) Subscribe(ch chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, ch)
}
