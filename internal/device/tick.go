package device

// onTick runs one poll-tick dispatch per §4.5.4. It always completes
// synchronously (from run()'s perspective) before the next select
// iteration — there is never more than one tick in flight, since run() is
// the only goroutine that calls it.
func (s *Supervisor) onTick() {
	switch s.state {
	case ShutDown:
		// no-op

	case UninitializedDown:
		alive, _ := s.checkAlive()
		if alive {
			s.requestSwitchState(Initialized, func(error) {})
		}

	case Initialized:
		fault, err := s.performSelfCheck()
		if err != nil {
			return
		}
		if fault.OK() {
			s.requestSwitchState(NormalRejecting, func(error) {})
		} else {
			s.requestSwitchState(DiagnosticsPolling, func(error) {})
		}

	case InitializationFailed:
		// Terminal: stopsTimer() already keeps the timer from rearming.

	case NormalAccepting:
		s.pollEventLog(true)

	case NormalRejecting:
		s.pollEventLog(false)

	case DiagnosticsPolling:
		fault, err := s.performSelfCheck()
		if err == nil && fault.OK() {
			s.requestSwitchState(NormalRejecting, func(error) {})
		}

	case UnexpectedDown, ExternalReset:
		s.requestSwitchState(Initialized, func(error) {})
	}
}

func (s *Supervisor) pollEventLog(accepting bool) {
	counter, events, err := s.readBufferedEvents()
	s.processCreditEventLog(accepting, err, counter, events)
}
