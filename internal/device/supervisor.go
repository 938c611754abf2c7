package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/cctalklog"
	"github.com/tamzrod/cctalk-driver/internal/sequencer"
)

// Config collects the construction-time collaborators and overrides a
// Supervisor needs. Fields left at their zero value fall back to the
// protocol defaults.
type Config struct {
	// DefaultNormalPollingInterval overrides the 100ms fallback used when
	// the device's self-reported polling frequency is unusable.
	DefaultNormalPollingInterval time.Duration
	// NotAlivePollingInterval overrides the 1000ms default used while the
	// device is not known to be alive.
	NotAlivePollingInterval time.Duration
	// CoinCountryScaling is consulted for coin-acceptor identifiers only;
	// bill validators always query the device directly. Never pre-seeded
	// with a hardcoded country by this package.
	CoinCountryScaling map[string]cctalk.CountryScaling
	// BillValidator decides escrowed bills' fate. Required for bill
	// validator devices; unused for coin acceptors.
	BillValidator BillValidationFunc
	Logger        cctalklog.Logger
}

// Supervisor drives one ccTalk device through its nine-state lifecycle,
// polling it on a state-dependent interval and turning its buffered event
// log into host-facing Events. All of its own state is touched only from
// the goroutine running run(), or from a sequencer step that run() is
// blocked waiting on, so it is never accessed concurrently; every external
// method hands its work to that goroutine over cmdCh.
type Supervisor struct {
	link   linkController
	logger cctalklog.Logger

	billValidator       BillValidationFunc
	coinCountryScaling  map[string]cctalk.CountryScaling

	defaultNormalPollingInterval time.Duration
	notAlivePollingInterval      time.Duration
	normalPollingInterval        time.Duration

	// Touched only inside run()'s goroutine.
	state             State
	category          cctalk.Category
	manufacturingInfo string
	identifiers       map[uint8]cctalk.Identifier
	lastEventNum      uint8

	cmdCh  chan func()
	stopCh chan struct{}
	timer  *time.Timer

	subMu       sync.RWMutex
	subscribers []chan Event

	forceImmediateTick bool // set when a transition wants the next tick to run now, not after a full interval
}

// New constructs a Supervisor bound to a Link Controller. The Supervisor
// starts in ShutDown and does nothing until Initialize is called.
func New(link linkController, cfg Config) *Supervisor {
	if cfg.Logger == nil {
		cfg.Logger = cctalklog.Discard{}
	}
	defaultNormal := cfg.DefaultNormalPollingInterval
	if defaultNormal <= 0 {
		defaultNormal = cctalk.DefaultNormalPollingInterval
	}
	notAlive := cfg.NotAlivePollingInterval
	if notAlive <= 0 {
		notAlive = time.Second
	}

	s := &Supervisor{
		link:                         link,
		logger:                       cfg.Logger,
		billValidator:                cfg.BillValidator,
		coinCountryScaling:           cfg.CoinCountryScaling,
		defaultNormalPollingInterval: defaultNormal,
		notAlivePollingInterval:      notAlive,
		normalPollingInterval:        defaultNormal,
		state:                        ShutDown,
		cmdCh:                        make(chan func()),
		stopCh:                       make(chan struct{}),
	}
	s.timer = time.NewTimer(s.currentInterval())
	go s.run()
	return s
}

func (s *Supervisor) currentInterval() time.Duration {
	if s.state.usesNormalInterval() {
		return s.normalPollingInterval
	}
	return s.notAlivePollingInterval
}

func (s *Supervisor) run() {
	for {
		select {
		case <-s.stopCh:
			s.timer.Stop()
			return
		case job := <-s.cmdCh:
			job()
			immediate := s.forceImmediateTick
			s.forceImmediateTick = false
			s.rearmTimer(immediate)
		case <-s.timer.C:
			s.onTick()
			s.rearmTimer(false)
		}
	}
}

func (s *Supervisor) rearmTimer(immediate bool) {
	if s.state.stopsTimer() {
		return
	}
	if immediate {
		s.timer.Reset(time.Millisecond)
		return
	}
	s.timer.Reset(s.currentInterval())
}

// Close stops the Supervisor's goroutine without going through the
// ShutDown state transition. Used for teardown, not normal operation —
// callers should prefer Shutdown.
func (s *Supervisor) Close() {
	close(s.stopCh)
}

func (s *Supervisor) setState(state State) {
	if s.state == state {
		return
	}
	old := s.state
	s.state = state
	s.logf("device state changed to: %s", state)
	s.publish(Event{Kind: EventDeviceStateChanged, OldState: old, NewState: state})
}

// State returns the Supervisor's current lifecycle state. Safe to call
// from any goroutine.
func (s *Supervisor) State() State {
	done := make(chan State, 1)
	select {
	case s.cmdCh <- func() { done <- s.state }:
		return <-done
	case <-s.stopCh:
		return ShutDown
	}
}

// Category returns the device category detected at initialization.
func (s *Supervisor) Category() cctalk.Category {
	done := make(chan cctalk.Category, 1)
	select {
	case s.cmdCh <- func() { done <- s.category }:
		return <-done
	case <-s.stopCh:
		return cctalk.CategoryUnknown
	}
}

// Identifiers returns a copy of the coin/bill identifier table fetched at
// initialization.
func (s *Supervisor) Identifiers() map[uint8]cctalk.Identifier {
	done := make(chan map[uint8]cctalk.Identifier, 1)
	select {
	case s.cmdCh <- func() {
		out := make(map[uint8]cctalk.Identifier, len(s.identifiers))
		for k, v := range s.identifiers {
			out[k] = v
		}
		done <- out
	}:
		return <-done
	case <-s.stopCh:
		return nil
	}
}

// Initialize transitions the Supervisor from ShutDown into Initialized.
// Valid only from ShutDown; otherwise it returns false and calls onDone
// once with an ErrState error.
func (s *Supervisor) Initialize(onDone func(err error)) bool {
	accepted := make(chan bool, 1)
	s.cmdCh <- func() {
		if s.state != ShutDown {
			s.logf("! cannot initialize device that is in %s state", s.state)
			accepted <- false
			onDone(fmt.Errorf("%w: cannot initialize device in %s state", cctalk.ErrState, s.state))
			return
		}
		accepted <- true
		s.requestSwitchState(Initialized, onDone)
	}
	return <-accepted
}

// Shutdown transitions the Supervisor to ShutDown from any state.
func (s *Supervisor) Shutdown(onDone func(err error)) bool {
	s.cmdCh <- func() { s.requestSwitchState(ShutDown, onDone) }
	return true
}

// RequestSwitchState drives a direct transition to target. Every
// transition invokes onDone exactly once, even a no-op one (target already
// current) — see DESIGN.md's resolution of the original's early-return
// quirk.
func (s *Supervisor) RequestSwitchState(target State, onDone func(err error)) bool {
	s.cmdCh <- func() { s.requestSwitchState(target, onDone) }
	return true
}

// ResetToState issues a ResetDevice command and, on success, drives the
// Supervisor directly into target rather than always re-running discovery
// from UninitializedDown. Supplemented operation — see SPEC_FULL.md §4.3.
func (s *Supervisor) ResetToState(target State, onDone func(err error)) bool {
	s.cmdCh <- func() {
		if err := s.resetDevice(); err != nil {
			onDone(err)
			return
		}
		s.requestSwitchState(target, onDone)
	}
	return true
}

// SetBillValidator installs (or replaces) the escrow-routing decision
// function used while processing the event log.
func (s *Supervisor) SetBillValidator(fn BillValidationFunc) {
	s.cmdCh <- func() { s.billValidator = fn }
}

// requestSwitchState is the state-transition dispatcher. Must only be
// called from the run() goroutine.
func (s *Supervisor) requestSwitchState(target State, onDone func(err error)) {
	s.logf("requested device state change from %s to: %s", s.state, target)

	if s.state == target {
		s.logf("cannot switch to device state %s, already there", target)
		onDone(nil)
		return
	}

	switch target {
	case ShutDown:
		s.switchStateShutDown(onDone)
	case UninitializedDown, InitializationFailed, UnexpectedDown, ExternalReset:
		s.setState(target)
		onDone(nil)
	case Initialized:
		s.switchStateInitialized(onDone)
	case NormalAccepting:
		s.switchStateAccepting(true, onDone)
	case NormalRejecting:
		s.switchStateAccepting(false, onDone)
	case DiagnosticsPolling:
		s.switchStateDiagnosticsPolling(onDone)
	default:
		onDone(fmt.Errorf("%w: unknown target state %v", cctalk.ErrState, target))
	}
}

func (s *Supervisor) switchStateShutDown(onDone func(error)) {
	if s.state != NormalAccepting {
		s.setState(ShutDown)
		onDone(nil)
		return
	}
	err := s.setMasterInhibitStatus(true)
	s.setState(ShutDown) // unconditional, matching the original's lack of error handling here.
	onDone(err)
}

func (s *Supervisor) switchStateAccepting(accept bool, onDone func(error)) {
	target := NormalRejecting
	if accept {
		target = NormalAccepting
	}
	if err := s.setMasterInhibitStatus(!accept); err != nil {
		s.requestSwitchState(UnexpectedDown, onDone)
		return
	}
	s.setState(target)
	onDone(nil)
}

func (s *Supervisor) switchStateDiagnosticsPolling(onDone func(error)) {
	if err := s.setMasterInhibitStatus(true); err != nil {
		s.requestSwitchState(UnexpectedDown, onDone)
		return
	}
	s.setState(DiagnosticsPolling)
	onDone(nil)
}

func (s *Supervisor) switchStateInitialized(onDone func(error)) {
	var fetchErr error
	var alive bool
	done := make(chan struct{})

	seq := sequencer.New(func(*sequencer.Sequencer) { close(done) })

	seq.Add(func(sq *sequencer.Sequencer) {
		var err error
		alive, err = s.checkAlive()
		if err != nil {
			fetchErr = err
		}
		sq.ContinueSequence(alive)
	})

	seq.Add(func(sq *sequencer.Sequencer) {
		info, err := s.fetchManufacturingInfo()
		if err != nil {
			fetchErr = err
			sq.ContinueSequence(false)
			return
		}
		s.category = info.category
		s.manufacturingInfo = info.info
		ok := info.category == cctalk.CategoryCoinAcceptor || info.category == cctalk.CategoryBillValidator
		if !ok {
			fetchErr = fmt.Errorf("%w: unsupported device category %s", cctalk.ErrState, info.category)
		}
		sq.ContinueSequence(ok)
	})

	seq.Add(func(sq *sequencer.Sequencer) {
		interval, err := s.fetchPollingInterval()
		if err != nil {
			fetchErr = err
			sq.ContinueSequence(false)
			return
		}
		if interval == 0 || interval > time.Second {
			s.logf("* device-recommended polling frequency is invalid, using default: %v", s.defaultNormalPollingInterval)
			s.normalPollingInterval = s.defaultNormalPollingInterval
		} else {
			s.logf("* device-recommended polling frequency: %v", interval)
			s.normalPollingInterval = interval
		}
		sq.ContinueSequence(true)
	})

	seq.Add(func(sq *sequencer.Sequencer) {
		ids, err := s.fetchIdentifiers()
		if err != nil {
			fetchErr = err
			sq.ContinueSequence(false)
			return
		}
		s.identifiers = ids
		sq.ContinueSequence(true)
	})

	seq.Add(func(sq *sequencer.Sequencer) {
		if s.category != cctalk.CategoryBillValidator {
			sq.ContinueSequence(true)
			return
		}
		err := s.setBillOperatingMode(true, true)
		fetchErr = err
		sq.ContinueSequence(err == nil)
	})

	seq.Add(func(sq *sequencer.Sequencer) {
		err := s.setInhibitStatus(0xFF, 0xFF)
		fetchErr = err
		sq.ContinueSequence(err == nil)
	})

	seq.Start()
	<-done

	if fetchErr == nil {
		s.setState(Initialized)
		s.forceImmediateTick = true
		onDone(nil)
		return
	}
	if alive {
		s.requestSwitchState(InitializationFailed, onDone)
	} else {
		s.requestSwitchState(UninitializedDown, onDone)
	}
}
