// Package sequencer runs a fixed list of asynchronous steps one at a time,
// advancing to the next step only when the current one explicitly says so.
// It is the Go shape of an executor that issues one async operation per
// step (typically a link.Controller request) and waits for its callback
// before moving on.
package sequencer

import "sync"

// Step is one job in the sequence. It receives the Sequencer so it can
// call ContinueSequence once its own asynchronous work completes. Each step
// runs on its own goroutine, so it may block; it must call ContinueSequence
// exactly once.
type Step func(seq *Sequencer)

// FinishHandler runs once, either after the last step finishes normally or
// after a step stops the sequence early via ContinueSequence(false).
type FinishHandler func(seq *Sequencer)

// Sequencer runs Steps strictly in order, never running more than one at a
// time and never running the next one until the current one calls
// ContinueSequence.
type Sequencer struct {
	finish FinishHandler

	mu       sync.Mutex
	steps    []Step
	index    int
	started  bool
	finished bool
}

// New returns a Sequencer that will invoke finish once, when the sequence
// completes or is stopped early. finish may be nil.
func New(finish FinishHandler) *Sequencer {
	return &Sequencer{finish: finish}
}

// Add appends a step to the sequence. Add must not be called after Start.
func (s *Sequencer) Add(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

// Start begins executing steps, starting with the first. It is
// non-blocking: the first step runs on its own goroutine. Start returns
// false if the sequence was already started.
func (s *Sequencer) Start() bool {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return false
	}
	s.started = true
	s.mu.Unlock()
	go s.runNext()
	return true
}

// ContinueSequence must be called exactly once by the currently running
// step, from the step's own completion callback. queueNext true advances
// to the next step (or finishes, if none remain); queueNext false stops
// the sequence immediately, discarding the remaining steps so they can't
// hold references to anything the caller wants collected, and invokes the
// finish handler.
func (s *Sequencer) ContinueSequence(queueNext bool) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	if !queueNext {
		s.finished = true
		s.steps = nil
		finish := s.finish
		s.mu.Unlock()
		if finish != nil {
			finish(s)
		}
		return
	}
	s.mu.Unlock()
	go s.runNext()
}

func (s *Sequencer) runNext() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	if s.index >= len(s.steps) {
		s.finished = true
		finish := s.finish
		s.mu.Unlock()
		if finish != nil {
			finish(s)
		}
		return
	}
	step := s.steps[s.index]
	s.index++
	s.mu.Unlock()
	step(s)
}
