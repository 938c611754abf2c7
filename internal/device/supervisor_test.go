package device

import (
	"testing"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

func newScriptedCoinAcceptorLink() *fakeLink {
	link := newFakeLink()
	link.script(cctalk.HeaderGetEquipmentCategory, scriptedReply{payload: []byte("Coin Acceptor")})
	link.script(cctalk.HeaderGetPollingPriority, scriptedReply{payload: []byte{3, 1}}) // 1000ms
	link.script(cctalk.HeaderGetCoinId, scriptedReply{payload: []byte("EU0010A")})
	for i := 0; i < 15; i++ {
		link.script(cctalk.HeaderGetCoinId, scriptedReply{payload: []byte{}})
	}
	return link
}

func waitForDone(t *testing.T, done chan error) error {
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for completion callback")
		return nil
	}
}

func TestSupervisor_InitializeCoinAcceptor(t *testing.T) {
	link := newScriptedCoinAcceptorLink()
	s := New(link, Config{})
	defer s.Close()

	done := make(chan error, 1)
	if !s.Initialize(func(err error) { done <- err }) {
		t.Fatalf("Initialize refused from ShutDown")
	}
	if err := waitForDone(t, done); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if got := s.State(); got != Initialized {
		t.Fatalf("State() = %v, want Initialized", got)
	}
	if got := s.Category(); got != cctalk.CategoryCoinAcceptor {
		t.Fatalf("Category() = %v, want CoinAcceptor", got)
	}
	ids := s.Identifiers()
	if _, ok := ids[1]; !ok {
		t.Fatalf("expected an identifier at position 1, got %+v", ids)
	}
}

func TestSupervisor_InitializeRefusedUnlessShutDown(t *testing.T) {
	link := newScriptedCoinAcceptorLink()
	s := New(link, Config{})
	defer s.Close()

	done := make(chan error, 1)
	s.Initialize(func(err error) { done <- err })
	waitForDone(t, done)

	if s.Initialize(func(error) {}) {
		t.Fatalf("Initialize should refuse once already past ShutDown")
	}
}

func TestSupervisor_RequestSwitchStateAlreadyThereStillCallsOnDone(t *testing.T) {
	link := newFakeLink()
	s := New(link, Config{})
	defer s.Close()

	done := make(chan error, 1)
	s.RequestSwitchState(ShutDown, func(err error) { done <- err })
	if err := waitForDone(t, done); err != nil {
		t.Fatalf("no-op transition returned an error: %v", err)
	}
}

func TestSupervisor_ShutdownFromNormalAcceptingDisablesAcceptance(t *testing.T) {
	link := newFakeLink()
	s := New(link, Config{})
	defer s.Close()

	advance := make(chan error, 1)
	s.RequestSwitchState(NormalAccepting, func(err error) { advance <- err })
	waitForDone(t, advance)
	if got := s.State(); got != NormalAccepting {
		t.Fatalf("State() = %v, want NormalAccepting", got)
	}

	done := make(chan error, 1)
	s.Shutdown(func(err error) { done <- err })
	waitForDone(t, done)
	if got := s.State(); got != ShutDown {
		t.Fatalf("State() = %v, want ShutDown", got)
	}

	calls := link.callsFor(cctalk.HeaderSetMasterInhibitStatus)
	if len(calls) != 2 {
		t.Fatalf("expected two master-inhibit calls (accept then shutdown), got %v", calls)
	}
	if calls[0] != 0x01 {
		t.Fatalf("entering NormalAccepting sent mask %#x, want 0x01 (accept)", calls[0])
	}
	if calls[1] != 0x00 {
		t.Fatalf("shutting down from NormalAccepting sent mask %#x, want 0x00 (inhibit)", calls[1])
	}
}
