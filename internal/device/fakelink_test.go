package device

import (
	"errors"
	"sync"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

var errPortTimeout = errors.New("fake link: response timeout")

// scriptedReply is one canned outcome for a header, consumed in FIFO order
// the next time that header is requested. A zero-value scriptedReply (nil
// payload, empty errMsg) behaves like an empty-payload ACK.
type scriptedReply struct {
	payload []byte
	errMsg  string
}

// fakeLink is a hand-rolled double for linkController: it records every
// payload sent per header and replays scripted replies synchronously from
// ExecuteOnReturn, the same fake-at-the-interface-boundary style
// internal/link's own fakeTransport uses one layer down.
type fakeLink struct {
	mu         sync.Mutex
	nextID     uint64
	headerByID map[uint64]cctalk.Header
	queue      map[cctalk.Header][]scriptedReply
	calls      map[cctalk.Header][][]byte
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		headerByID: map[uint64]cctalk.Header{},
		queue:      map[cctalk.Header][]scriptedReply{},
		calls:      map[cctalk.Header][][]byte{},
	}
}

// script appends replies to be returned, in order, the next times header is
// requested. Headers never scripted default to an empty-payload ACK.
func (f *fakeLink) script(header cctalk.Header, replies ...scriptedReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[header] = append(f.queue[header], replies...)
}

// callsFor returns the first byte of every payload sent for header, in
// request order — enough for tests that only care about a single argument
// byte (RouteBill's route code, SetMasterInhibitStatus's mask, etc.).
func (f *fakeLink) callsFor(header cctalk.Header) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []byte
	for _, payload := range f.calls[header] {
		if len(payload) > 0 {
			out = append(out, payload[0])
		} else {
			out = append(out, 0)
		}
	}
	return out
}

func (f *fakeLink) Request(header cctalk.Header, payload []byte, needsResponse bool, responseTimeout time.Duration) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.headerByID[id] = header
	f.calls[header] = append(f.calls[header], payload)
	return id, nil
}

func (f *fakeLink) ExecuteOnReturn(requestID uint64, handler func(requestID uint64, errMsg string, payload []byte)) {
	f.mu.Lock()
	header := f.headerByID[requestID]
	var reply scriptedReply
	if q := f.queue[header]; len(q) > 0 {
		reply = q[0]
		f.queue[header] = q[1:]
	}
	f.mu.Unlock()
	handler(requestID, reply.errMsg, reply.payload)
}

var _ linkController = (*fakeLink)(nil)
