package link

import (
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/cctalklog"
	"github.com/tamzrod/cctalk-driver/internal/serialio"
)

// Transport is the subset of serialio.Port the controller depends on,
// narrowed so tests can substitute a fake without a real serial line.
type Transport interface {
	Send(frame []byte, needsResponse bool, writeTimeout, responseTimeout time.Duration) serialio.Result
}

// defaultResponseTimeout is used unless a command overrides it.
const defaultResponseTimeout = 1500 * time.Millisecond

type job struct {
	requestID       uint64
	frame           []byte
	needsResponse   bool
	writeTimeout    time.Duration
	responseTimeout time.Duration
}

type pendingResult struct {
	requestID uint64
	errMsg    string
	payload   []byte
}

type pending struct {
	mu       sync.Mutex
	result   *pendingResult
	callback func(requestID uint64, errMsg string, payload []byte)
}

// Controller is the Link Controller: it assigns request IDs, frames and
// submits requests to the transport one at a time (in the order Request
// was called), and delivers each completion exactly once through
// ExecuteOnReturn.
type Controller struct {
	transport     Transport
	deviceAddr    uint8
	checksum16bit bool
	desEncrypted  bool
	logger        cctalklog.Logger

	mu     sync.Mutex
	reqNum uint64

	pendingMu sync.Mutex
	pending   map[uint64]*pending

	jobs chan job
}

// New constructs a Controller bound to a transport and a device address.
// checksum16bit and desEncrypted are kept as explicit fields (both always
// false in practice) because Request must refuse them synchronously, per
// the original contract, rather than silently ignoring a misconfiguration.
func New(transport Transport, deviceAddr uint8, checksum16bit, desEncrypted bool, logger cctalklog.Logger) *Controller {
	if logger == nil {
		logger = cctalklog.Discard{}
	}
	c := &Controller{
		transport:     transport,
		deviceAddr:    deviceAddr,
		checksum16bit: checksum16bit,
		desEncrypted:  desEncrypted,
		logger:        logger,
		pending:        make(map[uint64]*pending),
		jobs:           make(chan job, 64),
	}
	go c.run()
	return c
}

// DeviceAddr returns the configured device address.
func (c *Controller) DeviceAddr() uint8 { return c.deviceAddr }

func (c *Controller) run() {
	for j := range c.jobs {
		res := c.transport.Send(j.frame, j.needsResponse, j.writeTimeout, j.responseTimeout)
		c.deliver(j.requestID, j.needsResponse, res)
	}
}

func (c *Controller) nextRequestID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqNum++
	if c.reqNum == 0 {
		c.reqNum++
	}
	return c.reqNum
}

// Request builds and submits a command frame. It returns 0 and an error
// synchronously if the configuration requests an unsupported feature
// (DES encryption or a 16-bit checksum); otherwise it returns the assigned
// request ID immediately and schedules the actual I/O. Completion is
// delivered later through ExecuteOnReturn.
func (c *Controller) Request(header cctalk.Header, payload []byte, needsResponse bool, responseTimeout time.Duration) (uint64, error) {
	if c.desEncrypted {
		return 0, fmt.Errorf("%w: ccTalk DES encryption requested, unsupported", cctalk.ErrStructural)
	}
	if c.checksum16bit {
		return 0, fmt.Errorf("%w: ccTalk 16-bit checksum requested, unsupported", cctalk.ErrStructural)
	}

	frame, err := BuildFrame(c.deviceAddr, header, payload)
	if err != nil {
		return 0, err
	}

	if responseTimeout <= 0 {
		responseTimeout = defaultResponseTimeout
	}
	writeTimeout := 500*time.Millisecond + 2*time.Duration(len(frame))*time.Millisecond

	requestID := c.nextRequestID()

	c.pendingMu.Lock()
	c.pending[requestID] = &pending{}
	c.pendingMu.Unlock()

	c.logger.Logf("> ccTalk request %d: %s, address %d, data %x", requestID, header.Name(), c.deviceAddr, payload)

	c.jobs <- job{
		requestID:       requestID,
		frame:           frame,
		needsResponse:   needsResponse,
		writeTimeout:    writeTimeout,
		responseTimeout: responseTimeout,
	}

	return requestID, nil
}

// ExecuteOnReturn registers a one-shot completion handler for a request
// previously returned by Request. If the request already completed, the
// handler fires immediately (synchronously, from the calling goroutine).
// A sentRequestID of 0 (nothing was sent) is a no-op, matching the
// original's guard.
func (c *Controller) ExecuteOnReturn(sentRequestID uint64, handler func(requestID uint64, errMsg string, payload []byte)) {
	if sentRequestID == 0 {
		return
	}

	c.pendingMu.Lock()
	p, ok := c.pending[sentRequestID]
	c.pendingMu.Unlock()
	if !ok {
		return
	}

	p.mu.Lock()
	if p.result != nil {
		res := p.result
		p.mu.Unlock()
		c.forget(sentRequestID)
		handler(res.requestID, res.errMsg, res.payload)
		return
	}
	p.callback = handler
	p.mu.Unlock()
}

func (c *Controller) forget(requestID uint64) {
	c.pendingMu.Lock()
	delete(c.pending, requestID)
	c.pendingMu.Unlock()
}

func (c *Controller) deliver(requestID uint64, needsResponse bool, res serialio.Result) {
	var errMsg string
	var payload []byte
	deliveredID := requestID

	switch res.Outcome {
	case serialio.OutcomeResponseReceived:
		if !needsResponse {
			// No response was expected for this request (needsResponse == false).
			break
		}
		reply, err := ParseReply(res.Payload, c.deviceAddr)
		if err != nil {
			errMsg = err.Error()
			c.logger.Logf("%s", errMsg)
			break
		}
		payload = reply.Payload
		c.logger.Logf("< ccTalk response from address %d, data %x", reply.SourceAddr, payload)
	case serialio.OutcomeResponseTimeout:
		errMsg = fmt.Sprintf("response #%d read timeout", requestID)
	case serialio.OutcomeRequestTimeout:
		errMsg = fmt.Sprintf("request #%d write timeout", requestID)
	case serialio.OutcomePortError:
		errMsg = res.Err.Error()
		deliveredID = 0 // port errors are reported with request_id 0, per the original.
	}

	c.pendingMu.Lock()
	p, ok := c.pending[requestID]
	c.pendingMu.Unlock()
	if !ok {
		return
	}

	p.mu.Lock()
	if p.callback != nil {
		cb := p.callback
		p.mu.Unlock()
		c.forget(requestID)
		cb(deliveredID, errMsg, payload)
		return
	}
	p.result = &pendingResult{requestID: deliveredID, errMsg: errMsg, payload: payload}
	p.mu.Unlock()
}
