package device

import (
	"fmt"
	"time"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
	"github.com/tamzrod/cctalk-driver/internal/link"
)

// ccCall performs one request/reply round trip through the Link Controller
// and blocks the calling goroutine until the completion fires. Every
// command in this file is built on top of it; the Supervisor only ever has
// one such call in flight at a time, since its run loop is single-threaded.
func (s *Supervisor) ccCall(header cctalk.Header, payload []byte, needsResponse bool) ([]byte, error) {
	type outcome struct {
		payload []byte
		errMsg  string
	}
	done := make(chan outcome, 1)

	requestID, err := s.link.Request(header, payload, needsResponse, 0)
	if err != nil {
		return nil, err
	}
	s.link.ExecuteOnReturn(requestID, func(_ uint64, errMsg string, payload []byte) {
		done <- outcome{payload: payload, errMsg: errMsg}
	})

	res := <-done
	if res.errMsg != "" {
		return nil, fmt.Errorf("%w: %s", cctalk.ErrPort, res.errMsg)
	}
	return res.payload, nil
}

func (s *Supervisor) checkAlive() (bool, error) {
	data, err := s.ccCall(cctalk.HeaderSimplePoll, nil, true)
	if err != nil {
		s.logf("! error checking for device alive status: %v", err)
		return false, err
	}
	if len(data) != 0 {
		err := fmt.Errorf("%w: non-empty data received while waiting for ACK", cctalk.ErrSemantic)
		s.publish(Event{Kind: EventResponseDecodeError, Text: err.Error()})
		return false, err
	}
	s.logf("* device is alive (answered to simple poll)")
	return true, nil
}

type manufacturingInfo struct {
	category cctalk.Category
	info     string
}

func (s *Supervisor) fetchManufacturingInfo() (manufacturingInfo, error) {
	var category cctalk.Category
	var lines []string
	var firstErr error

	record := func(err error, line string) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	data, err := s.ccCall(cctalk.HeaderGetEquipmentCategory, nil, true)
	record(err, "")
	if err == nil {
		name := string(data)
		category = cctalk.CategoryFromReportedName(name)
		lines = append(lines, fmt.Sprintf("equipment category: %s", name))
	}

	if data, err := s.ccCall(cctalk.HeaderGetProductCode, nil, true); err == nil {
		lines = append(lines, fmt.Sprintf("product code: %s", data))
	}
	if data, err := s.ccCall(cctalk.HeaderGetBuildCode, nil, true); err == nil {
		lines = append(lines, fmt.Sprintf("build code: %s", data))
	}
	if data, err := s.ccCall(cctalk.HeaderGetManufacturer, nil, true); err == nil {
		lines = append(lines, fmt.Sprintf("manufacturer: %s", data))
	}
	if data, err := s.ccCall(cctalk.HeaderGetSerialNumber, nil, true); err == nil {
		lines = append(lines, fmt.Sprintf("serial number: %x", data))
	}
	if data, err := s.ccCall(cctalk.HeaderGetSoftwareRevision, nil, true); err == nil {
		lines = append(lines, fmt.Sprintf("software revision: %s", data))
	}
	if data, err := s.ccCall(cctalk.HeaderGetCommsRevision, nil, true); err == nil {
		if len(data) == 3 {
			lines = append(lines, fmt.Sprintf("ccTalk product release %d, version %d.%d", data[0], data[1], data[2]))
		}
	}

	info := manufacturingInfo{category: category, info: joinLines(lines)}
	if firstErr != nil {
		return info, firstErr
	}
	if info.info != "" {
		s.logf("* manufacturing information:\n%s", info.info)
	}
	return info, nil
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func (s *Supervisor) fetchPollingInterval() (time.Duration, error) {
	data, err := s.ccCall(cctalk.HeaderGetPollingPriority, nil, true)
	if err != nil {
		s.logf("! error getting polling interval: %v", err)
		return 0, err
	}
	if len(data) != 2 {
		err := fmt.Errorf("%w: invalid polling interval data received", cctalk.ErrSemantic)
		s.publish(Event{Kind: EventResponseDecodeError, Text: err.Error()})
		return 0, err
	}
	return cctalk.DecodePollingInterval(data[0], data[1]), nil
}

func (s *Supervisor) setInhibitStatus(mask1, mask2 uint8) error {
	data, err := s.ccCall(cctalk.HeaderSetInhibitStatus, []byte{mask1, mask2}, true)
	if err != nil {
		s.logf("! error setting inhibit status: %v", err)
		return err
	}
	if len(data) != 0 {
		return fmt.Errorf("%w: non-empty data received while waiting for ACK", cctalk.ErrSemantic)
	}
	s.logf("* inhibit status set: %d, %d", mask1, mask2)
	return nil
}

func (s *Supervisor) setMasterInhibitStatus(inhibit bool) error {
	arg := byte(0x01)
	if inhibit {
		arg = 0x00 // 0 means master inhibit active.
	}
	data, err := s.ccCall(cctalk.HeaderSetMasterInhibitStatus, []byte{arg}, true)
	if err != nil {
		s.logf("! error setting master inhibit status: %v", err)
		return err
	}
	if len(data) != 0 {
		return fmt.Errorf("%w: non-empty data received while waiting for ACK", cctalk.ErrSemantic)
	}
	mode := "accept"
	if inhibit {
		mode = "reject"
	}
	s.logf("* master inhibit status set to: %s", mode)
	return nil
}

func (s *Supervisor) setBillOperatingMode(useStacker, useEscrow bool) error {
	var mask byte
	if useStacker {
		mask += 1
	}
	if useEscrow {
		mask += 2
	}
	data, err := s.ccCall(cctalk.HeaderSetBillOperatingMode, []byte{mask}, true)
	if err != nil {
		s.logf("! error setting bill validator operating mode: %v", err)
		return err
	}
	if len(data) != 0 {
		return fmt.Errorf("%w: non-empty data received while waiting for ACK", cctalk.ErrSemantic)
	}
	s.logf("* bill validator operating mode set to: %d", mask)
	return nil
}

func (s *Supervisor) performSelfCheck() (cctalk.FaultCode, error) {
	data, err := s.ccCall(cctalk.HeaderPerformSelfCheck, nil, true)
	if err != nil {
		s.logf("! error getting self-check status: %v", err)
		return cctalk.FaultCustomCommandError, err
	}
	if len(data) != 1 {
		err := fmt.Errorf("%w: invalid data received for PerformSelfCheck", cctalk.ErrSemantic)
		s.publish(Event{Kind: EventResponseDecodeError, Text: err.Error()})
		return cctalk.FaultCustomCommandError, err
	}
	fault := cctalk.FaultCode(data[0])
	s.logf("* self-check fault code: %s", fault.Name())
	return fault, nil
}

func (s *Supervisor) routeBill(route cctalk.RouteCommand) (cctalk.RouteStatus, error) {
	data, err := s.ccCall(cctalk.HeaderRouteBill, []byte{byte(route)}, true)
	if err != nil {
		s.logf("! error sending RouteBill command: %v", err)
		return cctalk.RouteStatusFailedToRoute, err
	}
	if len(data) > 1 {
		err := fmt.Errorf("%w: invalid data received for RouteBill", cctalk.ErrSemantic)
		s.publish(Event{Kind: EventResponseDecodeError, Text: err.Error()})
		return cctalk.RouteStatusFailedToRoute, err
	}
	status := cctalk.RouteStatusRouted // ACK means Routed.
	if len(data) == 1 {
		status = cctalk.RouteStatus(data[0])
	}
	s.logf("* RouteBill command status: %d", status)
	return status, nil
}

func (s *Supervisor) resetDevice() error {
	data, err := s.ccCall(cctalk.HeaderResetDevice, nil, true)
	if err != nil {
		s.logf("! error sending soft reset request: %v", err)
		return err
	}
	if len(data) != 0 {
		return fmt.Errorf("%w: non-empty data received while waiting for ACK", cctalk.ErrSemantic)
	}
	s.logf("* soft reset acknowledged, waiting for the device to get back up")
	return nil
}

// readBufferedEvents issues the category-appropriate buffered event read
// and decodes the [counter][resultA][resultB]x5 reply shape.
func (s *Supervisor) readBufferedEvents() (counter uint8, events []cctalk.EventRecord, err error) {
	header := cctalk.HeaderReadBufferedCredit
	if s.category == cctalk.CategoryBillValidator {
		header = cctalk.HeaderReadBufferedBillEvents
	}
	data, err := s.ccCall(header, nil, true)
	if err != nil {
		return 0, nil, err
	}
	if len(data) < 1 || (len(data)-1)%2 != 0 {
		return 0, nil, fmt.Errorf("%w: invalid buffered event data shape (%d bytes)", cctalk.ErrSemantic, len(data))
	}
	counter = data[0]
	for i := 1; i+1 < len(data); i += 2 {
		events = append(events, cctalk.EventRecord{ResultA: data[i], ResultB: data[i+1]})
	}
	return counter, events, nil
}

// linkController is the narrow subset of *link.Controller the Supervisor depends on,
// matched by *link.Controller's own method set.
type linkController interface {
	Request(header cctalk.Header, payload []byte, needsResponse bool, responseTimeout time.Duration) (uint64, error)
	ExecuteOnReturn(sentRequestID uint64, handler func(requestID uint64, errMsg string, payload []byte))
}

var _ linkController = (*link.Controller)(nil)
