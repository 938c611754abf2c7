package link

import (
	"testing"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

func TestBuildFrame_ChecksumIsZeroSum(t *testing.T) {
	frame, err := BuildFrame(3, cctalk.HeaderSimplePoll, nil)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	var sum uint8
	for _, b := range frame {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("frame checksum sum = %d, want 0", sum)
	}
	if len(frame) != 5 {
		t.Fatalf("len(frame) = %d, want 5 for empty payload", len(frame))
	}
}

func TestBuildFrame_WithPayload(t *testing.T) {
	frame, err := BuildFrame(3, cctalk.HeaderSetInhibitStatus, []byte{0xFF, 0x00})
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if frame[0] != 3 || frame[1] != 2 || frame[2] != HostAddress || frame[3] != uint8(cctalk.HeaderSetInhibitStatus) {
		t.Fatalf("frame header mismatch: %x", frame[:4])
	}
}

func TestParseReply_RoundTrip(t *testing.T) {
	payload := []byte{0x0A, 0x0B}
	raw := replyFrame(payload)
	reply, err := ParseReply(raw, link_hostSrcDestForTest)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if string(reply.Payload) != string(payload) {
		t.Fatalf("payload = %x, want %x", reply.Payload, payload)
	}
}

func TestParseReply_TooSmall(t *testing.T) {
	if _, err := ParseReply([]byte{1, 2, 3}, 3); err == nil {
		t.Fatalf("expected error for undersized response")
	}
}

func TestParseReply_WrongDestination(t *testing.T) {
	raw := []byte{5, 0, link_hostSrcDestForTest, 0} // destination 5, not HostAddress
	var sum uint8
	for _, b := range raw {
		sum += b
	}
	raw = append(raw, uint8(256-int(sum)))
	if _, err := ParseReply(raw, link_hostSrcDestForTest); err == nil {
		t.Fatalf("expected error for wrong destination address")
	}
}

func TestParseReply_WrongSourceAddress(t *testing.T) {
	raw := replyFrame(nil)
	if _, err := ParseReply(raw, 99); err == nil {
		t.Fatalf("expected error for mismatched source address")
	}
}

func TestParseReply_SourceAddressZeroSkipsCheck(t *testing.T) {
	raw := replyFrame(nil)
	if _, err := ParseReply(raw, 0); err != nil {
		t.Fatalf("ParseReply with deviceAddr=0 should skip the source check: %v", err)
	}
}
