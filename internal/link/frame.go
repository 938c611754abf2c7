// Package link implements the Link Controller: ccTalk frame encoding and
// decoding, request-ID assignment, and the one-shot completion contract
// that sits between the Command Layer and the Serial Transport.
package link

import (
	"fmt"

	"github.com/tamzrod/cctalk-driver/internal/cctalk"
)

// HostAddress is this driver's own ccTalk address. Fixed at 1, per the
// protocol's convention that the host/master always identifies as 1.
const HostAddress = 1

// BuildFrame assembles a request frame: [dest][len][src][header][payload...][checksum].
// The checksum is chosen so the unsigned sum of every frame byte is 0 mod 256.
func BuildFrame(destAddr uint8, header cctalk.Header, payload []byte) ([]byte, error) {
	if len(payload) > 255 {
		return nil, fmt.Errorf("%w: payload length %d exceeds 255", cctalk.ErrStructural, len(payload))
	}

	frame := make([]byte, 0, 5+len(payload))
	frame = append(frame, destAddr, uint8(len(payload)), HostAddress, uint8(header))
	frame = append(frame, payload...)

	var sum uint8
	for _, b := range frame {
		sum += b
	}
	frame = append(frame, uint8(256-int(sum))&0xFF)
	return frame, nil
}

// Reply is a parsed, validated response frame.
type Reply struct {
	SourceAddr uint8
	Payload    []byte
}

// ParseReply validates and decodes a response frame per the reply
// validation order: minimum size, declared-length match, checksum,
// destination address, source address (when deviceAddr is non-zero),
// and command header == Reply.
func ParseReply(raw []byte, deviceAddr uint8) (Reply, error) {
	if len(raw) < 5 {
		return Reply{}, fmt.Errorf("%w: response too small (%d bytes)", cctalk.ErrStructural, len(raw))
	}

	destAddr := raw[0]
	dataSize := int(raw[1])
	sourceAddr := raw[2]
	header := raw[3]

	if len(raw) != 5+dataSize {
		return Reply{}, fmt.Errorf("%w: response size %d does not match declared length %d", cctalk.ErrStructural, len(raw), dataSize)
	}

	var sum uint8
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return Reply{}, fmt.Errorf("%w: response checksum invalid", cctalk.ErrStructural)
	}

	if destAddr != HostAddress {
		return Reply{}, fmt.Errorf("%w: response destination address %d, expected %d", cctalk.ErrStructural, destAddr, HostAddress)
	}

	if deviceAddr != 0 && sourceAddr != deviceAddr {
		return Reply{}, fmt.Errorf("%w: response source address %d, expected %d", cctalk.ErrStructural, sourceAddr, deviceAddr)
	}

	if cctalk.Header(header) != cctalk.HeaderReply {
		return Reply{}, fmt.Errorf("%w: response command header %d, expected Reply (0)", cctalk.ErrStructural, header)
	}

	return Reply{SourceAddr: sourceAddr, Payload: raw[4 : 4+dataSize]}, nil
}
