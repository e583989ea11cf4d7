package icmp

import (
	"encoding/binary"
	"math"
)

// PacketSize is the fixed size, in bytes, of the echo request/reply layout
// this package uses (spec.md §4.C): type, code, checksum, identifier,
// sequence, a duplicated identifier, and a float32 timestamp.
const PacketSize = 14

// Echo is an unpacked echo request/reply in the wire layout of spec.md §4.C.
type Echo struct {
	Type       byte
	Code       byte
	Checksum   uint16
	Identifier uint16
	Sequence   uint16
	// PayloadIdentifier duplicates Identifier into the payload, since some
	// kernels rewrite the header identifier for unprivileged datagram
	// sockets (spec.md §4.C).
	PayloadIdentifier uint16
	// Timestamp is the send time in seconds, used by the receiver to
	// compute latency without consulting the prober's clock (spec.md §4.C).
	Timestamp float32
}

// Marshal serializes e to the wire layout. v4 indicates the request is for
// ICMPv4 (Type 8) vs ICMPv6 (Type 128); the checksum is only computed for
// v4 — for v6 the kernel computes it (spec.md §4.C).
func (e Echo) Marshal(v4 bool) []byte {
	buf := make([]byte, PacketSize)

	buf[0] = e.Type
	buf[1] = e.Code
	// buf[2:4] (checksum) left zero for the checksum pass below.
	binary.BigEndian.PutUint16(buf[4:6], e.Identifier)
	binary.BigEndian.PutUint16(buf[6:8], e.Sequence)
	binary.BigEndian.PutUint16(buf[8:10], e.PayloadIdentifier)
	binary.BigEndian.PutUint32(buf[10:14], math.Float32bits(e.Timestamp))

	if v4 {
		binary.BigEndian.PutUint16(buf[2:4], Checksum(buf))
	}

	return buf
}

// ParseEcho unpacks data (expected to be exactly PacketSize bytes, the
// caller having already trimmed any leading IP header per spec.md §4.D)
// into an Echo.
func ParseEcho(data []byte) (Echo, error) {
	if len(data) < PacketSize {
		return Echo{}, ErrShortPacket
	}

	return Echo{
		Type:              data[0],
		Code:              data[1],
		Checksum:          binary.BigEndian.Uint16(data[2:4]),
		Identifier:        binary.BigEndian.Uint16(data[4:6]),
		Sequence:          binary.BigEndian.Uint16(data[6:8]),
		PayloadIdentifier: binary.BigEndian.Uint16(data[8:10]),
		Timestamp:         math.Float32frombits(binary.BigEndian.Uint32(data[10:14])),
	}, nil
}

// Checksum computes the Internet Checksum (RFC 1071) over data with the
// checksum field assumed to already be zeroed. Ported from the teacher's
// probe.Checksum; used only for ICMPv4 (spec.md §4.C).
func Checksum(data []byte) uint16 {
	var sum uint32

	for i := 0; i < len(data)-1; i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}
	if len(data)%2 == 1 {
		sum += uint32(data[len(data)-1]) << 8
	}

	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}

	return ^uint16(sum)
}
