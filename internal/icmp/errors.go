package icmp

import "errors"

// Socket and packet errors.
var (
	// ErrShortPacket indicates a datagram shorter than a valid echo
	// request/reply, discarded by the receiver per spec.md §4.D.
	ErrShortPacket = errors.New("icmp: packet shorter than echo layout")
)
