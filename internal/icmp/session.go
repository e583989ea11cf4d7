package icmp

import (
	"math/rand"
	"time"
)

const (
	typeEchoRequestV4 = 8
	typeEchoRequestV6 = 128
)

// Session is per-host ICMP state: its address family, the identifier
// registered with the process-wide receiver, and a monotonically
// increasing sequence counter (spec.md §4.C).
type Session struct {
	v6         bool
	Identifier uint16
	sequence   uint16
}

// newSession picks a random sequence start; the identifier is assigned by
// the caller (register), which needs registry-wide uniqueness.
func newSession(v6 bool, identifier uint16) *Session {
	return &Session{
		v6:         v6,
		Identifier: identifier,
		sequence:   uint16(rand.Intn(1 << 16)),
	}
}

// NextEchoRequest advances the sequence counter and marshals a new echo
// request stamped with the current time, returning the wire bytes and the
// sequence used (the correlation token for Result.Info).
func (s *Session) NextEchoRequest(now time.Time) ([]byte, uint16) {
	s.sequence++

	typ := byte(typeEchoRequestV4)
	if s.v6 {
		typ = typeEchoRequestV6
	}

	echo := Echo{
		Type:              typ,
		Code:              0,
		Identifier:        s.Identifier,
		Sequence:          s.sequence,
		PayloadIdentifier: s.Identifier,
		Timestamp:         float32(timestampSeconds(now)),
	}

	return echo.Marshal(!s.v6), s.sequence
}

// epoch anchors the wire timestamp to process start rather than wall-clock
// time: time.Time.Sub uses the runtime's monotonic reading when both values
// carry one (as epoch and every time.Now() call do), so timestampSeconds is
// immune to wall-clock adjustments — the "monotonic clock" spec.md §4.C and
// §9 require — while staying small enough that the float32 wire field
// (spec.md §4.C) keeps sub-millisecond precision for realistic process
// uptimes.
var epoch = time.Now()

func timestampSeconds(t time.Time) float64 {
	return t.Sub(epoch).Seconds()
}
