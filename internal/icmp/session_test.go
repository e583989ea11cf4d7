package icmp

import (
	"testing"
	"time"
)

func TestSessionSequenceIncrements(t *testing.T) {
	s := newSession(false, 0xabcd)

	_, seq1 := s.NextEchoRequest(time.Now())
	_, seq2 := s.NextEchoRequest(time.Now())

	if seq2 != seq1+1 {
		t.Errorf("sequence did not increment by 1: %d -> %d", seq1, seq2)
	}
}

func TestSessionUsesRequestedType(t *testing.T) {
	v4 := newSession(false, 1)
	packet, _ := v4.NextEchoRequest(time.Now())
	if packet[0] != typeEchoRequestV4 {
		t.Errorf("v4 session Type = %d, want %d", packet[0], typeEchoRequestV4)
	}

	v6 := newSession(true, 1)
	packet, _ = v6.NextEchoRequest(time.Now())
	if packet[0] != typeEchoRequestV6 {
		t.Errorf("v6 session Type = %d, want %d", packet[0], typeEchoRequestV6)
	}
}

func TestTimestampSecondsIsMonotonic(t *testing.T) {
	t1 := timestampSeconds(time.Now())
	time.Sleep(5 * time.Millisecond)
	t2 := timestampSeconds(time.Now())

	if t2 <= t1 {
		t.Errorf("timestampSeconds did not advance: %v -> %v", t1, t2)
	}
	if t2-t1 > 1 {
		t.Errorf("timestampSeconds jumped by %v for a 5ms sleep", t2-t1)
	}
}
