package cping

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// countingProtocol records how many times PingLoop ran and exits as soon as
// ctx is cancelled (Host.Stop cancels it) or one second has passed,
// whichever is first.
type countingProtocol struct {
	interval float64
	calls    atomic.Int32
}

func (p *countingProtocol) Interval() float64 { return p.interval }

func (p *countingProtocol) PingLoop(ctx context.Context, host *Host) {
	p.calls.Add(1)
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
}

func TestNewHostRejectsEmptyAddress(t *testing.T) {
	if _, err := NewHost("", &countingProtocol{interval: 1}); err != ErrInvalidAddress {
		t.Errorf("NewHost(\"\") error = %v, want ErrInvalidAddress", err)
	}
}

func TestHostStartIsIdempotent(t *testing.T) {
	p := &countingProtocol{interval: 1}
	h, err := NewHost("example.invalid", p)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	h.Start(0)
	h.Start(0) // second call while running must be a no-op
	time.Sleep(20 * time.Millisecond)

	if calls := p.calls.Load(); calls != 1 {
		t.Errorf("PingLoop started %d times, want 1", calls)
	}

	h.Stop(true)
	if h.IsRunning() {
		t.Errorf("IsRunning() = true after Stop(true)")
	}
}

func TestHostWaitReturnsImmediatelyOnTimeout(t *testing.T) {
	p := &countingProtocol{interval: 10}
	h, err := NewHost("example.invalid", p)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	start := time.Now()
	h.Wait(TimeoutLatency)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Wait(TimeoutLatency) took %v, want ~immediate", elapsed)
	}
}

func TestHostWaitReturnsImmediatelyInBurstMode(t *testing.T) {
	p := &countingProtocol{interval: 10}
	h, err := NewHost("example.invalid", p)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	h.BurstMode().Set()

	start := time.Now()
	h.Wait(0)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Wait() in burst mode took %v, want ~immediate", elapsed)
	}
}

func TestHostStopWakesWait(t *testing.T) {
	p := &countingProtocol{interval: 10}
	h, err := NewHost("example.invalid", p)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}

	done := make(chan struct{})
	go func() {
		h.Wait(0) // would otherwise block ~10s
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	h.StopSignal().Set()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Wait() did not wake up on StopSignal().Set()")
	}
}

func TestStaggerStartSpreadsDelays(t *testing.T) {
	p := &countingProtocol{interval: 1}
	h1, _ := NewHost("a.invalid", p)
	h2, _ := NewHost("b.invalid", p)

	StaggerStart([]*Host{h1, h2}, 100*time.Millisecond)

	if !h1.IsRunning() {
		t.Errorf("first host not started immediately")
	}
	// h2's goroutine is alive (IsRunning) during its 50ms delay, but its
	// PingLoop must not have begun yet: only h1's call is counted.
	time.Sleep(20 * time.Millisecond)
	if calls := p.calls.Load(); calls != 1 {
		t.Errorf("second host started before its delay elapsed (PingLoop calls = %d, want 1)", calls)
	}

	h1.Stop(true)
	time.Sleep(60 * time.Millisecond)
	h2.Stop(true)
}
