package cping

import (
	"context"
	"math"
	"sync/atomic"
)

// Protocol drives the probe loop for a Host. Implementations are ICMP
// (internal/icmp) and TCP (internal/tcp); this package only knows the
// interface, matching spec.md §3's "Protocol" carrying a mutable interval
// and spec.md §4.G's lifecycle contract.
type Protocol interface {
	// Interval returns the current seconds between probes.
	Interval() float64

	// PingLoop blocks, sending probes to host and recording results via
	// host.AddResult, until ctx is done or host's stop signal is set.
	// Implementations must re-read Interval() (and, for TCP, the port) on
	// every iteration since both can change while the loop runs.
	PingLoop(ctx context.Context, host *Host)
}

// AtomicInterval is a lock-free, mutable-at-any-time interval in seconds,
// embeddable by protocol implementations in other packages (ICMP's and
// TCP's interval is mutable "at any time and observed on the next wait",
// spec.md §3).
type AtomicInterval struct {
	bits atomic.Uint64
}

// NewAtomicInterval returns an AtomicInterval initialized to seconds.
func NewAtomicInterval(seconds float64) *AtomicInterval {
	a := &AtomicInterval{}
	a.Set(seconds)
	return a
}

// Get returns the current value.
func (a *AtomicInterval) Get() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Set updates the value.
func (a *AtomicInterval) Set(seconds float64) {
	a.bits.Store(math.Float64bits(seconds))
}
