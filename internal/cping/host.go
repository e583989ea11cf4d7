// Package cping implements the probing engine's host-facing core: the
// bounded result store with streaming statistics, manual-reset signal
// primitives, and the Host/Protocol lifecycle that ties them to a probe
// goroutine. See spec.md §3-§5 and §9.
package cping

import (
	"context"
	"sync"
	"time"
)

// Host is a single ping destination: its address, the protocol probing it,
// its result history, and the signals that drive its lifecycle. Mutated by
// its own probe goroutine (AddResult, SetStatus) and by the controller
// (Start/Stop/BurstMode) — spec.md §3.
type Host struct {
	address  string
	protocol Protocol
	store    *Store

	statusMu sync.RWMutex
	status   string

	burstMode   *Event
	stopSignal  *Event
	readySignal *Event

	runMu   sync.Mutex
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

// NewHost constructs a Host for address, pinged by protocol. address must
// be non-empty.
func NewHost(address string, protocol Protocol) (*Host, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}

	burst := NewEvent()
	stop := NewEvent()

	return &Host{
		address:     address,
		protocol:    protocol,
		store:       NewStore(),
		burstMode:   burst,
		stopSignal:  stop,
		readySignal: NewAnyEvent(burst, stop),
	}, nil
}

// Address returns the ping destination, immutable after construction.
func (h *Host) Address() string { return h.address }

// String implements fmt.Stringer, returning the address (renderer contract,
// spec.md §6).
func (h *Host) String() string { return h.address }

// Protocol returns the protocol instance pinging this host.
func (h *Host) Protocol() Protocol { return h.protocol }

// Status returns the terminal-condition message, or "" if none occurred.
func (h *Host) Status() string {
	h.statusMu.RLock()
	defer h.statusMu.RUnlock()
	return h.status
}

// SetStatus records a terminal condition (e.g. resolution failure) and is
// called by the probe loop just before it exits.
func (h *Host) SetStatus(msg string) {
	h.statusMu.Lock()
	h.status = msg
	h.statusMu.Unlock()
}

func (h *Host) clearStatus() {
	h.statusMu.Lock()
	h.status = ""
	h.statusMu.Unlock()
}

// BurstMode returns the event the controller sets/clears to remove the
// inter-probe wait for this host.
func (h *Host) BurstMode() *Event { return h.burstMode }

// StopSignal returns the event that, once set, causes the probe loop to
// exit within one interval.
func (h *Host) StopSignal() *Event { return h.stopSignal }

// ReadySignal is the composite of BurstMode ∪ StopSignal (spec.md §3).
func (h *Host) ReadySignal() *Event { return h.readySignal }

// AddResult appends a probe outcome and returns a handle that can later
// unhide it (see internal/icmp's hidden-result trick, spec.md §9).
func (h *Host) AddResult(r Result) *ResultHandle {
	return h.store.Append(r)
}

// UpdateResultByInfo locates the live result carrying info and mutates it in
// place; used by the ICMP receiver for late-reply correction (spec.md §4.D).
func (h *Host) UpdateResultByInfo(info any, mutate func(r *Result)) bool {
	return h.store.UpdateByInfo(info, mutate)
}

// Results returns a snapshot of the visible results, oldest first.
func (h *Host) Results() []Result { return h.store.Results() }

// ResultsSummary returns the current streaming summary statistics.
func (h *Host) ResultsSummary() Summary { return h.store.Summary() }

// SetResultsLength resizes the result store (renderer contract, spec.md §6).
func (h *Host) SetResultsLength(n int) { h.store.SetCapacity(n) }

// IsRunning reports whether the probe goroutine is currently alive.
func (h *Host) IsRunning() bool {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.running
}

// Start clears status and stop signal, then launches the probe goroutine
// after delay. A second Start call while already running is a no-op
// (spec.md §4.G).
func (h *Host) Start(delay time.Duration) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if h.running {
		return
	}

	h.clearStatus()
	h.stopSignal.Clear()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.running = true
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		defer func() {
			h.runMu.Lock()
			h.running = false
			h.runMu.Unlock()
		}()

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}

		h.protocol.PingLoop(ctx, h)
	}()
}

// Stop signals the probe loop to exit. If block is true, it waits for the
// loop to actually exit before returning.
func (h *Host) Stop(block bool) {
	h.stopSignal.Set()

	h.runMu.Lock()
	cancel := h.cancel
	done := h.done
	h.runMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if block && done != nil {
		<-done
	}
}

// Wait blocks until the host is ready for its next probe: returns
// immediately if latency is a timeout (TimeoutLatency) or burst mode is
// set; otherwise it sleeps on ReadySignal for up to interval-latency
// seconds (interval read fresh from the protocol), so a stop or
// burst-mode request wakes it early (spec.md §4.G).
func (h *Host) Wait(latency float64) {
	if latency == TimeoutLatency || h.burstMode.IsSet() {
		return
	}

	remaining := h.protocol.Interval() - latency
	if remaining <= 0 {
		return
	}

	h.readySignal.Wait(time.Duration(remaining * float64(time.Second)))
}

// StaggerStart starts hosts spread uniformly across interval, so host i is
// delayed by i*interval/len(hosts), per spec.md §4.G.
func StaggerStart(hosts []*Host, interval time.Duration) {
	if len(hosts) == 0 {
		return
	}

	step := interval / time.Duration(len(hosts))
	for i, h := range hosts {
		h.Start(step * time.Duration(i))
	}
}
