package cping

import (
	"sync"
	"time"
)

// Event is a manual-reset event, analogous to threading.Event in the source
// this package is ported from: Set makes it signaled until Clear is called,
// and Wait blocks until signaled or the timeout elapses.
//
// Unlike Python's threading.Event, Go has no way to rebind an object's
// methods at runtime, so composition (NewAnyEvent below) is done with an
// explicit subscriber list instead of monkey-patching Set/Clear.
type Event struct {
	mu          sync.Mutex
	set         bool
	ch          chan struct{} // closed while set; replaced on Clear
	subscribers []func(bool)
}

// NewEvent returns a cleared Event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{})}
}

// Set marks the event as signaled, waking any current and future Wait calls
// until Clear is called.
func (e *Event) Set() {
	e.mu.Lock()
	if !e.set {
		e.set = true
		close(e.ch)
	}
	subs := e.subscribers
	e.mu.Unlock()

	for _, f := range subs {
		f(true)
	}
}

// Clear resets the event to the unsignaled state.
func (e *Event) Clear() {
	e.mu.Lock()
	if e.set {
		e.set = false
		e.ch = make(chan struct{})
	}
	subs := e.subscribers
	e.mu.Unlock()

	for _, f := range subs {
		f(false)
	}
}

// IsSet reports whether the event is currently signaled.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Wait blocks until the event is signaled or timeout elapses, returning true
// iff it observed the event signaled within that time. A non-positive
// timeout still allows a signaled event to return true immediately.
func (e *Event) Wait(timeout time.Duration) bool {
	e.mu.Lock()
	ch := e.ch
	signaled := e.set
	e.mu.Unlock()

	if signaled {
		return true
	}
	if timeout <= 0 {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

// subscribe registers f to be called with true on every Set call and with
// false on every Clear call, whether or not the state changed. Used
// internally to drive NewAnyEvent.
func (e *Event) subscribe(f func(bool)) {
	e.mu.Lock()
	e.subscribers = append(e.subscribers, f)
	e.mu.Unlock()
}

// NewAnyEvent returns an Event kept in sync with a fixed set of member
// events: signaled iff at least one member is signaled, cleared once every
// member is cleared. The subscription is wired once, up front. The returned
// Event is an ordinary *Event: a direct Set or Clear on it is not prevented
// and lasts until the next member Set or Clear recomputes it.
func NewAnyEvent(members ...*Event) *Event {
	shared := NewEvent()

	recompute := func(bool) {
		for _, m := range members {
			if m.IsSet() {
				shared.Set()
				return
			}
		}
		shared.Clear()
	}

	for _, m := range members {
		m.subscribe(recompute)
	}

	// Reflect the members' initial state.
	recompute(false)

	return shared
}
