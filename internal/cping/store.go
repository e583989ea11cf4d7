package cping

import (
	"math"
	"sync"
)

// MinimumCapacity is the lower bound on a Store's capacity (spec.md §3, §4.A:
// "default capacity 50, growable").
const MinimumCapacity = 50

// entry wraps a Result with a generation counter so a previously issued
// ResultHandle can detect that its slot has since been overwritten by the
// ring buffer wrapping around, and silently become a no-op instead of
// mutating an unrelated, newer result.
type entry struct {
	result Result
	gen    uint64
}

// Store is a bounded FIFO ring of Results with a memoized summary. It is
// safe for one appender (the prober owning the host) plus many concurrent
// readers and one in-place mutator (the ICMP receiver, correlating by
// Result.Info) — see spec.md §4.A and §5.
type Store struct {
	mu      sync.Mutex
	buf     []entry
	head    int // index of the oldest live entry
	count   int // number of live entries
	dirty   bool
	summary Summary
}

// NewStore returns an empty Store at MinimumCapacity.
func NewStore() *Store {
	return &Store{buf: make([]entry, MinimumCapacity)}
}

// ResultHandle references the slot a particular Append landed in, so the
// prober can unhide it later without re-searching the buffer.
type ResultHandle struct {
	store *Store
	slot  int
	gen   uint64
}

// Append adds a new result, evicting the oldest when at capacity, and
// returns a handle that can be used to unhide it later. Appending always
// invalidates the memoized summary (spec.md §9's cache-invalidation note).
func (s *Store) Append(r Result) *ResultHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slot int
	if s.count < len(s.buf) {
		slot = (s.head + s.count) % len(s.buf)
		s.count++
	} else {
		slot = s.head
		s.head = (s.head + 1) % len(s.buf)
	}

	gen := s.buf[slot].gen + 1
	s.buf[slot] = entry{result: r, gen: gen}
	s.dirty = true

	return &ResultHandle{store: s, slot: slot, gen: gen}
}

// Unhide clears the Hidden flag on the result this handle points to, unless
// that slot has since been overwritten (ring wraparound), in which case it
// is a no-op.
func (h *ResultHandle) Unhide() {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf[h.slot].gen == h.gen {
		s.buf[h.slot].result.Hidden = false
		s.dirty = true
	}
}

// Peek returns the current value of the result this handle points to. Used
// by a prober that just reserved a slot and wants to read back whatever a
// concurrent receiver has since written into it (e.g. a matched latency).
func (h *ResultHandle) Peek() Result {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf[h.slot].result
}

// UpdateByInfo finds the live result whose Info equals info (via ==) and
// applies mutate to it in place. Used by the ICMP receiver to record a
// reply's latency, or flag a late reply as an error, against the hidden
// placeholder the prober reserved when it sent the request (spec.md §4.D).
// Returns false if no live result carries that Info.
func (s *Store) UpdateByInfo(info any, mutate func(r *Result)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.count; i++ {
		idx := (s.head + i) % len(s.buf)
		if s.buf[idx].result.Info == info {
			mutate(&s.buf[idx].result)
			s.dirty = true
			return true
		}
	}
	return false
}

// Results returns a snapshot of the visible (non-hidden) results, oldest
// first.
func (s *Store) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Result, 0, s.count)
	for i := 0; i < s.count; i++ {
		idx := (s.head + i) % len(s.buf)
		if !s.buf[idx].result.Hidden {
			out = append(out, s.buf[idx].result)
		}
	}
	return out
}

// Capacity returns the store's current maximum length.
func (s *Store) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// SetCapacity resizes the store. Capacities below MinimumCapacity are
// clamped up to it. Existing elements are preserved oldest-first; if the
// new capacity is smaller than the current element count, the oldest
// excess elements are dropped (spec.md §9: "never shrinks below 50...
// shrinking loses history the summary depends on").
func (s *Store) SetCapacity(n int) {
	if n < MinimumCapacity {
		n = MinimumCapacity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n == len(s.buf) {
		return
	}

	existing := make([]entry, 0, s.count)
	for i := 0; i < s.count; i++ {
		existing = append(existing, s.buf[(s.head+i)%len(s.buf)])
	}
	if len(existing) > n {
		existing = existing[len(existing)-n:]
	}

	newBuf := make([]entry, n)
	copy(newBuf, existing)

	s.buf = newBuf
	s.head = 0
	s.count = len(existing)
	s.dirty = true
}

// Summary returns the current summary statistics, recomputing only if a
// result has been appended or mutated since the last call.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return s.summary
	}

	var (
		successes  []float64
		totalShown int
	)
	for i := 0; i < s.count; i++ {
		idx := (s.head + i) % len(s.buf)
		r := s.buf[idx].result
		if r.Hidden {
			continue
		}
		totalShown++
		if r.Succeeded() {
			successes = append(successes, r.Latency)
		}
	}

	summary := Summary{}
	if totalShown > 0 {
		loss := float64(totalShown-len(successes)) / float64(totalShown)
		summary.Loss = &loss
	}
	if len(successes) > 0 {
		min, max, sum := successes[0], successes[0], 0.0
		for _, v := range successes {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		avg := sum / float64(len(successes)) * 1000
		minMs := min * 1000
		maxMs := max * 1000
		summary.Min = &minMs
		summary.Avg = &avg
		summary.Max = &maxMs
	}
	if len(successes) > 1 {
		stdev := sampleStdev(successes) * 1000
		summary.Stdev = &stdev
	}

	s.summary = summary
	s.dirty = false
	return summary
}

func sampleStdev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
