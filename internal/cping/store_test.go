package cping

import "testing" //nolint:depguard

func TestStoreAppendAndResults(t *testing.T) {
	s := NewStore()

	s.Append(Result{Latency: 0.01})
	s.Append(Result{Latency: 0.02})

	results := s.Results()
	if len(results) != 2 {
		t.Fatalf("len(Results()) = %d, want 2", len(results))
	}
	if results[0].Latency != 0.01 || results[1].Latency != 0.02 {
		t.Errorf("Results() = %+v, want oldest-first 0.01, 0.02", results)
	}
}

func TestStoreHiddenExcludedUntilUnhidden(t *testing.T) {
	s := NewStore()

	handle := s.Append(Result{Latency: TimeoutLatency, Hidden: true, Info: 7})
	if len(s.Results()) != 0 {
		t.Fatalf("hidden result appeared in Results()")
	}

	handle.Unhide()
	results := s.Results()
	if len(results) != 1 || results[0].Info != 7 {
		t.Fatalf("Results() after Unhide = %+v, want one result with Info=7", results)
	}
}

func TestStoreUnhideAfterWraparoundIsNoop(t *testing.T) {
	s := NewStore()
	s.SetCapacity(MinimumCapacity)

	handle := s.Append(Result{Latency: TimeoutLatency, Hidden: true, Info: "first"})

	for i := 0; i < MinimumCapacity; i++ {
		s.Append(Result{Latency: 0, Info: i})
	}

	handle.Unhide() // must be a no-op: the slot has been recycled

	for _, r := range s.Results() {
		if r.Info == "first" {
			t.Fatalf("stale handle resurrected an evicted result")
		}
	}
}

func TestStoreUpdateByInfo(t *testing.T) {
	s := NewStore()
	s.Append(Result{Latency: TimeoutLatency, Hidden: true, Info: uint16(42)})

	found := s.UpdateByInfo(uint16(42), func(r *Result) {
		r.Latency = 0.123
	})
	if !found {
		t.Fatalf("UpdateByInfo did not find the matching result")
	}

	s.Append(Result{}) // a later result with a different Info must not be matched
	var latency float64
	s.UpdateByInfo(uint16(42), func(r *Result) { latency = r.Latency })
	if latency != 0.123 {
		t.Errorf("latency after UpdateByInfo = %v, want 0.123", latency)
	}

	if s.UpdateByInfo(uint16(999), func(r *Result) {}) {
		t.Errorf("UpdateByInfo matched an Info that was never appended")
	}
}

func TestStoreSetCapacityClampsToMinimum(t *testing.T) {
	s := NewStore()
	s.SetCapacity(1)

	if got := s.Capacity(); got != MinimumCapacity {
		t.Errorf("Capacity() = %d, want clamped to %d", got, MinimumCapacity)
	}
}

func TestStoreSetCapacityShrinkKeepsNewest(t *testing.T) {
	s := NewStore()
	s.SetCapacity(MinimumCapacity + 10)

	for i := 0; i < MinimumCapacity+10; i++ {
		s.Append(Result{Latency: 0, Info: i})
	}

	s.SetCapacity(MinimumCapacity)

	results := s.Results()
	if len(results) != MinimumCapacity {
		t.Fatalf("len(Results()) = %d, want %d", len(results), MinimumCapacity)
	}
	if results[0].Info != 10 {
		t.Errorf("oldest surviving Info = %v, want 10 (newest %d elements kept)", results[0].Info, MinimumCapacity)
	}
}

func TestStoreSummary(t *testing.T) {
	s := NewStore()
	s.Append(Result{Latency: 0.010})
	s.Append(Result{Latency: 0.020})
	s.Append(Result{Latency: TimeoutLatency})

	summary := s.Summary()

	if summary.Loss == nil || *summary.Loss != 1.0/3.0 {
		t.Errorf("Loss = %v, want 1/3", summary.Loss)
	}
	if summary.Min == nil || *summary.Min != 10 {
		t.Errorf("Min = %v, want 10ms", summary.Min)
	}
	if summary.Max == nil || *summary.Max != 20 {
		t.Errorf("Max = %v, want 20ms", summary.Max)
	}
	if summary.Avg == nil || *summary.Avg != 15 {
		t.Errorf("Avg = %v, want 15ms", summary.Avg)
	}
	if summary.Stdev == nil {
		t.Errorf("Stdev = nil, want non-nil with 2 successes")
	}
}

func TestStoreSummaryNilFields(t *testing.T) {
	s := NewStore()

	if summary := s.Summary(); summary.Loss != nil {
		t.Errorf("Loss on empty store = %v, want nil", summary.Loss)
	}

	s.Append(Result{Latency: 0.010})
	summary := s.Summary()
	if summary.Stdev != nil {
		t.Errorf("Stdev with a single success = %v, want nil", summary.Stdev)
	}
}

func TestStoreSummaryMemoized(t *testing.T) {
	s := NewStore()
	s.Append(Result{Latency: 0.010})

	first := s.Summary()
	second := s.Summary()
	if *first.Avg != *second.Avg {
		t.Fatalf("Summary changed without a mutation in between")
	}

	s.Append(Result{Latency: 0.030})
	third := s.Summary()
	if *third.Avg == *first.Avg {
		t.Errorf("Summary did not recompute after Append")
	}
}
