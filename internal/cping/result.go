package cping

// TimeoutLatency is the sentinel Result.Latency value for a probe that
// received no reply within one interval.
const TimeoutLatency = -1.0

// Result is a single probe outcome.
type Result struct {
	// Latency is the elapsed time in seconds. TimeoutLatency (-1) means no
	// reply was observed within one interval.
	Latency float64

	// Error is true when a reply arrived but signals failure (TCP
	// reset/refused, or a late ICMP reply).
	Error bool

	// Hidden excludes the result from Store.Results while keeping it
	// addressable via correlation token for late-reply correction.
	Hidden bool

	// Info carries a correlation token (e.g. an ICMP sequence number) used
	// by the ICMP receiver to find this result again.
	Info any
}

// Succeeded reports whether this result represents a successful probe.
func (r Result) Succeeded() bool {
	return r.Latency >= 0
}

// Summary holds streaming statistics over a Store's visible results: Min,
// Avg, Max and Stdev in milliseconds, Loss as a fraction in [0, 1]. Fields
// are nil when undefined for the current sample size.
type Summary struct {
	Min   *float64
	Avg   *float64
	Max   *float64
	Stdev *float64
	Loss  *float64
}
