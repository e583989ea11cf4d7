// Package render provides the two terminal output modes spec.md §6 names:
// a line-oriented legacy renderer and a full-screen modern one. Both are
// read-only consumers of Host — they never reach into probing internals
// beyond this contract.
package render

import (
	"time"

	"github.com/hSaria/cping/internal/cping"
)

// Host is everything a renderer is allowed to see or do to a probed host.
// *cping.Host satisfies this directly.
type Host interface {
	Address() string
	String() string
	Status() string
	Results() []cping.Result
	ResultsSummary() cping.Summary
	IsRunning() bool
	SetResultsLength(n int)
	Start(delay time.Duration)
	Stop(block bool)
	BurstMode() *cping.Event
}
