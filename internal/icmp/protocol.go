package icmp

import (
	"context"
	"time"

	"github.com/hSaria/cping/internal/cping"
)

// Family restricts which address family a Protocol resolves a host to.
type Family int

const (
	// FamilyAny accepts whichever address the resolver returns first.
	FamilyAny Family = iota
	FamilyV4
	FamilyV6
)

func (f Family) network() string {
	switch f {
	case FamilyV4:
		return "ip4"
	case FamilyV6:
		return "ip6"
	default:
		return "ip"
	}
}

// Protocol is the ICMP echo implementation of cping.Protocol (spec.md §4.C).
// Its interval is mutable at runtime via SetInterval, observed by every
// Host's probe loop on its next wait (spec.md §3, §4.G).
type Protocol struct {
	interval *cping.AtomicInterval
	family   Family
}

// NewProtocol returns a Protocol sending echoes every intervalSeconds,
// resolving hosts under family.
func NewProtocol(intervalSeconds float64, family Family) (*Protocol, error) {
	if intervalSeconds < 0.1 {
		return nil, cping.ErrInvalidInterval
	}

	// The first Protocol opens the shared sockets and starts the receiver;
	// a setup error is reported per host when its probe loop calls
	// ensureReceiver again.
	_ = ensureReceiver()

	return &Protocol{
		interval: cping.NewAtomicInterval(intervalSeconds),
		family:   family,
	}, nil
}

// Interval implements cping.Protocol.
func (p *Protocol) Interval() float64 { return p.interval.Get() }

// SetInterval changes the probe interval, taking effect from the next wait.
func (p *Protocol) SetInterval(seconds float64) { p.interval.Set(seconds) }

// PingLoop implements cping.Protocol, delegating to the package-level probe
// loop (spec.md §4.E).
func (p *Protocol) PingLoop(ctx context.Context, host *cping.Host) {
	probe(ctx, host, p.family, func() time.Duration {
		return time.Duration(p.Interval() * float64(time.Second))
	})
}
