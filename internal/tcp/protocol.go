package tcp

import (
	"context"
	"time"

	"github.com/hSaria/cping/internal/cping"
)

// Protocol is the TCP handshake implementation of cping.Protocol (spec.md
// §4.F). Both its port and interval are mutable at runtime, observed by
// every Host's probe loop on its next iteration.
type Protocol struct {
	port     *atomicPort
	interval *cping.AtomicInterval
}

// NewProtocol returns a Protocol connecting to port every intervalSeconds.
func NewProtocol(port int, intervalSeconds float64) (*Protocol, error) {
	if port < 1 || port > 65535 {
		return nil, ErrInvalidPort
	}
	if intervalSeconds < 0.1 {
		return nil, ErrInvalidInterval
	}

	return &Protocol{
		port:     newAtomicPort(port),
		interval: cping.NewAtomicInterval(intervalSeconds),
	}, nil
}

// Port returns the current destination port.
func (p *Protocol) Port() int { return p.port.Get() }

// SetPort changes the destination port, taking effect from the next probe.
func (p *Protocol) SetPort(port int) { p.port.Set(port) }

// Interval implements cping.Protocol.
func (p *Protocol) Interval() float64 { return p.interval.Get() }

// SetInterval changes the probe interval, taking effect from the next wait.
func (p *Protocol) SetInterval(seconds float64) { p.interval.Set(seconds) }

// PingLoop implements cping.Protocol.
func (p *Protocol) PingLoop(ctx context.Context, host *cping.Host) {
	probe(ctx, host, p.port.Get, func() time.Duration {
		return time.Duration(p.Interval() * float64(time.Second))
	})
}
