package tcp

import "sync/atomic"

// atomicPort is a lock-free, mutable-at-any-time TCP port (spec.md §3:
// "port... mutable at any time and observed on the next probe").
type atomicPort struct {
	v atomic.Int32
}

func newAtomicPort(port int) *atomicPort {
	p := &atomicPort{}
	p.Set(port)
	return p
}

func (p *atomicPort) Get() int { return int(p.v.Load()) }

func (p *atomicPort) Set(port int) { p.v.Store(int32(port)) }
