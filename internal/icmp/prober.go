package icmp

import (
	"context"
	"net"
	"time"

	"github.com/hSaria/cping/internal/cping"
)

// probe runs one host's ICMP ping loop until ctx is cancelled or the host's
// stop signal is set, per spec.md §4.E: resolve once, register a session
// with the process-wide receiver, then repeatedly send an echo, reserve a
// hidden result for it, wait for the matching reply, and unhide. family
// restricts resolution when the CLI pinned -4/-6; with FamilyAny, whichever
// address the resolver returns first decides the session's family.
func probe(ctx context.Context, host *cping.Host, family Family, interval func() time.Duration) {
	ip, err := resolve(ctx, host.Address(), family)
	if err != nil {
		host.SetStatus("Host resolution failed")
		return
	}
	v6 := ip.To4() == nil

	if err := ensureReceiver(); err != nil {
		host.SetStatus(err.Error())
		return
	}

	reply := cping.NewEvent()
	id := register(host, reply, interval())
	defer unregister(id)

	session := newSession(v6, id)
	addr := addrFor(ip, v6)

	for !host.StopSignal().IsSet() {
		currentInterval := interval()
		reply.Clear()

		packet, seq := session.NextEchoRequest(time.Now())
		handle := host.AddResult(cping.Result{Latency: cping.TimeoutLatency, Hidden: true, Info: seq})

		conn := sock.conn4
		if v6 {
			conn = sock.conn6
		}

		if _, err := conn.WriteTo(packet, addr); err != nil {
			// Matches the reference implementation's ping_loop: the send
			// failure breaks out before unhiding, so this reservation stays
			// hidden forever rather than surfacing as a timeout result.
			host.SetStatus(err.Error())
			return
		}

		latency := cping.TimeoutLatency
		if reply.Wait(currentInterval) {
			latency = handle.Peek().Latency
		}

		handle.Unhide()
		host.Wait(latency)
	}
}

// resolve looks up host's address, restricted to family when it is not
// FamilyAny (spec.md §4.E: "if a family hint is set, only addresses of that
// family are considered").
func resolve(ctx context.Context, address string, family Family) (net.IP, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, family.network(), address)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, &net.AddrError{Err: "no addresses found", Addr: address}
	}
	return ips[0], nil
}
