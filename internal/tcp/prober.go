package tcp

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/hSaria/cping/internal/cping"
)

// ignorableBackoff bounds the pause after an ignorable transient OS error
// (spec.md §4.F.3, §7). Errors in that bucket return from Dial almost
// instantly rather than waiting out the dial timeout the way a genuine
// timeout does, so without this the loop would otherwise spin at full CPU.
const ignorableBackoff = 250 * time.Millisecond

// ignorableErrnos is the configurable "ignored set" of spec.md §4.F.3: OS
// errors that mean the host is transiently unreachable rather than a
// programming or configuration fault, and so are swallowed (loss-equivalent,
// §7) rather than propagated as fatal.
var ignorableErrnos = map[syscall.Errno]bool{
	syscall.ENETUNREACH:   true,
	syscall.EHOSTUNREACH:  true,
	syscall.EHOSTDOWN:     true,
	syscall.ENETDOWN:      true,
	syscall.EADDRNOTAVAIL: true,
}

// probe runs one host's TCP ping loop, grounded directly on the reference
// implementation's ping_loop (resolve once, then repeatedly attempt a
// handshake and classify the outcome): spec.md §4.F.
//
//   - successful connect: latency=elapsed, error=false
//   - connection refused or reset: latency=elapsed, error=true
//   - timeout, or a "host down"-class error: latency=-1, error=false
//   - an ignorable OS error (ignorableErrnos): latency=-1, error=false,
//     followed by a bounded backoff sleep instead of the normal wait
//   - any other OS error: fatal, host.Status is set and the loop exits
func probe(ctx context.Context, host *cping.Host, port func() int, interval func() time.Duration) {
	ip, err := net.DefaultResolver.LookupIP(ctx, "ip", host.Address())
	if err != nil || len(ip) == 0 {
		host.SetStatus("Host resolution failed")
		return
	}
	addr := ip[0]

	for !host.StopSignal().IsSet() {
		timeout := interval()
		dialer := net.Dialer{Timeout: timeout}
		target := net.JoinHostPort(addr.String(), strconv.Itoa(port()))

		start := time.Now()
		conn, dialErr := dialer.DialContext(ctx, "tcp", target)
		elapsed := time.Since(start).Seconds()

		if ctx.Err() != nil {
			return
		}

		result := cping.Result{Latency: cping.TimeoutLatency}
		switch {
		case dialErr == nil:
			conn.Close()
			result = cping.Result{Latency: elapsed}
		case isConnectionError(dialErr):
			result = cping.Result{Latency: elapsed, Error: true}
		case isTimeoutClass(dialErr):
			// latency stays TimeoutLatency, error stays false.
		case isIgnorable(dialErr):
			host.AddResult(result)
			host.StopSignal().Wait(ignorableBackoff)
			continue
		default:
			host.SetStatus(dialErr.Error())
			return
		}

		host.AddResult(result)
		host.Wait(result.Latency)
	}
}

// isConnectionError reports whether err represents a reply that arrived but
// signaled failure (TCP RST on refusal or reset), as opposed to a timeout or
// an unreachable host.
func isConnectionError(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// isTimeoutClass reports whether err is our own dial timeout or an OS
// "host down"-class error that already took about as long as the interval
// to surface, per spec.md §4.F.3.
func isTimeoutClass(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT)
}

// isIgnorable reports whether err is one of ignorableErrnos: a transient OS
// error that returns from Dial almost instantly and so needs ignorableBackoff
// to avoid a busy loop, rather than propagating as fatal (spec.md §4.F.3).
func isIgnorable(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && ignorableErrnos[errno]
}
