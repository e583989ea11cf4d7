package icmp

import (
	"math/rand"
	"net"
	"sync"
	"time"

	"golang.org/x/net/icmp"

	"github.com/hSaria/cping/internal/cping"
)

// registryEntry is what a registered session looks like to the receiver: the
// host whose store to correct, the event to wake its prober on an in-window
// reply, and the interval that decides whether a reply counts as on-time
// (spec.md §4.D).
type registryEntry struct {
	host     *cping.Host
	reply    *cping.Event
	interval time.Duration
}

// sockets bundles the two OS sockets the receiver demultiplexes from, and
// remembers whether each was opened unprivileged (udp4/udp6) or raw
// (ip4:icmp/ip6:ipv6-icmp), since the two require differently-typed
// destination addresses on WriteTo.
type sockets struct {
	conn4, conn6  *icmp.PacketConn
	unprivileged4 bool
	unprivileged6 bool
}

var (
	receiverOnce sync.Once
	receiverErr  error
	sock         sockets
	registry     sync.Map // uint16 identifier -> *registryEntry
)

// ensureReceiver lazily opens the ICMP sockets and starts the single
// process-wide demultiplexing goroutine the first time it is called, which
// is the first NewProtocol (spec.md §4.D: "exactly one receiver per process,
// created on first use"). Later calls return the first call's error.
// Socket creation prefers the unprivileged datagram ICMP the host OS may
// support, falling back to a raw socket (spec.md §1 Non-goals).
func ensureReceiver() error {
	receiverOnce.Do(func() {
		conn4, udp4, err4 := openSocket("udp4", "ip4:icmp", "0.0.0.0")
		conn6, udp6, err6 := openSocket("udp6", "ip6:ipv6-icmp", "::")

		if conn4 == nil && conn6 == nil {
			if err4 != nil {
				receiverErr = err4
			} else {
				receiverErr = err6
			}
			return
		}

		sock = sockets{conn4: conn4, conn6: conn6, unprivileged4: udp4, unprivileged6: udp6}

		datagrams := make(chan []byte, 64)
		if conn4 != nil {
			go readLoop(conn4, datagrams)
		}
		if conn6 != nil {
			go readLoop(conn6, datagrams)
		}
		go dispatchLoop(datagrams)
	})

	return receiverErr
}

// openSocket tries the unprivileged network first, then the raw one. A
// failure on both is reported via the raw attempt's error, since that's the
// one that would explain a genuine permissions problem.
func openSocket(unprivNetwork, rawNetwork, addr string) (conn *icmp.PacketConn, unprivileged bool, err error) {
	if conn, err = icmp.ListenPacket(unprivNetwork, addr); err == nil {
		return conn, true, nil
	}

	conn, err = icmp.ListenPacket(rawNetwork, addr)
	return conn, false, err
}

func readLoop(conn *icmp.PacketConn, out chan<- []byte) {
	buf := make([]byte, 8192)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		out <- data
	}
}

func dispatchLoop(in <-chan []byte) {
	for data := range in {
		handleDatagram(data)
	}
}

// handleDatagram correlates one inbound datagram against the registry and
// corrects the matching hidden result in place (spec.md §4.D). The trailing
// PacketSize bytes are used rather than the whole datagram, since a raw
// ip4:icmp socket prepends the IPv4 header that udp4/ip6 sockets do not.
func handleDatagram(data []byte) {
	if len(data) < PacketSize {
		return
	}

	echo, err := ParseEcho(data[len(data)-PacketSize:])
	if err != nil {
		return
	}

	v, ok := registry.Load(echo.PayloadIdentifier)
	if !ok {
		return
	}
	entry := v.(*registryEntry)

	latency := timestampSeconds(time.Now()) - float64(echo.Timestamp)
	late := latency > entry.interval.Seconds()

	found := entry.host.UpdateResultByInfo(echo.Sequence, func(r *cping.Result) {
		r.Latency = latency
		if late {
			r.Error = true
		}
	})

	if found && !late {
		entry.reply.Set()
	}
}

// register assigns a process-wide-unique identifier to a new session and
// records where its replies should be routed. unregister releases it once
// the prober loop for that host exits.
func register(host *cping.Host, reply *cping.Event, interval time.Duration) uint16 {
	for {
		id := uint16(rand.Intn(1 << 16))

		entry := &registryEntry{host: host, reply: reply, interval: interval}
		if _, loaded := registry.LoadOrStore(id, entry); !loaded {
			return id
		}
	}
}

func unregister(id uint16) {
	registry.Delete(id)
}

// addrFor builds the destination address appropriate to the socket a reply
// will be read from: a raw ip4:icmp/ip6:ipv6-icmp socket wants a net.IPAddr,
// an unprivileged udp4/udp6 socket wants a net.UDPAddr.
func addrFor(ip net.IP, v6 bool) net.Addr {
	unprivileged := sock.unprivileged4
	if v6 {
		unprivileged = sock.unprivileged6
	}

	if unprivileged {
		return &net.UDPAddr{IP: ip}
	}
	return &net.IPAddr{IP: ip}
}
