// receiver.go
//
// UDP ingest loop: datagram in, decoded Message into the SPSC ring.
// The loop owns the producer side of the ring; whoever drains it (a
// PinnedConsumer, usually) owns the other.  A full ring drops the
// datagram — the feed is lossy by contract, and blocking the socket
// thread behind a slow consumer would only move the loss into the
// kernel's receive buffer where it is invisible.
//
// The socket thread is locked and optionally pinned; per-datagram
// accounting goes through relaxed counters and prometheus, both cheap
// enough to sit on this path.

package feed

import (
	"fmt"
	"net"
	"runtime"
	"sync/atomic"

	"main/affinity"
	"main/counter"
	"main/debug"
	"main/spsc"

	"go.uber.org/zap"
)

// ReceiverConfig configures a Receiver.  Core < 0 disables pinning even
// when Pin is set.  A nil Logger defaults to zap.NewNop.
type ReceiverConfig struct {
	Addr   string // listen address, e.g. "0.0.0.0:9001"; ":0" for tests
	Core   int
	Pin    affinity.Pinner
	Logger *zap.Logger
}

// Receiver pumps datagrams from a UDP socket into a ring.
type Receiver struct {
	ring *spsc.Ring[Message]
	conn *net.UDPConn
	cfg  ReceiverConfig
	log  *zap.Logger

	received  *counter.Counter
	dropped   *counter.Counter
	malformed *counter.Counter

	stop uint32
	done chan struct{}
}

// NewReceiver binds the socket and prepares the loop; Run starts it.
func NewReceiver(ring *spsc.Ring[Message], cfg ReceiverConfig) (*Receiver, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("feed: resolve %q: %w", cfg.Addr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("feed: listen %q: %w", cfg.Addr, err)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Receiver{
		ring:      ring,
		conn:      conn,
		cfg:       cfg,
		log:       log,
		received:  counter.New(),
		dropped:   counter.New(),
		malformed: counter.New(),
		done:      make(chan struct{}),
	}, nil
}

// Addr returns the bound socket address (useful with ":0").
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Run executes the receive loop on the calling goroutine until Stop.
// It locks the OS thread for the duration and pins it when configured.
func (r *Receiver) Run() {
	defer close(r.done)

	if r.cfg.Core >= 0 && r.cfg.Pin != nil {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		r.cfg.Pin(r.cfg.Core)
	}

	r.log.Info("feed receiver listening", zap.String("addr", r.conn.LocalAddr().String()))

	buf := make([]byte, 2048)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if atomic.LoadUint32(&r.stop) != 0 {
				return // socket closed by Stop
			}
			debug.DropError("feed: udp receive", err)
			continue
		}
		if n != EncodedSize {
			r.malformed.Increment()
			malformedTotal.Inc()
			continue
		}

		msg, err := DecodeMessage(buf[:n])
		if err != nil {
			r.malformed.Increment()
			malformedTotal.Inc()
			continue
		}

		if r.ring.Send(msg) != nil {
			// ring full: consumer is behind, shed the datagram
			r.dropped.Increment()
			droppedTotal.Inc()
			continue
		}
		r.received.Increment()
		receivedTotal.Inc()
	}
}

// Stop closes the socket, terminating Run, and waits for the loop to
// exit.  Safe to call once.
func (r *Receiver) Stop() {
	atomic.StoreUint32(&r.stop, 1)
	if err := r.conn.Close(); err != nil {
		debug.DropError("feed: close socket", err)
	}
	<-r.done

	debug.DropCount("feed: datagrams dropped", r.dropped.Get())
	r.log.Info("feed receiver stopped",
		zap.Uint64("received", r.received.Get()),
		zap.Uint64("dropped", r.dropped.Get()),
		zap.Uint64("malformed", r.malformed.Get()),
	)
}

// Received returns the running total of queued messages.
func (r *Receiver) Received() uint64 { return r.received.Get() }

// Dropped returns the running total of datagrams shed on a full ring.
func (r *Receiver) Dropped() uint64 { return r.dropped.Get() }

// Malformed returns the running total of rejected datagrams.
func (r *Receiver) Malformed() uint64 { return r.malformed.Get() }
