package feed

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/spsc"
)

// startReceiver binds a loopback receiver on an ephemeral port and runs its
// loop on a background goroutine.  Cleanup stops it.
func startReceiver(t *testing.T, ring *spsc.Ring[Message]) *Receiver {
	t.Helper()
	r, err := NewReceiver(ring, ReceiverConfig{Addr: "127.0.0.1:0", Core: -1})
	require.NoError(t, err)
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

func TestReceiverQueuesDatagrams(t *testing.T) {
	ring := spsc.New[Message](64)
	r := startReceiver(t, ring)

	require.NoError(t, RunSender(SenderConfig{
		Target: r.Addr().String(),
		Count:  10,
	}))

	var got []Message
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 10 && time.Now().Before(deadline) {
		if m, ok := ring.Receive(); ok {
			got = append(got, m)
		} else {
			time.Sleep(time.Millisecond)
		}
	}

	require.Len(t, got, 10, "expected all datagrams queued")
	for _, m := range got {
		assert.Equal(t, "AAPL", m.SymbolString())
		assert.InDelta(t, 150.25, m.PriceFloat(), 1e-9)
	}
	assert.Equal(t, uint64(10), r.Received())
	assert.Zero(t, r.Malformed())
}

func TestReceiverRejectsWrongLength(t *testing.T) {
	ring := spsc.New[Message](8)
	r := startReceiver(t, ring)

	conn, err := net.Dial("udp", r.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("short"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return r.Malformed() == 1 },
		5*time.Second, time.Millisecond)
	assert.True(t, ring.IsEmpty())
	assert.Zero(t, r.Received())
}

func TestReceiverShedsOnFullRing(t *testing.T) {
	ring := spsc.New[Message](2) // usable capacity 1
	r := startReceiver(t, ring)

	require.NoError(t, RunSender(SenderConfig{
		Target: r.Addr().String(),
		Count:  5,
	}))

	// 1 queued, the rest shed; nothing lost silently
	assert.Eventually(t, func() bool {
		return r.Received()+r.Dropped() == 5
	}, 5*time.Second, time.Millisecond)
	assert.Equal(t, uint64(1), r.Received())
	assert.Equal(t, uint64(4), r.Dropped())
}

// TestReceiverWithPinnedConsumer wires the full ingest path: UDP in, ring,
// pinned consumer out.  Pinning is injected as a recorder so the test works
// on any platform.
func TestReceiverWithPinnedConsumer(t *testing.T) {
	ring := spsc.New[Message](256)
	r := startReceiver(t, ring)

	stop := new(uint32)
	hot := new(uint32)
	done := make(chan struct{})
	handled := make(chan Message, 64)

	spsc.PinnedConsumer(0, ring, func(int) {}, stop, hot,
		func(m Message) { handled <- m }, done)

	const n = 20
	require.NoError(t, RunSender(SenderConfig{Target: r.Addr().String(), Count: n}))

	seen := 0
	timeout := time.After(5 * time.Second)
	for seen < n {
		select {
		case m := <-handled:
			assert.Equal(t, "AAPL", m.SymbolString())
			seen++
		case <-timeout:
			t.Fatalf("consumer handled %d of %d messages", seen, n)
		}
	}

	atomic.StoreUint32(stop, 1)
	<-done
}
