package spsc

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestCapacityRounding verifies that the requested size is rounded up to the
// next power of two and that the minimum capacity is 1.
func TestCapacityRounding(t *testing.T) {
	cases := []struct {
		request, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{1000, 1024},
		{1024, 1024},
	}
	for _, c := range cases {
		r := New[int](c.request)
		if got := r.Capacity(); got != c.want {
			t.Errorf("New(%d): capacity %d, want %d", c.request, got, c.want)
		}
	}
}

// TestReceiveOnFreshRing confirms that Receive on a newly constructed ring
// reports absence without any state change.
func TestReceiveOnFreshRing(t *testing.T) {
	r := New[int](8)
	if v, ok := r.Receive(); ok {
		t.Fatalf("fresh ring delivered %d", v)
	}
	if !r.IsEmpty() {
		t.Fatal("fresh ring should be empty")
	}
}

// TestSendReceiveRoundTrip performs a minimal sanity round-trip.
func TestSendReceiveRoundTrip(t *testing.T) {
	r := New[int](8)
	if err := r.Send(42); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	v, ok := r.Receive()
	if !ok || v != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", v, ok)
	}
	if _, ok := r.Receive(); ok {
		t.Fatal("ring should now be empty")
	}
}

// TestFullBoundary fills the ring to its usable capacity (C-1) and checks
// that the next Send fails with ErrFull while the queued items survive
// unchanged.
func TestFullBoundary(t *testing.T) {
	r := New[int](4)
	for i := 0; i < r.Capacity()-1; i++ {
		if err := r.Send(i); err != nil {
			t.Fatalf("send %d unexpectedly failed: %v", i, err)
		}
	}
	if err := r.Send(99); err != ErrFull {
		t.Fatalf("send into full ring: err = %v, want ErrFull", err)
	}
	for i := 0; i < r.Capacity()-1; i++ {
		v, ok := r.Receive()
		if !ok || v != i {
			t.Fatalf("drain %d: got (%d, %v)", i, v, ok)
		}
	}
}

// TestFIFOOrder sends a batch before receiving anything and checks exact
// delivery order.
func TestFIFOOrder(t *testing.T) {
	r := New[int](16)
	for i := 0; i < 15; i++ {
		if err := r.Send(i); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	for i := 0; i < 15; i++ {
		v, ok := r.Receive()
		if !ok || v != i {
			t.Fatalf("receive %d: got (%d, %v)", i, v, ok)
		}
	}
}

// TestWrapAround exercises many more operations than the capacity to ensure
// the masked cursor arithmetic survives wrapping.
func TestWrapAround(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 100; i++ {
		if err := r.Send(i); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
		v, ok := r.Receive()
		if !ok || v != i {
			t.Fatalf("iteration %d: got (%d, %v)", i, v, ok)
		}
	}
}

// TestLenSnapshot checks the diagnostic occupancy count in the single-thread
// case, where the snapshot is exact.
func TestLenSnapshot(t *testing.T) {
	r := New[int](8)
	if r.Len() != 0 {
		t.Fatalf("empty ring Len = %d", r.Len())
	}
	for i := 0; i < 5; i++ {
		_ = r.Send(i)
	}
	if r.Len() != 5 {
		t.Fatalf("Len = %d, want 5", r.Len())
	}
	r.Receive()
	r.Receive()
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
}

// TestSlotCleared verifies that Receive zeroes the vacated slot so the ring
// does not pin references to consumed values.
func TestSlotCleared(t *testing.T) {
	r := New[*int](2)
	x := 7
	if err := r.Send(&x); err != nil {
		t.Fatal(err)
	}
	if v, ok := r.Receive(); !ok || *v != 7 {
		t.Fatal("round-trip failed")
	}
	if r.slots[0] != nil {
		t.Fatal("slot not cleared after Receive")
	}
}

// TestConcurrentRoundTrip runs one producer pushing N sequential integers
// against one consumer busy-retrying on empty, and asserts the exact ordered
// sequence arrives with nothing lost, duplicated, or reordered.
func TestConcurrentRoundTrip(t *testing.T) {
	const n = 200000
	for _, size := range []int{2, 4, 64, 1024} {
		r := New[int](size)

		go func() {
			for i := 0; i < n; i++ {
				for r.Send(i) == ErrFull {
					// full: spin until the consumer frees a slot
				}
			}
		}()

		for i := 0; i < n; i++ {
			v, ok := r.Receive()
			for !ok {
				v, ok = r.Receive()
			}
			if v != i {
				t.Fatalf("size %d: position %d delivered %d", size, i, v)
			}
		}
	}
}

// TestReceiveSpinStop checks that ReceiveSpin honours the stop flag instead
// of spinning forever on an empty ring.
func TestReceiveSpinStop(t *testing.T) {
	r := New[int](4)
	var stop uint32

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := r.ReceiveSpin(&stop); ok {
			t.Error("ReceiveSpin delivered from an empty ring")
		}
	}()

	atomic.StoreUint32(&stop, 1)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReceiveSpin did not observe stop")
	}
}

// TestReceiveSpinDelivers checks the success path of ReceiveSpin with a
// slightly delayed producer.
func TestReceiveSpinDelivers(t *testing.T) {
	r := New[int](2)
	var stop uint32

	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = r.Send(17)
	}()

	if v, ok := r.ReceiveSpin(&stop); !ok || v != 17 {
		t.Fatalf("got (%d, %v), want (17, true)", v, ok)
	}
}
