// ring.go
//
// Lock-free single-producer/single-consumer ring buffer for fixed-size
// record hand-off between exactly two threads.  The structure separates
// the producer and consumer cursors with full cache-lines to eliminate
// false sharing, and uses a two-index protocol (one slot always empty)
// so Send/Receive need no per-slot sequence stamps and no CAS loops.
//
// Ordering discipline
// -------------------
//   • Each side reads its *own* cursor with a plain load: only that
//     thread ever stores it, so a same-thread-consistent read suffices.
//   • Each side reads the *opposite* cursor with an acquire load and
//     publishes its own with a release store.  The release/acquire pair
//     is the only happens-before edge in the hot path: the consumer
//     never observes a slot before the producer's write to it is
//     complete, and the producer never reuses a slot before the
//     consumer's take is visible.
//
// Contract: exactly one goroutine may call Send and exactly one may
// call Receive over the ring's lifetime.  This is a precondition, not
// a runtime check — defending against it would put synchronization
// back on the path the structure exists to avoid.

package spsc

import (
	"errors"

	"golang.org/x/sys/cpu"
)

// ErrFull reports that Send found no free slot.  The caller's value is
// untouched; retry, drop, or route elsewhere as policy dictates.
var ErrFull = errors.New("spsc: ring full")

// Ring is a fixed-capacity SPSC channel over values of type T.
//
// Capacity is always a power of two so index arithmetic reduces to a
// bitmask.  One slot is kept permanently empty to disambiguate "full"
// from "empty" using only the two cursors, so a ring of capacity C
// holds at most C-1 items.
type Ring[T any] struct {
	_    cpu.CacheLinePad
	head uint64 // next slot the producer writes; stored only by Send
	_    cpu.CacheLinePad
	tail uint64 // next slot the consumer reads; stored only by Receive
	_    cpu.CacheLinePad
	mask  uint64
	slots []T
}

// New allocates a ring whose capacity is the requested size rounded up
// to the next power of two (minimum 1).  No allocation happens after
// construction.
func New[T any](size int) *Ring[T] {
	capacity := 1
	for capacity < size {
		capacity <<= 1
	}
	return &Ring[T]{
		mask:  uint64(capacity - 1),
		slots: make([]T, capacity),
	}
}

// Send enqueues v, returning ErrFull if no slot is free.  Never blocks
// and never allocates.  Producer-side only.
func (r *Ring[T]) Send(v T) error {
	head := r.head // own cursor: plain read
	next := (head + 1) & r.mask
	if next == loadAcquireUint64(&r.tail) {
		return ErrFull // consumer has not yet freed the slot
	}
	r.slots[head] = v // plain store; unpublished until the release below
	storeReleaseUint64(&r.head, next)
	return nil
}

// Receive dequeues the oldest item, reporting false if the ring is
// empty.  The vacated slot is reset to the zero value so the ring holds
// no stale references.  Never blocks.  Consumer-side only.
func (r *Ring[T]) Receive() (T, bool) {
	var zero T
	tail := r.tail // own cursor: plain read
	if loadAcquireUint64(&r.head) == tail {
		return zero, false // nothing published yet
	}
	v := r.slots[tail]
	r.slots[tail] = zero
	storeReleaseUint64(&r.tail, (tail+1)&r.mask)
	return v, true
}

// ReceiveSpin busy-retries Receive until an item arrives or *stop is
// raised, relaxing the CPU between misses.  This is caller-layer spin
// policy packaged for convenience; the core Receive never waits.
func (r *Ring[T]) ReceiveSpin(stop *uint32) (T, bool) {
	for {
		if v, ok := r.Receive(); ok {
			return v, true
		}
		if stop != nil && loadAcquireUint32(stop) != 0 {
			var zero T
			return zero, false
		}
		cpuRelax()
	}
}

// Capacity returns the power-of-two slot count.  Usable capacity is
// Capacity()-1.
func (r *Ring[T]) Capacity() int {
	return len(r.slots)
}

// Len returns an instantaneous occupancy snapshot.  Both cursors may
// move the moment they are read, so the result is diagnostic only —
// never a correctness signal.
func (r *Ring[T]) Len() int {
	head := loadAcquireUint64(&r.head)
	tail := loadAcquireUint64(&r.tail)
	return int((head - tail) & r.mask)
}

// IsEmpty reports whether the snapshot in Len is zero.  Same staleness
// caveat applies.
func (r *Ring[T]) IsEmpty() bool {
	return r.Len() == 0
}
