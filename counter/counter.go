// counter.go
//
// Relaxed atomic tally counter for coarse statistics.  Safe for any
// number of goroutines, but deliberately weak: it guarantees atomicity
// of each individual operation and nothing about ordering relative to
// any other variable.  Use it for message totals and drop counts, never
// for coordination — the ring buffer's hand-off protocol is where
// ordering lives.
//
// Overflow wraps at 2^64, a known and accepted limitation; at one
// increment per nanosecond that is several centuries of uptime.

package counter

import "sync/atomic"

// Counter is a monotonic-by-convention uint64 tally.  The zero value is
// ready to use.
type Counter struct {
	n atomic.Uint64
}

// New returns a counter initialized to zero.
func New() *Counter {
	return &Counter{}
}

// WithValue returns a counter initialized to v.
func WithValue(v uint64) *Counter {
	c := &Counter{}
	c.n.Store(v)
	return c
}

// Increment adds 1.
func (c *Counter) Increment() {
	c.n.Add(1)
}

// Add adds n.
func (c *Counter) Add(n uint64) {
	c.n.Add(n)
}

// Get returns the current value.  Under concurrent writers the result
// may lag the latest increments; once all writers have joined it is
// exact.
func (c *Counter) Get() uint64 {
	return c.n.Load()
}

// Reset stores zero.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Swap stores v and returns the previous value.
func (c *Counter) Swap(v uint64) uint64 {
	return c.n.Swap(v)
}
