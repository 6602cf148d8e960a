// ordering.go
//
// Named acquire/release helpers over sync/atomic.  Go's atomics are
// sequentially consistent — a conservative superset of the acquire and
// release orderings the hand-off protocol actually needs — so these
// exist to document intent at each call site, not to weaken anything.

package spsc

import "sync/atomic"

// loadAcquireUint64 is an acquire load of *p.
func loadAcquireUint64(p *uint64) uint64 {
	return atomic.LoadUint64(p)
}

// storeReleaseUint64 is a release store to *p.
func storeReleaseUint64(p *uint64, v uint64) {
	atomic.StoreUint64(p, v)
}

// loadAcquireUint32 is an acquire load of *p, used for stop/hot flags.
func loadAcquireUint32(p *uint32) uint32 {
	return atomic.LoadUint32(p)
}
