// counter_bench_test.go
//
// Single-thread and contended increment benchmarks, plus a mutex baseline
// for comparison.  The contended case is the one that matters: a relaxed
// atomic add stays a single LOCK XADD while the mutex path serializes
// through futex wake-ups under pressure.

package counter

import (
	"sync"
	"testing"
)

func BenchmarkCounter_Increment(b *testing.B) {
	c := New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Increment()
	}
}

func BenchmarkCounter_IncrementParallel(b *testing.B) {
	c := New()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Increment()
		}
	})
}

func BenchmarkMutexCounter_IncrementParallel(b *testing.B) {
	var mu sync.Mutex
	var n uint64
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			n++
			mu.Unlock()
		}
	})
	_ = n
}
