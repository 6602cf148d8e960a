// affinity.go
//
// Best-effort thread pinning.  Pinning a producer or consumer to its
// own core keeps caches warm and removes scheduler migration from the
// tail of the latency distribution; on hosts where that is impossible
// the right behavior is a warning and a no-op, never an error — the
// primitives work unpinned, just with a fatter p99.
//
// Pin is exposed both directly and as the Pinner function type so the
// consumers that want pinning (spsc.PinnedConsumer, the benchmark
// harnesses) take it as an injected collaborator and stay testable on
// platforms without affinity support.

package affinity

import "runtime"

// Pinner pins the calling thread to a zero-based core index.  The
// caller must have locked the goroutine to its OS thread first.
type Pinner func(core int)

// CPUCount returns the number of logical CPUs, never less than 1.
func CPUCount() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
