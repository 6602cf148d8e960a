// pinned_consumer.go
//
// Low-latency SPSC consumer loop on a dedicated, core-pinned OS thread.
//
//   • Stays in **hot-spin** (tight loop, no cpuRelax) while
//       – new work arrived within hotTimeout, OR
//       – the producer keeps the hot flag == 1.
//   • After the grace window, and once hot == 0, drops to the
//     **cold-spin** path: cpuRelax every iteration.
//   • Exits only when *stop != 0 and closes `done` exactly once.
//
// Rationale: keep nanosecond wake-up during bursts yet avoid burning a
// core's power budget when the feed goes quiet.
//
// Pinning is an injected collaborator so the loop stays testable on
// hosts without affinity support: pass nil to skip pinning entirely.

package spsc

import (
	"runtime"
	"time"
)

const (
	spinBudget = 256              // cold-path polls between relax resets
	hotTimeout = 15 * time.Second // hot-spin grace after last delivery
)

// PinnedConsumer launches a goroutine locked to an OS thread, pinned to
// `core` via `pin`, that drains r through fn until *stop is raised.
// The hot flag is producer-owned: store 1 to keep the consumer in
// hot-spin between bursts, 0 to let it cool down.  done is closed when
// the consumer exits.
func PinnedConsumer[T any](
	core int,
	r *Ring[T],
	pin func(core int),
	stop, hot *uint32,
	fn func(T),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		if pin != nil {
			pin(core)
		}
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now() // last time Receive delivered
		miss := 0

		for {
			if v, ok := r.Receive(); ok {
				fn(v)
				last, miss = time.Now(), 0
				continue
			}

			if loadAcquireUint32(stop) != 0 {
				return
			}

			hotSpin := loadAcquireUint32(hot) != 0 ||
				time.Since(last) <= hotTimeout

			if hotSpin {
				continue // tight loop: no relax
			}

			if miss++; miss >= spinBudget {
				miss = 0
			}
			cpuRelax()
		}
	}()
}
