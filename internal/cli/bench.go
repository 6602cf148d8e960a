// bench.go
//
// Comparative benchmarks: the lock-free primitives against their mutex
// baselines.  The lock-free ring run doubles as the concurrency
// round-trip check — the consumer verifies it sees exactly 0..N-1 in
// order, so a protocol bug fails the run instead of flattering it.

package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"main/counter"
	"main/metrics"
	"main/spsc"
)

var useMutex bool

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run primitive benchmarks",
}

var benchRingCmd = &cobra.Command{
	Use:   "ring",
	Short: "One producer, one consumer, N items through the channel",
	RunE:  runBenchRing,
}

var benchCounterCmd = &cobra.Command{
	Use:   "counter",
	Short: "T threads incrementing one counter K times each",
	RunE:  runBenchCounter,
}

func init() {
	benchCmd.PersistentFlags().BoolVar(&useMutex, "mutex", false, "run the mutex baseline instead of the lock-free path")
	benchCmd.PersistentFlags().Int("iterations", 0, "override bench.iterations")
	viper.BindPFlag("bench.iterations", benchCmd.PersistentFlags().Lookup("iterations"))

	benchCmd.AddCommand(benchRingCmd)
	benchCmd.AddCommand(benchCounterCmd)
}

// mutexQueue is the baseline the lock-free ring is measured against: an
// unbounded slice behind a mutex, mirroring the usual first attempt.
type mutexQueue struct {
	mu    sync.Mutex
	items []int
}

func (q *mutexQueue) send(v int) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

func (q *mutexQueue) receive() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func runBenchRing(cmd *cobra.Command, args []string) error {
	n := viper.GetInt("bench.iterations")
	size := viper.GetInt("ring.size")

	if useMutex {
		return benchRingMutex(n)
	}
	return benchRingLockFree(n, size)
}

func benchRingLockFree(n, size int) error {
	ring := spsc.New[int](size)
	log.Info("ring benchmark starting",
		zap.Int("iterations", n), zap.Int("capacity", ring.Capacity()))

	consumerErr := make(chan error, 1)
	go func() {
		for i := 0; i < n; i++ {
			v, ok := ring.Receive()
			for !ok {
				v, ok = ring.Receive()
			}
			if v != i {
				consumerErr <- fmt.Errorf("position %d delivered %d: FIFO violated", i, v)
				return
			}
		}
		consumerErr <- nil
	}()

	// Producer side, sampled per successful send including any full-spin.
	samples := make([]time.Duration, 0, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		t0 := time.Now()
		for ring.Send(i) == spsc.ErrFull {
			// consumer behind: spin
		}
		samples = append(samples, time.Since(t0))
	}
	if err := <-consumerErr; err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("[lockfree] %d items in %v (%.0f items/sec)\n",
		n, elapsed, float64(n)/elapsed.Seconds())
	return emit("ring-lockfree", metrics.FromSamples(samples))
}

func benchRingMutex(n int) error {
	q := &mutexQueue{}
	log.Info("mutex baseline starting", zap.Int("iterations", n))

	done := make(chan struct{})
	go func() {
		received := 0
		for received < n {
			if _, ok := q.receive(); ok {
				received++
			}
		}
		close(done)
	}()

	samples := make([]time.Duration, 0, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		t0 := time.Now()
		q.send(i)
		samples = append(samples, time.Since(t0))
	}
	<-done
	elapsed := time.Since(start)

	fmt.Printf("[mutex] %d items in %v (%.0f items/sec)\n",
		n, elapsed, float64(n)/elapsed.Seconds())
	return emit("ring-mutex", metrics.FromSamples(samples))
}

func runBenchCounter(cmd *cobra.Command, args []string) error {
	iterations := viper.GetInt("bench.iterations")
	threads := viper.GetInt("bench.threads")

	var elapsed time.Duration
	var final uint64

	if useMutex {
		var mu sync.Mutex
		var total uint64
		elapsed = timeThreads(threads, iterations, func() {
			mu.Lock()
			total++
			mu.Unlock()
		})
		final = total
	} else {
		c := counter.New()
		elapsed = timeThreads(threads, iterations, c.Increment)
		final = c.Get()
	}

	want := uint64(threads) * uint64(iterations)
	if final != want {
		return fmt.Errorf("count %d, want %d: increments lost", final, want)
	}

	kind := "atomic"
	if useMutex {
		kind = "mutex"
	}
	fmt.Printf("[%s] %d threads x %d increments in %v (%.0f ops/sec)\n",
		kind, threads, iterations, elapsed, float64(want)/elapsed.Seconds())
	return nil
}

// timeThreads runs fn iterations times on each of n goroutines and
// returns the wall time from launch to last join.
func timeThreads(n, iterations int, fn func()) time.Duration {
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				fn()
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}
