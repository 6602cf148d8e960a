// metrics.go
//
// Offline latency summarization.  Feed it the elapsed-time samples your
// producer/consumer loops collected and it answers the only question
// that matters for a hot path: not how fast the median is, but how far
// the tail strays from it.
//
// The percentile estimator is deliberately the simple nearest-rank
// form: index = floor(len·p), clamped to len-1.  It can sit one slot
// away from interpolated definitions on small sample counts, and the
// consistency-ratio gate below was tuned against exactly this formula,
// so it must not be "fixed" to an interpolating one.

package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Quality gate defaults: a run is acceptable when the p99/p50 ratio
// stays under AcceptableRatio and p99 itself stays under AcceptableP99.
const (
	AcceptableRatio = 2.0
	AcceptableP99   = time.Microsecond
)

// Metrics is an immutable summary of one batch of latency samples.  It
// keeps no reference to the samples it was computed from.
type Metrics struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	P999  time.Duration
}

// FromSamples sorts samples ascending in place and summarizes them.
// The slice is consumed: callers must not assume its original order
// survives.  An empty input yields the zero Metrics — a defined result,
// never an error.
func FromSamples(samples []time.Duration) Metrics {
	if len(samples) == 0 {
		return Metrics{}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	n := len(samples)

	var sum int64
	for _, s := range samples {
		sum += int64(s)
	}

	return Metrics{
		Count: n,
		Min:   samples[0],
		Max:   samples[n-1],
		Mean:  time.Duration(sum / int64(n)),
		P50:   nearestRank(samples, 0.50),
		P95:   nearestRank(samples, 0.95),
		P99:   nearestRank(samples, 0.99),
		P999:  nearestRank(samples, 0.999),
	}
}

// nearestRank picks the sample at floor(len·p), clamped to the last
// index.  Callers guarantee sorted is non-empty and ascending.
func nearestRank(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)) * p)
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ConsistencyRatio returns p99/p50: lower means a tighter distribution.
// On the zero Metrics the division is 0/0 and the result is NaN, which
// fails every threshold comparison — the safe direction.
func (m Metrics) ConsistencyRatio() float64 {
	return float64(m.P99) / float64(m.P50)
}

// Acceptable reports whether the run clears the quality gate:
// ConsistencyRatio below AcceptableRatio and p99 below AcceptableP99.
func (m Metrics) Acceptable() bool {
	return m.ConsistencyRatio() < AcceptableRatio && m.P99 < AcceptableP99
}

// WriteReport emits the human-readable summary block for a named run.
func (m Metrics) WriteReport(w io.Writer, name string) {
	fmt.Fprintf(w, "=== %s ===\n", name)
	fmt.Fprintf(w, "  Samples: %d\n", m.Count)
	fmt.Fprintf(w, "  Min:  %v\n", m.Min)
	fmt.Fprintf(w, "  Mean: %v\n", m.Mean)
	fmt.Fprintf(w, "  P50:  %v\n", m.P50)
	fmt.Fprintf(w, "  P95:  %v\n", m.P95)
	fmt.Fprintf(w, "  P99:  %v\n", m.P99)
	fmt.Fprintf(w, "  P999: %v\n", m.P999)
	fmt.Fprintf(w, "  Max:  %v\n", m.Max)
	fmt.Fprintf(w, "  P99/P50 ratio: %.2fx\n", m.ConsistencyRatio())
}
