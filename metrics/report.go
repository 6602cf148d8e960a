// report.go
//
// Machine-readable form of a Metrics summary.  Durations are flattened
// to nanosecond integers so downstream tooling never has to parse Go's
// duration strings.

package metrics

import "github.com/sugawarayuuta/sonnet"

// Report is the JSON projection of a named Metrics summary.
type Report struct {
	Name       string  `json:"name"`
	Samples    int     `json:"samples"`
	MinNs      int64   `json:"min_ns"`
	MeanNs     int64   `json:"mean_ns"`
	P50Ns      int64   `json:"p50_ns"`
	P95Ns      int64   `json:"p95_ns"`
	P99Ns      int64   `json:"p99_ns"`
	P999Ns     int64   `json:"p999_ns"`
	MaxNs      int64   `json:"max_ns"`
	Ratio      float64 `json:"consistency_ratio"`
	Acceptable bool    `json:"acceptable"`
}

// Report builds the JSON projection for a named run.  The ratio field
// is zeroed when Count is zero so the encoding never carries NaN.
func (m Metrics) Report(name string) Report {
	ratio := m.ConsistencyRatio()
	if m.Count == 0 {
		ratio = 0
	}
	return Report{
		Name:       name,
		Samples:    m.Count,
		MinNs:      int64(m.Min),
		MeanNs:     int64(m.Mean),
		P50Ns:      int64(m.P50),
		P95Ns:      int64(m.P95),
		P99Ns:      int64(m.P99),
		P999Ns:     int64(m.P999),
		MaxNs:      int64(m.Max),
		Ratio:      ratio,
		Acceptable: m.Acceptable(),
	}
}

// JSON encodes the report.
func (r Report) JSON() ([]byte, error) {
	return sonnet.Marshal(r)
}
