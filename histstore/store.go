// store.go
//
// sqlite-backed archive of latency-run summaries.  The hot paths never
// touch this package: samples are summarized into a metrics.Metrics
// first and only the derived record lands here, after the run is over.
// Persisting summaries rather than raw samples keeps runs comparable
// across machines without shipping gigabytes of durations around.

package histstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"main/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	created_at  INTEGER NOT NULL,
	samples     INTEGER NOT NULL,
	min_ns      INTEGER NOT NULL,
	mean_ns     INTEGER NOT NULL,
	p50_ns      INTEGER NOT NULL,
	p95_ns      INTEGER NOT NULL,
	p99_ns      INTEGER NOT NULL,
	p999_ns     INTEGER NOT NULL,
	max_ns      INTEGER NOT NULL,
	ratio       REAL    NOT NULL,
	acceptable  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// Store wraps one sqlite database of run summaries.
type Store struct {
	db *sql.DB
}

// Run is one persisted summary.
type Run struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	Metrics   metrics.Metrics
	Ratio     float64
	OK        bool
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("histstore: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("histstore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one named summary and returns its row id.
func (s *Store) SaveRun(name string, m metrics.Metrics) (int64, error) {
	ratio := m.ConsistencyRatio()
	if m.Count == 0 {
		ratio = 0 // avoid persisting NaN for empty runs
	}
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (name, created_at, samples, min_ns, mean_ns, p50_ns, p95_ns, p99_ns, p999_ns, max_ns, ratio, acceptable)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, time.Now().Unix(), m.Count,
		int64(m.Min), int64(m.Mean), int64(m.P50), int64(m.P95),
		int64(m.P99), int64(m.P999), int64(m.Max),
		ratio, boolToInt(m.Acceptable()),
	)
	if err != nil {
		return 0, fmt.Errorf("histstore: insert run %q: %w", name, err)
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit summaries, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at, samples, min_ns, mean_ns, p50_ns, p95_ns, p99_ns, p999_ns, max_ns, ratio, acceptable
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("histstore: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                                        Run
			createdAt                                int64
			minNs, meanNs, p50, p95, p99, p999, maxN int64
			acceptable                               int
		)
		if err := rows.Scan(&r.ID, &r.Name, &createdAt, &r.Metrics.Count,
			&minNs, &meanNs, &p50, &p95, &p99, &p999, &maxN,
			&r.Ratio, &acceptable); err != nil {
			return nil, fmt.Errorf("histstore: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		r.Metrics.Min = time.Duration(minNs)
		r.Metrics.Mean = time.Duration(meanNs)
		r.Metrics.P50 = time.Duration(p50)
		r.Metrics.P95 = time.Duration(p95)
		r.Metrics.P99 = time.Duration(p99)
		r.Metrics.P999 = time.Duration(p999)
		r.Metrics.Max = time.Duration(maxN)
		r.OK = acceptable != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
