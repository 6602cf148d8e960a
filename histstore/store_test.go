package histstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/metrics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMetrics() metrics.Metrics {
	return metrics.FromSamples([]time.Duration{100, 200, 300, 400, 500})
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)

	m := sampleMetrics()
	id, err := s.SaveRun("ring-bench", m)
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "ring-bench", got.Name)
	assert.Equal(t, m, got.Metrics)
	assert.InDelta(t, m.ConsistencyRatio(), got.Ratio, 1e-9)
	assert.Equal(t, m.Acceptable(), got.OK)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.SaveRun(name, sampleMetrics())
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// all three share a created_at second; id breaks the tie newest-first
	assert.Equal(t, "third", runs[0].Name)
	assert.Equal(t, "second", runs[1].Name)
}

func TestSaveEmptyRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveRun("empty", metrics.Metrics{})
	require.NoError(t, err)

	runs, err := s.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Zero(t, runs[0].Metrics.Count)
	assert.Zero(t, runs[0].Ratio, "NaN must not be persisted")
	assert.False(t, runs[0].OK)
}

func TestRecentRunsEmptyStore(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.RecentRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.SaveRun("persisted", sampleMetrics())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "persisted", runs[0].Name)
}
