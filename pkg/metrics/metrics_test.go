package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/errors"
)

func TestCollector_SuccessfulRun(t *testing.T) {
	c := NewCollector("file")
	for i := 0; i < 5; i++ {
		c.RecordGenerated()
	}
	c.ObserveRun(5, 120, 2*time.Second, nil)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.recordsGenerated))
	assert.Equal(t, 120.0, testutil.ToFloat64(c.bytesWritten))
	assert.Equal(t, 2.5, testutil.ToFloat64(c.throughput))
	assert.Greater(t, testutil.ToFloat64(c.lastSuccess), 0.0)
}

func TestCollector_FailedRun(t *testing.T) {
	c := NewCollector("s3")
	c.ObserveRun(0, 0, time.Second, errors.New(errors.ErrorTypeConnection, "no route"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runErrors.WithLabelValues("connection")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lastSuccess))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector("file")
	c.RecordGenerated()
	c.ObserveRun(1, 10, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "datagen.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `datagen_records_generated_total{sink="file"} 1`)
}

func TestCollector_WriteTextfileMissingDir(t *testing.T) {
	c := NewCollector("file")
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "datagen.prom"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestThroughputTracker(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	tr := &ThroughputTracker{lastReset: start, now: func() time.Time { return now }}

	tr.Increment(300)
	now = start.Add(3 * time.Second)
	assert.Equal(t, 100.0, tr.GetAndReset())

	// zero-length window
	assert.Equal(t, 0.0, tr.GetAndReset())
}
