// Package metrics tracks generation runs with Prometheus metrics.
//
// Each run owns a Collector backed by a private registry, so nothing is
// served over HTTP; the collected values can be written to a node-exporter
// textfile when the run ends.
//
//	c := metrics.NewCollector("file")
//	gen := generator.New(generator.WithMetrics(c))
//	stats, err := gen.Run(ctx, w, n)
//	c.ObserveRun(stats.Records, stats.Bytes, stats.Duration, err)
//	_ = c.WriteTextfile("/var/lib/node_exporter/datagen.prom")
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/datagen/pkg/errors"
)

const namespace = "datagen"

// Collector records per-run metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	recordsGenerated prometheus.Counter
	bytesWritten     prometheus.Counter
	runDuration      prometheus.Histogram
	runErrors        *prometheus.CounterVec
	throughput       prometheus.Gauge
	lastSuccess      prometheus.Gauge
}

// NewCollector creates a collector whose metrics carry a sink label.
func NewCollector(sinkName string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"sink": sinkName}

	return &Collector{
		registry: reg,
		recordsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_generated_total",
			Help:        "Total number of records written to the sink",
			ConstLabels: labels,
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bytes_written_total",
			Help:        "Bytes written to byte sinks after compression",
			ConstLabels: labels,
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Duration of generation runs",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		runErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "run_errors_total",
			Help:        "Failed runs by error type",
			ConstLabels: labels,
		}, []string{"type"}),
		throughput: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "throughput_records_per_second",
			Help:        "Records per second over the last progress window",
			ConstLabels: labels,
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last successful run",
			ConstLabels: labels,
		}),
	}
}

// Registry returns the collector's private registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordGenerated counts one record written to the sink.
func (c *Collector) RecordGenerated() {
	c.recordsGenerated.Inc()
}

// SetThroughput publishes the current records-per-second rate.
func (c *Collector) SetThroughput(rps float64) {
	c.throughput.Set(rps)
}

// ObserveRun records the outcome of a run.
func (c *Collector) ObserveRun(records, bytes int64, duration time.Duration, err error) {
	c.runDuration.Observe(duration.Seconds())
	if bytes > 0 {
		c.bytesWritten.Add(float64(bytes))
	}
	if err != nil {
		c.runErrors.WithLabelValues(errorType(err)).Inc()
		return
	}
	if duration > 0 {
		c.throughput.Set(float64(records) / duration.Seconds())
	}
	c.lastSuccess.SetToCurrentTime()
}

// WriteTextfile writes all metrics in Prometheus text format to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write metrics file").
			WithDetail("path", path)
	}
	return nil
}

func errorType(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		return string(e.Type)
	}
	return "unknown"
}

// Timer measures elapsed time from its creation.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks records per second over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	now       func() time.Time
}

// NewThroughputTracker creates a tracker whose first window starts now.
func NewThroughputTracker() *ThroughputTracker {
	return &ThroughputTracker{lastReset: time.Now(), now: time.Now}
}

// Increment adds n to the record count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset returns the throughput of the current window and starts a
// new one.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	elapsed := now.Sub(t.lastReset).Seconds()
	count := t.count
	t.count = 0
	t.lastReset = now

	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed
}
