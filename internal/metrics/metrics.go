package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the generation counters on a private registry so a run never
// leaks into the process-wide default registry.
type Metrics struct {
	registry *prometheus.Registry

	RowsTotal   prometheus.Counter
	BytesTotal  prometheus.Counter
	RunDuration prometheus.Gauge
	LastSuccess prometheus.Gauge

	rows  int64
	bytes int64
}

// New creates and registers the generation metrics.
func New(table string) *Metrics {
	labels := prometheus.Labels{"table": table}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "statsgen_rows_total",
			Help:        "Total number of INSERT statements written",
			ConstLabels: labels,
		}),
		BytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "statsgen_bytes_total",
			Help:        "Total bytes of SQL written",
			ConstLabels: labels,
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "statsgen_run_duration_seconds",
			Help:        "Wall time of the last generation run in seconds",
			ConstLabels: labels,
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "statsgen_last_success_timestamp_seconds",
			Help:        "Unix time of the last successful generation run",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(m.RowsTotal, m.BytesTotal, m.RunDuration, m.LastSuccess)
	return m
}

// ObserveRow counts one written statement of n bytes.
func (m *Metrics) ObserveRow(n int) {
	m.RowsTotal.Inc()
	m.BytesTotal.Add(float64(n))
	m.rows++
	m.bytes += int64(n)
}

// Totals returns the rows and bytes observed so far.
func (m *Metrics) Totals() (rows, bytes int64) {
	return m.rows, m.bytes
}

// Finish records the run duration and, on success, the completion time.
func (m *Metrics) Finish(started time.Time, err error) {
	m.RunDuration.Set(time.Since(started).Seconds())
	if err == nil {
		m.LastSuccess.SetToCurrentTime()
	}
}

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the metrics in the text exposition format for the
// node-exporter textfile collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
