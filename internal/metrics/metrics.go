// Package metrics collects batch-run counters for the node_exporter
// textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/planbiir/gpxding/internal/reduce"
)

const namespace = "gpxding"

// Metrics holds the collectors of one run on a private registry
type Metrics struct {
	registry *prometheus.Registry

	FilesProcessed prometheus.Counter
	FilesFailed    prometheus.Counter
	PathsReduced   *prometheus.CounterVec
	Points         *prometheus.CounterVec
	RetentionRatio prometheus.Histogram
	LastRun        prometheus.Gauge
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "files",
			Name:      "processed_total",
			Help:      "Input files reduced and written",
		}),

		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "files",
			Name:      "failed_total",
			Help:      "Input files that could not be reduced",
		}),

		PathsReduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "paths",
			Name:      "reduced_total",
			Help:      "Tracks and routes passed through the pipeline",
		}, []string{"kind"}),

		Points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "total",
			Help:      "Points seen, modified or kept by each pipeline stage",
		}, []string{"stage"}),

		RetentionRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "paths",
			Name:      "retention_ratio",
			Help:      "Share of points kept per path",
			Buckets:   prometheus.LinearBuckets(0.05, 0.1, 10),
		}),

		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished",
		}),
	}

	m.registry.MustRegister(
		m.FilesProcessed,
		m.FilesFailed,
		m.PathsReduced,
		m.Points,
		m.RetentionRatio,
		m.LastRun,
	)
	return m
}

// ObservePath records the statistics of one reduced path
func (m *Metrics) ObservePath(kind string, s reduce.Stats) {
	m.PathsReduced.WithLabelValues(kind).Inc()

	m.Points.WithLabelValues("input").Add(float64(s.OriginalPoints))
	m.Points.WithLabelValues("despiked").Add(float64(s.Despiked))
	m.Points.WithLabelValues("collapsed").Add(float64(s.Collapsed))
	m.Points.WithLabelValues("trimmed").Add(float64(s.Trimmed))
	m.Points.WithLabelValues("retained").Add(float64(s.FinalPoints))

	if s.OriginalPoints > 0 {
		m.RetentionRatio.Observe(float64(s.FinalPoints) / float64(s.OriginalPoints))
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile stamps the run time and writes all metrics in text format.
// The file is written atomically, as the textfile collector expects.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
