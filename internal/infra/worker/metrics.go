package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ainews-feed/internal/pkg/config"
)

// Metrics exposes worker process metrics: the shared configuration metrics
// plus gauges describing the running scheduler. Per-run ingestion counters
// live in the observability/metrics package; these cover the process itself.
type Metrics struct {
	*config.Metrics

	// SourcesConfigured is the number of feed sources loaded at startup.
	SourcesConfigured prometheus.Gauge

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers and returns the worker metrics. Uses the default
// Prometheus registry; call at most once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Metrics: config.NewMetrics("worker"),

		SourcesConfigured: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_sources_configured",
			Help: "Number of feed sources loaded from the sources file",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_last_success_timestamp",
			Help: "Unix timestamp of the last successful collection run",
		}),
	}
}

// SetSourcesConfigured records how many sources the worker polls.
func (m *Metrics) SetSourcesConfigured(count int) {
	m.SourcesConfigured.Set(float64(count))
}

// RecordLastSuccess marks the current time as the last successful run.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
