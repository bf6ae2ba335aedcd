// Package observability provides Prometheus metrics for the fetch pipeline.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Upstream
	RequestsTotal prometheus.Counter
	RetriesTotal  *prometheus.CounterVec

	// Fetch cycles
	CyclesTotal       *prometheus.CounterVec
	CycleDuration     prometheus.Histogram
	PagesFetched      prometheus.Counter
	DuplicatesDropped prometheus.Counter
	DatasetSize       prometheus.Gauge
	LastSuccess       prometheus.Gauge

	// Favorites
	FavoritesCount     prometheus.Gauge
	StorageErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "market_scope"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests issued to the market data provider",
		}),
		RetriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of retry waits by reason",
		}, []string{"reason"}),

		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "cycles_total",
			Help:      "Total number of fetch cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of complete fetch cycles",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "pages_fetched_total",
			Help:      "Total number of listing pages fetched successfully",
		}),
		DuplicatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duplicate_coins_dropped_total",
			Help:      "Coins dropped because their id already appeared on an earlier page",
		}),
		DatasetSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "dataset_size",
			Help:      "Number of coins in the currently held dataset",
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful fetch cycle",
		}),

		FavoritesCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "favorites",
			Name:      "count",
			Help:      "Number of coins in the favorite set",
		}),
		StorageErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "favorites",
			Name:      "storage_errors_total",
			Help:      "Favorites persistence failures by operation",
		}, []string{"op"}),
	}
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RequestIssued() {
	if m == nil {
		return
	}
	m.RequestsTotal.Inc()
}

func (m *Metrics) RetryObserved(reason string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) PageFetched() {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
}

func (m *Metrics) DuplicateDropped() {
	if m == nil {
		return
	}
	m.DuplicatesDropped.Inc()
}

// CycleFinished records one fetch cycle. outcome is "success", "error" or "skipped".
func (m *Metrics) CycleFinished(outcome string, started time.Time, datasetSize int) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(outcome).Inc()
	if outcome == "skipped" {
		return
	}
	m.CycleDuration.Observe(time.Since(started).Seconds())
	if outcome == "success" {
		m.DatasetSize.Set(float64(datasetSize))
		m.LastSuccess.SetToCurrentTime()
	}
}

func (m *Metrics) FavoritesChanged(count int) {
	if m == nil {
		return
	}
	m.FavoritesCount.Set(float64(count))
}

func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrorsTotal.WithLabelValues(op).Inc()
}
