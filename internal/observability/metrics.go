package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "atlas"

// Metrics holds the Prometheus counters, histograms, and gauges for the atlas service.
type Metrics struct {
	CatalogGenera prometheus.Gauge

	// Search metrics.
	Searches      *prometheus.CounterVec   // labels: scope={genera,species,varieties,supplementary}
	SearchResults *prometheus.HistogramVec // labels: scope

	// Classification metrics.
	ClassifyRequests   *prometheus.CounterVec // labels: outcome={success,rejected,error,throttled}
	ClassifyDuration   prometheus.Histogram
	ClassifyCache      *prometheus.CounterVec // labels: result={hit,miss}
	ClassifySuperseded prometheus.Counter

	// Asset metrics.
	AssetRequests *prometheus.CounterVec // labels: outcome={served,not_modified,not_found,error}
}

// NewMetrics creates and registers all atlas metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CatalogGenera,
		m.Searches,
		m.SearchResults,
		m.ClassifyRequests,
		m.ClassifyDuration,
		m.ClassifyCache,
		m.ClassifySuperseded,
		m.AssetRequests,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewDetachedMetrics creates Metrics that are not registered anywhere, for
// short-lived tools that never expose /metrics.
func NewDetachedMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogGenera: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_genera",
			Help:      "Number of genera loaded into the catalog.",
		}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search requests by scope.",
		}, []string{"scope"}),
		SearchResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 40},
		}, []string{"scope"}),
		ClassifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_requests_total",
			Help:      "Classification uploads by outcome.",
		}, []string{"outcome"}),
		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Classifier request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ClassifyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_cache_total",
			Help:      "Classification cache lookups by result.",
		}, []string{"result"}),
		ClassifySuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_superseded_total",
			Help:      "Classification results discarded because a newer upload replaced them.",
		}),
		AssetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_requests_total",
			Help:      "Static asset requests by outcome.",
		}, []string{"outcome"}),
	}
}
