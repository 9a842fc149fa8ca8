// Package metrics provides the centralized Prometheus metrics registry for the odds engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EstimatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "permit_odds",
		Name:      "estimates_total",
		Help:      "Total number of choice-set estimates served",
	})
	YearLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "permit_odds",
		Name:      "year_lookups_total",
		Help:      "Per (choice, year) lookups by outcome",
	}, []string{"outcome"})
	NeighborSearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "permit_odds",
		Name:      "neighbor_searches_total",
		Help:      "Nearest-neighbor searches by how they resolved",
	}, []string{"result"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "permit_odds",
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the in-memory estimate cache",
	})
)

// Histogram metrics
var (
	NeighborSearchRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "permit_odds",
		Name:      "neighbor_search_rounds",
		Help:      "Tolerance rounds used per nearest-neighbor search",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})
	EstimateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "permit_odds",
		Name:      "estimate_duration_seconds",
		Help:      "Duration of choice-set estimates in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EstimatesTotal)
		registry.MustRegister(YearLookupsTotal)
		registry.MustRegister(NeighborSearchesTotal)

		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(NeighborSearchRounds)
		registry.MustRegister(EstimateDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEstimate records a completed choice-set estimate.
func RecordEstimate(durationSeconds float64) {
	EstimatesTotal.Inc()
	EstimateDuration.Observe(durationSeconds)
}

// RecordYearLookup records the outcome of one (choice, year) lookup.
func RecordYearLookup(outcome string) {
	YearLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordNeighborSearch records how a nearest-neighbor search resolved.
func RecordNeighborSearch(result string, rounds int) {
	NeighborSearchesTotal.WithLabelValues(result).Inc()
	NeighborSearchRounds.Observe(float64(rounds))
}

// UpdateCacheHitRatio updates the estimate cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
