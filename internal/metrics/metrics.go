// Package metrics provides centralized Prometheus metrics registry for the engine.
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
	QuotesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "quotes_evaluated_total",
		Help:      "Total number of odds quotes evaluated",
	})
	EvaluationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "evaluation_runs_total",
		Help:      "Total number of evaluation runs completed",
	})
	AnomaliesFlaggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "anomalies_flagged_total",
		Help:      "Total number of anomalous quotes flagged",
	})
	ErrorsFlaggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "errors_flagged_total",
		Help:      "Total number of suspected bookmaker errors flagged",
	})
	ArbitragesDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "arbitrages_detected_total",
		Help:      "Total number of arbitrage opportunities detected",
	})
	RatingsCircuitTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "ratings_circuit_trips_total",
		Help:      "Total number of ratings client circuit breaker trips",
	})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "cache_lookups_total",
		Help:      "Total cache lookups by cache name and outcome",
	}, []string{"cache", "result"})
)

// Gauge metrics
var (
	OpenPicks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "open_picks",
		Help:      "Number of currently unsettled picks",
	})
	TrackedEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "tracked_events",
		Help:      "Number of events with quote activity in the last evaluation window",
	})
	LastRunQuoteCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "last_run_quote_count",
		Help:      "Number of quotes scanned in the most recent evaluation run",
	})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of a full evaluation run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	StatsRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "stats_refresh_duration_seconds",
		Help:      "Duration of a team statistics refresh in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	RatingsFetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "ratings_fetch_latency_seconds",
		Help:      "Latency of ratings service fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(QuotesEvaluatedTotal)
		registry.MustRegister(EvaluationRunsTotal)
		registry.MustRegister(AnomaliesFlaggedTotal)
		registry.MustRegister(ErrorsFlaggedTotal)
		registry.MustRegister(ArbitragesDetectedTotal)
		registry.MustRegister(RatingsCircuitTripsTotal)
		registry.MustRegister(CacheLookupsTotal)

		// Register gauge metrics
		registry.MustRegister(OpenPicks)
		registry.MustRegister(TrackedEvents)
		registry.MustRegister(LastRunQuoteCount)

		// Register histogram metrics
		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(StatsRefreshDuration)
		registry.MustRegister(RatingsFetchLatency)

		// Register pick metrics
		registry.MustRegister(PicksEmittedTotal)
		registry.MustRegister(PickConfidenceScore)
		registry.MustRegister(PickEVScore)
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

// RecordEvaluationRun records a completed evaluation run.
func RecordEvaluationRun(durationSeconds float64, quotesScanned int) {
	EvaluationRunsTotal.Inc()
	EvaluationDuration.Observe(durationSeconds)
	LastRunQuoteCount.Set(float64(quotesScanned))
	QuotesEvaluatedTotal.Add(float64(quotesScanned))
}

// RecordAnomalyFlagged records an anomaly detection.
func RecordAnomalyFlagged() {
	AnomaliesFlaggedTotal.Inc()
}

// RecordErrorFlagged records a suspected bookmaker error.
func RecordErrorFlagged() {
	ErrorsFlaggedTotal.Inc()
}

// RecordArbitrageDetected records a detected arbitrage opportunity.
func RecordArbitrageDetected() {
	ArbitragesDetectedTotal.Inc()
}

// RecordRatingsCircuitTrip records a ratings client circuit breaker trip.
func RecordRatingsCircuitTrip() {
	RatingsCircuitTripsTotal.Inc()
}

// RecordCacheLookup records a cache lookup outcome ("hit" or "miss").
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// UpdateOpenPicks updates the open picks gauge.
func UpdateOpenPicks(count float64) {
	OpenPicks.Set(count)
}

// UpdateTrackedEvents updates the tracked events gauge.
func UpdateTrackedEvents(count float64) {
	TrackedEvents.Set(count)
}

// RecordStatsRefresh records a team statistics refresh duration.
func RecordStatsRefresh(durationSeconds float64) {
	StatsRefreshDuration.Observe(durationSeconds)
}

// RecordRatingsFetchLatency records a ratings service fetch latency.
func RecordRatingsFetchLatency(durationSeconds float64) {
	RatingsFetchLatency.Observe(durationSeconds)
}
