// Package metrics defines pick-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pick-specific counter vectors
var (
	PicksEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "picks_emitted_total",
		Help:      "Total number of picks emitted by type and action",
	}, []string{"sport", "pick_type", "action"})
)

// Pick-specific histogram vectors
var (
	PickConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "pick_confidence_score",
		Help:      "Confidence scores of emitted picks",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"sport", "pick_type"})

	PickEVScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "pick_ev_score",
		Help:      "Expected value of emitted picks",
		Buckets:   []float64{0.01, 0.02, 0.03, 0.05, 0.08, 0.12, 0.2, 0.5},
	}, []string{"sport", "pick_type"})
)

// RecordPickEmitted records an emitted pick with its scores.
func RecordPickEmitted(sport, pickType, action string, confidence, ev float64) {
	PicksEmittedTotal.WithLabelValues(sport, pickType, action).Inc()
	PickConfidenceScore.WithLabelValues(sport, pickType).Observe(confidence)
	PickEVScore.WithLabelValues(sport, pickType).Observe(ev)
}
