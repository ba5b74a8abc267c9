// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for evaluation runs.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogEvaluationRun logs a completed evaluation pass over a quote batch.
func (el *EngineLogger) LogEvaluationRun(runID string, quotesScanned, anomaliesFlagged, errorsFlagged, picksEmitted int, durationMs float64) {
	el.WithFields(logrus.Fields{
		"run_id":                 runID,
		"quotes_scanned":         quotesScanned,
		"anomalies_flagged":      anomaliesFlagged,
		"errors_flagged":         errorsFlagged,
		"picks_emitted":          picksEmitted,
		"evaluation_duration_ms": durationMs,
	}).Info("Evaluation run completed")
}

// LogQuoteDecision logs the classification outcome for a single quote.
func (el *EngineLogger) LogQuoteDecision(eventID, bookmaker, market, pickType, action string, confidence, ev, zScore, odds float64) {
	el.WithFields(logrus.Fields{
		"event_id":   eventID,
		"bookmaker":  bookmaker,
		"market":     market,
		"pick_type":  pickType,
		"action":     action,
		"confidence": confidence,
		"ev":         ev,
		"z_score":    zScore,
		"odds":       odds,
	}).Info("Quote classified")
}

// LogQualityFiltering logs quality filtering results for a run.
func (el *EngineLogger) LogQualityFiltering(runID string, candidatesBefore, candidatesAfter int, minScore float64) {
	el.WithFields(logrus.Fields{
		"run_id":            runID,
		"candidates_before": candidatesBefore,
		"candidates_after":  candidatesAfter,
		"min_score":         minScore,
	}).Info("Quality filtering applied to candidates")
}

// LogArbitrage logs a detected arbitrage opportunity.
func (el *EngineLogger) LogArbitrage(eventID, market string, impliedSum float64, bookmakers []string) {
	el.WithFields(logrus.Fields{
		"event_id":    eventID,
		"market":      market,
		"implied_sum": impliedSum,
		"bookmakers":  bookmakers,
	}).Warn("Arbitrage opportunity detected")
}

// LogEngineStart logs engine startup.
func (el *EngineLogger) LogEngineStart(devigMethod string, minEV, minEdge float64) {
	el.WithFields(logrus.Fields{
		"event_type":   "start",
		"devig_method": devigMethod,
		"min_ev":       minEV,
		"min_edge":     minEdge,
	}).Info("Engine started")
}

// LogEngineStop logs engine shutdown.
func (el *EngineLogger) LogEngineStop(reason string) {
	el.WithFields(logrus.Fields{
		"event_type": "stop",
		"reason":     reason,
	}).Info("Engine stopped")
}
