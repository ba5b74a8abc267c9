// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickEmitted logs an emitted pick.
func (al *AuditLogger) LogPickEmitted(pickID, eventID, market, selection, pickType, action string, confidence, stakeFraction, odds float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"pick_id":        pickID,
		"event_id":       eventID,
		"market":         market,
		"selection":      selection,
		"pick_type":      pickType,
		"action":         action,
		"confidence":     confidence,
		"stake_fraction": stakeFraction,
		"odds":           odds,
		"timestamp":      timestamp.Unix(),
	}).Info("Pick emitted")
}

// LogPickSuppressed logs a candidate that was rejected by quality filtering.
func (al *AuditLogger) LogPickSuppressed(eventID, market, selection, reason string, qualityScore float64) {
	al.WithFields(logrus.Fields{
		"event_id":      eventID,
		"market":        market,
		"selection":     selection,
		"reason":        reason,
		"quality_score": qualityScore,
	}).Info("Pick suppressed")
}

// LogErrorAlert logs a suspected bookmaker pricing error.
func (al *AuditLogger) LogErrorAlert(eventID, bookmaker, market, errorType, recommendation string, confidence, actualOdds, expectedOdds float64) {
	al.WithFields(logrus.Fields{
		"event_id":       eventID,
		"bookmaker":      bookmaker,
		"market":         market,
		"error_type":     errorType,
		"recommendation": recommendation,
		"confidence":     confidence,
		"actual_odds":    actualOdds,
		"expected_odds":  expectedOdds,
	}).Warn("Bookmaker error alert recorded")
}

// LogThresholdChange logs engine threshold changes.
func (al *AuditLogger) LogThresholdChange(thresholdName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"threshold_name": thresholdName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Engine threshold changed")
}

// LogEmergencyShutdown logs emergency shutdown events with system state.
func (al *AuditLogger) LogEmergencyShutdown(reason string, systemState map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"reason":       reason,
		"system_state": systemState,
	}).Fatal("Emergency shutdown initiated")
}
