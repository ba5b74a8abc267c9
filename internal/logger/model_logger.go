// Package logger provides model-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for probability model operations.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogEstimateRequest logs a probability estimate request.
func (ml *ModelLogger) LogEstimateRequest(sport, market string, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"sport":      sport,
		"market":     market,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Probability estimate request completed")
}

// LogStatsRefresh logs a team statistics refresh.
func (ml *ModelLogger) LogStatsRefresh(league string, teamsRefreshed int, gamesLoaded int, durationMs float64) {
	ml.WithFields(logrus.Fields{
		"league":          league,
		"teams_refreshed": teamsRefreshed,
		"games_loaded":    gamesLoaded,
		"duration_ms":     durationMs,
	}).Info("Team statistics refreshed")
}

// LogRatingsFetch logs a ratings service fetch.
func (ml *ModelLogger) LogRatingsFetch(sport string, playersFetched int, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"sport":           sport,
		"players_fetched": playersFetched,
		"cache_hit":       cacheHit,
		"latency_ms":      latencyMs,
	}).Info("Ratings fetched")
}

// LogDataQualityDowngrade logs an estimate that fell back to league defaults.
func (ml *ModelLogger) LogDataQualityDowngrade(team, league string, gamesAvailable, gamesRequired int) {
	ml.WithFields(logrus.Fields{
		"team":            team,
		"league":          league,
		"games_available": gamesAvailable,
		"games_required":  gamesRequired,
	}).Warn("Insufficient sample, using league defaults")
}

// LogEstimateError logs a probability estimate failure.
func (ml *ModelLogger) LogEstimateError(sport, market string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"sport":        sport,
		"market":       market,
		"error_reason": errorReason,
	}).Error("Probability estimate failed")
}
