// Package service ties the storage layer to the evaluation pipeline and
// exposes the workflows the scheduler drives.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/engine"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/repository"
)

const (
	// quoteLookback bounds which events count as active for an evaluation run
	quoteLookback = 15 * time.Minute
	openPicksCap  = 500
)

// EvaluationService assembles quote snapshots for active events, runs the
// evaluation pipeline over them and persists the resulting picks.
type EvaluationService struct {
	repos     *repository.Repositories
	evaluator *engine.Evaluator
	logger    *logrus.Logger
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(repos *repository.Repositories, evaluator *engine.Evaluator, logger *logrus.Logger) *EvaluationService {
	return &EvaluationService{
		repos:     repos,
		evaluator: evaluator,
		logger:    logger,
	}
}

// RunOnce evaluates every event with fresh quotes and stores the picks it
// produces. Per-event snapshot failures are logged and skipped so one bad
// event cannot sink the whole run.
func (s *EvaluationService) RunOnce(ctx context.Context) (*engine.Report, error) {
	since := time.Now().Add(-quoteLookback)

	events, err := s.repos.OddsHistory.GetEventsWithQuotesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active events: %w", err)
	}
	metrics.UpdateTrackedEvents(float64(len(events)))

	if len(events) == 0 {
		s.logger.Debug("No active events to evaluate")
		return &engine.Report{}, nil
	}

	var batch []*models.OddsQuote
	for _, eventID := range events {
		snapshot, err := s.repos.OddsHistory.GetSnapshot(ctx, eventID)
		if err != nil {
			s.logger.WithError(err).WithField("event_id", eventID).Error("Failed to load quote snapshot")
			continue
		}
		batch = append(batch, snapshot...)
	}

	report, err := s.evaluator.EvaluateBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	stored := s.storePicks(ctx, report.Picks)

	if open, err := s.repos.Pick.GetOpen(ctx, openPicksCap); err == nil {
		metrics.UpdateOpenPicks(float64(len(open)))
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":       report.RunID,
		"events":       len(events),
		"quotes":       report.QuotesScanned,
		"picks_stored": stored,
		"duration_ms":  report.Duration.Milliseconds(),
	}).Info("Evaluation run complete")

	return report, nil
}

// RunBatch evaluates an externally supplied quote batch and stores the
// resulting picks. Used for one-off passes over captured quote files.
func (s *EvaluationService) RunBatch(ctx context.Context, quotes []*models.OddsQuote) (*engine.Report, error) {
	report, err := s.evaluator.EvaluateBatch(ctx, quotes)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	stored := s.storePicks(ctx, report.Picks)

	s.logger.WithFields(logrus.Fields{
		"run_id":       report.RunID,
		"quotes":       report.QuotesScanned,
		"picks_stored": stored,
		"duration_ms":  report.Duration.Milliseconds(),
	}).Info("Batch evaluation complete")

	return report, nil
}

// storePicks persists picks individually so one failed insert cannot drop
// the rest of the run's output
func (s *EvaluationService) storePicks(ctx context.Context, picks []*models.Pick) int {
	stored := 0
	for _, pick := range picks {
		if err := s.repos.Pick.Create(ctx, pick); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"event_id": pick.EventID,
				"market":   pick.Market,
			}).Error("Failed to store pick")
			continue
		}
		stored++
	}
	return stored
}

// IngestQuotes stores a batch of captured quotes after validation. Invalid
// quotes are counted and dropped rather than failing the batch.
func (s *EvaluationService) IngestQuotes(ctx context.Context, quotes []*models.OddsQuote) (int, error) {
	valid := make([]*models.OddsQuote, 0, len(quotes))
	dropped := 0
	for _, q := range quotes {
		if q == nil || q.Validate() != nil {
			dropped++
			continue
		}
		valid = append(valid, q)
	}

	if dropped > 0 {
		s.logger.WithField("dropped", dropped).Warn("Dropped invalid quotes during ingestion")
	}
	if len(valid) == 0 {
		return 0, nil
	}

	if err := s.repos.OddsHistory.InsertBatch(ctx, valid); err != nil {
		return 0, fmt.Errorf("failed to store quotes: %w", err)
	}
	return len(valid), nil
}
