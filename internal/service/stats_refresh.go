package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/probability"
	"github.com/yourusername/oddsedge/internal/ratings"
	"github.com/yourusername/oddsedge/internal/repository"
)

const (
	staleStatsAge    = 24 * time.Hour
	staleStatsBatch  = 200
	statsWindowGames = 10
)

// RatingsWarmer preloads a sport's full ratings table into the cache
type RatingsWarmer interface {
	GetRatings(ctx context.Context, sport models.Sport) ([]*ratings.Rating, error)
}

// StatsRefreshService recomputes stale team statistics from stored game
// results and warms the tennis ratings cache ahead of the next evaluation tick.
type StatsRefreshService struct {
	repos      *repository.Repositories
	basketball *probability.BasketballEngine
	ratings    RatingsWarmer
	logger     *logrus.Logger
	modelLog   *logger.ModelLogger
}

// NewStatsRefreshService creates a stats refresh service. The ratings warmer
// may be nil when no ratings service is configured.
func NewStatsRefreshService(repos *repository.Repositories, basketball *probability.BasketballEngine, warmer RatingsWarmer, log *logrus.Logger) *StatsRefreshService {
	return &StatsRefreshService{
		repos:      repos,
		basketball: basketball,
		ratings:    warmer,
		logger:     log,
		modelLog:   logger.NewModelLogger(log),
	}
}

// Refresh drops the in-memory stats cache, recomputes every stale persisted
// team profile and warms the ratings cache
func (s *StatsRefreshService) Refresh(ctx context.Context) error {
	start := time.Now()

	if s.basketball != nil {
		s.basketball.ClearCache()
	}

	refreshed := 0
	if s.basketball != nil && s.repos != nil {
		stale, err := s.repos.TeamStats.GetStale(ctx, start.Add(-staleStatsAge), staleStatsBatch)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list stale team stats")
		} else {
			for _, old := range stale {
				ts, err := s.basketball.TeamStats(ctx, old.Team, old.League, statsWindowGames)
				if err != nil {
					s.logger.WithError(err).WithField("team", old.Team).Error("Failed to recompute team stats")
					continue
				}
				if err := s.repos.TeamStats.Upsert(ctx, &ts); err != nil {
					s.logger.WithError(err).WithField("team", old.Team).Error("Failed to store team stats")
					continue
				}
				refreshed++
			}
		}
	}

	if s.ratings != nil {
		fetchStart := time.Now()
		table, err := s.ratings.GetRatings(ctx, models.SportTennis)
		latency := time.Since(fetchStart)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to warm tennis ratings cache")
		} else {
			metrics.RecordRatingsFetchLatency(latency.Seconds())
			s.modelLog.LogRatingsFetch(string(models.SportTennis), len(table), false, float64(latency.Milliseconds()))
		}
	}

	duration := time.Since(start)
	metrics.RecordStatsRefresh(duration.Seconds())
	s.modelLog.LogStatsRefresh("all", refreshed, 0, float64(duration.Milliseconds()))

	return nil
}
