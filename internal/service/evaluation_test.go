package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/engine"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/repository"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type stubOddsRepo struct {
	events    []uuid.UUID
	snapshots map[uuid.UUID][]*models.OddsQuote
	inserted  []*models.OddsQuote
}

func (s *stubOddsRepo) Insert(ctx context.Context, quote *models.OddsQuote) error {
	s.inserted = append(s.inserted, quote)
	return nil
}

func (s *stubOddsRepo) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	s.inserted = append(s.inserted, quotes...)
	return nil
}

func (s *stubOddsRepo) GetSnapshot(ctx context.Context, eventID uuid.UUID) ([]*models.OddsQuote, error) {
	return s.snapshots[eventID], nil
}

func (s *stubOddsRepo) GetHistory(ctx context.Context, quote *models.OddsQuote, start, end time.Time) ([]*models.OddsQuote, error) {
	return nil, nil
}

func (s *stubOddsRepo) GetLatest(ctx context.Context, eventID uuid.UUID, bookmaker string, market models.Market, selection models.Selection) (*models.OddsQuote, error) {
	return nil, models.ErrNotFound
}

func (s *stubOddsRepo) GetEventsWithQuotesSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	return s.events, nil
}

type stubPickRepo struct {
	created []*models.Pick
}

func (s *stubPickRepo) Create(ctx context.Context, pick *models.Pick) error {
	s.created = append(s.created, pick)
	return nil
}

func (s *stubPickRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	return nil, models.ErrNotFound
}

func (s *stubPickRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Pick, error) {
	return nil, nil
}

func (s *stubPickRepo) GetOpen(ctx context.Context, limit int) ([]*models.Pick, error) {
	return s.created, nil
}

func (s *stubPickRepo) GetRecent(ctx context.Context, since time.Time, limit int) ([]*models.Pick, error) {
	return s.created, nil
}

func (s *stubPickRepo) Settle(ctx context.Context, id uuid.UUID, profit decimal.Decimal, settledAt time.Time) error {
	return models.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			DevigMethod:          "multiplicative",
			MinEV:                0.03,
			MinEdge:              0.02,
			MinModelProbability:  0.45,
			ErrorReportThreshold: 0.7,
			StatsWindowGames:     10,
		},
		Quality: config.QualityConfig{
			MinBookmakers: 3,
			MinScore:      0.70,
			VolumeFloor:   5,
		},
	}
}

func newTestService(oddsRepo *stubOddsRepo, pickRepo *stubPickRepo) *EvaluationService {
	log := testLogger()
	repos := &repository.Repositories{
		OddsHistory: oddsRepo,
		Pick:        pickRepo,
	}
	evaluator := engine.NewEvaluator(testConfig(), engine.NewEstimator(nil, nil, nil, log), oddsRepo, log)
	return NewEvaluationService(repos, evaluator, log)
}

func arbSnapshot(eventID uuid.UUID) []*models.OddsQuote {
	line := 220.5
	mk := func(bookmaker string, selection models.Selection) *models.OddsQuote {
		l := line
		return &models.OddsQuote{
			EventID:    eventID,
			Home:       "Lakers",
			Away:       "Celtics",
			Sport:      models.SportBasketball,
			League:     "NBA",
			Market:     models.MarketTotal,
			Line:       &l,
			Selection:  selection,
			Bookmaker:  bookmaker,
			Odds:       2.10,
			CapturedAt: time.Now(),
		}
	}
	return []*models.OddsQuote{
		mk("pinnacle", models.SelectionOver),
		mk("bet365", models.SelectionUnder),
	}
}

func TestRunOnceStoresPicks(t *testing.T) {
	eventID := uuid.New()
	oddsRepo := &stubOddsRepo{
		events:    []uuid.UUID{eventID},
		snapshots: map[uuid.UUID][]*models.OddsQuote{eventID: arbSnapshot(eventID)},
	}
	pickRepo := &stubPickRepo{}
	svc := newTestService(oddsRepo, pickRepo)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.QuotesScanned)
	require.Len(t, pickRepo.created, 2)
	for _, pick := range pickRepo.created {
		assert.Equal(t, models.PickTypeArbitrage, pick.Type)
		assert.Equal(t, eventID, pick.EventID)
	}
}

func TestRunBatchStoresPicks(t *testing.T) {
	oddsRepo := &stubOddsRepo{snapshots: map[uuid.UUID][]*models.OddsQuote{}}
	pickRepo := &stubPickRepo{}
	svc := newTestService(oddsRepo, pickRepo)

	report, err := svc.RunBatch(context.Background(), arbSnapshot(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, 2, report.QuotesScanned)
	assert.Len(t, pickRepo.created, 2)
}

func TestRunOnceNoActiveEvents(t *testing.T) {
	oddsRepo := &stubOddsRepo{snapshots: map[uuid.UUID][]*models.OddsQuote{}}
	pickRepo := &stubPickRepo{}
	svc := newTestService(oddsRepo, pickRepo)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.QuotesScanned)
	assert.Empty(t, pickRepo.created)
}

func TestIngestQuotesDropsInvalid(t *testing.T) {
	oddsRepo := &stubOddsRepo{snapshots: map[uuid.UUID][]*models.OddsQuote{}}
	svc := newTestService(oddsRepo, &stubPickRepo{})

	eventID := uuid.New()
	valid := arbSnapshot(eventID)
	bad := arbSnapshot(eventID)[0]
	bad.Odds = 0.5

	stored, err := svc.IngestQuotes(context.Background(), append(valid, bad, nil))
	require.NoError(t, err)

	assert.Equal(t, 2, stored)
	assert.Len(t, oddsRepo.inserted, 2)
}
