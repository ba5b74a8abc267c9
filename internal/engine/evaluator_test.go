package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/models"
)

func testEvaluatorConfig() *config.Config {
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

func newTestEvaluator() *Evaluator {
	log := testLogger()
	return NewEvaluator(testEvaluatorConfig(), NewEstimator(nil, nil, nil, log), nil, log)
}

func totalQuote(eventID uuid.UUID, sport models.Sport, league, bookmaker string, selection models.Selection, line, odds float64) *models.OddsQuote {
	return &models.OddsQuote{
		EventID:    eventID,
		Home:       "Home Side",
		Away:       "Away Side",
		Sport:      sport,
		League:     league,
		Market:     models.MarketTotal,
		Line:       &line,
		Selection:  selection,
		Bookmaker:  bookmaker,
		Odds:       odds,
		CapturedAt: time.Now(),
	}
}

func TestEvaluateBatchEmpty(t *testing.T) {
	e := newTestEvaluator()

	report, err := e.EvaluateBatch(context.Background(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Zero(t, report.QuotesScanned)
	assert.Empty(t, report.Picks)
}

func TestEvaluateBatchNoSignals(t *testing.T) {
	e := newTestEvaluator()
	eventID := uuid.New()

	// Fairly priced two-way market with no outliers
	batch := []*models.OddsQuote{
		totalQuote(eventID, models.SportFootball, "Premier League", "pinnacle", models.SelectionOver, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "bet365", models.SelectionOver, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "betfair", models.SelectionOver, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "pinnacle", models.SelectionUnder, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "bet365", models.SelectionUnder, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "betfair", models.SelectionUnder, 2.5, 1.90),
	}

	report, err := e.EvaluateBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 6, report.QuotesScanned)
	assert.Zero(t, report.AnomaliesFlagged)
	assert.Zero(t, report.ErrorsFlagged)
	assert.Zero(t, report.Arbitrages)
	assert.Empty(t, report.Picks)
}

func homeWinQuote(eventID uuid.UUID, league, bookmaker string, odds float64) *models.OddsQuote {
	return &models.OddsQuote{
		EventID:    eventID,
		Home:       "Home Side",
		Away:       "Away Side",
		Sport:      models.SportFootball,
		League:     league,
		Market:     models.Market1X2,
		Selection:  models.SelectionHome,
		Bookmaker:  bookmaker,
		Odds:       odds,
		CapturedAt: time.Now(),
	}
}

func TestEvaluateBatchLeagueEVFloor(t *testing.T) {
	e := newTestEvaluator()

	// Liga Colombiana gates 1X2 at 6% EV. The model edge here is about
	// 4.5%, above the engine's global 3% floor but below the league's.
	thin := uuid.New()
	report, err := e.EvaluateBatch(context.Background(), []*models.OddsQuote{
		homeWinQuote(thin, "Liga Colombiana", "pinnacle", 1.93),
		homeWinQuote(thin, "Liga Colombiana", "bet365", 1.93),
		homeWinQuote(thin, "Liga Colombiana", "betplay", 1.93),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Picks, "sub-floor EV in a thin league must not emit picks")

	// A comparable edge clears the Premier League's 4% floor
	liquid := uuid.New()
	report, err = e.EvaluateBatch(context.Background(), []*models.OddsQuote{
		homeWinQuote(liquid, "Premier League", "pinnacle", 1.96),
		homeWinQuote(liquid, "Premier League", "bet365", 1.96),
		homeWinQuote(liquid, "Premier League", "betfair", 1.96),
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.Picks)
	for _, pick := range report.Picks {
		assert.Equal(t, models.PickTypeModel, pick.Type)
		assert.Greater(t, pick.EV, 0.04)
	}
}

func TestEvaluateBatchArbitrage(t *testing.T) {
	e := newTestEvaluator()
	eventID := uuid.New()

	// Best prices across books imply a combined probability below one
	batch := []*models.OddsQuote{
		totalQuote(eventID, models.SportBasketball, "NBA", "pinnacle", models.SelectionOver, 220.5, 2.10),
		totalQuote(eventID, models.SportBasketball, "NBA", "bet365", models.SelectionUnder, 220.5, 2.10),
	}

	report, err := e.EvaluateBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Arbitrages)
	require.Len(t, report.Picks, 2)
	for _, pick := range report.Picks {
		assert.Equal(t, models.PickTypeArbitrage, pick.Type)
		assert.Equal(t, models.PriorityCritical, pick.Priority)
		assert.Equal(t, models.ActionBetNow, pick.Action)
		assert.Equal(t, eventID, pick.EventID)
	}
}

func TestEvaluateBatchErrorPick(t *testing.T) {
	e := newTestEvaluator()
	eventID := uuid.New()

	// Four books agree near 1.90; one is off by more than four sigma
	batch := []*models.OddsQuote{
		totalQuote(eventID, models.SportFootball, "Premier League", "pinnacle", models.SelectionOver, 2.5, 1.90),
		totalQuote(eventID, models.SportFootball, "Premier League", "bet365", models.SelectionOver, 2.5, 1.92),
		totalQuote(eventID, models.SportFootball, "Premier League", "betfair", models.SelectionOver, 2.5, 1.88),
		totalQuote(eventID, models.SportFootball, "Premier League", "williamhill", models.SelectionOver, 2.5, 1.91),
		totalQuote(eventID, models.SportFootball, "Premier League", "codere", models.SelectionOver, 2.5, 3.80),
	}

	report, err := e.EvaluateBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, report.ErrorsFlagged)
	require.Len(t, report.Picks, 1)

	pick := report.Picks[0]
	assert.Equal(t, models.PickTypeError, pick.Type)
	assert.Equal(t, models.PriorityCritical, pick.Priority)
	assert.Equal(t, models.ActionBetNow, pick.Action)
	assert.Equal(t, "codere", pick.Bookmaker)
	assert.Greater(t, pick.Confidence, 0.7)
	assert.Equal(t, models.PickStatusOpen, pick.Status)
	assert.NotEmpty(t, pick.Reasoning)
}

func TestEvaluateBatchAnomalyPick(t *testing.T) {
	e := newTestEvaluator()
	eventID := uuid.New()

	// Seven books at identical odds keep the market std tight enough for a
	// single outlier to clear the z threshold
	books := []string{"pinnacle", "bet365", "betfair", "williamhill", "unibet", "bwin", "betsson"}
	var batch []*models.OddsQuote
	for _, book := range books {
		batch = append(batch, totalQuote(eventID, models.SportBasketball, "NBA", book, models.SelectionUnder, 220.5, 1.90))
	}
	batch = append(batch, totalQuote(eventID, models.SportBasketball, "NBA", "codere", models.SelectionUnder, 220.5, 2.60))

	report, err := e.EvaluateBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, report.AnomaliesFlagged)
	require.Len(t, report.Picks, 1)

	pick := report.Picks[0]
	assert.Equal(t, models.PickTypeAnomaly, pick.Type)
	assert.Equal(t, models.ActionMonitor, pick.Action)
	assert.Equal(t, "codere", pick.Bookmaker)
	assert.InDelta(t, -2.47, pick.ZScore, 0.05)
}

func TestEvaluateBatchKellyCappedByClassification(t *testing.T) {
	e := newTestEvaluator()
	eventID := uuid.New()

	batch := []*models.OddsQuote{
		totalQuote(eventID, models.SportBasketball, "NBA", "pinnacle", models.SelectionOver, 220.5, 2.10),
		totalQuote(eventID, models.SportBasketball, "NBA", "bet365", models.SelectionUnder, 220.5, 2.10),
	}

	report, err := e.EvaluateBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, report.Picks, 2)

	for _, pick := range report.Picks {
		assert.Greater(t, pick.KellyFraction, 0.0)
		assert.LessOrEqual(t, pick.KellyFraction, 1.0)
	}
}

func TestEvaluateBatchSkipsInvalidQuotes(t *testing.T) {
	e := newTestEvaluator()

	bad := totalQuote(uuid.New(), models.SportFootball, "Premier League", "pinnacle", models.SelectionOver, 2.5, 0.95)

	report, err := e.EvaluateBatch(context.Background(), []*models.OddsQuote{bad, nil})
	require.NoError(t, err)

	assert.Equal(t, 2, report.QuotesScanned)
	assert.Empty(t, report.Picks)
}
