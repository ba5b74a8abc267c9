package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/probability"
	"github.com/yourusername/oddsedge/internal/ratings"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ptr(f float64) *float64 { return &f }

type stubResults struct {
	results map[string][]*models.GameResult
}

func (s *stubResults) RecentResults(ctx context.Context, team, league string, since time.Time, limit int) ([]*models.GameResult, error) {
	return s.results[team], nil
}

type stubRatings struct {
	ratings map[string]*ratings.Rating
}

func (s *stubRatings) GetRating(ctx context.Context, sport models.Sport, name string) (*ratings.Rating, error) {
	if r, ok := s.ratings[name]; ok {
		return r, nil
	}
	return nil, ratings.ErrRatingNotFound
}

type stubH2H struct {
	meetings []*models.GameResult
}

func (s *stubH2H) HeadToHead(ctx context.Context, homeTeam, awayTeam string, limit int) ([]*models.GameResult, error) {
	return s.meetings, nil
}

func footballQuote(market models.Market, selection models.Selection, line *float64) *models.OddsQuote {
	return &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Arsenal",
		Away:       "Chelsea",
		Sport:      models.SportFootball,
		League:     "Premier League",
		Market:     market,
		Line:       line,
		Selection:  selection,
		Bookmaker:  "pinnacle",
		Odds:       1.90,
		CapturedAt: time.Now(),
	}
}

func TestEstimateFootball1X2(t *testing.T) {
	e := NewEstimator(nil, nil, nil, testLogger())

	home, err := e.Estimate(context.Background(), footballQuote(models.Market1X2, models.SelectionHome, nil))
	require.NoError(t, err)
	draw, err := e.Estimate(context.Background(), footballQuote(models.Market1X2, models.SelectionDraw, nil))
	require.NoError(t, err)
	away, err := e.Estimate(context.Background(), footballQuote(models.Market1X2, models.SelectionAway, nil))
	require.NoError(t, err)

	// Home advantage shifts the distribution toward the hosts
	assert.Greater(t, home.Probability, away.Probability)
	assert.InDelta(t, 1.0, home.Probability+draw.Probability+away.Probability, 0.001)
}

func TestEstimateFootballTotalComplement(t *testing.T) {
	e := NewEstimator(nil, nil, nil, testLogger())

	over, err := e.Estimate(context.Background(), footballQuote(models.MarketTotal, models.SelectionOver, ptr(2.5)))
	require.NoError(t, err)
	under, err := e.Estimate(context.Background(), footballQuote(models.MarketTotal, models.SelectionUnder, ptr(2.5)))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, over.Probability+under.Probability, 1e-9)
	assert.True(t, over.Continuous)
}

func TestEstimateFootballBTTS(t *testing.T) {
	e := NewEstimator(nil, nil, nil, testLogger())

	yes, err := e.Estimate(context.Background(), footballQuote(models.MarketBTTS, models.SelectionYes, nil))
	require.NoError(t, err)
	no, err := e.Estimate(context.Background(), footballQuote(models.MarketBTTS, models.SelectionNo, nil))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, yes.Probability+no.Probability, 1e-9)
	assert.Greater(t, yes.Probability, 0.3)
	assert.Less(t, yes.Probability, 0.9)
}

func TestEstimateFootballUnknownLeague(t *testing.T) {
	e := NewEstimator(nil, nil, nil, testLogger())

	quote := footballQuote(models.Market1X2, models.SelectionHome, nil)
	quote.League = "Sunday League"

	_, err := e.Estimate(context.Background(), quote)
	assert.ErrorIs(t, err, models.ErrUnknownLeague)
}

func TestEstimateBasketballTotal(t *testing.T) {
	source := &stubResults{results: map[string][]*models.GameResult{}}
	for _, team := range []string{"Lakers", "Celtics"} {
		games := make([]*models.GameResult, 8)
		for i := range games {
			games[i] = &models.GameResult{
				Sport: models.SportBasketball, League: "NBA",
				HomeTeam: team, AwayTeam: "Opponent",
				HomeScore: 112 + i, AwayScore: 108,
				GameDate: time.Now().AddDate(0, 0, -i),
			}
		}
		source.results[team] = games
	}

	engine := probability.NewBasketballEngine(source, testLogger())
	e := NewEstimator(engine, nil, nil, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Lakers",
		Away:       "Celtics",
		Sport:      models.SportBasketball,
		League:     "NBA",
		Market:     models.MarketTotal,
		Line:       ptr(220.5),
		Selection:  models.SelectionOver,
		Bookmaker:  "pinnacle",
		Odds:       1.90,
		CapturedAt: time.Now(),
	}

	est, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	// Both sides project roughly 225 combined points, so over 220.5 is better than even
	assert.Greater(t, est.Probability, 0.5)
	assert.True(t, est.Continuous)
	assert.Equal(t, models.DataQualityHigh, est.DataQuality)
}

func TestEstimateBasketballMoneylineFromSpread(t *testing.T) {
	e := NewEstimator(probability.NewBasketballEngine(nil, testLogger()), nil, nil, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Lakers",
		Away:       "Celtics",
		Sport:      models.SportBasketball,
		League:     "NBA",
		Market:     models.MarketMoneyline,
		Selection:  models.SelectionHome,
		Bookmaker:  "pinnacle",
		Odds:       1.90,
		CapturedAt: time.Now(),
	}

	home, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	quote.Selection = models.SelectionAway
	away, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, home.Probability+away.Probability, 1e-9)
}

func TestEstimateTennisMoneylineFromElo(t *testing.T) {
	source := &stubRatings{ratings: map[string]*ratings.Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250},
		"Nobody95": {Name: "Nobody95", Elo: 2100},
	}}
	e := NewEstimator(nil, source, nil, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Djokovic",
		Away:       "Nobody95",
		Sport:      models.SportTennis,
		League:     "ATP",
		Market:     models.MarketMoneyline,
		Selection:  models.SelectionHome,
		Bookmaker:  "pinnacle",
		Odds:       1.35,
		CapturedAt: time.Now(),
	}

	est, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	// 150 ELO points at K=400 gives roughly 70% win probability
	assert.InDelta(t, 0.7047, est.Probability, 0.001)
	assert.Equal(t, models.DataQualityHigh, est.DataQuality)
}

func TestEstimateTennisHeadToHeadAdjustment(t *testing.T) {
	source := &stubRatings{ratings: map[string]*ratings.Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250},
		"Nobody95": {Name: "Nobody95", Elo: 2100},
	}}
	h2h := &stubH2H{}
	for i := 0; i < 4; i++ {
		h2h.meetings = append(h2h.meetings, &models.GameResult{
			Sport: models.SportTennis, League: "ATP",
			HomeTeam: "Djokovic", AwayTeam: "Nobody95",
			HomeScore: 2, AwayScore: 0,
			GameDate: time.Now().AddDate(0, -i, 0),
		})
	}
	e := NewEstimator(nil, source, h2h, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Djokovic",
		Away:       "Nobody95",
		Sport:      models.SportTennis,
		League:     "ATP",
		Market:     models.MarketMoneyline,
		Selection:  models.SelectionHome,
		Bookmaker:  "pinnacle",
		Odds:       1.30,
		CapturedAt: time.Now(),
	}

	est, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	// A 4-0 record pulls the 70% rating estimate toward the serial winner
	assert.InDelta(t, 0.749, est.Probability, 0.001)
	assert.Equal(t, models.DataQualityHigh, est.DataQuality)
}

func TestEstimateTennisUnratedFallsBackToEven(t *testing.T) {
	e := NewEstimator(nil, &stubRatings{ratings: map[string]*ratings.Rating{}}, nil, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Qualifier A",
		Away:       "Qualifier B",
		Sport:      models.SportTennis,
		League:     "ATP",
		Market:     models.MarketMoneyline,
		Selection:  models.SelectionHome,
		Bookmaker:  "pinnacle",
		Odds:       1.90,
		CapturedAt: time.Now(),
	}

	est, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)
	assert.Equal(t, 0.5, est.Probability)
	assert.Equal(t, models.DataQualityDefault, est.DataQuality)
}

func TestEstimateTennisSetHandicap(t *testing.T) {
	source := &stubRatings{ratings: map[string]*ratings.Rating{
		"Djokovic": {Name: "Djokovic", Elo: 2250},
		"Nobody95": {Name: "Nobody95", Elo: 2100},
	}}
	e := NewEstimator(nil, source, nil, testLogger())

	quote := &models.OddsQuote{
		EventID:    uuid.New(),
		Home:       "Djokovic",
		Away:       "Nobody95",
		Sport:      models.SportTennis,
		League:     "ATP",
		Market:     models.MarketSets,
		Line:       ptr(-1.5),
		Selection:  models.SelectionHome,
		Bookmaker:  "pinnacle",
		Odds:       2.10,
		CapturedAt: time.Now(),
	}

	est, err := e.Estimate(context.Background(), quote)
	require.NoError(t, err)

	// Winning -1.5 sets is strictly harder than winning the match
	assert.Less(t, est.Probability, 0.7047)
	assert.Greater(t, est.Probability, 0.0)
}

func TestEstimateUnknownSport(t *testing.T) {
	e := NewEstimator(nil, nil, nil, testLogger())

	quote := footballQuote(models.Market1X2, models.SelectionHome, nil)
	quote.Sport = models.Sport("cricket")

	_, err := e.Estimate(context.Background(), quote)
	assert.ErrorIs(t, err, models.ErrUnknownSport)
}
