package probability

import (
	"context"
	"fmt"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	// minGamesRequired is the smallest sample the engine trusts before
	// falling back to league defaults
	minGamesRequired = 5
	// defaultLastNGames is the rolling window size
	defaultLastNGames = 10

	// attackWeight / defenseWeight split a side's expected points between
	// its own scoring and the opponent's points allowed
	attackWeight  = 0.6
	defenseWeight = 0.4

	statsCacheTTL     = 6 * time.Hour
	statsCacheCleanup = 30 * time.Minute

	resultsLookback = 60 * 24 * time.Hour
	formLookback    = 30 * 24 * time.Hour
)

// leagueDefaults are the fallback scoring profiles per league
var leagueDefaults = map[string]models.TeamStats{
	"NBA": {
		PointsMean:         112.0,
		PointsStd:          10.0,
		OpponentPointsMean: 112.0,
		OpponentPointsStd:  10.0,
		TotalMean:          224.0,
		TotalStd:           14.0,
	},
	"CBA": {
		PointsMean:         105.0,
		PointsStd:          12.0,
		OpponentPointsMean: 105.0,
		OpponentPointsStd:  12.0,
		TotalMean:          210.0,
		TotalStd:           16.0,
	},
	// 40-minute games score well below the NBA's 48
	"Euroleague": {
		PointsMean:         82.0,
		PointsStd:          9.0,
		OpponentPointsMean: 82.0,
		OpponentPointsStd:  9.0,
		TotalMean:          164.0,
		TotalStd:           12.0,
	},
}

// GameResultSource supplies completed fixtures for a team, newest first
type GameResultSource interface {
	RecentResults(ctx context.Context, team, league string, since time.Time, limit int) ([]*models.GameResult, error)
}

// BasketballEngine derives per-team scoring statistics from recent results
// and turns them into matchup total and spread estimates. Stats are cached
// with a multi-hour TTL since box scores only change a few times per day.
type BasketballEngine struct {
	source GameResultSource
	cache  *gocache.Cache
	logger *logrus.Logger
	now    func() time.Time
}

// NewBasketballEngine creates an engine backed by the given result source.
// A nil source is allowed; every lookup then uses league defaults.
func NewBasketballEngine(source GameResultSource, logger *logrus.Logger) *BasketballEngine {
	return &BasketballEngine{
		source: source,
		cache:  gocache.New(statsCacheTTL, statsCacheCleanup),
		logger: logger,
		now:    time.Now,
	}
}

// TeamStats returns rolling scoring statistics for a team over its last N
// completed games, falling back to league defaults below the minimum sample
func (e *BasketballEngine) TeamStats(ctx context.Context, team, league string, lastN int) (models.TeamStats, error) {
	if lastN <= 0 {
		lastN = defaultLastNGames
	}

	cacheKey := fmt.Sprintf("%s_%s_%d", team, league, lastN)
	if cached, ok := e.cache.Get(cacheKey); ok {
		metrics.RecordCacheLookup("team_stats", true)
		return cached.(models.TeamStats), nil
	}
	metrics.RecordCacheLookup("team_stats", false)

	if e.source == nil {
		return e.defaultStats(team, league), nil
	}

	results, err := e.source.RecentResults(ctx, team, league, e.now().Add(-resultsLookback), lastN)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"team":   team,
			"league": league,
		}).WithError(err).Error("Failed to load game results, using league defaults")
		return e.defaultStats(team, league), nil
	}

	if len(results) < minGamesRequired {
		e.logger.WithFields(logrus.Fields{
			"team":  team,
			"games": len(results),
		}).Warn("Insufficient game history, using league defaults")
		return e.defaultStats(team, league), nil
	}

	teamPoints := make([]float64, 0, len(results))
	oppPoints := make([]float64, 0, len(results))
	totals := make([]float64, 0, len(results))
	for _, g := range results {
		if g.HomeTeam == team {
			teamPoints = append(teamPoints, float64(g.HomeScore))
			oppPoints = append(oppPoints, float64(g.AwayScore))
		} else {
			teamPoints = append(teamPoints, float64(g.AwayScore))
			oppPoints = append(oppPoints, float64(g.HomeScore))
		}
		totals = append(totals, float64(g.Total()))
	}

	ts := models.TeamStats{
		Team:               team,
		League:             league,
		PointsMean:         stats.Mean(teamPoints),
		PointsStd:          stats.PopulationStd(teamPoints),
		OpponentPointsMean: stats.Mean(oppPoints),
		OpponentPointsStd:  stats.PopulationStd(oppPoints),
		TotalMean:          stats.Mean(totals),
		TotalStd:           stats.PopulationStd(totals),
		GamesAnalyzed:      len(results),
		LastUpdated:        e.now(),
		DataQuality:        assessDataQuality(len(results), lastN),
	}

	e.cache.Set(cacheKey, ts, gocache.DefaultExpiration)
	return ts, nil
}

// MatchupTotal estimates the mean and standard deviation of a fixture's
// combined score. Each side's expected points weight its own scoring against
// the opponent's points allowed; variances add.
func (e *BasketballEngine) MatchupTotal(ctx context.Context, home, away, league string, lastN int) (mean, std float64, quality models.DataQuality, err error) {
	homeStats, err := e.TeamStats(ctx, home, league, lastN)
	if err != nil {
		return 0, 0, models.DataQualityDefault, err
	}
	awayStats, err := e.TeamStats(ctx, away, league, lastN)
	if err != nil {
		return 0, 0, models.DataQualityDefault, err
	}

	homeExpected := homeStats.PointsMean*attackWeight + awayStats.OpponentPointsMean*defenseWeight
	awayExpected := awayStats.PointsMean*attackWeight + homeStats.OpponentPointsMean*defenseWeight

	mean = homeExpected + awayExpected
	std = combinedStd(homeStats.PointsStd, awayStats.PointsStd)

	return mean, std, worstQuality(homeStats.DataQuality, awayStats.DataQuality), nil
}

// SpreadResult carries a spread estimate for a fixture
type SpreadResult struct {
	HomeCover      float64 `json:"home_cover"`
	AwayCover      float64 `json:"away_cover"`
	ExpectedMargin float64 `json:"expected_margin"`
	MarginStd      float64 `json:"margin_std"`
}

// SpreadProbabilities estimates the chance the home side covers the given
// spread line. The margin distribution is normal with the combined variance
// of both teams' scoring; cover probability is P(margin > -|line|) evaluated
// at the line as quoted (home spread, negative when favoured).
func (e *BasketballEngine) SpreadProbabilities(ctx context.Context, home, away, league string, spreadLine float64, lastN int) (SpreadResult, error) {
	homeStats, err := e.TeamStats(ctx, home, league, lastN)
	if err != nil {
		return SpreadResult{}, err
	}
	awayStats, err := e.TeamStats(ctx, away, league, lastN)
	if err != nil {
		return SpreadResult{}, err
	}

	homeExpected := homeStats.PointsMean*attackWeight + awayStats.OpponentPointsMean*defenseWeight
	awayExpected := awayStats.PointsMean*attackWeight + homeStats.OpponentPointsMean*defenseWeight

	margin := homeExpected - awayExpected
	marginStd := combinedStd(homeStats.PointsStd, awayStats.PointsStd)

	homeCover := stats.ProbOverNormal(margin, marginStd, spreadLine)

	return SpreadResult{
		HomeCover:      homeCover,
		AwayCover:      1.0 - homeCover,
		ExpectedMargin: margin,
		MarginStd:      marginStd,
	}, nil
}

// RecentForm summarises the team's last few completed games
func (e *BasketballEngine) RecentForm(ctx context.Context, team, league string, lastN int) (models.RecentForm, error) {
	if lastN <= 0 {
		lastN = minGamesRequired
	}
	if e.source == nil {
		return models.RecentForm{Trend: models.FormTrendUnknown}, nil
	}

	results, err := e.source.RecentResults(ctx, team, league, e.now().Add(-formLookback), lastN)
	if err != nil {
		return models.RecentForm{Trend: models.FormTrendUnknown}, err
	}
	if len(results) == 0 {
		return models.RecentForm{Trend: models.FormTrendUnknown}, nil
	}

	wins := 0
	points := make([]float64, 0, len(results))
	allowed := make([]float64, 0, len(results))
	for _, g := range results {
		if g.WonBy(team) {
			wins++
		}
		if g.HomeTeam == team {
			points = append(points, float64(g.HomeScore))
			allowed = append(allowed, float64(g.AwayScore))
		} else {
			points = append(points, float64(g.AwayScore))
			allowed = append(allowed, float64(g.HomeScore))
		}
	}
	losses := len(results) - wins

	trend := models.FormTrendMixed
	switch {
	case wins >= 4:
		trend = models.FormTrendWinning
	case losses >= 4:
		trend = models.FormTrendLosing
	}

	return models.RecentForm{
		Wins:             wins,
		Losses:           losses,
		WinRate:          float64(wins) / float64(len(results)),
		AvgPoints:        stats.Mean(points),
		AvgPointsAllowed: stats.Mean(allowed),
		Trend:            trend,
		GamesAnalyzed:    len(results),
	}, nil
}

// ClearCache drops every cached team stat
func (e *BasketballEngine) ClearCache() {
	e.cache.Flush()
}

func (e *BasketballEngine) defaultStats(team, league string) models.TeamStats {
	defaults, ok := leagueDefaults[league]
	if !ok {
		defaults = leagueDefaults["NBA"]
	}
	defaults.Team = team
	defaults.League = league
	defaults.LastUpdated = e.now()
	defaults.DataQuality = models.DataQualityDefault
	return defaults
}

func assessDataQuality(found, requested int) models.DataQuality {
	ratio := float64(found) / float64(requested)
	switch {
	case ratio >= 0.8:
		return models.DataQualityHigh
	case ratio >= 0.5:
		return models.DataQualityMedium
	default:
		return models.DataQualityLow
	}
}

var qualityRank = map[models.DataQuality]int{
	models.DataQualityDefault: 0,
	models.DataQualityLow:     1,
	models.DataQualityMedium:  2,
	models.DataQualityHigh:    3,
}

// worstQuality returns the weaker of two data-quality grades; a matchup
// estimate is only as trustworthy as its least-covered team
func worstQuality(a, b models.DataQuality) models.DataQuality {
	if qualityRank[a] <= qualityRank[b] {
		return a
	}
	return b
}

func combinedStd(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
