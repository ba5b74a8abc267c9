// Package engine orchestrates the evaluation pipeline from raw quote
// batches to classified picks.
package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/probability"
	"github.com/yourusername/oddsedge/internal/ratings"
	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	homeAdvantageFactor = 1.15
	statsLastN          = 10
	h2hLastN            = 10
	grandSlamSets       = 5
	defaultSets         = 3
)

// RatingSource provides player ratings for tennis estimates
type RatingSource interface {
	GetRating(ctx context.Context, sport models.Sport, name string) (*ratings.Rating, error)
}

// HeadToHeadSource supplies prior meetings between the two sides of a quote
type HeadToHeadSource interface {
	HeadToHead(ctx context.Context, homeTeam, awayTeam string, limit int) ([]*models.GameResult, error)
}

// Estimator produces fair-value probability estimates for quotes by routing
// each to its sport's model
type Estimator struct {
	basketball *probability.BasketballEngine
	ratings    RatingSource
	headToHead HeadToHeadSource
	logger     *logrus.Logger
}

// NewEstimator creates an estimator. The basketball engine, rating source and
// head-to-head source may each be nil; affected estimates then fall back to
// league baselines or skip the corresponding adjustment.
func NewEstimator(basketball *probability.BasketballEngine, ratingSource RatingSource, h2h HeadToHeadSource, logger *logrus.Logger) *Estimator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Estimator{
		basketball: basketball,
		ratings:    ratingSource,
		headToHead: h2h,
		logger:     logger,
	}
}

// Estimate returns the model's fair-value estimate for the quoted outcome
func (e *Estimator) Estimate(ctx context.Context, quote *models.OddsQuote) (models.FairValueEstimate, error) {
	switch quote.Sport {
	case models.SportBasketball:
		return e.estimateBasketball(ctx, quote)
	case models.SportFootball:
		return e.estimateFootball(quote)
	case models.SportTennis:
		return e.estimateTennis(ctx, quote)
	}
	return models.FairValueEstimate{}, fmt.Errorf("%w: %s", models.ErrUnknownSport, quote.Sport)
}

func (e *Estimator) estimateBasketball(ctx context.Context, quote *models.OddsQuote) (models.FairValueEstimate, error) {
	if e.basketball == nil {
		return e.baselineEstimate(quote)
	}

	switch quote.Market {
	case models.MarketTotal:
		if quote.Line == nil {
			return models.FairValueEstimate{}, fmt.Errorf("%w: total without line", models.ErrInvalidLine)
		}
		mean, std, dq, err := e.basketball.MatchupTotal(ctx, quote.Home, quote.Away, quote.League, statsLastN)
		if err != nil {
			return models.FairValueEstimate{}, err
		}
		prob := stats.ProbOverNormal(mean, std, *quote.Line)
		if quote.Selection == models.SelectionUnder {
			prob = 1 - prob
		}
		return models.FairValueEstimate{
			Probability: prob,
			Mean:        mean,
			Std:         std,
			Continuous:  true,
			DataQuality: dq,
		}, nil

	case models.MarketSpread:
		if quote.Line == nil {
			return models.FairValueEstimate{}, fmt.Errorf("%w: spread without line", models.ErrInvalidLine)
		}
		spread, err := e.basketball.SpreadProbabilities(ctx, quote.Home, quote.Away, quote.League, *quote.Line, statsLastN)
		if err != nil {
			return models.FairValueEstimate{}, err
		}
		prob := spread.HomeCover
		if quote.Selection == models.SelectionAway {
			prob = spread.AwayCover
		}
		return models.FairValueEstimate{
			Probability: prob,
			Mean:        spread.ExpectedMargin,
			Std:         spread.MarginStd,
			Continuous:  true,
			DataQuality: models.DataQualityMedium,
		}, nil

	case models.MarketMoneyline:
		// Moneyline is the spread market evaluated at zero points
		spread, err := e.basketball.SpreadProbabilities(ctx, quote.Home, quote.Away, quote.League, 0, statsLastN)
		if err != nil {
			return models.FairValueEstimate{}, err
		}
		prob := spread.HomeCover
		if quote.Selection == models.SelectionAway {
			prob = spread.AwayCover
		}
		return models.FairValueEstimate{
			Probability: prob,
			DataQuality: models.DataQualityMedium,
		}, nil
	}

	return e.baselineEstimate(quote)
}

func (e *Estimator) estimateFootball(quote *models.OddsQuote) (models.FairValueEstimate, error) {
	baseline, err := config.SportBaseline(models.SportFootball, quote.League, "goals")
	if err != nil {
		return models.FairValueEstimate{}, err
	}

	lambdaHome, lambdaAway := probability.AdjustLambdaHomeAdvantage(
		baseline.LambdaHome, baseline.LambdaAway, homeAdvantageFactor,
	)

	switch quote.Market {
	case models.Market1X2:
		match := probability.PoissonMatchProbabilities(lambdaHome, lambdaAway, 0)
		var prob float64
		switch quote.Selection {
		case models.SelectionHome:
			prob = match.Home
		case models.SelectionDraw:
			prob = match.Draw
		case models.SelectionAway:
			prob = match.Away
		default:
			return models.FairValueEstimate{}, fmt.Errorf("%w: %s for 1X2", models.ErrMissingSelection, quote.Selection)
		}
		return models.FairValueEstimate{Probability: prob, DataQuality: models.DataQualityMedium}, nil

	case models.MarketTotal:
		if quote.Line == nil {
			return models.FairValueEstimate{}, fmt.Errorf("%w: total without line", models.ErrInvalidLine)
		}
		prob := probability.ProbOverGoals(lambdaHome, lambdaAway, *quote.Line)
		if quote.Selection == models.SelectionUnder {
			prob = 1 - prob
		}
		return models.FairValueEstimate{
			Probability: prob,
			Mean:        lambdaHome + lambdaAway,
			Continuous:  true,
			DataQuality: models.DataQualityMedium,
		}, nil

	case models.MarketBTTS:
		prob := probability.ProbBTTS(lambdaHome, lambdaAway)
		if quote.Selection == models.SelectionNo {
			prob = 1 - prob
		}
		return models.FairValueEstimate{Probability: prob, DataQuality: models.DataQualityMedium}, nil
	}

	return e.baselineEstimate(quote)
}

func (e *Estimator) estimateTennis(ctx context.Context, quote *models.OddsQuote) (models.FairValueEstimate, error) {
	winProb, dq := e.tennisWinProbability(ctx, quote)

	sets := defaultSets
	if quote.League == "Grand Slam" {
		sets = grandSlamSets
	}

	switch quote.Market {
	case models.MarketMoneyline:
		prob := winProb
		if quote.Selection == models.SelectionAway {
			prob = 1 - winProb
		}
		return models.FairValueEstimate{Probability: prob, DataQuality: dq}, nil

	case models.MarketTotal:
		if quote.Line == nil {
			return models.FairValueEstimate{}, fmt.Errorf("%w: total without line", models.ErrInvalidLine)
		}
		mu, sigma := probability.EstimateGamesDistribution(winProb, sets)
		prob := probability.ProbOverGames(mu, sigma, *quote.Line)
		if quote.Selection == models.SelectionUnder {
			prob = probability.ProbUnderGames(mu, sigma, *quote.Line)
		}
		return models.FairValueEstimate{
			Probability: prob,
			Mean:        mu,
			Std:         sigma,
			Continuous:  true,
			DataQuality: dq,
		}, nil

	case models.MarketSets:
		if quote.Line == nil {
			return models.FairValueEstimate{}, fmt.Errorf("%w: set handicap without line", models.ErrInvalidLine)
		}
		p := winProb
		handicap := *quote.Line
		if quote.Selection == models.SelectionAway {
			p = 1 - winProb
		}
		prob := probability.ProbSetHandicap(p, handicap, sets)
		return models.FairValueEstimate{Probability: prob, DataQuality: dq}, nil
	}

	return e.baselineEstimate(quote)
}

// tennisWinProbability derives the home player's win probability from ELO
// ratings. Unrated matchups are treated as even money at DEFAULT quality.
func (e *Estimator) tennisWinProbability(ctx context.Context, quote *models.OddsQuote) (float64, models.DataQuality) {
	if e.ratings == nil {
		return 0.5, models.DataQualityDefault
	}

	homeRating, err := e.ratings.GetRating(ctx, models.SportTennis, quote.Home)
	if err != nil {
		e.logger.WithError(err).WithField("player", quote.Home).Debug("No rating for player")
		return 0.5, models.DataQualityDefault
	}
	awayRating, err := e.ratings.GetRating(ctx, models.SportTennis, quote.Away)
	if err != nil {
		e.logger.WithError(err).WithField("player", quote.Away).Debug("No rating for player")
		return 0.5, models.DataQualityDefault
	}

	homeElo := homeRating.Elo
	if homeElo == 0 && homeRating.Rank > 0 {
		homeElo = probability.EstimateEloFromRanking(homeRating.Rank)
	}
	awayElo := awayRating.Elo
	if awayElo == 0 && awayRating.Rank > 0 {
		awayElo = probability.EstimateEloFromRanking(awayRating.Rank)
	}

	prob := probability.EloWinProbability(homeElo, awayElo)
	return e.adjustTennisH2H(ctx, quote, prob), models.DataQualityHigh
}

// adjustTennisH2H blends the rating-based probability with the players'
// recorded meetings. Without a source or a record the probability is
// returned unchanged.
func (e *Estimator) adjustTennisH2H(ctx context.Context, quote *models.OddsQuote, prob float64) float64 {
	if e.headToHead == nil {
		return prob
	}
	meetings, err := e.headToHead.HeadToHead(ctx, quote.Home, quote.Away, h2hLastN)
	if err != nil {
		e.logger.WithError(err).WithField("event", quote.Event()).Debug("No head-to-head record")
		return prob
	}
	wins, losses := 0, 0
	for _, m := range meetings {
		if m == nil {
			continue
		}
		if m.WonBy(quote.Home) {
			wins++
		} else {
			losses++
		}
	}
	return probability.AdjustForH2H(prob, wins, losses)
}

// baselineEstimate falls back to the configured league baseline for markets
// without a dedicated model
func (e *Estimator) baselineEstimate(quote *models.OddsQuote) (models.FairValueEstimate, error) {
	baseline, err := config.SportBaseline(quote.Sport, quote.League, string(quote.Market))
	if err != nil {
		return models.FairValueEstimate{}, err
	}

	est := models.FairValueEstimate{DataQuality: models.DataQualityDefault}
	switch {
	case baseline.ProbBaseline > 0:
		est.Probability = baseline.ProbBaseline
		if quote.Selection == models.SelectionNo || quote.Selection == models.SelectionUnder {
			est.Probability = 1 - baseline.ProbBaseline
		}
	case baseline.Mu > 0 && quote.Line != nil:
		est.Mean = baseline.Mu
		est.Std = baseline.Sigma
		est.Continuous = true
		est.Probability = stats.ProbOverNormal(baseline.Mu, baseline.Sigma, *quote.Line)
		if quote.Selection == models.SelectionUnder {
			est.Probability = 1 - est.Probability
		}
	default:
		est.Probability = quote.ImpliedProbability()
	}

	return est, nil
}
