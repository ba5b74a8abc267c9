// Package ev computes expected value and staking fractions for candidate
// quotes, optionally against a devigged market consensus.
package ev

import (
	"math"

	"github.com/yourusername/oddsedge/internal/devig"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	// Betting floors: all three must clear for a positive recommendation
	minEV        = 0.03
	minEdge      = 0.02
	minModelProb = 0.45

	// kellyFraction scales the full Kelly stake down to a conservative
	// quarter
	kellyFraction = 0.25
)

// ExpectedValue returns p*(odds-1) - (1-p) for a unit stake. The probability
// is clamped into [0,1]. Invalid odds return 0 rather than an error; callers
// that need to distinguish invalid input must validate upstream.
func ExpectedValue(prob, odds float64) float64 {
	if odds <= 1.0 || math.IsNaN(odds) {
		return 0
	}
	p := stats.Clamp(prob, 0.0, 1.0)
	return p*(odds-1.0) - (1.0 - p)
}

// WithDevig computes EV for the candidate quote using the devigged market
// price. Sibling quotes pricing the same (market, line, selection) are
// devigged together when at least two exist; the candidate's fair price is
// matched back by bookmaker and odds, falling back to position. With fewer
// than two siblings the raw quote is used as-is.
func WithDevig(quote *models.OddsQuote, siblings []*models.OddsQuote, modelProb float64, method devig.Method) models.EVResult {
	result := models.EVResult{
		ModelProb:    stats.Clamp(modelProb, 0.0, 1.0),
		OriginalOdds: quote.Odds,
		DeviggedOdds: quote.Odds,
	}

	matched := make([]*models.OddsQuote, 0, len(siblings)+1)
	candidateIdx := -1
	for _, s := range siblings {
		if s == nil || !s.SameLine(quote) {
			continue
		}
		if candidateIdx < 0 && s.Bookmaker == quote.Bookmaker && s.Odds == quote.Odds {
			candidateIdx = len(matched)
		}
		matched = append(matched, s)
	}
	if candidateIdx < 0 {
		candidateIdx = len(matched)
		matched = append(matched, quote)
	}

	if len(matched) >= 2 {
		odds := make([]float64, len(matched))
		for i, s := range matched {
			odds[i] = s.Odds
		}
		fair := devig.Devig(odds, method)
		if candidateIdx < len(fair) && fair[candidateIdx] > 1.0 {
			result.DeviggedOdds = fair[candidateIdx]
			result.DevigApplied = result.DeviggedOdds != quote.Odds
		}
	}

	result.EV = ExpectedValue(result.ModelProb, result.DeviggedOdds)
	result.EVPct = result.EV * 100.0
	if result.DeviggedOdds > 1.0 {
		result.ImpliedProb = 1.0 / result.DeviggedOdds
	}
	result.Edge = result.ModelProb - result.ImpliedProb

	return result
}

// Floors are the independent minimums a candidate must clear before its EV
// signal counts as a betting recommendation
type Floors struct {
	MinEV        float64
	MinEdge      float64
	MinModelProb float64
}

// DefaultFloors returns the stock betting floors
func DefaultFloors() Floors {
	return Floors{
		MinEV:        minEV,
		MinEdge:      minEdge,
		MinModelProb: minModelProb,
	}
}

// ShouldBet applies the three independent floors on EV, edge and model
// probability. All must pass.
func ShouldBet(result models.EVResult, floors Floors) bool {
	return result.EV >= floors.MinEV &&
		result.Edge >= floors.MinEdge &&
		result.ModelProb >= floors.MinModelProb
}

// Kelly returns the conservative quarter-Kelly stake fraction for the given
// probability and odds, clamped to [0,1]. Degenerate inputs stake nothing.
func Kelly(prob, odds float64) float64 {
	if odds <= 1.0 || prob <= 0.0 || prob >= 1.0 {
		return 0
	}
	full := (prob*odds - 1.0) / (odds - 1.0)
	return stats.Clamp(full*kellyFraction, 0.0, 1.0)
}
