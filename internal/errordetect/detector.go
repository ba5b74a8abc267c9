// Package errordetect decides whether a single bookmaker quote is a pricing
// error by fusing market deviation, historical deviation and cross-market
// consistency signals.
package errordetect

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	// sigmaError marks a deviation worth investigating
	sigmaError = 3.0
	// sigmaCritical marks a near-certain pricing error
	sigmaCritical = 4.0

	historicalDeviationThreshold = 0.30
	minMarketSample              = 3
	minHistoricalSample          = 5

	// Signal fusion weights. Hand-tuned; kept as named constants so they
	// can be recalibrated once settled-bet data accumulates.
	weightCriticalDeviation    = 0.6
	weightSignificantDeviation = 0.35
	weightHistoricalConfirmed  = 0.25
	weightHistoricalWeak       = 0.05
	weightInconsistency        = 0.15
)

// Detector evaluates pricing-error verdicts for individual quotes
type Detector struct {
	logger *logrus.Logger
}

// NewDetector creates a pricing-error detector
func NewDetector(logger *logrus.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect decides whether the candidate quote is a pricing error given the
// full market snapshot and optional prior captures of the same market.
func (d *Detector) Detect(quote *models.OddsQuote, snapshot []*models.OddsQuote, historical []*models.OddsQuote) models.ErrorVerdict {
	verdict := models.ErrorVerdict{
		ErrorType:  models.ErrorTypeNone,
		Action:     models.ErrorActionSkip,
		ActualOdds: quote.Odds,
	}

	if err := quote.Validate(); err != nil {
		verdict.Reasoning = append(verdict.Reasoning, "invalid quote: "+err.Error())
		return verdict
	}

	market := analyzeMarketDeviation(quote, snapshot)
	verdict.Market = market
	if !market.Valid {
		verdict.Reasoning = append(verdict.Reasoning, "insufficient market data for statistical analysis")
		return verdict
	}

	verdict.ExpectedOdds = market.MarketMean
	verdict.DeviationSigmas = market.DeviationSigmas

	var hist *models.HistoricalDeviation
	if len(historical) > 0 {
		h := analyzeHistoricalDeviation(quote, historical)
		hist = &h
		verdict.Historical = hist
	}

	consistency := checkMarketConsistency(quote, snapshot)
	verdict.Consistency = consistency

	confidence := fuseSignals(market.DeviationSigmas, hist, consistency, &verdict)

	switch {
	case market.DeviationSigmas >= sigmaCritical:
		verdict.IsError = true
		switch {
		case quote.Odds > market.MarketMean*1.5:
			verdict.ErrorType = models.ErrorTypeHuman
			verdict.Action = models.ErrorActionBetImmediately
			verdict.Reasoning = append(verdict.Reasoning, "odds far above market consensus, likely manual entry error")
		case quote.Odds < market.MarketMean*0.7:
			verdict.ErrorType = models.ErrorTypeSystem
			verdict.Action = models.ErrorActionSkip
			verdict.Reasoning = append(verdict.Reasoning, "odds far below market consensus, likely feed error")
		default:
			verdict.ErrorType = models.ErrorTypeLateUpdate
			verdict.Action = models.ErrorActionMonitor
			verdict.Reasoning = append(verdict.Reasoning, "critical deviation within plausible range, possibly a stale price")
		}

	case market.DeviationSigmas >= sigmaError:
		if hist != nil && hist.Valid && hist.SignificantDeviation {
			verdict.IsError = true
			verdict.ErrorType = models.ErrorTypeHuman
			if quote.Odds > market.MarketMean {
				verdict.Action = models.ErrorActionBetImmediately
			} else {
				verdict.Action = models.ErrorActionSkip
			}
			verdict.Reasoning = append(verdict.Reasoning, "significant deviation confirmed by price history")
		} else {
			verdict.Action = models.ErrorActionMonitor
			verdict.Reasoning = append(verdict.Reasoning, "significant deviation without historical confirmation")
		}

	default:
		if consistency.Inconsistent {
			confidence = math.Max(confidence, 0.2)
			verdict.Action = models.ErrorActionMonitor
			verdict.Reasoning = append(verdict.Reasoning, "related-market inconsistency detected")
		}
	}

	if verdict.IsError {
		confidence = math.Max(confidence, 0.6)
		if market.DeviationSigmas >= sigmaCritical {
			confidence = math.Max(confidence, 0.8)
		}
	}
	verdict.Confidence = stats.Clamp(confidence, 0.0, 1.0)

	verdict.Reasoning = append(verdict.Reasoning,
		fmt.Sprintf("deviation: %.2fσ", market.DeviationSigmas),
		fmt.Sprintf("market mean %.3f, actual %.3f", market.MarketMean, quote.Odds),
	)

	if verdict.IsError {
		d.logger.WithFields(logrus.Fields{
			"event":      quote.Event(),
			"bookmaker":  quote.Bookmaker,
			"odds":       quote.Odds,
			"error_type": verdict.ErrorType,
			"confidence": verdict.Confidence,
			"action":     verdict.Action,
		}).Warn("Pricing error detected")
	}

	return verdict
}

// ScanAll evaluates every quote in the snapshot and returns the verdicts that
// are flagged as errors with confidence above the reporting threshold.
func (d *Detector) ScanAll(snapshot []*models.OddsQuote, historical []*models.OddsQuote) map[*models.OddsQuote]models.ErrorVerdict {
	flagged := make(map[*models.OddsQuote]models.ErrorVerdict)
	for _, q := range snapshot {
		if q == nil {
			continue
		}
		verdict := d.Detect(q, snapshot, historical)
		if verdict.IsError && verdict.Confidence > 0.7 {
			flagged[q] = verdict
		}
	}
	return flagged
}

func fuseSignals(sigmas float64, hist *models.HistoricalDeviation, consistency models.ConsistencyCheck, verdict *models.ErrorVerdict) float64 {
	confidence := 0.0

	switch {
	case sigmas >= sigmaCritical:
		confidence += weightCriticalDeviation
	case sigmas >= sigmaError:
		confidence += weightSignificantDeviation
	}

	if hist != nil && hist.Valid {
		if hist.SignificantDeviation {
			confidence += weightHistoricalConfirmed
		} else {
			confidence += weightHistoricalWeak
		}
	}

	if consistency.Inconsistent {
		confidence += weightInconsistency
		verdict.Reasoning = append(verdict.Reasoning, consistency.Inconsistencies...)
	}

	return math.Min(confidence, 1.0)
}

func analyzeMarketDeviation(quote *models.OddsQuote, snapshot []*models.OddsQuote) models.MarketDeviation {
	var odds []float64
	for _, o := range snapshot {
		if o == nil || o.Bookmaker == quote.Bookmaker {
			continue
		}
		if o.SameLine(quote) && !math.IsNaN(o.Odds) {
			odds = append(odds, o.Odds)
		}
	}

	if len(odds) < minMarketSample {
		return models.MarketDeviation{}
	}

	mean := stats.Mean(odds)
	std := stats.SampleStd(odds)
	if std == 0 || math.IsNaN(std) {
		return models.MarketDeviation{}
	}

	return models.MarketDeviation{
		Valid:           true,
		MarketMean:      mean,
		MarketStd:       std,
		MarketMin:       stats.Min(odds),
		MarketMax:       stats.Max(odds),
		DeviationSigmas: math.Abs(quote.Odds-mean) / std,
		SampleSize:      len(odds),
	}
}

func analyzeHistoricalDeviation(quote *models.OddsQuote, historical []*models.OddsQuote) models.HistoricalDeviation {
	var odds []float64
	for _, h := range historical {
		if h == nil || math.IsNaN(h.Odds) {
			continue
		}
		if h.SameLine(quote) {
			odds = append(odds, h.Odds)
		}
	}

	if len(odds) < minHistoricalSample {
		return models.HistoricalDeviation{}
	}

	mean := stats.Mean(odds)
	deviationPct := math.Inf(1)
	if mean != 0 {
		deviationPct = math.Abs(quote.Odds-mean) / mean
	}

	return models.HistoricalDeviation{
		Valid:                true,
		HistoricalMean:       mean,
		HistoricalStd:        stats.SampleStd(odds),
		DeviationPct:         deviationPct,
		SignificantDeviation: deviationPct > historicalDeviationThreshold,
		SampleSize:           len(odds),
	}
}

func checkMarketConsistency(quote *models.OddsQuote, snapshot []*models.OddsQuote) models.ConsistencyCheck {
	var check models.ConsistencyCheck

	var upper float64
	switch quote.Market {
	case models.MarketTotal:
		upper = 1.20
	case models.MarketMoneyline:
		upper = 1.15
	default:
		return check
	}

	opposite := quote.Selection.Opposite()
	var oppositeOdds []float64
	for _, o := range snapshot {
		if o == nil || o.Odds <= 0 || math.IsNaN(o.Odds) {
			continue
		}
		if o.Market != quote.Market || o.Selection != opposite {
			continue
		}
		// TOTAL legs pair up per line; moneylines have none
		if quote.Market == models.MarketTotal && !o.SameMarketLine(quote) {
			continue
		}
		oppositeOdds = append(oppositeOdds, o.Odds)
	}

	if len(oppositeOdds) == 0 {
		return check
	}

	avgOpposite := stats.Mean(oppositeOdds)
	totalProb := quote.ImpliedProbability()
	if avgOpposite > 0 {
		totalProb += 1.0 / avgOpposite
	}

	if totalProb < 0.95 || totalProb > upper {
		check.Inconsistent = true
		check.Inconsistencies = append(check.Inconsistencies,
			fmt.Sprintf("implied probabilities sum to %.3f for %s market", totalProb, quote.Market))
	}
	return check
}
