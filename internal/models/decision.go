package models

// EVResult is the outcome of an expected-value computation for one quote
type EVResult struct {
	EV           float64 `json:"ev"`
	EVPct        float64 `json:"ev_pct"`
	ModelProb    float64 `json:"model_prob"`
	ImpliedProb  float64 `json:"implied_prob"`
	OriginalOdds float64 `json:"original_odds"`
	DeviggedOdds float64 `json:"devigged_odds"`
	Edge         float64 `json:"edge"`
	DevigApplied bool    `json:"devig_applied"`
}

// AnomalyHit pairs an outlier quote with its z-score against the market group
type AnomalyHit struct {
	Quote  *OddsQuote `json:"quote"`
	ZScore float64    `json:"z_score"`
}

// ErrorType classifies the likely cause of a pricing error
type ErrorType string

const (
	ErrorTypeNone       ErrorType = "NONE"
	ErrorTypeHuman      ErrorType = "HUMAN_ERROR"
	ErrorTypeSystem     ErrorType = "SYSTEM_ERROR"
	ErrorTypeLateUpdate ErrorType = "LATE_UPDATE"
)

// ErrorAction is the recommended response to an error verdict
type ErrorAction string

const (
	ErrorActionBetImmediately ErrorAction = "BET_IMMEDIATELY"
	ErrorActionMonitor        ErrorAction = "MONITOR"
	ErrorActionSkip           ErrorAction = "SKIP"
)

// MarketDeviation reports how far a quote sits from the rest of the market
type MarketDeviation struct {
	Valid           bool    `json:"valid"`
	MarketMean      float64 `json:"market_mean"`
	MarketStd       float64 `json:"market_std"`
	MarketMin       float64 `json:"market_min"`
	MarketMax       float64 `json:"market_max"`
	DeviationSigmas float64 `json:"deviation_sigmas"`
	SampleSize      int     `json:"sample_size"`
}

// HistoricalDeviation reports deviation against prior captures of the same market
type HistoricalDeviation struct {
	Valid                bool    `json:"valid"`
	HistoricalMean       float64 `json:"historical_mean"`
	HistoricalStd        float64 `json:"historical_std"`
	DeviationPct         float64 `json:"deviation_pct"`
	SignificantDeviation bool    `json:"significant_deviation"`
	SampleSize           int     `json:"sample_size"`
}

// ConsistencyCheck reports implied-probability consistency with related markets
type ConsistencyCheck struct {
	Inconsistent    bool     `json:"inconsistent"`
	Inconsistencies []string `json:"inconsistencies"`
}

// ErrorVerdict is the pricing-error decision for a single quote
type ErrorVerdict struct {
	IsError         bool                 `json:"is_error"`
	Confidence      float64              `json:"confidence"`
	ErrorType       ErrorType            `json:"error_type"`
	ExpectedOdds    float64              `json:"expected_odds"`
	ActualOdds      float64              `json:"actual_odds"`
	DeviationSigmas float64              `json:"deviation_sigmas"`
	Action          ErrorAction          `json:"action"`
	Reasoning       []string             `json:"reasoning"`
	Market          MarketDeviation      `json:"market_analysis"`
	Historical      *HistoricalDeviation `json:"historical_analysis,omitempty"`
	Consistency     ConsistencyCheck     `json:"consistency_check"`
}

// QualityTier buckets a composite quality score into a recommendation
type QualityTier string

const (
	QualityTierStrong   QualityTier = "STRONG_BET"
	QualityTierModerate QualityTier = "MODERATE_BET"
	QualityTierWeak     QualityTier = "WEAK_BET"
	QualityTierSkip     QualityTier = "SKIP"
)

// QualityCheck is one sub-check of the quality filter
type QualityCheck struct {
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// QualityScore is the composite quality evaluation of one quote
type QualityScore struct {
	Passed         bool         `json:"passed"`
	Score          float64      `json:"quality_score"`
	Liquidity      QualityCheck `json:"liquidity"`
	Stability      QualityCheck `json:"stability"`
	SharpAgreement QualityCheck `json:"sharp_books"`
	Volume         QualityCheck `json:"volume"`
	Recommendation QualityTier  `json:"recommendation"`
}

// PickType identifies the origin of a recommended pick
type PickType string

const (
	PickTypeModel     PickType = "MODEL"
	PickTypeAnomaly   PickType = "ANOMALY"
	PickTypeHybrid    PickType = "HYBRID"
	PickTypeArbitrage PickType = "ARBITRAGE"
	PickTypeError     PickType = "ERROR"
	PickTypeNone      PickType = ""
)

// PickPriority orders picks by urgency. Higher values are more urgent.
type PickPriority int

const (
	PriorityNone     PickPriority = 0
	PriorityMinimal  PickPriority = 1
	PriorityLow      PickPriority = 2
	PriorityMedium   PickPriority = 3
	PriorityHigh     PickPriority = 4
	PriorityCritical PickPriority = 5
)

// String implements fmt.Stringer
func (p PickPriority) String() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	case PriorityMinimal:
		return "MINIMAL"
	}
	return "NONE"
}

// PickAction is the recommended follow-up for a classified pick
type PickAction string

const (
	ActionBetNow  PickAction = "BET_NOW"
	ActionBetSoon PickAction = "BET_SOON"
	ActionMonitor PickAction = "MONITOR"
	ActionSkip    PickAction = "SKIP"
)

// Classification is the terminal decision record for one quote
type Classification struct {
	Type          PickType     `json:"type"`
	Priority      PickPriority `json:"priority"`
	Confidence    float64      `json:"confidence"`
	Description   string       `json:"description"`
	Action        PickAction   `json:"action"`
	KellyFraction float64      `json:"kelly_fraction"`
	Reasoning     []string     `json:"reasoning"`
}

// Qualifies reports whether the classification recommends any engagement
func (c *Classification) Qualifies() bool {
	return c.Type != PickTypeNone && c.Action != ActionSkip
}
