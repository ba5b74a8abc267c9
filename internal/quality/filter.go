// Package quality gates candidate picks on market liquidity, price
// stability, sharp-book agreement and overall market volume.
package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	defaultMinBookmakers = 3
	defaultMaxVariation  = 0.05
	defaultTimeWindow    = 60 * time.Minute
	defaultSharpTol      = 0.10
	defaultVolumeFloor   = 5
	defaultMinScore      = 0.70

	weightLiquidity = 0.30
	weightStability = 0.25
	weightSharp     = 0.30
	weightVolume    = 0.15
)

// sharpBookmakers are professional books whose prices anchor the market
var sharpBookmakers = map[string]struct{}{
	"Pinnacle":     {},
	"Betfair":      {},
	"Bet365":       {},
	"Bookmaker.eu": {},
	"SBObet":       {},
	"IBC":          {},
	"Singbet":      {},
}

// softBookmakers are recreational books, tracked for market composition only
var softBookmakers = map[string]struct{}{
	"Bwin":         {},
	"1xBet":        {},
	"Betsson":      {},
	"Codere":       {},
	"William Hill": {},
	"Ladbrokes":    {},
	"Coral":        {},
	"Paddy Power":  {},
}

// IsSharp reports whether the bookmaker is on the sharp allowlist
func IsSharp(bookmaker string) bool {
	_, ok := sharpBookmakers[bookmaker]
	return ok
}

// IsSoft reports whether the bookmaker is on the recreational list
func IsSoft(bookmaker string) bool {
	_, ok := softBookmakers[bookmaker]
	return ok
}

// Filter scores candidate quotes against their market snapshot
type Filter struct {
	minBookmakers int
	maxVariation  float64
	timeWindow    time.Duration
	sharpTol      float64
	volumeFloor   int
	minScore      float64
	now           func() time.Time
}

// Option customises a Filter
type Option func(*Filter)

// WithMinBookmakers overrides the liquidity floor
func WithMinBookmakers(n int) Option {
	return func(f *Filter) { f.minBookmakers = n }
}

// WithMinScore overrides the composite score needed to pass
func WithMinScore(s float64) Option {
	return func(f *Filter) { f.minScore = s }
}

// WithVolumeFloor overrides the whole-snapshot bookmaker floor
func WithVolumeFloor(n int) Option {
	return func(f *Filter) { f.volumeFloor = n }
}

// NewFilter creates a quality filter with default thresholds
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		minBookmakers: defaultMinBookmakers,
		maxVariation:  defaultMaxVariation,
		timeWindow:    defaultTimeWindow,
		sharpTol:      defaultSharpTol,
		volumeFloor:   defaultVolumeFloor,
		minScore:      defaultMinScore,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Liquidity counts distinct bookmakers quoting the identical (market, line,
// selection). Score saturates at twice the floor.
func (f *Filter) Liquidity(quote *models.OddsQuote, snapshot []*models.OddsQuote) models.QualityCheck {
	seen := make(map[string]struct{})
	for _, o := range snapshot {
		if o != nil && o.SameLine(quote) {
			seen[o.Bookmaker] = struct{}{}
		}
	}
	count := len(seen)

	return models.QualityCheck{
		Passed: count >= f.minBookmakers,
		Score:  stats.Clamp(float64(count)/float64(f.minBookmakers*2), 0, 1),
		Reason: fmt.Sprintf("%d bookmakers quoting line (min %d)", count, f.minBookmakers),
	}
}

// Stability measures (max-min)/min odds variation over recent captures of
// the same line. Fails closed with fewer than two points in the window.
func (f *Filter) Stability(quote *models.OddsQuote, historical []*models.OddsQuote) models.QualityCheck {
	if len(historical) == 0 {
		return models.QualityCheck{Reason: "no historical data"}
	}

	cutoff := f.now().Add(-f.timeWindow)
	var odds []float64
	for _, h := range historical {
		if h == nil || !h.SameLine(quote) {
			continue
		}
		if h.CapturedAt.Before(cutoff) {
			continue
		}
		odds = append(odds, h.Odds)
	}

	if len(odds) < 2 {
		return models.QualityCheck{Reason: "insufficient historical data"}
	}

	minOdd := stats.Min(odds)
	maxOdd := stats.Max(odds)
	variation := 1.0
	if minOdd > 0 {
		variation = (maxOdd - minOdd) / minOdd
	}

	return models.QualityCheck{
		Passed: variation <= f.maxVariation,
		Score:  stats.Clamp(1.0-variation/f.maxVariation, 0, 1),
		Reason: fmt.Sprintf("%.1f%% variation over %d captures", variation*100, len(odds)),
	}
}

// SharpAgreement compares the candidate against the average sharp-book price
// for the identical line. Fails closed with no sharp quotes present.
func (f *Filter) SharpAgreement(quote *models.OddsQuote, snapshot []*models.OddsQuote) models.QualityCheck {
	var sharpOdds []float64
	for _, o := range snapshot {
		if o != nil && IsSharp(o.Bookmaker) && o.SameLine(quote) {
			sharpOdds = append(sharpOdds, o.Odds)
		}
	}

	if len(sharpOdds) == 0 {
		return models.QualityCheck{Reason: "no sharp bookmakers found"}
	}

	sharpAvg := stats.Mean(sharpOdds)
	deviation := 1.0
	if sharpAvg > 0 {
		deviation = math.Abs(quote.Odds-sharpAvg) / sharpAvg
	}

	return models.QualityCheck{
		Passed: deviation <= f.sharpTol,
		Score:  stats.Clamp(1.0-deviation/f.sharpTol, 0, 1),
		Reason: fmt.Sprintf("%.1f%% from sharp average %.2f (%d books)", deviation*100, sharpAvg, len(sharpOdds)),
	}
}

// Volume counts distinct bookmakers anywhere in the snapshot, not just the
// candidate's exact line
func (f *Filter) Volume(snapshot []*models.OddsQuote) models.QualityCheck {
	seen := make(map[string]struct{})
	for _, o := range snapshot {
		if o != nil {
			seen[o.Bookmaker] = struct{}{}
		}
	}
	count := len(seen)

	return models.QualityCheck{
		Passed: count >= f.volumeFloor,
		Score:  stats.Clamp(float64(count)/float64(f.volumeFloor*2), 0, 1),
		Reason: fmt.Sprintf("%d bookmakers in market (min %d)", count, f.volumeFloor),
	}
}

// Evaluate runs all four checks and combines them into the weighted
// composite score and recommendation tier
func (f *Filter) Evaluate(quote *models.OddsQuote, snapshot, historical []*models.OddsQuote) models.QualityScore {
	liquidity := f.Liquidity(quote, snapshot)
	stability := f.Stability(quote, historical)
	sharp := f.SharpAgreement(quote, snapshot)
	volume := f.Volume(snapshot)

	score := liquidity.Score*weightLiquidity +
		stability.Score*weightStability +
		sharp.Score*weightSharp +
		volume.Score*weightVolume

	var tier models.QualityTier
	switch {
	case score >= 0.85:
		tier = models.QualityTierStrong
	case score >= 0.70:
		tier = models.QualityTierModerate
	case score >= 0.50:
		tier = models.QualityTierWeak
	default:
		tier = models.QualityTierSkip
	}

	return models.QualityScore{
		Passed:         score >= f.minScore,
		Score:          score,
		Liquidity:      liquidity,
		Stability:      stability,
		SharpAgreement: sharp,
		Volume:         volume,
		Recommendation: tier,
	}
}
