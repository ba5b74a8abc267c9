// Package config provides configuration management for the OddsEdge engine.
package config

import (
	"fmt"
	"strings"

	"github.com/yourusername/oddsedge/internal/models"
)

// MarketBaseline holds the statistical baseline for one (league, market)
// pair. Zero fields mean "not applicable for this market".
type MarketBaseline struct {
	Mu           float64 // mean of the continuous distribution (totals, games)
	Sigma        float64 // standard deviation
	LambdaHome   float64 // expected home goals (football)
	LambdaAway   float64 // expected away goals (football)
	ProbBaseline float64 // direct probability baseline (BTTS)
	EVMin        float64 // minimum EV to alert on
}

// Baselines are hand-tuned starting points per sport, league and market.
// They are refined by live statistics where history exists; the EV floors
// widen for thinner leagues.
var baselines = map[models.Sport]map[string]map[string]MarketBaseline{
	models.SportBasketball: {
		"NBA": {
			"total":     {Mu: 228.0, Sigma: 12.0, EVMin: 0.02},
			"spread":    {Sigma: 8.0, EVMin: 0.02},
			"moneyline": {EVMin: 0.03},
		},
		"CBA": {
			"total":     {Mu: 210.0, Sigma: 14.0, EVMin: 0.04},
			"spread":    {Sigma: 10.0, EVMin: 0.04},
			"moneyline": {EVMin: 0.05},
		},
		"Euroleague": {
			"total":     {Mu: 165.0, Sigma: 10.0, EVMin: 0.03},
			"spread":    {Sigma: 7.0, EVMin: 0.03},
			"moneyline": {EVMin: 0.04},
		},
	},
	models.SportFootball: {
		"Premier League": {
			"goals": {LambdaHome: 1.5, LambdaAway: 1.2, EVMin: 0.03},
			"1x2":   {EVMin: 0.04},
			"btts":  {ProbBaseline: 0.52, EVMin: 0.03},
		},
		"La Liga": {
			"goals": {LambdaHome: 1.4, LambdaAway: 1.1, EVMin: 0.03},
			"1x2":   {EVMin: 0.04},
			"btts":  {ProbBaseline: 0.48, EVMin: 0.03},
		},
		"Serie A": {
			"goals": {LambdaHome: 1.3, LambdaAway: 1.0, EVMin: 0.03},
			"1x2":   {EVMin: 0.04},
			"btts":  {ProbBaseline: 0.45, EVMin: 0.03},
		},
		"Bundesliga": {
			"goals": {LambdaHome: 1.6, LambdaAway: 1.4, EVMin: 0.03},
			"1x2":   {EVMin: 0.04},
			"btts":  {ProbBaseline: 0.55, EVMin: 0.03},
		},
		"Ligue 1": {
			"goals": {LambdaHome: 1.4, LambdaAway: 1.2, EVMin: 0.03},
			"1x2":   {EVMin: 0.04},
			"btts":  {ProbBaseline: 0.50, EVMin: 0.03},
		},
		"Champions League": {
			"goals": {LambdaHome: 1.6, LambdaAway: 1.4, EVMin: 0.04},
			"1x2":   {EVMin: 0.05},
			"btts":  {ProbBaseline: 0.53, EVMin: 0.04},
		},
		"Copa Libertadores": {
			"goals": {LambdaHome: 1.5, LambdaAway: 1.1, EVMin: 0.04},
			"1x2":   {EVMin: 0.05},
			"btts":  {ProbBaseline: 0.48, EVMin: 0.04},
		},
		"Liga Colombiana": {
			"goals": {LambdaHome: 1.3, LambdaAway: 0.9, EVMin: 0.05},
			"1x2":   {EVMin: 0.06},
			"btts":  {ProbBaseline: 0.42, EVMin: 0.05},
		},
	},
	models.SportTennis: {
		"ATP": {
			"games":     {Mu: 22.5, Sigma: 4.0, EVMin: 0.04},
			"moneyline": {EVMin: 0.03},
			"sets":      {EVMin: 0.04},
		},
		"WTA": {
			"games":     {Mu: 20.0, Sigma: 3.5, EVMin: 0.04},
			"moneyline": {EVMin: 0.03},
			"sets":      {EVMin: 0.04},
		},
		"Grand Slam": {
			"games":     {Mu: 35.0, Sigma: 8.0, EVMin: 0.05},
			"moneyline": {EVMin: 0.04},
			"sets":      {EVMin: 0.05},
		},
		"ATP Masters 1000": {
			"games":     {Mu: 23.0, Sigma: 4.2, EVMin: 0.04},
			"moneyline": {EVMin: 0.03},
			"sets":      {EVMin: 0.04},
		},
		"WTA 1000": {
			"games":     {Mu: 20.5, Sigma: 3.8, EVMin: 0.04},
			"moneyline": {EVMin: 0.03},
			"sets":      {EVMin: 0.04},
		},
	},
}

// majorLeagues need broader bookmaker coverage before the engine trusts a
// market snapshot
var majorLeagues = map[string]struct{}{
	"NBA":              {},
	"Premier League":   {},
	"La Liga":          {},
	"Serie A":          {},
	"Bundesliga":       {},
	"Champions League": {},
	"ATP":              {},
	"WTA":              {},
}

// SportBaseline looks up the baseline for a (sport, league, market) triple
func SportBaseline(sport models.Sport, league, market string) (MarketBaseline, error) {
	leagues, ok := baselines[sport]
	if !ok {
		return MarketBaseline{}, fmt.Errorf("%w: %s", models.ErrUnknownSport, sport)
	}
	markets, ok := leagues[league]
	if !ok {
		return MarketBaseline{}, fmt.Errorf("%w: %s (%s)", models.ErrUnknownLeague, league, sport)
	}

	normalized := normalizeMarket(market)
	for key, baseline := range markets {
		if normalizeMarket(key) == normalized {
			return baseline, nil
		}
	}
	return MarketBaseline{}, fmt.Errorf("%w: %s (%s)", models.ErrUnknownMarket, market, league)
}

// EVThreshold returns the minimum EV to alert on for the triple, falling
// back to the engine's global floor for unconfigured markets
func EVThreshold(sport models.Sport, league, market string, fallback float64) float64 {
	baseline, err := SportBaseline(sport, league, market)
	if err != nil || baseline.EVMin == 0 {
		return fallback
	}
	return baseline.EVMin
}

// AnomalyThreshold returns the z-score threshold for the sport. Liquid
// basketball markets are probed more aggressively than volatile tennis ones.
func AnomalyThreshold(sport models.Sport) float64 {
	switch sport {
	case models.SportBasketball:
		return 1.2
	case models.SportTennis:
		return 1.8
	default:
		return 1.5
	}
}

// MinBookmakers returns the minimum bookmaker count for statistical analysis
// of a league's markets
func MinBookmakers(league string) int {
	if _, ok := majorLeagues[league]; ok {
		return 3
	}
	return 2
}

// ConfiguredLeagues lists the leagues with baselines for a sport
func ConfiguredLeagues(sport models.Sport) []string {
	leagues := make([]string, 0, len(baselines[sport]))
	for name := range baselines[sport] {
		leagues = append(leagues, name)
	}
	return leagues
}

func normalizeMarket(market string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return replacer.Replace(strings.ToLower(market))
}
