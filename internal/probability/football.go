// Package probability implements the sport-specific fair-value models:
// Poisson goal grids for football, a dynamic normal model for basketball
// and ELO-derived estimates for tennis.
package probability

import (
	"math"

	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	// defaultMaxGoals bounds the joint Poisson grid
	defaultMaxGoals = 10
	// defaultMaxTotalGoals bounds the cumulative total-goals sum
	defaultMaxTotalGoals = 15

	// defaultHomeAdvantage inflates the home side's scoring rate by 15%
	defaultHomeAdvantage = 1.15
	// defaultFormWeight blends recent scoring form into the base rate
	defaultFormWeight = 0.3
	// defaultDixonColesRho is the low-score correlation parameter
	defaultDixonColesRho = -0.15
)

// MatchProbabilities holds the three-way outcome probabilities of a fixture
type MatchProbabilities struct {
	Home float64
	Draw float64
	Away float64
}

// PoissonMatchProbabilities computes P(HOME), P(DRAW) and P(AWAY) from the
// joint distribution of two independent Poisson goal counts truncated at
// maxGoals per side. A non-positive maxGoals falls back to the default grid.
func PoissonMatchProbabilities(lambdaHome, lambdaAway float64, maxGoals int) MatchProbabilities {
	if maxGoals <= 0 {
		maxGoals = defaultMaxGoals
	}

	var probs MatchProbabilities
	for homeGoals := 0; homeGoals <= maxGoals; homeGoals++ {
		pHome := stats.PoissonPMF(homeGoals, lambdaHome)
		for awayGoals := 0; awayGoals <= maxGoals; awayGoals++ {
			p := pHome * stats.PoissonPMF(awayGoals, lambdaAway)
			switch {
			case homeGoals > awayGoals:
				probs.Home += p
			case homeGoals == awayGoals:
				probs.Draw += p
			default:
				probs.Away += p
			}
		}
	}
	return probs
}

// ProbOverGoals returns P(total goals > line) where the total follows a
// Poisson distribution with rate lambdaHome+lambdaAway
func ProbOverGoals(lambdaHome, lambdaAway, line float64) float64 {
	lambdaTotal := lambdaHome + lambdaAway
	kMax := int(math.Floor(line))
	if kMax > defaultMaxTotalGoals {
		kMax = defaultMaxTotalGoals
	}
	return 1.0 - stats.PoissonCDF(kMax, lambdaTotal)
}

// ProbBTTS returns P(both teams score) via inclusion-exclusion on the
// zero-goal events
func ProbBTTS(lambdaHome, lambdaAway float64) float64 {
	pHomeZero := stats.PoissonPMF(0, lambdaHome)
	pAwayZero := stats.PoissonPMF(0, lambdaAway)
	pAtLeastOneZero := pHomeZero + pAwayZero - pHomeZero*pAwayZero
	return 1.0 - pAtLeastOneZero
}

// AdjustLambdaHomeAdvantage scales the neutral scoring rates for home
// advantage: the home rate is multiplied by the factor and the away rate
// divided by it
func AdjustLambdaHomeAdvantage(lambdaHome, lambdaAway, factor float64) (float64, float64) {
	if factor <= 0 {
		factor = defaultHomeAdvantage
	}
	return lambdaHome * factor, lambdaAway / factor
}

// AdjustLambdaForForm blends the base rate with the team's recent scoring
// average. An empty form sample returns the base rate unchanged.
func AdjustLambdaForForm(lambdaBase float64, recentGoalsScored []int, weight float64) float64 {
	if len(recentGoalsScored) == 0 {
		return lambdaBase
	}
	if weight <= 0 || weight > 1 {
		weight = defaultFormWeight
	}

	total := 0
	for _, goals := range recentGoalsScored {
		total += goals
	}
	avgScored := float64(total) / float64(len(recentGoalsScored))

	return (1-weight)*lambdaBase + weight*avgScored
}

// DixonColesScores returns the adjusted probabilities of the four
// lowest-scoring results (0-0, 1-0, 0-1, 1-1), where the independent-Poisson
// assumption is weakest. rho is the low-score correlation, typically negative.
type DixonColesScores struct {
	NilNil float64 // 0-0
	OneNil float64 // 1-0
	NilOne float64 // 0-1
	OneOne float64 // 1-1
}

// DixonColesAdjustment reweights the four lowest-scoring cells of the Poisson
// grid with the Dixon-Coles tau correction
func DixonColesAdjustment(lambdaHome, lambdaAway, rho float64) DixonColesScores {
	if rho == 0 {
		rho = defaultDixonColesRho
	}

	base := func(h, a int) float64 {
		return stats.PoissonPMF(h, lambdaHome) * stats.PoissonPMF(a, lambdaAway)
	}

	return DixonColesScores{
		NilNil: base(0, 0) * (1 - lambdaHome*lambdaAway*rho),
		NilOne: base(0, 1) * (1 + lambdaHome*rho),
		OneNil: base(1, 0) * (1 + lambdaAway*rho),
		OneOne: base(1, 1) * (1 - rho),
	}
}

// FairOdds1X2 converts the three-way probabilities into fair decimal odds.
// Zero-probability outcomes are quoted at a 999.0 ceiling.
func FairOdds1X2(lambdaHome, lambdaAway float64) (home, draw, away float64) {
	probs := PoissonMatchProbabilities(lambdaHome, lambdaAway, defaultMaxGoals)
	return fairOdd(probs.Home), fairOdd(probs.Draw), fairOdd(probs.Away)
}

func fairOdd(p float64) float64 {
	if p <= 0 {
		return 999.0
	}
	return 1.0 / p
}
