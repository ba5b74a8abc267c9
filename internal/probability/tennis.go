package probability

import (
	"math"

	"github.com/yourusername/oddsedge/internal/stats"
)

const (
	// eloK is the logistic scale for tennis ELO differences
	eloK = 400.0

	// probClampLo / probClampHi keep adjusted probabilities away from
	// certainty
	probClampLo = 0.01
	probClampHi = 0.99

	// fatigueFactor is the per-extra-match penalty over the last 7 days
	fatigueFactor = 0.02
	// h2hWeight blends the head-to-head record into the ELO estimate
	h2hWeight = 0.15

	avgGamesPerSet = 10.0

	baseElo = 1500.0
	topElo  = 2400.0
)

// EloWinProbability returns P(player1 beats player2) from their ELO ratings
func EloWinProbability(elo1, elo2 float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (elo2-elo1)/eloK))
}

// Competitiveness maps a win probability to [0,1]: 1 for a coin flip, 0 for
// a foregone conclusion
func Competitiveness(probPlayer1 float64) float64 {
	return 1.0 - 2.0*math.Abs(probPlayer1-0.5)
}

// EstimateGamesDistribution derives the mean and standard deviation of total
// games from the match win probability. Closer matches run longer and carry
// more variance. formatSets is 3 or 5.
func EstimateGamesDistribution(probPlayer1 float64, formatSets int) (mu, sigma float64) {
	c := Competitiveness(probPlayer1)

	var expectedSets float64
	if formatSets == 5 {
		expectedSets = 3.0 + c*2.0
	} else {
		expectedSets = 2.0 + c
	}

	mu = expectedSets * avgGamesPerSet
	sigma = 2.0 + c*3.0
	return mu, sigma
}

// ProbOverGames returns P(total games > line) under the normal approximation
func ProbOverGames(mu, sigma, line float64) float64 {
	return stats.ProbOverNormal(mu, sigma, line)
}

// ProbUnderGames returns P(total games < line) under the normal approximation
func ProbUnderGames(mu, sigma, line float64) float64 {
	return stats.ProbUnderNormal(mu, sigma, line)
}

// ProbSetHandicap returns P(player1 covers the set handicap) using closed-form
// approximations per format. Handicaps other than the standard ±1.5 fall back
// to the match win probability.
func ProbSetHandicap(probPlayer1, handicap float64, formatSets int) float64 {
	p := probPlayer1

	if formatSets == 3 {
		switch handicap {
		case -1.5:
			// Must win 2-0
			return p * p * 0.7
		case 1.5:
			// Covers unless swept 0-2
			return 1.0 - (1-p)*(1-p)*0.7
		}
	} else if formatSets == 5 {
		switch handicap {
		case -1.5:
			// Must win 3-0 or 3-1
			prob30 := p * p * p * 0.5
			prob31 := p * p * p * (1 - p) * 3 * 0.6
			return prob30 + prob31
		case 1.5:
			return 1.0 - p*p*p*0.5
		}
	}

	if handicap < 0 {
		return p
	}
	return 1.0 - p
}

// AdjustForFatigue penalises the win probability linearly per match played
// beyond the first in the last 7 days
func AdjustForFatigue(baseProb float64, matchesLast7Days int) float64 {
	if matchesLast7Days <= 1 {
		return baseProb
	}
	penalty := float64(matchesLast7Days-1) * fatigueFactor
	return stats.Clamp(baseProb*(1.0-penalty), probClampLo, probClampHi)
}

// AdjustForH2H blends the head-to-head win rate into the base probability.
// No prior meetings leave the estimate untouched.
func AdjustForH2H(baseProb float64, h2hWins, h2hLosses int) float64 {
	total := h2hWins + h2hLosses
	if total == 0 {
		return baseProb
	}
	h2hProb := float64(h2hWins) / float64(total)
	adjusted := (1-h2hWeight)*baseProb + h2hWeight*h2hProb
	return stats.Clamp(adjusted, probClampLo, probClampHi)
}

// AdjustForSurface scales the win probability by the players' relative
// surface performance factors
func AdjustForSurface(baseProb, player1Factor, player2Factor float64) float64 {
	if player2Factor == 0 {
		return baseProb
	}
	return stats.Clamp(baseProb*(player1Factor/player2Factor), probClampLo, probClampHi)
}

// EstimateEloFromRanking approximates an ELO rating from an ATP/WTA ranking
// on a logarithmic scale: #1 maps to 2400, #10 to roughly 2050, #100 to
// roughly 1700, floored at the tour baseline.
func EstimateEloFromRanking(ranking int) float64 {
	if ranking <= 0 {
		return baseElo
	}
	if ranking == 1 {
		return topElo
	}
	return math.Max(baseElo, topElo-math.Log(float64(ranking))*150.0)
}

// FairOddsMoneyline converts a win probability to fair decimal odds for both
// players. Degenerate probabilities quote both sides at evens.
func FairOddsMoneyline(probPlayer1 float64) (player1, player2 float64) {
	if probPlayer1 <= 0 || probPlayer1 >= 1 {
		return 2.0, 2.0
	}
	return 1.0 / probPlayer1, 1.0 / (1.0 - probPlayer1)
}
