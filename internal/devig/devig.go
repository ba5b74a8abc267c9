// Package devig removes bookmaker margin from quoted odds so that implied
// probabilities sum to one.
package devig

import "math"

// Method selects the margin-removal algorithm
type Method string

const (
	// Multiplicative normalizes implied probabilities by the overround
	Multiplicative Method = "multiplicative"
	// Additive subtracts the margin uniformly across outcomes
	Additive Method = "additive"
	// Power raises implied probabilities to a fixed exponent before
	// renormalizing. This is a named heuristic approximating the Shin
	// method, not the iterative Shin solver.
	Power Method = "power"
)

// powerExponent is the fixed exponent used by the Power method
const powerExponent = 1.5

// probFloor keeps additive devigging away from division by zero
const probFloor = 0.01

// Devig removes the bookmaker margin from the odds of one market's mutually
// exclusive outcomes. Fewer than two valid (>1.0) odds, or a market with no
// positive margin, are returned unchanged: there is nothing to remove.
func Devig(odds []float64, method Method) []float64 {
	if len(odds) < 2 {
		return odds
	}
	if countValid(odds) < 2 {
		return odds
	}

	switch method {
	case Additive:
		return devigAdditive(odds)
	case Power:
		return devigPower(odds, powerExponent)
	default:
		return devigMultiplicative(odds)
	}
}

func countValid(odds []float64) int {
	n := 0
	for _, o := range odds {
		if o > 1.0 && !math.IsNaN(o) {
			n++
		}
	}
	return n
}

func impliedProbs(odds []float64) []float64 {
	probs := make([]float64, len(odds))
	for i, o := range odds {
		if o > 1.0 {
			probs[i] = 1.0 / o
		}
	}
	return probs
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func devigMultiplicative(odds []float64) []float64 {
	probs := impliedProbs(odds)
	overround := sum(probs)
	if overround <= 1.0 {
		return odds
	}

	fair := make([]float64, len(odds))
	for i, p := range probs {
		if p > 0 {
			fair[i] = overround / p // 1 / (p / overround)
		} else {
			fair[i] = odds[i]
		}
	}
	return fair
}

func devigAdditive(odds []float64) []float64 {
	probs := impliedProbs(odds)
	overround := sum(probs)
	if overround <= 1.0 {
		return odds
	}

	marginPerOutcome := (overround - 1.0) / float64(len(odds))
	fair := make([]float64, len(odds))
	for i, p := range probs {
		adjusted := math.Max(p-marginPerOutcome, probFloor)
		fair[i] = 1.0 / adjusted
	}
	return fair
}

func devigPower(odds []float64, k float64) []float64 {
	probs := impliedProbs(odds)
	overround := sum(probs)
	if overround <= 1.0 {
		return odds
	}

	adjusted := make([]float64, len(probs))
	for i, p := range probs {
		adjusted[i] = math.Pow(p, k)
	}
	total := sum(adjusted)

	fair := make([]float64, len(odds))
	for i, p := range adjusted {
		normalized := p / total
		if normalized > 0 {
			fair[i] = 1.0 / normalized
		} else {
			fair[i] = odds[i]
		}
	}
	return fair
}

// MarketMargin returns the overround of a market (0.05 = 5% margin),
// floored at zero
func MarketMargin(odds []float64) float64 {
	if len(odds) < 2 {
		return 0.0
	}
	total := 0.0
	for _, o := range odds {
		if o > 1.0 {
			total += 1.0 / o
		}
	}
	return math.Max(total-1.0, 0.0)
}

// FairOdds returns the mean of the devigged odds of a market
func FairOdds(odds []float64) float64 {
	fair := Devig(odds, Multiplicative)
	if len(fair) == 0 {
		return 0.0
	}
	return sum(fair) / float64(len(fair))
}
