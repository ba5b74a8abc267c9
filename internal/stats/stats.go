// Package stats provides shared statistical primitives for the decision
// engine: descriptive statistics, normal and Poisson distributions, and
// betting-specific conversions.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// SampleStd returns the sample standard deviation (n-1 denominator).
// A single observation has zero deviation.
func SampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	variance := 0.0
	for _, x := range xs {
		d := x - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}

// PopulationStd returns the population standard deviation (n denominator)
func PopulationStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	variance := 0.0
	for _, x := range xs {
		d := x - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// Min returns the smallest element, or 0 for an empty slice
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest element, or 0 for an empty slice
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Clamp bounds x into [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// NormalCDF returns P(Z <= x) for the standard normal distribution
func NormalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// NormalPDF returns the standard normal density at x
func NormalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

// ProbOverNormal returns P(X > line) for X ~ N(mu, sigma^2).
// A non-positive or NaN sigma yields 0.5: maximum uncertainty, never a panic.
func ProbOverNormal(mu, sigma, line float64) float64 {
	if sigma <= 0 || math.IsNaN(sigma) {
		return 0.5
	}
	z := (line - mu) / sigma
	return 1.0 - NormalCDF(z)
}

// ProbUnderNormal returns P(X < line) for X ~ N(mu, sigma^2)
func ProbUnderNormal(mu, sigma, line float64) float64 {
	if sigma <= 0 || math.IsNaN(sigma) {
		return 0.5
	}
	z := (line - mu) / sigma
	return NormalCDF(z)
}

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda)
func PoissonPMF(k int, lambda float64) float64 {
	if lambda <= 0 || k < 0 {
		return 0
	}
	// Computed in log space to stay finite for large k
	logP := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logP)
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda)
func PoissonCDF(k int, lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	total := 0.0
	for i := 0; i <= k; i++ {
		total += PoissonPMF(i, lambda)
	}
	return total
}

func logFactorial(k int) float64 {
	total := 0.0
	for i := 2; i <= k; i++ {
		total += math.Log(float64(i))
	}
	return total
}

// SharpeRatio returns the risk-adjusted return of a bet
func SharpeRatio(ev, stdDev, riskFreeRate float64) float64 {
	if stdDev <= 0 {
		return 0
	}
	return (ev - riskFreeRate) / stdDev
}

// ConfidenceInterval returns the (lower, upper) bounds of a binomial
// proportion estimate at the given confidence level
func ConfidenceInterval(prob float64, nSamples int, confidence float64) (float64, float64) {
	if nSamples <= 0 || prob <= 0 || prob >= 1 {
		return prob, prob
	}

	z := 1.96
	switch confidence {
	case 0.90:
		z = 1.645
	case 0.99:
		z = 2.576
	}

	se := math.Sqrt(prob * (1 - prob) / float64(nSamples))
	return math.Max(0, prob-z*se), math.Min(1, prob+z*se)
}

// DecimalToAmerican converts decimal odds to American format
func DecimalToAmerican(decimal float64) int {
	if decimal >= 2.0 {
		return int((decimal - 1.0) * 100)
	}
	return int(-100 / (decimal - 1.0))
}

// AmericanToDecimal converts American odds to decimal format
func AmericanToDecimal(american int) float64 {
	if american > 0 {
		return 1.0 + float64(american)/100.0
	}
	return 1.0 + 100.0/math.Abs(float64(american))
}
