package devig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevigMultiplicative(t *testing.T) {
	tests := []struct {
		name string
		odds []float64
		want []float64
	}{
		{
			name: "two way total market",
			odds: []float64{1.90, 2.10},
			want: []float64{1.905, 2.105},
		},
		{
			name: "three way 1x2 market",
			odds: []float64{2.10, 3.40, 3.60},
			want: []float64{2.201, 3.563, 3.773},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Devig(tt.odds, Multiplicative)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InEpsilon(t, tt.want[i], got[i], 0.005)
			}
		})
	}
}

func TestDevigNormalizesImpliedProbabilities(t *testing.T) {
	markets := [][]float64{
		{1.90, 2.10},
		{2.10, 3.40, 3.60},
		{1.45, 4.20, 7.50},
		{1.30, 3.50},
	}

	for _, odds := range markets {
		fair := Devig(odds, Multiplicative)
		total := 0.0
		for _, o := range fair {
			total += 1.0 / o
		}
		assert.InDelta(t, 1.0, total, 0.001, "implied probabilities should sum to 1 for %v", odds)
	}
}

func TestDevigReturnsInputUnchanged(t *testing.T) {
	tests := []struct {
		name string
		odds []float64
	}{
		{name: "empty", odds: nil},
		{name: "single odds", odds: []float64{1.90}},
		{name: "only one valid odds", odds: []float64{1.90, 0.5}},
		{name: "no positive margin", odds: []float64{2.05, 2.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Devig(tt.odds, Multiplicative)
			assert.Equal(t, tt.odds, got)
		})
	}
}

func TestDevigAdditive(t *testing.T) {
	fair := Devig([]float64{1.90, 2.10}, Additive)
	require.Len(t, fair, 2)

	total := 0.0
	for _, o := range fair {
		total += 1.0 / o
	}
	assert.InDelta(t, 1.0, total, 0.001)
	assert.Greater(t, fair[0], 1.90)
	assert.Greater(t, fair[1], 2.10)
}

func TestDevigPower(t *testing.T) {
	fair := Devig([]float64{1.50, 4.50, 6.00}, Power)
	require.Len(t, fair, 3)

	total := 0.0
	for _, o := range fair {
		total += 1.0 / o
	}
	assert.InDelta(t, 1.0, total, 0.001)

	// The power method shades longshots harder than favourites
	multiplicative := Devig([]float64{1.50, 4.50, 6.00}, Multiplicative)
	assert.Greater(t, fair[2], multiplicative[2])
}

func TestMarketMargin(t *testing.T) {
	assert.InDelta(t, 0.0026, MarketMargin([]float64{1.90, 2.10}), 0.0005)
	assert.Equal(t, 0.0, MarketMargin([]float64{1.90}))
	assert.Equal(t, 0.0, MarketMargin([]float64{2.10, 2.10}))

	// A typical 1X2 market carries a few percent of margin
	margin := MarketMargin([]float64{2.10, 3.40, 3.60})
	assert.Greater(t, margin, 0.04)
	assert.Less(t, margin, 0.06)
}

func TestFairOdds(t *testing.T) {
	fair := FairOdds([]float64{1.90, 2.10})
	assert.InDelta(t, 2.005, fair, 0.005)

	assert.Equal(t, 0.0, FairOdds(nil))
}
