// Package classifier turns the fused signals for one quote into a terminal
// pick decision: type, priority, action and suggested Kelly fraction.
package classifier

import (
	"fmt"
	"math"

	"github.com/yourusername/oddsedge/internal/models"
)

const (
	evThresholdLow    = 0.03
	evThresholdMedium = 0.05
	evThresholdHigh   = 0.08

	zThresholdLow  = 2.0
	zThresholdHigh = 3.0

	errorConfidenceFloor = 0.7
)

// Signals carries everything known about a candidate quote at decision time.
// EV and ZScore are pointers because absence and zero mean different things.
type Signals struct {
	EV              *float64
	ZScore          *float64
	QualityScore    float64
	IsArbitrage     bool
	IsError         bool
	ErrorConfidence float64
	ModelConfidence float64
}

// Thresholds are the tunable entry floors of the decision table. Zero
// values fall back to the stock constants.
type Thresholds struct {
	MinEV           float64
	ErrorConfidence float64
}

// DefaultThresholds returns the stock decision floors
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinEV:           evThresholdLow,
		ErrorConfidence: errorConfidenceFloor,
	}
}

// Classify evaluates the decision table with the stock floors
func Classify(s Signals) models.Classification {
	return ClassifyWith(s, DefaultThresholds())
}

// ClassifyWith evaluates the decision table top to bottom; the first matching
// rule wins. Every call is a fresh evaluation with no carried state.
func ClassifyWith(s Signals, t Thresholds) models.Classification {
	if t.MinEV <= 0 {
		t.MinEV = evThresholdLow
	}
	if t.ErrorConfidence <= 0 {
		t.ErrorConfidence = errorConfidenceFloor
	}

	if s.IsError && s.ErrorConfidence > t.ErrorConfidence {
		return models.Classification{
			Type:          models.PickTypeError,
			Priority:      models.PriorityCritical,
			Confidence:    s.ErrorConfidence,
			Description:   "Pricing error - act immediately",
			Action:        models.ActionBetNow,
			KellyFraction: 0.5,
			Reasoning: []string{
				fmt.Sprintf("pricing error detected (confidence %.0f%%)", s.ErrorConfidence*100),
				"act before the book corrects the price",
			},
		}
	}

	if s.IsArbitrage {
		return models.Classification{
			Type:          models.PickTypeArbitrage,
			Priority:      models.PriorityCritical,
			Confidence:    1.0,
			Description:   "Arbitrage - risk free",
			Action:        models.ActionBetNow,
			KellyFraction: 1.0,
			Reasoning: []string{
				"risk-free arbitrage opportunity",
				"profit guaranteed regardless of outcome",
			},
		}
	}

	hasEV := s.EV != nil && *s.EV > t.MinEV
	hasAnomaly := s.ZScore != nil && math.Abs(*s.ZScore) > zThresholdLow

	switch {
	case hasEV && hasAnomaly:
		return classifyHybrid(s)
	case hasEV:
		return classifyModel(s)
	case hasAnomaly:
		return classifyAnomaly(s)
	}

	reasoning := []string{"minimum criteria not met"}
	if s.EV != nil {
		reasoning = append(reasoning, fmt.Sprintf("EV %.1f%% below %.1f%% floor", *s.EV*100, t.MinEV*100))
	}
	if s.ZScore != nil {
		reasoning = append(reasoning, fmt.Sprintf("|z| %.2f below %.1f threshold", math.Abs(*s.ZScore), zThresholdLow))
	}
	return models.Classification{
		Type:        models.PickTypeNone,
		Priority:    models.PriorityNone,
		Description: "Does not qualify",
		Action:      models.ActionSkip,
		Reasoning:   reasoning,
	}
}

func classifyHybrid(s Signals) models.Classification {
	ev := *s.EV
	z := math.Abs(*s.ZScore)

	evConfidence := math.Min(ev/evThresholdHigh, 1.0)
	anomalyConfidence := math.Min(z/zThresholdHigh, 1.0)
	confidence := (evConfidence + anomalyConfidence) / 2.0 * s.QualityScore

	priority := models.PriorityHigh
	action := models.ActionBetSoon
	kelly := 0.25
	if ev > evThresholdHigh && z > zThresholdHigh {
		priority = models.PriorityCritical
		action = models.ActionBetNow
		kelly = 0.4
	}

	return models.Classification{
		Type:          models.PickTypeHybrid,
		Priority:      priority,
		Confidence:    confidence,
		Description:   fmt.Sprintf("Hybrid: EV+%.1f%%, z=%.2f", ev*100, z),
		Action:        action,
		KellyFraction: kelly,
		Reasoning: []string{
			fmt.Sprintf("model EV +%.1f%%", ev*100),
			fmt.Sprintf("market anomaly z=%.2f", z),
			"double confirmation from model and market",
		},
	}
}

func classifyModel(s Signals) models.Classification {
	ev := *s.EV
	confidence := math.Min(ev/evThresholdHigh, 1.0) * s.QualityScore

	reasoning := []string{fmt.Sprintf("model EV +%.1f%%", ev*100)}
	if s.ModelConfidence > 0 {
		reasoning = append(reasoning, fmt.Sprintf("model confidence %.0f%%", s.ModelConfidence*100))
	}

	var (
		priority models.PickPriority
		action   models.PickAction
		kelly    float64
	)
	switch {
	case ev > evThresholdHigh:
		priority, action, kelly = models.PriorityMedium, models.ActionBetSoon, 0.20
	case ev > evThresholdMedium:
		priority, action, kelly = models.PriorityMedium, models.ActionBetSoon, 0.15
	default:
		priority, action, kelly = models.PriorityMinimal, models.ActionMonitor, 0.10
	}

	return models.Classification{
		Type:          models.PickTypeModel,
		Priority:      priority,
		Confidence:    confidence,
		Description:   fmt.Sprintf("Model: EV+%.1f%%", ev*100),
		Action:        action,
		KellyFraction: kelly,
		Reasoning:     reasoning,
	}
}

func classifyAnomaly(s Signals) models.Classification {
	z := math.Abs(*s.ZScore)
	confidence := math.Min(z/zThresholdHigh, 1.0) * s.QualityScore

	priority := models.PriorityLow
	action := models.ActionMonitor
	kelly := 0.10
	if z > zThresholdHigh {
		priority = models.PriorityMedium
		action = models.ActionBetSoon
		kelly = 0.15
	}

	return models.Classification{
		Type:          models.PickTypeAnomaly,
		Priority:      priority,
		Confidence:    confidence,
		Description:   fmt.Sprintf("Anomaly: z=%.2f", z),
		Action:        action,
		KellyFraction: kelly,
		Reasoning: []string{
			fmt.Sprintf("market anomaly z=%.2f", z),
			"price significantly off market consensus",
		},
	}
}
