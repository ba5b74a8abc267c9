package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PickStatus tracks the lifecycle of an emitted pick
type PickStatus string

const (
	PickStatusOpen    PickStatus = "open"
	PickStatusSettled PickStatus = "settled"
	PickStatusVoided  PickStatus = "voided"
)

// Pick is a persisted betting recommendation produced by the engine
type Pick struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	EventID          uuid.UUID       `db:"event_id" json:"event_id" validate:"required"`
	Sport            Sport           `db:"sport" json:"sport" validate:"required"`
	League           string          `db:"league" json:"league"`
	Market           Market          `db:"market" json:"market" validate:"required"`
	Line             *float64        `db:"line" json:"line"`
	Selection        Selection       `db:"selection" json:"selection" validate:"required"`
	Bookmaker        string          `db:"bookmaker" json:"bookmaker" validate:"required"`
	Odds             float64         `db:"odds" json:"odds" validate:"required,gt=1"`
	Type             PickType        `db:"pick_type" json:"pick_type"`
	Priority         PickPriority    `db:"priority" json:"priority"`
	Action           PickAction      `db:"action" json:"action"`
	Confidence       float64         `db:"confidence" json:"confidence"`
	EV               float64         `db:"ev" json:"ev"`
	ZScore           float64         `db:"z_score" json:"z_score"`
	QualityScore     float64         `db:"quality_score" json:"quality_score"`
	KellyFraction    float64         `db:"kelly_fraction" json:"kelly_fraction"`
	RecommendedStake decimal.Decimal `db:"recommended_stake" json:"recommended_stake"`
	Reasoning        []string        `db:"reasoning" json:"reasoning"`
	Status           PickStatus      `db:"status" json:"status"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	SettledAt        *time.Time      `db:"settled_at" json:"settled_at,omitempty"`
	Profit           decimal.Decimal `db:"profit" json:"profit"`
}

// StakeFor sizes the recommended stake from a bankroll using the stored
// Kelly fraction, rounded to cents
func (p *Pick) StakeFor(bankroll decimal.Decimal) decimal.Decimal {
	return bankroll.Mul(decimal.NewFromFloat(p.KellyFraction)).Round(2)
}

// IsActionable reports whether the pick calls for placing a bet
func (p *Pick) IsActionable() bool {
	return p.Action == ActionBetNow || p.Action == ActionBetSoon
}
