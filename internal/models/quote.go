package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Sport identifies the sport a quote belongs to
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
)

// Market represents the market type of a quote
type Market string

const (
	MarketMoneyline Market = "MONEYLINE"
	Market1X2       Market = "1X2"
	MarketTotal     Market = "TOTAL"
	MarketSpread    Market = "SPREAD"
	MarketBTTS      Market = "BTTS"
	MarketSets      Market = "SETS"
)

// Selection represents the chosen outcome within a market
type Selection string

const (
	SelectionHome  Selection = "HOME"
	SelectionDraw  Selection = "DRAW"
	SelectionAway  Selection = "AWAY"
	SelectionOver  Selection = "OVER"
	SelectionUnder Selection = "UNDER"
	SelectionYes   Selection = "YES"
	SelectionNo    Selection = "NO"
)

// Opposite returns the complementary selection for two-way markets.
// Selections without a single complement (1X2 outcomes) return themselves.
func (s Selection) Opposite() Selection {
	switch s {
	case SelectionOver:
		return SelectionUnder
	case SelectionUnder:
		return SelectionOver
	case SelectionHome:
		return SelectionAway
	case SelectionAway:
		return SelectionHome
	case SelectionYes:
		return SelectionNo
	case SelectionNo:
		return SelectionYes
	}
	return s
}

// OddsQuote represents a single bookmaker quote captured at one point in time.
// Quotes are immutable; newer captures supersede older ones by CapturedAt.
type OddsQuote struct {
	EventID    uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	Home       string    `db:"home" json:"home"`
	Away       string    `db:"away" json:"away"`
	Sport      Sport     `db:"sport" json:"sport" validate:"required"`
	League     string    `db:"league" json:"league"`
	Market     Market    `db:"market" json:"market" validate:"required"`
	Line       *float64  `db:"line" json:"line"`
	Selection  Selection `db:"selection" json:"selection" validate:"required"`
	Bookmaker  string    `db:"bookmaker" json:"bookmaker" validate:"required"`
	Odds       float64   `db:"odds" json:"odds" validate:"required,gt=1"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	CapturedAt time.Time `db:"captured_at" json:"captured_at" validate:"required"`
}

// Validate checks construction-time invariants on the quote
func (q *OddsQuote) Validate() error {
	if q.Odds <= 1.0 || math.IsNaN(q.Odds) || math.IsInf(q.Odds, 0) {
		return fmt.Errorf("%w: odds %v", ErrInvalidOdds, q.Odds)
	}
	if q.Line != nil && (math.IsNaN(*q.Line) || math.IsInf(*q.Line, 0)) {
		return fmt.Errorf("%w: line %v", ErrInvalidLine, *q.Line)
	}
	if q.Selection == "" {
		return ErrMissingSelection
	}
	if q.Bookmaker == "" {
		return ErrMissingBookmaker
	}
	return nil
}

// ImpliedProbability returns 1/odds, or 0 for odds at or below evens floor
func (q *OddsQuote) ImpliedProbability() float64 {
	if q.Odds <= 1.0 {
		return 0
	}
	return 1.0 / q.Odds
}

// Event returns a display name for the fixture
func (q *OddsQuote) Event() string {
	if q.Home == "" && q.Away == "" {
		return q.EventID.String()
	}
	return q.Home + " vs " + q.Away
}

// SameLine reports whether the other quote prices the identical
// (market, line, selection) triple
func (q *OddsQuote) SameLine(other *OddsQuote) bool {
	return q.Market == other.Market &&
		q.Selection == other.Selection &&
		lineEquals(q.Line, other.Line)
}

// SameMarketLine reports whether the other quote prices the same market at
// the same line, regardless of selection
func (q *OddsQuote) SameMarketLine(other *OddsQuote) bool {
	return q.Market == other.Market && lineEquals(q.Line, other.Line)
}

func lineEquals(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MarketKey is the grouping key for quotes of one outcome at one line
type MarketKey struct {
	EventID   uuid.UUID
	Market    Market
	Line      float64
	HasLine   bool
	Selection Selection
}

// Key returns the grouping key for this quote
func (q *OddsQuote) Key() MarketKey {
	k := MarketKey{
		EventID:   q.EventID,
		Market:    q.Market,
		Selection: q.Selection,
	}
	if q.Line != nil {
		k.Line = *q.Line
		k.HasLine = true
	}
	return k
}

// String renders the key in "market_line_selection" form
func (k MarketKey) String() string {
	if k.HasLine {
		return fmt.Sprintf("%s_%s_%g_%s", k.EventID, k.Market, k.Line, k.Selection)
	}
	return fmt.Sprintf("%s_%s_%s", k.EventID, k.Market, k.Selection)
}

// MarketGroup is an on-demand grouping of quotes from distinct bookmakers
// that all price the same (event, market, line, selection)
type MarketGroup struct {
	Key    MarketKey
	Quotes []*OddsQuote
}

// GroupQuotes partitions a flat batch into market groups. Quotes that fail
// validation are dropped; ordering within a group follows the input batch.
func GroupQuotes(batch []*OddsQuote) map[MarketKey]*MarketGroup {
	groups := make(map[MarketKey]*MarketGroup)
	for _, q := range batch {
		if q == nil || q.Validate() != nil {
			continue
		}
		key := q.Key()
		g, ok := groups[key]
		if !ok {
			g = &MarketGroup{Key: key}
			groups[key] = g
		}
		g.Quotes = append(g.Quotes, q)
	}
	return groups
}

// Bookmakers returns the distinct bookmaker names in the group
func (g *MarketGroup) Bookmakers() []string {
	seen := make(map[string]struct{}, len(g.Quotes))
	names := make([]string, 0, len(g.Quotes))
	for _, q := range g.Quotes {
		if _, ok := seen[q.Bookmaker]; ok {
			continue
		}
		seen[q.Bookmaker] = struct{}{}
		names = append(names, q.Bookmaker)
	}
	return names
}

// OddsValues extracts the decimal odds of every quote in the group
func (g *MarketGroup) OddsValues() []float64 {
	values := make([]float64, len(g.Quotes))
	for i, q := range g.Quotes {
		values[i] = q.Odds
	}
	return values
}
