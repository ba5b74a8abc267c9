package models

import "time"

// GameResult represents a completed fixture's final score (box-score row)
type GameResult struct {
	Sport     Sport     `db:"sport" json:"sport"`
	League    string    `db:"league" json:"league"`
	HomeTeam  string    `db:"home_team" json:"home_team"`
	AwayTeam  string    `db:"away_team" json:"away_team"`
	HomeScore int       `db:"home_score" json:"home_score"`
	AwayScore int       `db:"away_score" json:"away_score"`
	GameDate  time.Time `db:"game_date" json:"game_date"`
}

// Total returns the combined final score
func (g *GameResult) Total() int {
	return g.HomeScore + g.AwayScore
}

// MarginFor returns the score margin from the named team's perspective
func (g *GameResult) MarginFor(team string) int {
	if g.HomeTeam == team {
		return g.HomeScore - g.AwayScore
	}
	return g.AwayScore - g.HomeScore
}

// WonBy reports whether the named team won the game
func (g *GameResult) WonBy(team string) bool {
	return g.MarginFor(team) > 0
}
