package models

import "time"

// DataQuality grades how much real history backed an estimate
type DataQuality string

const (
	DataQualityHigh    DataQuality = "HIGH"
	DataQualityMedium  DataQuality = "MEDIUM"
	DataQualityLow     DataQuality = "LOW"
	DataQualityDefault DataQuality = "DEFAULT"
)

// FairValueEstimate is a sport-specific model output: either a win
// probability or a (mean, std) pair for continuous markets
type FairValueEstimate struct {
	Probability float64     `json:"probability"`
	Mean        float64     `json:"mean"`
	Std         float64     `json:"std"`
	Continuous  bool        `json:"continuous"`
	DataQuality DataQuality `json:"data_quality"`
}

// TeamStats holds rolling per-team scoring statistics over recent games
type TeamStats struct {
	Team               string      `db:"team" json:"team"`
	League             string      `db:"league" json:"league"`
	PointsMean         float64     `db:"points_mean" json:"points_mean"`
	PointsStd          float64     `db:"points_std" json:"points_std"`
	OpponentPointsMean float64     `db:"opponent_points_mean" json:"opponent_points_mean"`
	OpponentPointsStd  float64     `db:"opponent_points_std" json:"opponent_points_std"`
	TotalMean          float64     `db:"total_mean" json:"total_mean"`
	TotalStd           float64     `db:"total_std" json:"total_std"`
	GamesAnalyzed      int         `db:"games_analyzed" json:"games_analyzed"`
	LastUpdated        time.Time   `db:"last_updated" json:"last_updated"`
	DataQuality        DataQuality `db:"data_quality" json:"data_quality"`
}

// FormTrend summarises a team's recent run of results
type FormTrend string

const (
	FormTrendWinning FormTrend = "WINNING_STREAK"
	FormTrendLosing  FormTrend = "LOSING_STREAK"
	FormTrendMixed   FormTrend = "MIXED"
	FormTrendUnknown FormTrend = "UNKNOWN"
)

// RecentForm summarises a team's last few completed games
type RecentForm struct {
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	WinRate          float64   `json:"win_rate"`
	AvgPoints        float64   `json:"avg_points"`
	AvgPointsAllowed float64   `json:"avg_points_allowed"`
	Trend            FormTrend `json:"trend"`
	GamesAnalyzed    int       `json:"games_analyzed"`
}

// H2HStats summarises the head-to-head record between two opponents
type H2HStats struct {
	TotalGames  int         `json:"total_games"`
	HomeWins    int         `json:"home_wins"`
	AwayWins    int         `json:"away_wins"`
	HomeWinRate float64     `json:"home_win_rate"`
	AvgTotal    float64     `json:"avg_total"`
	AvgMargin   float64     `json:"avg_margin"`
	DataQuality DataQuality `json:"data_quality"`
}
