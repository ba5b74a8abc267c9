package repository

import (
	"fmt"

	"github.com/yourusername/oddsedge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	OddsHistory OddsHistoryRepository
	GameResult  GameResultRepository
	TeamStats   TeamStatsRepository
	Pick        PickRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		OddsHistory: NewPostgresOddsHistoryRepository(db),
		GameResult:  NewPostgresGameResultRepository(db),
		TeamStats:   NewPostgresTeamStatsRepository(db),
		Pick:        NewPostgresPickRepository(db),
	}, nil
}
