package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/oddsedge/internal/models"
)

// OddsHistoryRepository defines the interface for odds quote data access
type OddsHistoryRepository interface {
	Insert(ctx context.Context, quote *models.OddsQuote) error
	InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error
	GetSnapshot(ctx context.Context, eventID uuid.UUID) ([]*models.OddsQuote, error)
	GetHistory(ctx context.Context, quote *models.OddsQuote, start, end time.Time) ([]*models.OddsQuote, error)
	GetLatest(ctx context.Context, eventID uuid.UUID, bookmaker string, market models.Market, selection models.Selection) (*models.OddsQuote, error)
	GetEventsWithQuotesSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

// GameResultRepository defines the interface for completed game data access
type GameResultRepository interface {
	Insert(ctx context.Context, result *models.GameResult) error
	InsertBatch(ctx context.Context, results []*models.GameResult) error
	RecentResults(ctx context.Context, team, league string, since time.Time, limit int) ([]*models.GameResult, error)
	HeadToHead(ctx context.Context, homeTeam, awayTeam string, limit int) ([]*models.GameResult, error)
}

// TeamStatsRepository defines the interface for cached team statistics
type TeamStatsRepository interface {
	Upsert(ctx context.Context, stats *models.TeamStats) error
	GetByTeam(ctx context.Context, team, league string) (*models.TeamStats, error)
	GetStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.TeamStats, error)
}

// PickRepository defines the interface for emitted pick persistence
type PickRepository interface {
	Create(ctx context.Context, pick *models.Pick) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Pick, error)
	GetOpen(ctx context.Context, limit int) ([]*models.Pick, error)
	GetRecent(ctx context.Context, since time.Time, limit int) ([]*models.Pick, error)
	Settle(ctx context.Context, id uuid.UUID, profit decimal.Decimal, settledAt time.Time) error
}
