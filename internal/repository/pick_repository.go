package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

const pickColumns = `id, event_id, sport, league, market, line, selection, bookmaker, odds, pick_type, priority, action, confidence, ev, z_score, quality_score, kelly_fraction, recommended_stake, reasoning, status, created_at, settled_at, profit`

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// Create inserts a new pick
func (p *PostgresPickRepository) Create(ctx context.Context, pick *models.Pick) error {
	if pick.ID == uuid.Nil {
		pick.ID = uuid.New()
	}
	if pick.CreatedAt.IsZero() {
		pick.CreatedAt = time.Now()
	}
	if pick.Status == "" {
		pick.Status = models.PickStatusOpen
	}

	query := `
		INSERT INTO picks (` + pickColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		pick.ID, pick.EventID, pick.Sport, pick.League, pick.Market, pick.Line,
		pick.Selection, pick.Bookmaker, pick.Odds, pick.Type, pick.Priority, pick.Action,
		pick.Confidence, pick.EV, pick.ZScore, pick.QualityScore, pick.KellyFraction,
		pick.RecommendedStake, pick.Reasoning, pick.Status, pick.CreatedAt, pick.SettledAt, pick.Profit,
	)
	if err != nil {
		return fmt.Errorf("failed to create pick: %w", err)
	}

	return nil
}

// GetByID retrieves a pick by its identifier
func (p *PostgresPickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE id = $1`

	pick, err := scanPick(p.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}

	return pick, nil
}

// GetByEventID retrieves all picks emitted for an event
func (p *PostgresPickRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE event_id = $1 ORDER BY created_at DESC`

	rows, err := p.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by event: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetOpen retrieves unsettled picks ordered by priority
func (p *PostgresPickRepository) GetOpen(ctx context.Context, limit int) ([]*models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE status = $1
		ORDER BY priority DESC, created_at DESC
		LIMIT $2
	`

	rows, err := p.db.GetPool().Query(ctx, query, models.PickStatusOpen, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query open picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetRecent retrieves picks created after the given time
func (p *PostgresPickRepository) GetRecent(ctx context.Context, since time.Time, limit int) ([]*models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := p.db.GetPool().Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// Settle marks a pick as settled with its realised profit
func (p *PostgresPickRepository) Settle(ctx context.Context, id uuid.UUID, profit decimal.Decimal, settledAt time.Time) error {
	query := `
		UPDATE picks
		SET status = $1, profit = $2, settled_at = $3
		WHERE id = $4
	`

	tag, err := p.db.GetPool().Exec(ctx, query, models.PickStatusSettled, profit, settledAt, id)
	if err != nil {
		return fmt.Errorf("failed to settle pick: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanPick(row pgx.Row) (*models.Pick, error) {
	pick := &models.Pick{}
	err := row.Scan(
		&pick.ID, &pick.EventID, &pick.Sport, &pick.League, &pick.Market, &pick.Line,
		&pick.Selection, &pick.Bookmaker, &pick.Odds, &pick.Type, &pick.Priority, &pick.Action,
		&pick.Confidence, &pick.EV, &pick.ZScore, &pick.QualityScore, &pick.KellyFraction,
		&pick.RecommendedStake, &pick.Reasoning, &pick.Status, &pick.CreatedAt, &pick.SettledAt, &pick.Profit,
	)
	if err != nil {
		return nil, err
	}
	return pick, nil
}

func scanPicks(rows pgx.Rows) ([]*models.Pick, error) {
	var picks []*models.Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}

	return picks, rows.Err()
}
