package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

const gameResultColumns = `sport, league, home_team, away_team, home_score, away_score, game_date`

// PostgresGameResultRepository implements GameResultRepository for PostgreSQL.
// It also satisfies the probability engine's result source interface.
type PostgresGameResultRepository struct {
	db *database.DB
}

// NewPostgresGameResultRepository creates a new game result repository
func NewPostgresGameResultRepository(db *database.DB) GameResultRepository {
	return &PostgresGameResultRepository{db: db}
}

// Insert inserts a single completed game
func (g *PostgresGameResultRepository) Insert(ctx context.Context, result *models.GameResult) error {
	query := `
		INSERT INTO game_results (` + gameResultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (league, home_team, away_team, game_date) DO NOTHING
	`

	_, err := g.db.GetPool().Exec(ctx, query,
		result.Sport, result.League, result.HomeTeam, result.AwayTeam,
		result.HomeScore, result.AwayScore, result.GameDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game result: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple completed games
func (g *PostgresGameResultRepository) InsertBatch(ctx context.Context, results []*models.GameResult) error {
	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO game_results (` + gameResultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (league, home_team, away_team, game_date) DO NOTHING
	`
	for _, r := range results {
		batch.Queue(query, r.Sport, r.League, r.HomeTeam, r.AwayTeam, r.HomeScore, r.AwayScore, r.GameDate)
	}

	br := g.db.GetPool().SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to batch insert game results: %w", err)
		}
	}

	return nil
}

// RecentResults retrieves a team's most recent completed games, newest first
func (g *PostgresGameResultRepository) RecentResults(ctx context.Context, team, league string, since time.Time, limit int) ([]*models.GameResult, error) {
	query := `
		SELECT ` + gameResultColumns + `
		FROM game_results
		WHERE league = $1 AND (home_team = $2 OR away_team = $2) AND game_date >= $3
		ORDER BY game_date DESC
		LIMIT $4
	`

	rows, err := g.db.GetPool().Query(ctx, query, league, team, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent results: %w", err)
	}
	defer rows.Close()

	return scanGameResults(rows)
}

// HeadToHead retrieves past meetings between two teams in either venue order
func (g *PostgresGameResultRepository) HeadToHead(ctx context.Context, homeTeam, awayTeam string, limit int) ([]*models.GameResult, error) {
	query := `
		SELECT ` + gameResultColumns + `
		FROM game_results
		WHERE (home_team = $1 AND away_team = $2) OR (home_team = $2 AND away_team = $1)
		ORDER BY game_date DESC
		LIMIT $3
	`

	rows, err := g.db.GetPool().Query(ctx, query, homeTeam, awayTeam, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query head to head: %w", err)
	}
	defer rows.Close()

	return scanGameResults(rows)
}

func scanGameResults(rows pgx.Rows) ([]*models.GameResult, error) {
	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		err := rows.Scan(
			&result.Sport, &result.League, &result.HomeTeam, &result.AwayTeam,
			&result.HomeScore, &result.AwayScore, &result.GameDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
