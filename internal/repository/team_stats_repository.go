package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

const teamStatsColumns = `team, league, points_mean, points_std, opponent_points_mean, opponent_points_std, total_mean, total_std, games_analyzed, last_updated, data_quality`

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

// Upsert inserts or replaces a team's rolling statistics
func (t *PostgresTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamStats) error {
	query := `
		INSERT INTO team_stats (` + teamStatsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (team, league) DO UPDATE SET
			points_mean = EXCLUDED.points_mean,
			points_std = EXCLUDED.points_std,
			opponent_points_mean = EXCLUDED.opponent_points_mean,
			opponent_points_std = EXCLUDED.opponent_points_std,
			total_mean = EXCLUDED.total_mean,
			total_std = EXCLUDED.total_std,
			games_analyzed = EXCLUDED.games_analyzed,
			last_updated = EXCLUDED.last_updated,
			data_quality = EXCLUDED.data_quality
	`

	_, err := t.db.GetPool().Exec(ctx, query,
		stats.Team, stats.League, stats.PointsMean, stats.PointsStd,
		stats.OpponentPointsMean, stats.OpponentPointsStd, stats.TotalMean, stats.TotalStd,
		stats.GamesAnalyzed, stats.LastUpdated, stats.DataQuality,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}

	return nil
}

// GetByTeam retrieves a team's cached statistics
func (t *PostgresTeamStatsRepository) GetByTeam(ctx context.Context, team, league string) (*models.TeamStats, error) {
	query := `
		SELECT ` + teamStatsColumns + `
		FROM team_stats
		WHERE team = $1 AND league = $2
	`

	stats := &models.TeamStats{}
	err := t.db.GetPool().QueryRow(ctx, query, team, league).Scan(
		&stats.Team, &stats.League, &stats.PointsMean, &stats.PointsStd,
		&stats.OpponentPointsMean, &stats.OpponentPointsStd, &stats.TotalMean, &stats.TotalStd,
		&stats.GamesAnalyzed, &stats.LastUpdated, &stats.DataQuality,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	return stats, nil
}

// GetStale retrieves team stats rows not refreshed since the given time
func (t *PostgresTeamStatsRepository) GetStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.TeamStats, error) {
	query := `
		SELECT ` + teamStatsColumns + `
		FROM team_stats
		WHERE last_updated < $1
		ORDER BY last_updated ASC
		LIMIT $2
	`

	rows, err := t.db.GetPool().Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale team stats: %w", err)
	}
	defer rows.Close()

	var statsList []*models.TeamStats
	for rows.Next() {
		stats := &models.TeamStats{}
		err := rows.Scan(
			&stats.Team, &stats.League, &stats.PointsMean, &stats.PointsStd,
			&stats.OpponentPointsMean, &stats.OpponentPointsStd, &stats.TotalMean, &stats.TotalStd,
			&stats.GamesAnalyzed, &stats.LastUpdated, &stats.DataQuality,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		statsList = append(statsList, stats)
	}

	return statsList, rows.Err()
}
