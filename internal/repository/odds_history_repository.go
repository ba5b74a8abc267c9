package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

const oddsQuoteColumns = `captured_at, event_id, home, away, sport, league, market, line, selection, bookmaker, odds, start_time`

// PostgresOddsHistoryRepository implements OddsHistoryRepository for PostgreSQL
type PostgresOddsHistoryRepository struct {
	db *database.DB
}

// NewPostgresOddsHistoryRepository creates a new odds history repository
func NewPostgresOddsHistoryRepository(db *database.DB) OddsHistoryRepository {
	return &PostgresOddsHistoryRepository{db: db}
}

// Insert inserts a single odds quote
func (o *PostgresOddsHistoryRepository) Insert(ctx context.Context, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (` + oddsQuoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := o.db.GetPool().Exec(ctx, query,
		quote.CapturedAt, quote.EventID, quote.Home, quote.Away, quote.Sport, quote.League,
		quote.Market, quote.Line, quote.Selection, quote.Bookmaker, quote.Odds, quote.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds quote: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple odds quotes using high-performance batch insert
func (o *PostgresOddsHistoryRepository) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"captured_at", "event_id", "home", "away", "sport", "league", "market", "line", "selection", "bookmaker", "odds", "start_time"}

	copyFromSource := make([][]interface{}, len(quotes))
	for i, q := range quotes {
		copyFromSource[i] = []interface{}{
			q.CapturedAt, q.EventID, q.Home, q.Away, q.Sport, q.League,
			q.Market, q.Line, q.Selection, q.Bookmaker, q.Odds, q.StartTime,
		}
	}

	count, err := o.db.GetPool().CopyFrom(ctx, pgx.Identifier{"odds_quotes"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert odds quotes: %w", err)
	}

	if count != int64(len(quotes)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(quotes))
	}

	return nil
}

// GetSnapshot retrieves the latest quote per (bookmaker, market, line, selection)
// for an event
func (o *PostgresOddsHistoryRepository) GetSnapshot(ctx context.Context, eventID uuid.UUID) ([]*models.OddsQuote, error) {
	query := `
		SELECT DISTINCT ON (bookmaker, market, line, selection) ` + oddsQuoteColumns + `
		FROM odds_quotes
		WHERE event_id = $1
		ORDER BY bookmaker, market, line, selection, captured_at DESC
	`

	rows, err := o.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event snapshot: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// GetHistory retrieves prior captures of the same (event, bookmaker, market,
// line, selection) within a time range
func (o *PostgresOddsHistoryRepository) GetHistory(ctx context.Context, quote *models.OddsQuote, start, end time.Time) ([]*models.OddsQuote, error) {
	query := `
		SELECT ` + oddsQuoteColumns + `
		FROM odds_quotes
		WHERE event_id = $1 AND bookmaker = $2 AND market = $3 AND selection = $4
		  AND line IS NOT DISTINCT FROM $5
		  AND captured_at >= $6 AND captured_at <= $7
		ORDER BY captured_at ASC
	`

	rows, err := o.db.GetPool().Query(ctx, query,
		quote.EventID, quote.Bookmaker, quote.Market, quote.Selection, quote.Line, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds history: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// GetLatest retrieves the most recent quote for one bookmaker's price on a market
func (o *PostgresOddsHistoryRepository) GetLatest(ctx context.Context, eventID uuid.UUID, bookmaker string, market models.Market, selection models.Selection) (*models.OddsQuote, error) {
	query := `
		SELECT ` + oddsQuoteColumns + `
		FROM odds_quotes
		WHERE event_id = $1 AND bookmaker = $2 AND market = $3 AND selection = $4
		ORDER BY captured_at DESC
		LIMIT 1
	`

	quote := &models.OddsQuote{}
	err := o.db.GetPool().QueryRow(ctx, query, eventID, bookmaker, market, selection).Scan(
		&quote.CapturedAt, &quote.EventID, &quote.Home, &quote.Away, &quote.Sport, &quote.League,
		&quote.Market, &quote.Line, &quote.Selection, &quote.Bookmaker, &quote.Odds, &quote.StartTime,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest quote: %w", err)
	}

	return quote, nil
}

// GetEventsWithQuotesSince returns the distinct events that received new
// captures after the given time
func (o *PostgresOddsHistoryRepository) GetEventsWithQuotesSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT event_id
		FROM odds_quotes
		WHERE captured_at >= $1
	`

	rows, err := o.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query active events: %w", err)
	}
	defer rows.Close()

	var eventIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		eventIDs = append(eventIDs, id)
	}

	return eventIDs, rows.Err()
}

func scanQuotes(rows pgx.Rows) ([]*models.OddsQuote, error) {
	var quotes []*models.OddsQuote
	for rows.Next() {
		quote := &models.OddsQuote{}
		err := rows.Scan(
			&quote.CapturedAt, &quote.EventID, &quote.Home, &quote.Away, &quote.Sport, &quote.League,
			&quote.Market, &quote.Line, &quote.Selection, &quote.Bookmaker, &quote.Odds, &quote.StartTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}
