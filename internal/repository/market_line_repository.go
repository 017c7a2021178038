package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresMarketLineRepository implements MarketLineRepository for PostgreSQL
type PostgresMarketLineRepository struct {
	q Querier
}

// NewPostgresMarketLineRepository creates a new market line repository
func NewPostgresMarketLineRepository(q Querier) MarketLineRepository {
	return &PostgresMarketLineRepository{q: q}
}

// ForWeek returns the current line for every game of the week.
func (r *PostgresMarketLineRepository) ForWeek(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error) {
	query := `
		SELECT season, week, away, home, spread_home, total
		FROM market_lines
		WHERE season = $1 AND week = $2
	`

	rows, err := r.q.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query market lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[models.GameKey]models.MarketLine)
	for rows.Next() {
		var (
			key  models.GameKey
			line models.MarketLine
		)
		if err := rows.Scan(&key.Season, &key.Week, &key.Away, &key.Home, &line.SpreadHome, &line.Total); err != nil {
			return nil, fmt.Errorf("failed to scan market line: %w", err)
		}
		lines[key] = line
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market lines: %w", err)
	}

	return lines, nil
}

// Upsert stores the latest line for a game.
func (r *PostgresMarketLineRepository) Upsert(ctx context.Context, key models.GameKey, line models.MarketLine) error {
	query := `
		INSERT INTO market_lines (season, week, away, home, spread_home, total, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (season, week, away, home)
		DO UPDATE SET spread_home = EXCLUDED.spread_home, total = EXCLUDED.total, updated_at = now()
	`

	_, err := r.q.Exec(ctx, query, key.Season, key.Week, key.Away, key.Home, line.SpreadHome, line.Total)
	if err != nil {
		return fmt.Errorf("failed to upsert market line: %w", err)
	}

	return nil
}
