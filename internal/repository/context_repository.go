package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresContextRepository implements ContextRepository for PostgreSQL
type PostgresContextRepository struct {
	q Querier
}

// NewPostgresContextRepository creates a new context repository
func NewPostgresContextRepository(q Querier) ContextRepository {
	return &PostgresContextRepository{q: q}
}

// Environment returns weather and injury indices keyed by game.
func (r *PostgresContextRepository) Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error) {
	query := `
		SELECT season, week, away, home, wind_mph, precip_inches, temperature_f, dome,
		       away_injury_index, home_injury_index
		FROM game_environment
		WHERE season = $1 AND week = $2
	`

	rows, err := r.q.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query environment: %w", err)
	}
	defer rows.Close()

	env := make(map[models.GameKey]models.EnvironmentRow)
	for rows.Next() {
		var e models.EnvironmentRow
		err := rows.Scan(
			&e.Key.Season, &e.Key.Week, &e.Key.Away, &e.Key.Home,
			&e.WindMPH, &e.PrecipInches, &e.TemperatureF, &e.Dome,
			&e.AwayInjuryIndex, &e.HomeInjuryIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		env[e.Key] = e
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating environment: %w", err)
	}

	return env, nil
}

// Injuries returns the week's player designations.
func (r *PostgresContextRepository) Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error) {
	query := `
		SELECT team, player, position, status
		FROM injury_reports
		WHERE season = $1 AND week = $2
		ORDER BY team, player
	`

	rows, err := r.q.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query injuries: %w", err)
	}
	defer rows.Close()

	var reports []models.InjuryReport
	for rows.Next() {
		var rep models.InjuryReport
		if err := rows.Scan(&rep.Team, &rep.Player, &rep.Position, &rep.Status); err != nil {
			return nil, fmt.Errorf("failed to scan injury report: %w", err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating injuries: %w", err)
	}

	return reports, nil
}

// TeamContexts returns division, stadium and last-game metadata keyed by
// team. Stadium coordinates are set only when both are present.
func (r *PostgresContextRepository) TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error) {
	query := `
		SELECT team, division, stadium_lat, stadium_lon, last_game
		FROM team_context
		WHERE season = $1 AND week = $2
	`

	rows, err := r.q.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query team context: %w", err)
	}
	defer rows.Close()

	contexts := make(map[string]adjustments.TeamContext)
	for rows.Next() {
		var (
			tc       adjustments.TeamContext
			lat, lon *float64
			lastGame *time.Time
		)
		if err := rows.Scan(&tc.Team, &tc.Division, &lat, &lon, &lastGame); err != nil {
			return nil, fmt.Errorf("failed to scan team context: %w", err)
		}
		if lat != nil && lon != nil {
			tc.Stadium = &adjustments.Coordinates{Lat: *lat, Lon: *lon}
		}
		tc.LastGame = lastGame
		contexts[tc.Team] = tc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team context: %w", err)
	}

	return contexts, nil
}
