package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresTeamWeekRepository implements TeamWeekRepository for PostgreSQL
type PostgresTeamWeekRepository struct {
	q Querier
}

// NewPostgresTeamWeekRepository creates a new team-week repository
func NewPostgresTeamWeekRepository(q Querier) TeamWeekRepository {
	return &PostgresTeamWeekRepository{q: q}
}

// ListThrough returns every team-week up to and including season, ordered
// by team then calendar.
func (r *PostgresTeamWeekRepository) ListThrough(ctx context.Context, season int) ([]*models.TeamWeekRecord, error) {
	query := `
		SELECT season, week, team, opponent,
		       off_epa_per_play, def_epa_per_play, off_success_rate, def_success_rate,
		       points_for, points_against, off_plays, def_plays
		FROM team_weeks
		WHERE season <= $1
		ORDER BY team, season, week
	`

	rows, err := r.q.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query team weeks: %w", err)
	}
	defer rows.Close()

	var records []*models.TeamWeekRecord
	for rows.Next() {
		rec := &models.TeamWeekRecord{}
		err := rows.Scan(
			&rec.Season, &rec.Week, &rec.Team, &rec.Opponent,
			&rec.OffEPAPerPlay, &rec.DefEPAPerPlay, &rec.OffSuccessRate, &rec.DefSuccessRate,
			&rec.PointsFor, &rec.PointsAgainst, &rec.OffPlays, &rec.DefPlays,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team week: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team weeks: %w", err)
	}

	return records, nil
}

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	q Querier
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(q Querier) GameRepository {
	return &PostgresGameRepository{q: q}
}

// Results returns final scores for games up to and including season.
func (r *PostgresGameRepository) Results(ctx context.Context, season int) ([]models.GameResult, error) {
	query := `
		SELECT season, week, away, home, away_score, home_score
		FROM game_results
		WHERE season <= $1
		ORDER BY season, week, home
	`

	rows, err := r.q.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []models.GameResult
	for rows.Next() {
		var res models.GameResult
		err := rows.Scan(&res.Key.Season, &res.Key.Week, &res.Key.Away, &res.Key.Home, &res.AwayScore, &res.HomeScore)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game results: %w", err)
	}

	return results, nil
}

// Schedule returns the games of one week ordered by kickoff.
func (r *PostgresGameRepository) Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error) {
	query := `
		SELECT season, week, away, home, kickoff
		FROM schedule
		WHERE season = $1 AND week = $2
		ORDER BY kickoff, home
	`

	rows, err := r.q.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	var games []models.ScheduledGame
	for rows.Next() {
		var (
			g       models.ScheduledGame
			kickoff time.Time
		)
		if err := rows.Scan(&g.Key.Season, &g.Key.Week, &g.Key.Away, &g.Key.Home, &kickoff); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled game: %w", err)
		}
		g.Kickoff = kickoff.Unix()
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule: %w", err)
	}

	return games, nil
}
