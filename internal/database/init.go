package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// Tables read by the repositories.
var requiredTables = []string{
	"team_weeks",
	"game_results",
	"schedule",
	"market_lines",
}

// schema creates every table the repositories use. Optional inputs have
// their own tables so a deployment can leave them empty.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS team_weeks (
		season INT NOT NULL,
		week INT NOT NULL,
		team TEXT NOT NULL,
		opponent TEXT NOT NULL,
		off_epa_per_play DOUBLE PRECISION,
		def_epa_per_play DOUBLE PRECISION,
		off_success_rate DOUBLE PRECISION,
		def_success_rate DOUBLE PRECISION,
		points_for DOUBLE PRECISION,
		points_against DOUBLE PRECISION,
		off_plays INT NOT NULL DEFAULT 0,
		def_plays INT NOT NULL DEFAULT 0,
		PRIMARY KEY (season, week, team)
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		season INT NOT NULL,
		week INT NOT NULL,
		away TEXT NOT NULL,
		home TEXT NOT NULL,
		away_score DOUBLE PRECISION NOT NULL,
		home_score DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (season, week, away, home)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		season INT NOT NULL,
		week INT NOT NULL,
		away TEXT NOT NULL,
		home TEXT NOT NULL,
		kickoff TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (season, week, away, home)
	)`,
	`CREATE TABLE IF NOT EXISTS market_lines (
		season INT NOT NULL,
		week INT NOT NULL,
		away TEXT NOT NULL,
		home TEXT NOT NULL,
		spread_home DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (season, week, away, home)
	)`,
	`CREATE TABLE IF NOT EXISTS game_environment (
		season INT NOT NULL,
		week INT NOT NULL,
		away TEXT NOT NULL,
		home TEXT NOT NULL,
		wind_mph DOUBLE PRECISION NOT NULL DEFAULT 0,
		precip_inches DOUBLE PRECISION NOT NULL DEFAULT 0,
		temperature_f DOUBLE PRECISION NOT NULL DEFAULT 0,
		dome BOOLEAN NOT NULL DEFAULT false,
		away_injury_index DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_injury_index DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (season, week, away, home)
	)`,
	`CREATE TABLE IF NOT EXISTS injury_reports (
		season INT NOT NULL,
		week INT NOT NULL,
		team TEXT NOT NULL,
		player TEXT NOT NULL,
		position TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (season, week, team, player)
	)`,
	`CREATE TABLE IF NOT EXISTS team_context (
		season INT NOT NULL,
		week INT NOT NULL,
		team TEXT NOT NULL,
		division TEXT NOT NULL DEFAULT '',
		stadium_lat DOUBLE PRECISION,
		stadium_lon DOUBLE PRECISION,
		last_game TIMESTAMPTZ,
		PRIMARY KEY (season, week, team)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		run_id UUID NOT NULL,
		bet_id UUID PRIMARY KEY,
		season INT NOT NULL,
		week INT NOT NULL,
		away TEXT NOT NULL,
		home TEXT NOT NULL,
		market TEXT NOT NULL,
		side TEXT NOT NULL,
		line DOUBLE PRECISION NOT NULL,
		price INT NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		ev DOUBLE PRECISION NOT NULL,
		kelly_fraction DOUBLE PRECISION NOT NULL,
		stake NUMERIC(14, 2) NOT NULL,
		point_edge DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Initialize creates a database connection pool and verifies the input
// tables exist.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, table := range requiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			db.Close()
			return nil, fmt.Errorf("table %s not found; run `gridiron migrate` first", table)
		}
	}

	return db, nil
}

// Migrate creates any missing tables in one transaction.
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
