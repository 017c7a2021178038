package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Querier is the subset of *pgxpool.Pool the repositories use.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// TeamWeekRepository defines the interface for team-week statistics
type TeamWeekRepository interface {
	ListThrough(ctx context.Context, season int) ([]*models.TeamWeekRecord, error)
}

// GameRepository defines the interface for schedule and result data access
type GameRepository interface {
	Results(ctx context.Context, season int) ([]models.GameResult, error)
	Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error)
}

// MarketLineRepository defines the interface for market line data access
type MarketLineRepository interface {
	ForWeek(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error)
	Upsert(ctx context.Context, key models.GameKey, line models.MarketLine) error
}

// ContextRepository defines the interface for game-day context
type ContextRepository interface {
	Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error)
	Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error)
	TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error)
}

// RecommendationRepository stores the bets produced by a pipeline run.
type RecommendationRepository interface {
	InsertBatch(ctx context.Context, runID uuid.UUID, decisions []models.GameDecision) (int, error)
}
