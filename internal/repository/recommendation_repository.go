package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/models"
)

var recommendationColumns = []string{
	"run_id", "bet_id", "season", "week", "away", "home", "market", "side",
	"line", "price", "probability", "ev", "kelly_fraction", "stake", "point_edge",
}

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	q Querier
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(q Querier) RecommendationRepository {
	return &PostgresRecommendationRepository{q: q}
}

// InsertBatch copies the best bet of every decision into recommendations.
// Games with no play are not stored. Returns the number of rows written.
func (r *PostgresRecommendationRepository) InsertBatch(ctx context.Context, runID uuid.UUID, decisions []models.GameDecision) (int, error) {
	rows := make([][]any, 0, len(decisions))
	for _, d := range decisions {
		if d.Best == nil {
			continue
		}
		b := d.Best
		rows = append(rows, []any{
			runID, b.ID, d.Key.Season, d.Key.Week, d.Key.Away, d.Key.Home,
			string(b.Kind), string(b.Side), b.Line, b.Price, b.Probability,
			b.EV, b.KellyFraction, b.Stake.InexactFloat64(), b.PointEdge,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	count, err := r.q.CopyFrom(ctx, pgx.Identifier{"recommendations"}, recommendationColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert recommendations: %w", err)
	}

	if count != int64(len(rows)) {
		return int(count), fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
	}

	return len(rows), nil
}
