// Package repository reads pipeline inputs from PostgreSQL and records
// recommendations.
package repository

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	TeamWeek       TeamWeekRepository
	Game           GameRepository
	MarketLine     MarketLineRepository
	Context        ContextRepository
	Recommendation RecommendationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return NewRepositoriesWithQuerier(db.GetPool()), nil
}

// NewRepositoriesWithQuerier builds the repositories on any Querier.
func NewRepositoriesWithQuerier(q Querier) *Repositories {
	return &Repositories{
		TeamWeek:       NewPostgresTeamWeekRepository(q),
		Game:           NewPostgresGameRepository(q),
		MarketLine:     NewPostgresMarketLineRepository(q),
		Context:        NewPostgresContextRepository(q),
		Recommendation: NewPostgresRecommendationRepository(q),
	}
}
