package repository

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const sourceName = "postgres"

var _ datasource.Source = (*Source)(nil)

// Source serves pipeline inputs from the database.
type Source struct {
	repos *Repositories
}

// NewSource wraps repos as a datasource.Source.
func NewSource(repos *Repositories) *Source {
	return &Source{repos: repos}
}

// Name implements datasource.Source.
func (s *Source) Name() string { return sourceName }

// TeamWeeks implements datasource.StatsSource.
func (s *Source) TeamWeeks(ctx context.Context, season int) ([]*models.TeamWeekRecord, error) {
	return s.repos.TeamWeek.ListThrough(ctx, season)
}

// Results implements datasource.StatsSource.
func (s *Source) Results(ctx context.Context, season int) ([]models.GameResult, error) {
	return s.repos.Game.Results(ctx, season)
}

// Schedule implements datasource.ScheduleSource.
func (s *Source) Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error) {
	return s.repos.Game.Schedule(ctx, season, week)
}

// MarketLines implements datasource.LinesSource.
func (s *Source) MarketLines(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error) {
	return s.repos.MarketLine.ForWeek(ctx, season, week)
}

// Environment implements datasource.EnvironmentSource.
func (s *Source) Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error) {
	return s.repos.Context.Environment(ctx, season, week)
}

// Injuries implements datasource.InjurySource.
func (s *Source) Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error) {
	return s.repos.Context.Injuries(ctx, season, week)
}

// TeamContexts implements datasource.ContextSource.
func (s *Source) TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error) {
	return s.repos.Context.TeamContexts(ctx, season, week)
}
