// Package datasource defines the external feeds the pipeline reads from and
// provides HTTP and file-backed implementations.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// StatsSource supplies team-week statistics and completed-game results.
type StatsSource interface {
	// TeamWeeks returns every team-week row up to and including season.
	TeamWeeks(ctx context.Context, season int) ([]*models.TeamWeekRecord, error)

	// Results returns final scores for completed games up to season.
	Results(ctx context.Context, season int) ([]models.GameResult, error)
}

// ScheduleSource supplies the games to be priced.
type ScheduleSource interface {
	Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error)
}

// LinesSource supplies market lines keyed by game.
type LinesSource interface {
	MarketLines(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error)
}

// EnvironmentSource supplies weather and injury indices keyed by game.
type EnvironmentSource interface {
	Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error)
}

// InjurySource supplies per-player injury designations.
type InjurySource interface {
	Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error)
}

// ContextSource supplies situational metadata keyed by team.
type ContextSource interface {
	TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error)
}

// Source is a feed that serves every kind of input.
type Source interface {
	StatsSource
	ScheduleSource
	LinesSource
	EnvironmentSource
	InjurySource
	ContextSource

	// Name returns the name of the data source
	Name() string
}

// FeedError represents errors from data source operations
type FeedError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e FeedError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewFeedError creates a new data source error
func NewFeedError(source, code, message string, err error) FeedError {
	return FeedError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
