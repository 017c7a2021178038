package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const fileSourceName = "file"

// Files in a FileSource directory. Optional files may be absent.
const (
	FileTeamWeeks   = "team_weeks.json"
	FileResults     = "results.json"
	FileSchedule    = "schedule.json"
	FileLines       = "lines.json"
	FileEnvironment = "environment.json"
	FileInjuries    = "injuries.json"
	FileContexts    = "team_context.json"
)

// FileSource reads inputs from JSON exports in one directory, using the
// same shapes as the HTTP feed.
type FileSource struct {
	dir string
}

// NewFileSource returns a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Name implements Source.
func (s *FileSource) Name() string { return fileSourceName }

// TeamWeeks implements StatsSource. Rows after season are dropped.
func (s *FileSource) TeamWeeks(_ context.Context, season int) ([]*models.TeamWeekRecord, error) {
	var rows []*models.TeamWeekRecord
	if err := s.read(FileTeamWeeks, true, &rows); err != nil {
		return nil, err
	}
	if err := checkTeamWeeks(fileSourceName, rows); err != nil {
		return nil, err
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.Season <= season {
			out = append(out, r)
		}
	}
	return out, nil
}

// Results implements StatsSource.
func (s *FileSource) Results(_ context.Context, season int) ([]models.GameResult, error) {
	var rows []models.GameResult
	if err := s.read(FileResults, false, &rows); err != nil {
		return nil, err
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.Key.Season <= season {
			out = append(out, r)
		}
	}
	return out, nil
}

// Schedule implements ScheduleSource.
func (s *FileSource) Schedule(_ context.Context, season, week int) ([]models.ScheduledGame, error) {
	var rows []models.ScheduledGame
	if err := s.read(FileSchedule, true, &rows); err != nil {
		return nil, err
	}
	return filterWeek(rows, season, week, func(g models.ScheduledGame) models.GameKey { return g.Key }), nil
}

// MarketLines implements LinesSource.
func (s *FileSource) MarketLines(_ context.Context, season, week int) (map[models.GameKey]models.MarketLine, error) {
	var rows []lineRecord
	if err := s.read(FileLines, true, &rows); err != nil {
		return nil, err
	}
	rows = filterWeek(rows, season, week, func(r lineRecord) models.GameKey {
		return models.GameKey{Season: r.Season, Week: r.Week, Away: r.Away, Home: r.Home}
	})
	return toLines(fileSourceName, rows)
}

// Environment implements EnvironmentSource.
func (s *FileSource) Environment(_ context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error) {
	var rows []models.EnvironmentRow
	if err := s.read(FileEnvironment, false, &rows); err != nil {
		return nil, err
	}
	rows = filterWeek(rows, season, week, func(r models.EnvironmentRow) models.GameKey { return r.Key })
	return toEnvironment(rows), nil
}

// Injuries implements InjurySource. The file holds the current week only.
func (s *FileSource) Injuries(_ context.Context, _, _ int) ([]models.InjuryReport, error) {
	var rows []models.InjuryReport
	if err := s.read(FileInjuries, false, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TeamContexts implements ContextSource.
func (s *FileSource) TeamContexts(_ context.Context, _, _ int) (map[string]adjustments.TeamContext, error) {
	var rows []contextRecord
	if err := s.read(FileContexts, false, &rows); err != nil {
		return nil, err
	}
	return toContexts(fileSourceName, rows)
}

func (s *FileSource) read(name string, required bool, out interface{}) error {
	path := filepath.Join(s.dir, name)
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return NewFeedError(fileSourceName, ErrCodeNotFound, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewFeedError(fileSourceName, ErrCodeInvalidData, path, fmt.Errorf("%w: %v", ErrInvalidData, err))
	}
	return nil
}
