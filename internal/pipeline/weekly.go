package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/datasource"
)

// MaxWeek is the last week of a season, playoffs included.
const MaxWeek = 23

// ErrSeasonComplete is returned when no scheduled game of the season kicks
// off after the current time.
var ErrSeasonComplete = errors.New("no upcoming games this season")

// SeasonFor returns the season a date belongs to. Seasons start in
// September and run into February, so January to July belong to the
// previous year's season.
func SeasonFor(t time.Time) int {
	t = t.UTC()
	if t.Month() < time.August {
		return t.Year() - 1
	}
	return t.Year()
}

// Weekly builds a fresh run for the upcoming week every time it runs, so a
// long-lived service moves through the season on its own.
type Weekly struct {
	base    Config
	season  int
	minWeek int
	source  datasource.Source
	cal     *calibration.Calibration
	logger  *logrus.Logger
	opts    []Option
	now     func() time.Time
}

// NewWeekly validates base with a placeholder week. A zero season follows
// the clock; minWeek keeps the service from targeting earlier weeks.
func NewWeekly(base Config, season, minWeek int, source datasource.Source, cal *calibration.Calibration, log *logrus.Logger, opts ...Option) (*Weekly, error) {
	check := base
	check.Season, check.Week = 1, 1
	if _, err := New(check, source, cal, log, opts...); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if minWeek < 1 {
		minWeek = 1
	}
	return &Weekly{
		base:    base,
		season:  season,
		minWeek: minWeek,
		source:  source,
		cal:     cal,
		logger:  log,
		opts:    opts,
		now:     time.Now,
	}, nil
}

// Target resolves the season and the first week, from minWeek on, with a
// game that has not kicked off yet.
func (w *Weekly) Target(ctx context.Context) (int, int, error) {
	now := w.now()
	season := w.season
	if season == 0 {
		season = SeasonFor(now)
	}
	for week := w.minWeek; week <= MaxWeek; week++ {
		games, err := w.source.Schedule(ctx, season, week)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to load schedule for week %d: %w", week, err)
		}
		for _, g := range games {
			if g.Kickoff >= now.Unix() {
				return season, week, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: season %d", ErrSeasonComplete, season)
}

// Run resolves the target week and runs one cycle for it.
func (w *Weekly) Run(ctx context.Context) (*Report, error) {
	season, week, err := w.Target(ctx)
	if err != nil {
		return nil, err
	}
	w.logger.WithFields(logrus.Fields{"season": season, "week": week}).Info("Scheduled week resolved")

	cfg := w.base
	cfg.Season, cfg.Week = season, week
	p, err := New(cfg, w.source, w.cal, w.logger, w.opts...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}
