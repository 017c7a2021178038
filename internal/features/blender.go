// Package features turns weekly team statistics into per-team ratings and
// per-game matchup rows.
package features

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// DefaultTrailingWindow is the number of most recent weeks in the trailing mean.
const DefaultTrailingWindow = 4

// ErrInvalidWeight is returned for a recency weight outside [0, 1].
var ErrInvalidWeight = errors.New("recent weight must be within [0, 1]")

// Blender mixes season-to-date and recent-form means.
type Blender struct {
	RecentWeight   float64
	TrailingWindow int
}

// NewBlender validates the recency weight.
func NewBlender(recentWeight float64) (*Blender, error) {
	if recentWeight < 0 || recentWeight > 1 || recentWeight != recentWeight {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidWeight, recentWeight)
	}
	return &Blender{RecentWeight: recentWeight, TrailingWindow: DefaultTrailingWindow}, nil
}

// Blend returns one rating per team as of its latest recorded week. Only the
// team's latest season contributes.
func (b *Blender) Blend(records []*models.TeamWeekRecord) (Ratings, error) {
	ratings := make(Ratings)
	for team, rows := range groupByTeam(records) {
		season := rows[len(rows)-1].Season
		current := seasonRows(rows, season)
		rating, err := b.rate(team, current)
		if err != nil {
			return nil, err
		}
		ratings[team] = rating
	}
	return ratings, nil
}

// BlendHistory rates every team before each week it played, using only
// earlier weeks of the same season. The first week of a season has no prior
// rating. The result is safe to use for training rows.
func (b *Blender) BlendHistory(records []*models.TeamWeekRecord) (History, error) {
	history := make(History)
	for team, rows := range groupByTeam(records) {
		start := 0
		for i := 1; i < len(rows); i++ {
			if rows[i].Season != rows[i-1].Season {
				start = i
				continue
			}
			rating, err := b.rate(team, rows[start:i])
			if err != nil {
				return nil, err
			}
			rating.Week = rows[i].Week
			history[ratingKey{team: team, season: rows[i].Season, week: rows[i].Week}] = rating
		}
	}
	return history, nil
}

func (b *Blender) rate(team string, rows []*models.TeamWeekRecord) (*models.TeamRating, error) {
	window := b.TrailingWindow
	if window <= 0 {
		window = DefaultTrailingWindow
	}
	last := rows[len(rows)-1]
	rating := &models.TeamRating{
		Team:      team,
		Season:    last.Season,
		Week:      last.Week,
		Games:     len(rows),
		Blended:   make(map[string]float64, len(models.TrackedMetrics)),
		Expanding: make(map[string]float64, len(models.TrackedMetrics)),
		Trailing:  make(map[string]float64, len(models.TrackedMetrics)),
	}

	tailStart := len(rows) - window
	if tailStart < 0 {
		tailStart = 0
	}

	for _, metric := range models.TrackedMetrics {
		var sum, tail float64
		for i, row := range rows {
			v, ok := row.Metric(metric)
			if !ok {
				return nil, fmt.Errorf("%w: team %s %d-W%02d %s", models.ErrMissingMetric, team, row.Season, row.Week, metric)
			}
			sum += v
			if i >= tailStart {
				tail += v
			}
		}
		expanding := sum / float64(len(rows))
		trailing := tail / float64(len(rows)-tailStart)
		rating.Expanding[metric] = expanding
		rating.Trailing[metric] = trailing
		rating.Blended[metric] = b.RecentWeight*trailing + (1-b.RecentWeight)*expanding
	}
	return rating, nil
}

func groupByTeam(records []*models.TeamWeekRecord) map[string][]*models.TeamWeekRecord {
	byTeam := make(map[string][]*models.TeamWeekRecord)
	for _, r := range records {
		if r == nil {
			continue
		}
		byTeam[r.Team] = append(byTeam[r.Team], r)
	}
	for _, rows := range byTeam {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Before(rows[j]) })
	}
	return byTeam
}

func seasonRows(rows []*models.TeamWeekRecord, season int) []*models.TeamWeekRecord {
	for i, r := range rows {
		if r.Season == season {
			return rows[i:]
		}
	}
	return nil
}

// RatingSource resolves a team's rating for a given game week.
type RatingSource interface {
	Rating(team string, season, week int) (*models.TeamRating, bool)
}

// Ratings holds each team's latest rating; lookups ignore the calendar.
type Ratings map[string]*models.TeamRating

// Rating implements RatingSource.
func (r Ratings) Rating(team string, _, _ int) (*models.TeamRating, bool) {
	rating, ok := r[team]
	return rating, ok
}

type ratingKey struct {
	team   string
	season int
	week   int
}

// History holds pre-game ratings keyed by team and week.
type History map[ratingKey]*models.TeamRating

// Rating implements RatingSource.
func (h History) Rating(team string, season, week int) (*models.TeamRating, bool) {
	rating, ok := h[ratingKey{team: team, season: season, week: week}]
	return rating, ok
}
