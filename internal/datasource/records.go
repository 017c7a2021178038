package datasource

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Wire shapes shared by the HTTP and file feeds.

type lineRecord struct {
	Season     int     `json:"season" validate:"required"`
	Week       int     `json:"week" validate:"required"`
	Away       string  `json:"away" validate:"required"`
	Home       string  `json:"home" validate:"required,nefield=Away"`
	SpreadHome float64 `json:"spread_home"`
	Total      float64 `json:"total" validate:"gt=0"`
}

type contextRecord struct {
	Team     string     `json:"team" validate:"required"`
	Division string     `json:"division"`
	Lat      *float64   `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64   `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	LastGame *time.Time `json:"last_game"`
}

var validate = validator.New()

func checkTeamWeeks(source string, rows []*models.TeamWeekRecord) error {
	for _, r := range rows {
		if r == nil {
			return NewFeedError(source, ErrCodeInvalidData, "null team-week row", ErrInvalidData)
		}
		if err := validate.Struct(r); err != nil {
			return NewFeedError(source, ErrCodeInvalidData,
				fmt.Sprintf("team-week %s %d-W%02d", r.Team, r.Season, r.Week), fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
	}
	return nil
}

func toLines(source string, rows []lineRecord) (map[models.GameKey]models.MarketLine, error) {
	out := make(map[models.GameKey]models.MarketLine, len(rows))
	for _, r := range rows {
		if err := validate.Struct(r); err != nil {
			return nil, NewFeedError(source, ErrCodeInvalidData,
				fmt.Sprintf("market line %s@%s", r.Away, r.Home), fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
		key := models.GameKey{Season: r.Season, Week: r.Week, Away: r.Away, Home: r.Home}
		out[key] = models.MarketLine{SpreadHome: r.SpreadHome, Total: r.Total}
	}
	return out, nil
}

func toEnvironment(rows []models.EnvironmentRow) map[models.GameKey]models.EnvironmentRow {
	out := make(map[models.GameKey]models.EnvironmentRow, len(rows))
	for _, r := range rows {
		out[r.Key] = r
	}
	return out
}

func toContexts(source string, rows []contextRecord) (map[string]adjustments.TeamContext, error) {
	out := make(map[string]adjustments.TeamContext, len(rows))
	for _, r := range rows {
		if err := validate.Struct(r); err != nil {
			return nil, NewFeedError(source, ErrCodeInvalidData,
				fmt.Sprintf("team context %s", r.Team), fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
		tc := adjustments.TeamContext{Team: r.Team, Division: r.Division, LastGame: r.LastGame}
		if r.Lat != nil && r.Lon != nil {
			tc.Stadium = &adjustments.Coordinates{Lat: *r.Lat, Lon: *r.Lon}
		}
		out[r.Team] = tc
	}
	return out, nil
}

func filterWeek[T any](rows []T, season, week int, key func(T) models.GameKey) []T {
	out := rows[:0:0]
	for _, r := range rows {
		k := key(r)
		if k.Season == season && k.Week == week {
			out = append(out, r)
		}
	}
	return out
}
