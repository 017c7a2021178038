package models

import "fmt"

// Metric names tracked for every team-week.
const (
	MetricOffEPAPerPlay  = "off_epa_per_play"
	MetricDefEPAPerPlay  = "def_epa_per_play"
	MetricOffSuccessRate = "off_success_rate"
	MetricDefSuccessRate = "def_success_rate"
	MetricPointsFor      = "points_for"
	MetricPointsAgainst  = "points_against"
)

// TrackedMetrics lists the metrics blended into a TeamRating, in column order.
var TrackedMetrics = []string{
	MetricOffEPAPerPlay,
	MetricDefEPAPerPlay,
	MetricOffSuccessRate,
	MetricDefSuccessRate,
	MetricPointsFor,
	MetricPointsAgainst,
}

// TeamWeekRecord is one team's statistics for a single week. Defensive
// metrics are values allowed, so higher means a weaker defense.
type TeamWeekRecord struct {
	Season         int      `db:"season" json:"season" validate:"required,gte=1920"`
	Week           int      `db:"week" json:"week" validate:"required,gte=1,lte=23"`
	Team           string   `db:"team" json:"team" validate:"required"`
	Opponent       string   `db:"opponent" json:"opponent" validate:"required"`
	OffEPAPerPlay  *float64 `db:"off_epa_per_play" json:"off_epa_per_play"`
	DefEPAPerPlay  *float64 `db:"def_epa_per_play" json:"def_epa_per_play"`
	OffSuccessRate *float64 `db:"off_success_rate" json:"off_success_rate"`
	DefSuccessRate *float64 `db:"def_success_rate" json:"def_success_rate"`
	PointsFor      *float64 `db:"points_for" json:"points_for"`
	PointsAgainst  *float64 `db:"points_against" json:"points_against"`
	OffPlays       int      `db:"off_plays" json:"off_plays" validate:"gte=0"`
	DefPlays       int      `db:"def_plays" json:"def_plays" validate:"gte=0"`
}

// Metric returns the named metric and whether it is present on the record.
func (r *TeamWeekRecord) Metric(name string) (float64, bool) {
	var v *float64
	switch name {
	case MetricOffEPAPerPlay:
		v = r.OffEPAPerPlay
	case MetricDefEPAPerPlay:
		v = r.DefEPAPerPlay
	case MetricOffSuccessRate:
		v = r.OffSuccessRate
	case MetricDefSuccessRate:
		v = r.DefSuccessRate
	case MetricPointsFor:
		v = r.PointsFor
	case MetricPointsAgainst:
		v = r.PointsAgainst
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Before reports whether r is earlier in the season calendar than other.
func (r *TeamWeekRecord) Before(other *TeamWeekRecord) bool {
	if r.Season != other.Season {
		return r.Season < other.Season
	}
	return r.Week < other.Week
}

// TeamRating is a blended rating for one team as of a given week.
type TeamRating struct {
	Team      string             `json:"team"`
	Season    int                `json:"season"`
	Week      int                `json:"week"`
	Games     int                `json:"games"`
	Blended   map[string]float64 `json:"blended"`
	Expanding map[string]float64 `json:"expanding"`
	Trailing  map[string]float64 `json:"trailing"`
}

// Value returns the blended value of a metric.
func (t *TeamRating) Value(metric string) float64 {
	return t.Blended[metric]
}

func (t *TeamRating) String() string {
	return fmt.Sprintf("%s %d-W%02d (%d games)", t.Team, t.Season, t.Week, t.Games)
}

// Float64 returns a pointer to v, for populating optional metrics.
func Float64(v float64) *float64 {
	return &v
}
