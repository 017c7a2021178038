package adjustments

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// SituationalParams are sub-point deltas. The adjustment calibration
// multiplier is the lever for amplifying them.
type SituationalParams struct {
	TravelMiles     float64 `mapstructure:"travel_miles" yaml:"travel_miles"`
	ShortWeekDays   float64 `mapstructure:"short_week_days" yaml:"short_week_days"`
	TravelDelta     float64 `mapstructure:"travel_delta" yaml:"travel_delta"`
	ShortWeekDelta  float64 `mapstructure:"short_week_delta" yaml:"short_week_delta"`
	DivisionalDelta float64 `mapstructure:"divisional_delta" yaml:"divisional_delta"`
}

// DefaultSituationalParams returns the historical deltas.
func DefaultSituationalParams() SituationalParams {
	return SituationalParams{
		TravelMiles:     1500,
		ShortWeekDays:   5,
		TravelDelta:     -0.4,
		ShortWeekDelta:  -0.5,
		DivisionalDelta: -0.6,
	}
}

// Coordinates is a stadium location in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TeamContext is one team's situational metadata. Unknown fields stay nil
// or empty.
type TeamContext struct {
	Team     string
	Division string
	Stadium  *Coordinates
	LastGame *time.Time
}

const earthRadiusMiles = 3958.8

// DistanceMiles is the great-circle distance between two points.
func DistanceMiles(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RestDays is the number of days between the previous game and kickoff.
func RestDays(last, kickoff time.Time) float64 {
	return kickoff.Sub(last).Hours() / 24
}

// Situational estimates travel, short-week and divisional deltas.
func Situational(away, home TeamContext, kickoff time.Time, p SituationalParams, cal *calibration.Registry) Estimate {
	b := newBuilder(models.AdjustmentSituational, cal)

	if away.Stadium != nil && home.Stadium != nil {
		miles := DistanceMiles(*away.Stadium, *home.Stadium)
		if miles >= p.TravelMiles {
			b.team("travel", away.Team, p.TravelDelta, models.ConfidenceLow,
				fmt.Sprintf("%s travels %.0f miles", away.Team, miles))
		}
	}

	if !kickoff.IsZero() {
		for _, tc := range []TeamContext{away, home} {
			if tc.LastGame == nil {
				continue
			}
			rest := RestDays(*tc.LastGame, kickoff)
			if rest > 0 && rest <= p.ShortWeekDays {
				b.team("short_week", tc.Team, p.ShortWeekDelta, models.ConfidenceLow,
					fmt.Sprintf("%s on %.0f days rest", tc.Team, rest))
			}
		}
	}

	if away.Division != "" && away.Division == home.Division {
		b.game("divisional", p.DivisionalDelta, nil, models.ConfidenceLow,
			fmt.Sprintf("divisional game (%s)", away.Division))
	}

	return b.est
}
