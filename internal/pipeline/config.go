package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/regression"
	"github.com/yourusername/gridiron-edge/internal/simulation"
	"github.com/yourusername/gridiron-edge/internal/wager"
)

// Config holds everything one batch cycle needs.
type Config struct {
	Season int
	Week   int

	RecentWeight   float64
	UseEnvironment bool

	Regression  regression.Config
	Simulation  simulation.Config
	Weather     adjustments.WeatherParams
	Injury      adjustments.InjuryParams
	Situational adjustments.SituationalParams

	WagerMode string
	Wager     wager.Params
}

// FromConfig maps application configuration onto a run for season and week.
func FromConfig(cfg *config.Config, season, week int) (Config, error) {
	if season <= 0 || week <= 0 {
		return Config{}, fmt.Errorf("%w: season=%d week=%d", ErrInvalidWeek, season, week)
	}
	m := cfg.Model
	a := cfg.Adjustments
	return Config{
		Season:         season,
		Week:           week,
		RecentWeight:   m.RecentWeight,
		UseEnvironment: cfg.Data.UseEnvironment,
		Regression: regression.Config{
			Family: regression.Family(m.Family),
			Params: regression.Params{
				RidgeLambda:  m.RidgeLambda,
				Trees:        m.Trees,
				LearningRate: m.LearningRate,
				MaxDepth:     m.MaxDepth,
				MinLeaf:      m.MinLeaf,
			},
			Features:         regression.FeatureOptions{Interactions: m.Interactions},
			HomeFieldPts:     m.HomeFieldPts,
			ApplyCalibration: m.ApplyCalibration,
		},
		Simulation: simulation.Config{
			TeamSD:  cfg.Simulation.TeamSD,
			NSims:   cfg.Simulation.NSims,
			Seed:    cfg.Simulation.Seed,
			Workers: cfg.Simulation.Workers,
		},
		Weather: adjustments.WeatherParams{
			Wind10:            a.Weather.Wind10,
			Wind15:            a.Weather.Wind15,
			Wind20:            a.Weather.Wind20,
			LightPrecip:       a.Weather.LightPrecip,
			HeavyPrecip:       a.Weather.HeavyPrecip,
			DomeWindReduction: a.Weather.DomeWindReduction,
		},
		Injury: adjustments.InjuryParams{PointsPerUnit: a.Injury.PointsPerUnit},
		Situational: adjustments.SituationalParams{
			TravelMiles:     a.Situational.TravelMiles,
			ShortWeekDays:   a.Situational.ShortWeekDays,
			TravelDelta:     a.Situational.TravelDelta,
			ShortWeekDelta:  a.Situational.ShortWeekDelta,
			DivisionalDelta: a.Situational.DivisionalDelta,
		},
		WagerMode: cfg.Wager.Mode,
		Wager: wager.Params{
			Bankroll:       decimal.NewFromFloat(cfg.Wager.Bankroll),
			MinEV:          cfg.Wager.MinEV,
			KellyCap:       cfg.Wager.KellyFractionCap,
			Price:          cfg.Wager.AmericanPrice,
			PointThreshold: cfg.Wager.PointThreshold,
		},
	}, nil
}
