package adjustments

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// WeatherParams are game-total deltas per wind and precipitation bin.
type WeatherParams struct {
	Wind10            float64 `mapstructure:"wind_10" yaml:"wind_10"`
	Wind15            float64 `mapstructure:"wind_15" yaml:"wind_15"`
	Wind20            float64 `mapstructure:"wind_20" yaml:"wind_20"`
	LightPrecip       float64 `mapstructure:"light_precip" yaml:"light_precip"`
	HeavyPrecip       float64 `mapstructure:"heavy_precip" yaml:"heavy_precip"`
	DomeWindReduction float64 `mapstructure:"dome_wind_reduction" yaml:"dome_wind_reduction"`
}

// Bin thresholds.
const (
	windBin10   = 10.0
	windBin15   = 15.0
	windBin20   = 20.0
	lightPrecip = 0.05
	heavyPrecip = 0.25
)

// DefaultWeatherParams returns the deltas fitted on historical totals.
func DefaultWeatherParams() WeatherParams {
	return WeatherParams{
		Wind10:            -1.0,
		Wind15:            -2.0,
		Wind20:            -3.5,
		LightPrecip:       -0.8,
		HeavyPrecip:       -2.0,
		DomeWindReduction: 0.75,
	}
}

// WeatherInputs is the forecast for one game. Nil readings are unknown.
type WeatherInputs struct {
	WindMPH      *float64
	PrecipInches *float64
	Dome         bool
}

// WeatherFromEnvironment reads the forecast from an environment row.
func WeatherFromEnvironment(env *models.EnvironmentRow) WeatherInputs {
	if env == nil {
		return WeatherInputs{}
	}
	wind, precip := env.WindMPH, env.PrecipInches
	return WeatherInputs{WindMPH: &wind, PrecipInches: &precip, Dome: env.Dome}
}

// Weather estimates game-total deltas. Both deltas are game-scoped and
// split evenly.
func Weather(in WeatherInputs, p WeatherParams, cal *calibration.Registry) Estimate {
	b := newBuilder(models.AdjustmentWeather, cal)

	if in.WindMPH != nil {
		wind := *in.WindMPH
		var raw float64
		switch {
		case wind >= windBin20:
			raw = p.Wind20
		case wind >= windBin15:
			raw = p.Wind15
		case wind >= windBin10:
			raw = p.Wind10
		}
		text := fmt.Sprintf("wind %.0f mph", wind)
		if in.Dome {
			raw *= 1 - p.DomeWindReduction
			text += " (roof)"
		}
		b.game("wind", raw, nil, models.ConfidenceMedium, text)
	}

	if in.PrecipInches != nil && !in.Dome {
		precip := *in.PrecipInches
		var raw float64
		switch {
		case precip >= heavyPrecip:
			raw = p.HeavyPrecip
		case precip >= lightPrecip:
			raw = p.LightPrecip
		}
		b.game("precipitation", raw, nil, models.ConfidenceLow, fmt.Sprintf("precipitation %.2f in", precip))
	}

	return b.est
}
