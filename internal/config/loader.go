// Package config provides configuration management for the gridiron-edge application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "GRIDIRON"

// DefaultConfigPath is used when no path is given.
const DefaultConfigPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(envPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridiron-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data.source", SourceFile)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.rate_limit", 5.0)
	v.SetDefault("data.max_retries", 3)
	v.SetDefault("data.timeout_seconds", 30)
	v.SetDefault("data.cache_ttl_seconds", 300)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("model.recent_weight", 0.6)
	v.SetDefault("model.home_field_pts", 1.5)
	v.SetDefault("model.score_calibration_factor", 1.0)
	v.SetDefault("model.apply_calibration", true)
	v.SetDefault("model.family", "ridge")
	v.SetDefault("model.ridge_lambda", 1.0)
	v.SetDefault("model.interactions", true)
	v.SetDefault("model.trees", 150)
	v.SetDefault("model.learning_rate", 0.05)
	v.SetDefault("model.max_depth", 3)
	v.SetDefault("model.min_leaf", 10)

	v.SetDefault("simulation.team_sd", 13.5)
	v.SetDefault("simulation.n_sims", 20000)
	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.workers", 0)

	v.SetDefault("adjustments.calibration_multiplier", 1.0)
	v.SetDefault("adjustments.weather.wind_10", -1.0)
	v.SetDefault("adjustments.weather.wind_15", -2.0)
	v.SetDefault("adjustments.weather.wind_20", -3.5)
	v.SetDefault("adjustments.weather.light_precip", -0.8)
	v.SetDefault("adjustments.weather.heavy_precip", -2.0)
	v.SetDefault("adjustments.weather.dome_wind_reduction", 0.75)
	v.SetDefault("adjustments.injury.points_per_unit", 3.0)
	v.SetDefault("adjustments.situational.travel_miles", 1500)
	v.SetDefault("adjustments.situational.short_week_days", 5)
	v.SetDefault("adjustments.situational.travel_delta", -0.4)
	v.SetDefault("adjustments.situational.short_week_delta", -0.5)
	v.SetDefault("adjustments.situational.divisional_delta", -0.6)

	v.SetDefault("wager.bankroll", 1000.0)
	v.SetDefault("wager.min_ev", 0.02)
	v.SetDefault("wager.kelly_fraction_cap", 0.05)
	v.SetDefault("wager.american_price", -110)
	v.SetDefault("wager.mode", "probability")
	v.SetDefault("wager.point_threshold", 1.5)

	v.SetDefault("schedule.cron", "0 0 12 * * 2")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")
}
