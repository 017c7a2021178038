// Package config provides configuration management for the gridiron-edge application.
package config

import (
	"fmt"
	"time"
)

// Data source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Data        DataConfig        `mapstructure:"data" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Model       ModelConfig       `mapstructure:"model" validate:"required"`
	Simulation  SimulationConfig  `mapstructure:"simulation" validate:"required"`
	Adjustments AdjustmentsConfig `mapstructure:"adjustments"`
	Wager       WagerConfig       `mapstructure:"wager" validate:"required"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
}

// DataConfig selects where inputs are read from
type DataConfig struct {
	Source         string  `mapstructure:"source" validate:"required,oneof=file http postgres"`
	Dir            string  `mapstructure:"dir"`
	FeedURL        string  `mapstructure:"feed_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	CacheTTLSecs   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	UseEnvironment bool    `mapstructure:"use_environment"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// ModelConfig represents the rating blend and expected-score model
type ModelConfig struct {
	RecentWeight           float64 `mapstructure:"recent_weight" validate:"gte=0,lte=1"`
	HomeFieldPts           float64 `mapstructure:"home_field_pts" validate:"gte=-10,lte=10"`
	ScoreCalibrationFactor float64 `mapstructure:"score_calibration_factor" validate:"gt=0"`
	ApplyCalibration       bool    `mapstructure:"apply_calibration"`
	Family                 string  `mapstructure:"family" validate:"required,modelfamily"`
	RidgeLambda            float64 `mapstructure:"ridge_lambda" validate:"gte=0"`
	Interactions           bool    `mapstructure:"interactions"`
	Trees                  int     `mapstructure:"trees" validate:"gte=0"`
	LearningRate           float64 `mapstructure:"learning_rate" validate:"gte=0,lte=1"`
	MaxDepth               int     `mapstructure:"max_depth" validate:"gte=0"`
	MinLeaf                int     `mapstructure:"min_leaf" validate:"gte=0"`
}

// SimulationConfig represents the Monte Carlo settings
type SimulationConfig struct {
	TeamSD  float64 `mapstructure:"team_sd" validate:"required,gt=0"`
	NSims   int     `mapstructure:"n_sims" validate:"required,gt=0"`
	Seed    int64   `mapstructure:"seed"`
	Workers int     `mapstructure:"workers" validate:"gte=0"`
}

// AdjustmentsConfig represents the adjustment estimators
type AdjustmentsConfig struct {
	CalibrationMultiplier float64           `mapstructure:"calibration_multiplier" validate:"gte=0"`
	Weather               WeatherConfig     `mapstructure:"weather"`
	Injury                InjuryConfig      `mapstructure:"injury"`
	Situational           SituationalConfig `mapstructure:"situational"`
}

// WeatherConfig holds game-total deltas per weather bin
type WeatherConfig struct {
	Wind10            float64 `mapstructure:"wind_10" validate:"lte=0"`
	Wind15            float64 `mapstructure:"wind_15" validate:"lte=0"`
	Wind20            float64 `mapstructure:"wind_20" validate:"lte=0"`
	LightPrecip       float64 `mapstructure:"light_precip" validate:"lte=0"`
	HeavyPrecip       float64 `mapstructure:"heavy_precip" validate:"lte=0"`
	DomeWindReduction float64 `mapstructure:"dome_wind_reduction" validate:"gte=0,lte=1"`
}

// InjuryConfig scales the injury index into points
type InjuryConfig struct {
	PointsPerUnit float64 `mapstructure:"points_per_unit" validate:"gte=0"`
}

// SituationalConfig holds the sub-point situational deltas
type SituationalConfig struct {
	TravelMiles     float64 `mapstructure:"travel_miles" validate:"gte=0"`
	ShortWeekDays   float64 `mapstructure:"short_week_days" validate:"gte=0"`
	TravelDelta     float64 `mapstructure:"travel_delta" validate:"gte=-1,lte=0"`
	ShortWeekDelta  float64 `mapstructure:"short_week_delta" validate:"gte=-1,lte=0"`
	DivisionalDelta float64 `mapstructure:"divisional_delta" validate:"gte=-1,lte=0"`
}

// WagerConfig represents sizing and decision settings
type WagerConfig struct {
	Bankroll         float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	MinEV            float64 `mapstructure:"min_ev" validate:"gte=0"`
	KellyFractionCap float64 `mapstructure:"kelly_fraction_cap" validate:"gte=0,lte=1"`
	AmericanPrice    int     `mapstructure:"american_price" validate:"required"`
	Mode             string  `mapstructure:"mode" validate:"required,wagermode"`
	PointThreshold   float64 `mapstructure:"point_threshold" validate:"gte=0"`
}

// ScheduleConfig represents the recurring cycle for the serve command.
// Each run targets the first week with a game still to kick off. Season 0
// follows the clock; Week is the earliest week a run may target.
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
	Season  int    `mapstructure:"season" validate:"omitempty,gte=1920"`
	Week    int    `mapstructure:"week" validate:"omitempty,gte=1,lte=23"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SecretsConfig points at an AWS Secrets Manager secret
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// FeedTimeout returns the feed request timeout.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Data.TimeoutSeconds) * time.Second
}

// CacheTTL returns the feed response cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Data.CacheTTLSecs) * time.Second
}
