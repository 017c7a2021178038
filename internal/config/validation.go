// Package config provides configuration management for the gridiron-edge application.
package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("modelfamily", validateModelFamily)
	_ = v.RegisterValidation("wagermode", validateWagerMode)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateModelFamily validates the expected-score model family
func validateModelFamily(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ridge", "gbt":
		return true
	default:
		return false
	}
}

// validateWagerMode validates the decision mode
func validateWagerMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "probability", "adjusted_vs_market":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if p := cfg.Wager.AmericanPrice; p > -100 && p < 100 {
		return fmt.Errorf("wager.american_price must be <= -100 or >= 100, got %d", p)
	}

	switch cfg.Data.Source {
	case SourceFile:
		if cfg.Data.Dir == "" {
			return fmt.Errorf("data.dir is required for the file source")
		}
	case SourceHTTP:
		if cfg.Data.FeedURL == "" {
			return fmt.Errorf("data.feed_url is required for the http source")
		}
	case SourcePostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required for the postgres source")
		}
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	if cfg.Schedule.Enabled {
		if _, err := cron.NewParser(CronFields).Parse(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("invalid schedule.cron %q: %w", cfg.Schedule.Cron, err)
		}
	}

	if cfg.Secrets.Enabled && (cfg.Secrets.Region == "" || cfg.Secrets.SecretName == "") {
		return fmt.Errorf("secrets.region and secrets.secret_name are required when secrets are enabled")
	}

	if cfg.IsProduction() && cfg.Data.Source == SourcePostgres && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// CronFields is the cron spec layout used for schedule.cron: seconds first.
const CronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "modelfamily":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: ridge, gbt\n", field)
		case "wagermode":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: probability, adjusted_vs_market\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if isTestCredential(cfg.Data.APIKey) {
			return fmt.Errorf("production environment should not use a test feed API key")
		}
		if !cfg.Model.ApplyCalibration && cfg.Model.ScoreCalibrationFactor != 1.0 {
			return fmt.Errorf("score_calibration_factor is set but apply_calibration is off")
		}
	}
	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
