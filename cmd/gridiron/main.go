// Package main provides the gridiron CLI: weekly predictions, line
// conversions and the scheduled service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	log        *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gridiron",
	Short:         "Football game predictions priced against market lines",
	Long:          `Fits expected-score models on team statistics, simulates each game against its market line and sizes wagers with capped fractional Kelly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override app.log_level")
	rootCmd.AddCommand(predictCmd, convertCmd, serveCmd, migrateCmd)
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, GitCommit)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (defaults fill anything missing),
// overlays secrets, validates and builds the logger.
func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	configured := cfg.App.LogLevel
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}
	log = logger.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if cfg.App.LogLevel != configured {
		logger.NewAuditLogger(log).LogParameterChange("app.log_level", configured, cfg.App.LogLevel, "cli")
	}
	return nil
}

// newCalibration builds both multipliers from config. Values that differ
// from the neutral 1.0, or that were clamped, are audited.
func newCalibration() *calibration.Calibration {
	cal := calibration.New(cfg.Model.ScoreCalibrationFactor, cfg.Adjustments.CalibrationMultiplier)
	audit := logger.NewAuditLogger(log)
	for _, r := range []struct {
		name       string
		configured float64
		reg        *calibration.Registry
	}{
		{"score", cfg.Model.ScoreCalibrationFactor, cal.Score},
		{"adjustment", cfg.Adjustments.CalibrationMultiplier, cal.Adjustment},
	} {
		got := r.reg.Get()
		if got != r.configured {
			log.WithFields(logrus.Fields{"registry": r.name, "configured": r.configured, "used": got}).
				Warn("Calibration multiplier clamped")
		}
		if got != calibration.DefaultMultiplier {
			audit.LogCalibrationChange(r.name, calibration.DefaultMultiplier, got, "config")
		}
	}
	return cal
}
