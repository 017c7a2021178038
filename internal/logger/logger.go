// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewLogger creates a new configured logger instance. An empty format picks
// JSON in production and colored text otherwise.
func NewLogger(logLevel, format string) *logrus.Logger {
	return newLogger(os.Stdout, logLevel, format)
}

func newLogger(out io.Writer, logLevel, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if format == "" {
		format = FormatText
		if os.Getenv("GRIDIRON_ENVIRONMENT") == "production" {
			format = FormatJSON
		}
	}

	if format == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}
