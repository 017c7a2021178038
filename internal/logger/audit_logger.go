// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecommendation records a sized bet recommendation.
func (al *AuditLogger) LogRecommendation(betID, runID, game, market, side string, line float64, price int, probability, ev, kelly float64, stake string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":      betID,
		"run_id":      runID,
		"game":        game,
		"market":      market,
		"side":        side,
		"line":        line,
		"price":       price,
		"probability": probability,
		"ev":          ev,
		"kelly":       kelly,
		"stake":       stake,
		"timestamp":   timestamp.Unix(),
	}).Info("Recommendation recorded")
}

// LogCalibrationChange logs a calibration multiplier change.
func (al *AuditLogger) LogCalibrationChange(registry string, oldValue, newValue float64, changedBy string) {
	al.WithFields(logrus.Fields{
		"registry":   registry,
		"old_value":  oldValue,
		"new_value":  newValue,
		"changed_by": changedBy,
	}).Info("Calibration changed")
}

// LogParameterChange logs a configuration parameter change.
func (al *AuditLogger) LogParameterChange(parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Parameter changed")
}
