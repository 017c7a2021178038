// Package logger provides pipeline-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for prediction runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// WithRun returns a logger tagged with the run ID.
func (pl *PipelineLogger) WithRun(runID string) *PipelineLogger {
	return &PipelineLogger{Entry: pl.WithField("run_id", runID)}
}

// LogRunStarted logs the start of a batch cycle.
func (pl *PipelineLogger) LogRunStarted(season, week int, modelFamily, wagerMode string) {
	pl.WithFields(logrus.Fields{
		"season":       season,
		"week":         week,
		"model_family": modelFamily,
		"wager_mode":   wagerMode,
	}).Info("Pipeline run started")
}

// LogStage logs a completed stage with its row count.
func (pl *PipelineLogger) LogStage(stage string, rows int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"stage":       stage,
		"rows":        rows,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Pipeline stage completed")
}

// LogGameSkipped logs a game dropped from the run and why.
func (pl *PipelineLogger) LogGameSkipped(game, stage string, err error) {
	pl.WithFields(logrus.Fields{
		"game":  game,
		"stage": stage,
		"error": err.Error(),
	}).Warn("Game skipped")
}

// LogModelFallback logs a model family substitution.
func (pl *PipelineLogger) LogModelFallback(requested, used, reason string) {
	pl.WithFields(logrus.Fields{
		"requested": requested,
		"used":      used,
		"reason":    reason,
	}).Warn("Model family fell back")
}

// LogDecision logs one game's best recommendation.
func (pl *PipelineLogger) LogDecision(game, market, side string, line, ev, stake float64) {
	pl.WithFields(logrus.Fields{
		"game":   game,
		"market": market,
		"side":   side,
		"line":   line,
		"ev":     ev,
		"stake":  stake,
	}).Info("Bet recommended")
}

// LogRunFinished logs the end of a batch cycle.
func (pl *PipelineLogger) LogRunFinished(games, skipped, bets int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"games":       games,
		"skipped":     skipped,
		"bets":        bets,
		"duration_ms": duration.Milliseconds(),
	}).Info("Pipeline run finished")
}
