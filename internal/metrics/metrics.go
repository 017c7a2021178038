// Package metrics provides centralized Prometheus metrics registry for the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridiron_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs by status",
	}, []string{"status"})
	GamesSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_simulated_total",
		Help:      "Total number of games priced by the simulator",
	})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped by pipeline stage",
	}, []string{"stage"})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of market recommendations by market and decision",
	}, []string{"market", "decision"})
	ModelFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_fallbacks_total",
		Help:      "Total number of times a requested model family fell back",
	}, []string{"requested", "used"})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_bankroll",
		Help:      "Configured bankroll in currency units",
	})
	RecommendedExposure = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recommended_exposure",
		Help:      "Sum of stakes recommended by the last run",
	})
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed pipeline run",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of the simulation stage in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of a full pipeline run in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	RecommendedEV = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommended_ev",
		Help:      "Expected value of recommended bets by market",
		Buckets:   []float64{0, 0.01, 0.02, 0.03, 0.05, 0.075, 0.1, 0.15, 0.25},
	}, []string{"market"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(GamesSimulatedTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(ModelFallbacksTotal)

		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(RecommendedExposure)
		registry.MustRegister(LastRunTimestamp)

		registry.MustRegister(SimulationDuration)
		registry.MustRegister(PipelineDuration)
		registry.MustRegister(RecommendedEV)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPipelineRun records a finished run.
// status should be one of: "success", "failure"
func RecordPipelineRun(status string, durationSeconds float64, finishedUnix int64) {
	PipelineRunsTotal.WithLabelValues(status).Inc()
	PipelineDuration.Observe(durationSeconds)
	if status == "success" {
		LastRunTimestamp.Set(float64(finishedUnix))
	}
}

// RecordSimulation records a completed simulation stage.
func RecordSimulation(games int, durationSeconds float64) {
	GamesSimulatedTotal.Add(float64(games))
	SimulationDuration.Observe(durationSeconds)
}

// RecordSkippedGame records a game dropped at stage.
func RecordSkippedGame(stage string) {
	GamesSkippedTotal.WithLabelValues(stage).Inc()
}

// RecordRecommendation records one market decision. decision is "bet" or "skip".
func RecordRecommendation(market, decision string, ev float64) {
	RecommendationsTotal.WithLabelValues(market, decision).Inc()
	if decision == "bet" {
		RecommendedEV.WithLabelValues(market).Observe(ev)
	}
}

// RecordModelFallback records a model family substitution.
func RecordModelFallback(requested, used string) {
	ModelFallbacksTotal.WithLabelValues(requested, used).Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// UpdateExposure updates the recommended exposure gauge.
func UpdateExposure(amount float64) {
	RecommendedExposure.Set(amount)
}
