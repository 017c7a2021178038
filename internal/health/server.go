// Package health serves the service's health, readiness and metrics
// endpoints. Readiness follows the outcome of the latest pipeline cycle.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/pipeline"
)

// Check states reported by /ready.
const (
	StateOK             = "ok"
	StateNotReady       = "not_ready"
	StatePending        = "pending"
	StateSeasonComplete = "season_complete"
)

// DatabasePinger checks the recommendation store.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// CycleReporter exposes the outcome of the latest scheduled cycle.
type CycleReporter interface {
	LastResult() (*pipeline.Report, error)
}

// CycleStatus summarizes the latest cycle.
type CycleStatus struct {
	RunID      string    `json:"run_id,omitempty"`
	Season     int       `json:"season,omitempty"`
	Week       int       `json:"week,omitempty"`
	Games      int       `json:"games"`
	Bets       int       `json:"bets"`
	Skipped    int       `json:"skipped"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// HealthResponse is returned by /health and /live.
type HealthResponse struct {
	Status    string       `json:"status"`
	Service   string       `json:"service"`
	Timestamp string       `json:"timestamp,omitempty"`
	Version   string       `json:"version,omitempty"`
	Commit    string       `json:"commit,omitempty"`
	LastCycle *CycleStatus `json:"last_cycle,omitempty"`
}

// ReadyResponse is returned by /ready.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	LastCycle *CycleStatus      `json:"last_cycle,omitempty"`
	Duration  string            `json:"duration,omitempty"`
}

// Config holds the health server settings. DB, Cycles and Metrics are
// optional.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Cycles      CycleReporter
	// Metrics, when set, is served at MetricsPath (default /metrics).
	Metrics     http.Handler
	MetricsPath string
}

// Server is the service's HTTP endpoint.
type Server struct {
	cfg    Config
	server *http.Server
	mu     sync.RWMutex
	ready  bool
}

func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Server{cfg: cfg}
}

// SetReady marks whether the scheduler is accepting runs.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	if s.cfg.Metrics != nil {
		mux.Handle(s.cfg.MetricsPath, s.cfg.Metrics)
	}
	return mux
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.cfg.Logger.WithFields(logrus.Fields{
			"port":    s.cfg.Port,
			"service": s.cfg.ServiceName,
		}).Info("Health server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return nil
}

// Shutdown stops the server, waiting up to five seconds for open requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.cfg.Logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status, _ := s.lastCycle()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    StateOK,
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
		LastCycle: status,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: StateOK, Service: s.cfg.ServiceName})
}

// handleReady is ready when the scheduler runs, the store answers and the
// latest cycle did not fail. No cycle yet and a finished season are both
// ready states.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"scheduler": StateOK}
	ready := true

	if !s.IsReady() {
		checks["scheduler"] = StateNotReady
		ready = false
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			checks["database"] = fmt.Sprintf("error: %v", err)
			ready = false
		} else {
			checks["database"] = StateOK
		}
	}

	status, state := s.lastCycle()
	if s.cfg.Cycles != nil {
		checks["last_cycle"] = state
		if status != nil && state != StateOK && state != StateSeasonComplete {
			ready = false
		}
	}

	resp := ReadyResponse{
		Status:    StateOK,
		Service:   s.cfg.ServiceName,
		Checks:    checks,
		LastCycle: status,
		Duration:  time.Since(start).String(),
	}
	code := http.StatusOK
	if !ready {
		resp.Status = StateNotReady
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// lastCycle summarizes the scheduler's latest outcome and names its state.
// A failed cycle keeps the last good report's numbers alongside the error.
func (s *Server) lastCycle() (*CycleStatus, string) {
	if s.cfg.Cycles == nil {
		return nil, ""
	}
	rep, err := s.cfg.Cycles.LastResult()
	if rep == nil && err == nil {
		return nil, StatePending
	}

	status := &CycleStatus{}
	if rep != nil {
		status.RunID = rep.RunID.String()
		status.Season = rep.Season
		status.Week = rep.Week
		status.Games = len(rep.Games)
		status.Bets = len(rep.Bets())
		status.Skipped = len(rep.Skipped)
		status.FinishedAt = rep.FinishedAt
	}
	switch {
	case err == nil:
		return status, StateOK
	case errors.Is(err, pipeline.ErrSeasonComplete):
		return status, StateSeasonComplete
	default:
		status.Error = err.Error()
		return status, "error: " + err.Error()
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
