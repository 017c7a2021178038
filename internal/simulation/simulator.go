// Package simulation draws game scores to price spreads and totals.
package simulation

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const stageSimulate = "simulate"

var (
	// ErrInvalidConfig is returned for a non-positive draw count or deviation.
	ErrInvalidConfig = errors.New("invalid simulation config")
	// ErrNonFiniteMean is returned when a predicted score is NaN or infinite.
	ErrNonFiniteMean = errors.New("non-finite predicted score")
)

// Config configures the Monte Carlo run.
type Config struct {
	TeamSD  float64
	NSims   int
	Seed    int64
	Workers int
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.NSims <= 0 {
		return fmt.Errorf("%w: n_sims must be positive, got %d", ErrInvalidConfig, c.NSims)
	}
	if c.TeamSD <= 0 || math.IsNaN(c.TeamSD) || math.IsInf(c.TeamSD, 0) {
		return fmt.Errorf("%w: team_sd must be positive, got %v", ErrInvalidConfig, c.TeamSD)
	}
	return nil
}

// Game is one simulation input. Market must be the game's real line.
type Game struct {
	Key    models.GameKey
	MuAway float64
	MuHome float64
	Market *models.MarketLine
}

// Simulator runs independent score draws per game.
type Simulator struct {
	cfg Config
}

// NewSimulator validates cfg.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Simulator{cfg: cfg}, nil
}

// SimulateGame draws NSims scores for one game. Each side is Normal(mu, sd);
// margin is home minus away. Probabilities are measured against the game's
// market line, which is required.
func (s *Simulator) SimulateGame(g Game) (models.SimulationResult, error) {
	if g.Market == nil {
		return models.SimulationResult{}, fmt.Errorf("%w: %s", models.ErrMissingMarketLine, g.Key)
	}
	if !finite(g.MuAway) || !finite(g.MuHome) {
		return models.SimulationResult{}, fmt.Errorf("%w: %s away=%v home=%v", ErrNonFiniteMean, g.Key, g.MuAway, g.MuHome)
	}

	rng := rand.New(rand.NewSource(s.gameSeed(g.Key)))
	sd := s.cfg.TeamSD
	n := s.cfg.NSims
	coverThreshold := -g.Market.SpreadHome

	var sumMargin, sumTotal float64
	var cover, win, over int
	for i := 0; i < n; i++ {
		away := g.MuAway + sd*rng.NormFloat64()
		home := g.MuHome + sd*rng.NormFloat64()
		margin := home - away
		total := home + away
		sumMargin += margin
		sumTotal += total
		if margin > coverThreshold {
			cover++
		}
		if margin > 0 {
			win++
		}
		if total > g.Market.Total {
			over++
		}
	}

	fn := float64(n)
	return models.SimulationResult{
		Key:             g.Key,
		Market:          *g.Market,
		ModelSpreadHome: sumMargin / fn,
		ModelTotal:      sumTotal / fn,
		HomeCoverProb:   float64(cover) / fn,
		HomeWinProb:     float64(win) / fn,
		OverProb:        float64(over) / fn,
		Draws:           n,
	}, nil
}

// Simulate prices every game, spreading games across workers. Results keep
// input order; games that cannot be simulated are reported in skipped.
func (s *Simulator) Simulate(games []Game) ([]models.SimulationResult, []*models.GameError) {
	results := make([]models.SimulationResult, len(games))
	errs := make([]error, len(games))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := s.cfg.Workers
	if workers > len(games) {
		workers = len(games)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = s.SimulateGame(games[i])
			}
		}()
	}
	for i := range games {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]models.SimulationResult, 0, len(games))
	var skipped []*models.GameError
	for i, err := range errs {
		if err != nil {
			skipped = append(skipped, &models.GameError{Game: games[i].Key, Stage: stageSimulate, Err: err})
			continue
		}
		out = append(out, results[i])
	}
	return out, skipped
}

// gameSeed derives a per-game seed so results do not depend on worker
// scheduling.
func (s *Simulator) gameSeed(key models.GameKey) int64 {
	h := fnv.New64a()
	h.Write([]byte(key.String()))
	return s.cfg.Seed ^ int64(h.Sum64())
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
