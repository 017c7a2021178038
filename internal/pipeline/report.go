package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/regression"
)

// GameReport is one priced game with every intermediate value kept for
// display.
type GameReport struct {
	Key           models.GameKey                 `json:"key"`
	Kickoff       int64                          `json:"kickoff_unix"`
	Market        models.MarketLine              `json:"market"`
	Prediction    models.ExpectedScorePrediction `json:"prediction"`
	Simulation    models.SimulationResult        `json:"simulation"`
	Adjustments   []models.Adjustment            `json:"adjustments"`
	Deltas        market.TeamDeltas              `json:"deltas"`
	AdjustedScore models.ImpliedScore            `json:"adjusted_score"`
	Adjusted      models.MarketLine              `json:"adjusted"`
	Decision      models.GameDecision            `json:"decision"`
}

// Report is the outcome of one batch cycle.
type Report struct {
	RunID       uuid.UUID           `json:"run_id"`
	Season      int                 `json:"season"`
	Week        int                 `json:"week"`
	ModelFamily regression.Family   `json:"model_family"`
	WagerMode   string              `json:"wager_mode"`
	Games       []GameReport        `json:"games"`
	Skipped     []*models.GameError `json:"skipped"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
}

// Bets returns the best bet of every game that has one, in game order.
func (r *Report) Bets() []models.Bet {
	var bets []models.Bet
	for _, g := range r.Games {
		if g.Decision.Best != nil {
			bets = append(bets, *g.Decision.Best)
		}
	}
	return bets
}

// Exposure is the sum of recommended stakes.
func (r *Report) Exposure() decimal.Decimal {
	total := decimal.Zero
	for _, b := range r.Bets() {
		total = total.Add(b.Stake)
	}
	return total
}

// Decisions returns every game decision in game order.
func (r *Report) Decisions() []models.GameDecision {
	out := make([]models.GameDecision, len(r.Games))
	for i, g := range r.Games {
		out[i] = g.Decision
	}
	return out
}
