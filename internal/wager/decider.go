package wager

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Decision modes.
const (
	ModeProbability      = "probability"
	ModeAdjustedVsMarket = "adjusted_vs_market"
)

var (
	// ErrUnknownMode is returned by NewDecider for an unrecognized mode.
	ErrUnknownMode = errors.New("unknown wager mode")
	// ErrMissingSimulation is returned when the probability mode has no
	// simulation result for a game.
	ErrMissingSimulation = errors.New("missing simulation result")
	// ErrMissingAdjustedLine is returned when the point mode has no adjusted
	// line for a game.
	ErrMissingAdjustedLine = errors.New("missing adjusted line")
)

// Skip reasons.
const (
	ReasonBelowMinEV     = "ev below minimum"
	ReasonNoEdge         = "no positive edge"
	ReasonBelowThreshold = "edge below point threshold"
	ReasonInvalidPrice   = "invalid price"
)

// Params are the sizing and threshold settings shared by both modes.
type Params struct {
	Bankroll       decimal.Decimal
	MinEV          float64
	KellyCap       float64
	Price          int
	PointThreshold float64
}

// GameInput is everything a Decider may need for one game. Simulation is
// required by the probability mode and Adjusted by the point mode.
type GameInput struct {
	Key        models.GameKey
	Market     models.MarketLine
	Simulation *models.SimulationResult
	Adjusted   *models.MarketLine
}

// Decider produces a decision for each market of a game.
type Decider interface {
	Mode() string
	Decide(in GameInput) (models.GameDecision, error)
}

// NewDecider selects the strategy for mode.
func NewDecider(mode string, params Params, logger *logrus.Logger) (Decider, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	switch mode {
	case ModeProbability, "":
		return &ProbabilityStrategy{params: params, logger: logger}, nil
	case ModeAdjustedVsMarket:
		return &PointThresholdStrategy{params: params, logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// candidate is one side of one market before thresholds are applied.
type candidate struct {
	kind models.MarketKind
	side models.BetSide
	team string
	line float64
	prob float64
	edge float64
	hasP bool
}

// sides lists both sides of both markets. The spread line is quoted from
// the bettor's side; margins are home minus away.
func sides(in GameInput) []candidate {
	m := in.Market
	out := []candidate{
		{kind: models.MarketSpread, side: models.SideHome, team: in.Key.Home, line: m.SpreadHome},
		{kind: models.MarketSpread, side: models.SideAway, team: in.Key.Away, line: -m.SpreadHome},
		{kind: models.MarketTotal, side: models.SideOver, line: m.Total},
		{kind: models.MarketTotal, side: models.SideUnder, line: m.Total},
	}
	if sim := in.Simulation; sim != nil {
		spreadEdge := sim.ModelSpreadHome + m.SpreadHome
		totalEdge := sim.ModelTotal - m.Total
		out[0].prob, out[0].edge = sim.HomeCoverProb, spreadEdge
		out[1].prob, out[1].edge = 1-sim.HomeCoverProb, -spreadEdge
		out[2].prob, out[2].edge = sim.OverProb, totalEdge
		out[3].prob, out[3].edge = 1-sim.OverProb, -totalEdge
		for i := range out {
			out[i].hasP = true
		}
	}
	return out
}

func (c candidate) bet(params Params, ev, kelly float64) models.Bet {
	return models.Bet{
		ID:            uuid.New(),
		Kind:          c.kind,
		Side:          c.side,
		Team:          c.team,
		Line:          c.line,
		Price:         params.Price,
		Probability:   c.prob,
		EV:            ev,
		KellyFraction: kelly,
		Stake:         Stake(kelly, params.Bankroll),
		PointEdge:     c.edge,
	}
}

// pickBest returns the larger-EV bet, or the larger point edge when EVs tie.
func pickBest(spread, total models.Recommendation) *models.Bet {
	var best *models.Bet
	for _, r := range []models.Recommendation{spread, total} {
		b, ok := r.(models.Bet)
		if !ok {
			continue
		}
		if best == nil || b.EV > best.EV || (b.EV == best.EV && b.PointEdge > best.PointEdge) {
			b := b
			best = &b
		}
	}
	return best
}
