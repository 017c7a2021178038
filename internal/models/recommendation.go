package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketKind is the bet market a recommendation refers to.
type MarketKind string

const (
	MarketSpread MarketKind = "spread"
	MarketTotal  MarketKind = "total"
)

// BetSide is the side of a spread or total.
type BetSide string

const (
	SideHome  BetSide = "home"
	SideAway  BetSide = "away"
	SideOver  BetSide = "over"
	SideUnder BetSide = "under"
)

// Recommendation is either a Skip or a Bet.
type Recommendation interface {
	Market() MarketKind
	IsBet() bool
}

// Skip records why a market was passed on.
type Skip struct {
	Kind   MarketKind `json:"market"`
	Reason string     `json:"reason"`
	EV     float64    `json:"ev"`
}

// Market implements Recommendation.
func (s Skip) Market() MarketKind { return s.Kind }

// IsBet implements Recommendation.
func (s Skip) IsBet() bool { return false }

// Bet is a sized wager on one side of a market.
type Bet struct {
	ID            uuid.UUID       `json:"id"`
	Kind          MarketKind      `json:"market"`
	Side          BetSide         `json:"side"`
	Team          string          `json:"team,omitempty"`
	Line          float64         `json:"line"`
	Price         int             `json:"price"`
	Probability   float64         `json:"probability"`
	EV            float64         `json:"ev"`
	KellyFraction float64         `json:"kelly_fraction"`
	Stake         decimal.Decimal `json:"stake"`
	PointEdge     float64         `json:"point_edge"`
}

// Market implements Recommendation.
func (b Bet) Market() MarketKind { return b.Kind }

// IsBet implements Recommendation.
func (b Bet) IsBet() bool { return true }

// GameDecision is the per-game outcome of the decision engine. Best is nil
// when neither market cleared the threshold.
type GameDecision struct {
	Key    GameKey        `json:"key"`
	Spread Recommendation `json:"spread"`
	Total  Recommendation `json:"total"`
	Best   *Bet           `json:"best,omitempty"`
}

// NoPlay reports whether the game has no recommended bet.
func (d GameDecision) NoPlay() bool {
	return d.Best == nil
}
