package wager

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// PointThresholdStrategy compares the adjusted line against the market and
// bets the side implied by the difference once it reaches the threshold.
// When a simulation is available the bet is also priced and sized.
type PointThresholdStrategy struct {
	params Params
	logger *logrus.Logger
}

// Mode implements Decider.
func (s *PointThresholdStrategy) Mode() string { return ModeAdjustedVsMarket }

// Decide implements Decider.
func (s *PointThresholdStrategy) Decide(in GameInput) (models.GameDecision, error) {
	if in.Adjusted == nil {
		return models.GameDecision{}, fmt.Errorf("%w: %s", ErrMissingAdjustedLine, in.Key)
	}
	c := sides(in)

	// A more negative adjusted spread means the home side is stronger than
	// the market thinks.
	spreadDiff := in.Market.SpreadHome - in.Adjusted.SpreadHome
	homeOrAway := c[0]
	if spreadDiff < 0 {
		homeOrAway = c[1]
	}
	totalDiff := in.Adjusted.Total - in.Market.Total
	overOrUnder := c[2]
	if totalDiff < 0 {
		overOrUnder = c[3]
	}

	spread := s.market(homeOrAway, math.Abs(spreadDiff))
	total := s.market(overOrUnder, math.Abs(totalDiff))
	d := models.GameDecision{
		Key:    in.Key,
		Spread: spread,
		Total:  total,
		Best:   pickBest(spread, total),
	}
	if d.Best != nil {
		s.logger.WithFields(logrus.Fields{
			"game":   in.Key.String(),
			"market": d.Best.Kind,
			"side":   d.Best.Side,
			"edge":   d.Best.PointEdge,
		}).Debug("Point threshold cleared")
	}
	return d, nil
}

func (s *PointThresholdStrategy) market(pick candidate, diff float64) models.Recommendation {
	if diff == 0 || diff < s.params.PointThreshold {
		return models.Skip{Kind: pick.kind, Reason: ReasonBelowThreshold}
	}
	pick.edge = diff

	var ev, kelly float64
	if pick.hasP {
		var err error
		if ev, err = ExpectedValue(pick.prob, s.params.Price); err != nil {
			return models.Skip{Kind: pick.kind, Reason: ReasonInvalidPrice}
		}
		if kelly, err = Kelly(pick.prob, s.params.Price, s.params.KellyCap); err != nil {
			return models.Skip{Kind: pick.kind, Reason: ReasonInvalidPrice}
		}
	}
	return pick.bet(s.params, ev, kelly)
}
