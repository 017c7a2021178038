package wager

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// ProbabilityStrategy bets the side with the higher expected value in each
// market when it clears the minimum EV.
type ProbabilityStrategy struct {
	params Params
	logger *logrus.Logger
}

// Mode implements Decider.
func (s *ProbabilityStrategy) Mode() string { return ModeProbability }

// Decide implements Decider.
func (s *ProbabilityStrategy) Decide(in GameInput) (models.GameDecision, error) {
	if in.Simulation == nil {
		return models.GameDecision{}, fmt.Errorf("%w: %s", ErrMissingSimulation, in.Key)
	}
	c := sides(in)
	spread, err := s.market(in.Key, c[0], c[1])
	if err != nil {
		return models.GameDecision{}, err
	}
	total, err := s.market(in.Key, c[2], c[3])
	if err != nil {
		return models.GameDecision{}, err
	}
	return models.GameDecision{
		Key:    in.Key,
		Spread: spread,
		Total:  total,
		Best:   pickBest(spread, total),
	}, nil
}

func (s *ProbabilityStrategy) market(key models.GameKey, a, b candidate) (models.Recommendation, error) {
	evA, err := ExpectedValue(a.prob, s.params.Price)
	if err != nil {
		return nil, err
	}
	evB, err := ExpectedValue(b.prob, s.params.Price)
	if err != nil {
		return nil, err
	}
	pick, ev := a, evA
	if evB > evA {
		pick, ev = b, evB
	}

	if ev <= 0 {
		return models.Skip{Kind: pick.kind, Reason: ReasonNoEdge, EV: ev}, nil
	}
	if ev < s.params.MinEV {
		return models.Skip{Kind: pick.kind, Reason: ReasonBelowMinEV, EV: ev}, nil
	}

	kelly, err := Kelly(pick.prob, s.params.Price, s.params.KellyCap)
	if err != nil {
		return nil, err
	}
	if kelly == s.params.KellyCap {
		s.logger.WithFields(logrus.Fields{
			"game":        key.String(),
			"market":      pick.kind,
			"probability": pick.prob,
			"cap":         s.params.KellyCap,
		}).Debug("Kelly fraction capped")
	}
	return pick.bet(s.params, ev, kelly), nil
}
