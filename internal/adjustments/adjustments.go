// Package adjustments estimates small point deltas from weather, injuries
// and game situation. Estimators are best-effort: missing inputs produce an
// empty estimate, never an error.
package adjustments

import (
	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Estimate is one estimator's output for a game.
type Estimate struct {
	Category    models.AdjustmentCategory `json:"category"`
	Adjustments []models.Adjustment       `json:"adjustments"`
}

// Explanations lists the text of every adjustment in order.
func (e Estimate) Explanations() []string {
	out := make([]string, 0, len(e.Adjustments))
	for _, a := range e.Adjustments {
		out = append(out, a.Explanation)
	}
	return out
}

// Empty reports whether the estimator contributed nothing.
func (e Estimate) Empty() bool {
	return len(e.Adjustments) == 0
}

// builder collects deltas for one estimate and calibrates each once.
type builder struct {
	est Estimate
	cal *calibration.Registry
}

func newBuilder(category models.AdjustmentCategory, cal *calibration.Registry) *builder {
	if cal == nil {
		cal = calibration.NewRegistry(calibration.DefaultMultiplier)
	}
	return &builder{est: Estimate{Category: category}, cal: cal}
}

func (b *builder) team(name, team string, raw float64, conf models.Confidence, explanation string) {
	if raw == 0 {
		return
	}
	b.est.Adjustments = append(b.est.Adjustments, models.Adjustment{
		Name:        name,
		Category:    b.est.Category,
		Scope:       models.ScopeTeam,
		Team:        team,
		Delta:       b.cal.Apply(raw),
		Explanation: explanation,
		Confidence:  conf,
	})
}

func (b *builder) game(name string, raw float64, awayShare *float64, conf models.Confidence, explanation string) {
	if raw == 0 {
		return
	}
	b.est.Adjustments = append(b.est.Adjustments, models.Adjustment{
		Name:        name,
		Category:    b.est.Category,
		Scope:       models.ScopeGame,
		Delta:       b.cal.Apply(raw),
		AwayShare:   awayShare,
		Explanation: explanation,
		Confidence:  conf,
	})
}

// Combine sums already-calibrated deltas into per-team totals. Team-scoped
// deltas go to their team; game-scoped deltas are split evenly unless the
// adjustment carries an away share. Adjustments naming neither team are
// ignored.
func Combine(away, home string, estimates ...Estimate) market.TeamDeltas {
	var out market.TeamDeltas
	for _, est := range estimates {
		for _, a := range est.Adjustments {
			switch a.Scope {
			case models.ScopeTeam:
				switch a.Team {
				case away:
					out.Away += a.Delta
				case home:
					out.Home += a.Delta
				}
			case models.ScopeGame:
				share := 0.5
				if a.AwayShare != nil {
					share = clampShare(*a.AwayShare)
				}
				out.Away += a.Delta * share
				out.Home += a.Delta * (1 - share)
			}
		}
	}
	return out
}

func clampShare(s float64) float64 {
	if s != s {
		return 0.5
	}
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
