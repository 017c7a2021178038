package adjustments

import (
	"fmt"
	"strings"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// InjuryParams scales the weighted injury index into points.
type InjuryParams struct {
	PointsPerUnit float64 `mapstructure:"points_per_unit" yaml:"points_per_unit"`
}

// DefaultInjuryParams returns 3 points per fully-weighted starter.
func DefaultInjuryParams() InjuryParams {
	return InjuryParams{PointsPerUnit: 3.0}
}

var roleWeights = map[string]float64{
	"QB": 1.0,
	"OL": 0.4, "T": 0.4, "G": 0.4, "C": 0.4, "OT": 0.4, "OG": 0.4,
	"RB": 0.25, "WR": 0.25, "TE": 0.25,
}

const otherRoleWeight = 0.1

// RoleWeight returns the position weight: quarterback, then offensive
// line, then skill positions, then everyone else.
func RoleWeight(position string) float64 {
	if w, ok := roleWeights[strings.ToUpper(strings.TrimSpace(position))]; ok {
		return w
	}
	return otherRoleWeight
}

// StatusWeight counts out and doubtful fully and questionable at half.
// Any other designation counts zero.
func StatusWeight(status string) float64 {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "out", "doubtful", "ir", "injured reserve":
		return 1.0
	case "questionable":
		return 0.5
	default:
		return 0
	}
}

// InjuryIndex sums role × status weights over the team's reports.
func InjuryIndex(team string, reports []models.InjuryReport) float64 {
	var idx float64
	for _, r := range reports {
		if r.Team != team {
			continue
		}
		idx += RoleWeight(r.Position) * StatusWeight(r.Status)
	}
	return idx
}

// Injury estimates a negative per-team delta from each side's reports.
func Injury(away, home string, reports []models.InjuryReport, p InjuryParams, cal *calibration.Registry) Estimate {
	b := newBuilder(models.AdjustmentInjury, cal)
	for _, team := range []string{away, home} {
		idx := InjuryIndex(team, reports)
		if idx == 0 {
			continue
		}
		b.team("injuries", team, -idx*p.PointsPerUnit, models.ConfidenceMedium,
			fmt.Sprintf("%s injury index %.2f (%s)", team, idx, listed(team, reports)))
	}
	return b.est
}

// InjuryFromIndex estimates deltas from precomputed indices, as carried on
// an environment row.
func InjuryFromIndex(away, home string, awayIndex, homeIndex float64, p InjuryParams, cal *calibration.Registry) Estimate {
	b := newBuilder(models.AdjustmentInjury, cal)
	if awayIndex > 0 {
		b.team("injuries", away, -awayIndex*p.PointsPerUnit, models.ConfidenceLow, fmt.Sprintf("%s injury index %.2f", away, awayIndex))
	}
	if homeIndex > 0 {
		b.team("injuries", home, -homeIndex*p.PointsPerUnit, models.ConfidenceLow, fmt.Sprintf("%s injury index %.2f", home, homeIndex))
	}
	return b.est
}

func listed(team string, reports []models.InjuryReport) string {
	var names []string
	for _, r := range reports {
		if r.Team == team && StatusWeight(r.Status) > 0 {
			names = append(names, fmt.Sprintf("%s %s %s", r.Position, r.Player, strings.ToLower(r.Status)))
		}
	}
	return strings.Join(names, ", ")
}
