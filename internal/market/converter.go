// Package market converts between market lines and implied team scores.
package market

import (
	"math"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// MarketToImplied splits a home-referenced spread and total into per-team
// points. A negative spread (home favored) gives the home side more points.
func MarketToImplied(spreadHome, total float64) models.ImpliedScore {
	return models.ImpliedScore{
		Away: (total + spreadHome) / 2,
		Home: (total - spreadHome) / 2,
	}
}

// ImpliedToMarket is the inverse of MarketToImplied.
func ImpliedToMarket(away, home float64) models.MarketLine {
	return models.MarketLine{
		SpreadHome: away - home,
		Total:      away + home,
	}
}

// Implied converts a MarketLine.
func Implied(line models.MarketLine) models.ImpliedScore {
	return MarketToImplied(line.SpreadHome, line.Total)
}

// Line converts an ImpliedScore.
func Line(score models.ImpliedScore) models.MarketLine {
	return ImpliedToMarket(score.Away, score.Home)
}

// TeamDeltas is the combined per-team adjustment for one game.
type TeamDeltas struct {
	Away float64
	Home float64
}

// Adjust shifts the implied score of line by deltas and returns the adjusted
// score together with its market representation.
func Adjust(line models.MarketLine, deltas TeamDeltas) (models.ImpliedScore, models.MarketLine) {
	implied := Implied(line)
	adjusted := models.ImpliedScore{
		Away: implied.Away + deltas.Away,
		Home: implied.Home + deltas.Home,
	}
	return adjusted, Line(adjusted)
}

// RoundHalf rounds to the nearest half point for display.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
