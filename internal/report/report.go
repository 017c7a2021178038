// Package report renders pipeline reports for the terminal and for
// spreadsheets.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
)

// NoPlay is shown for a game with no recommended bet.
const NoPlay = "NO PLAY"

// CSVHeader is the column order of WriteCSV.
var CSVHeader = []string{
	"season", "week", "away", "home", "market_spread_home", "market_total",
	"model_spread_home", "model_total", "adjusted_spread_home", "adjusted_total",
	"home_cover_prob", "over_prob", "decision", "market", "side", "line", "price",
	"probability", "ev", "kelly_fraction", "stake",
}

// Recommendation renders one market decision.
func Recommendation(rec models.Recommendation) string {
	switch r := rec.(type) {
	case models.Bet:
		return BetLine(r)
	case models.Skip:
		if r.EV != 0 {
			return fmt.Sprintf("SKIP %s (%s, EV %+.1f%%)", r.Kind, r.Reason, r.EV*100)
		}
		return fmt.Sprintf("SKIP %s (%s)", r.Kind, r.Reason)
	default:
		return NoPlay
	}
}

// BetLine renders a sized bet.
func BetLine(b models.Bet) string {
	pick := string(b.Side)
	if b.Team != "" {
		pick = b.Team
	}
	line := fmt.Sprintf("%+.1f", b.Line)
	if b.Kind == models.MarketTotal {
		line = fmt.Sprintf("%.1f", b.Line)
	}
	return fmt.Sprintf("BET %s %s %s @ %+d (p %.3f, EV %+.1f%%, kelly %.2f%%, stake $%s)",
		b.Kind, pick, line, b.Price, b.Probability, b.EV*100, b.KellyFraction*100, b.Stake.StringFixed(2))
}

// Console formats a report for terminal output. Lines are rounded to half
// points for display only.
func Console(r *pipeline.Report) string {
	var builder strings.Builder
	builder.WriteString("Gridiron Edge Report\n")
	builder.WriteString("====================\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	builder.WriteString(fmt.Sprintf("Season %d Week %d | model %s | mode %s\n", r.Season, r.Week, r.ModelFamily, r.WagerMode))

	for _, g := range r.Games {
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("%s\n", g.Key.Matchup()))
		builder.WriteString(fmt.Sprintf("  market:   %s %+.1f, total %.1f\n", g.Key.Home, market.RoundHalf(g.Market.SpreadHome), market.RoundHalf(g.Market.Total)))
		builder.WriteString(fmt.Sprintf("  model:    %s %+.1f, total %.1f (%.1f-%.1f)\n", g.Key.Home,
			market.RoundHalf(-g.Simulation.ModelSpreadHome), market.RoundHalf(g.Simulation.ModelTotal), g.Prediction.Away, g.Prediction.Home))
		if len(g.Adjustments) > 0 {
			builder.WriteString(fmt.Sprintf("  adjusted: %s %+.1f, total %.1f\n", g.Key.Home, market.RoundHalf(g.Adjusted.SpreadHome), market.RoundHalf(g.Adjusted.Total)))
			for _, a := range g.Adjustments {
				builder.WriteString(fmt.Sprintf("    %-12s %+.2f  %s\n", a.Category, a.Delta, a.Explanation))
			}
		}
		builder.WriteString(fmt.Sprintf("  cover %.1f%% | win %.1f%% | over %.1f%%\n",
			g.Simulation.HomeCoverProb*100, g.Simulation.HomeWinProb*100, g.Simulation.OverProb*100))
		builder.WriteString(fmt.Sprintf("  spread: %s\n", Recommendation(g.Decision.Spread)))
		builder.WriteString(fmt.Sprintf("  total:  %s\n", Recommendation(g.Decision.Total)))
		if g.Decision.Best != nil {
			builder.WriteString(fmt.Sprintf("  best:   %s\n", BetLine(*g.Decision.Best)))
		} else {
			builder.WriteString(fmt.Sprintf("  best:   %s\n", NoPlay))
		}
	}

	if len(r.Skipped) > 0 {
		builder.WriteString("\nSkipped\n")
		for _, ge := range r.Skipped {
			builder.WriteString(fmt.Sprintf("  %s [%s] %v\n", ge.Game, ge.Stage, ge.Err))
		}
	}

	bets := r.Bets()
	builder.WriteString(fmt.Sprintf("\nBets: %d | Exposure: $%s\n", len(bets), r.Exposure().StringFixed(2)))
	return builder.String()
}

// WriteCSV writes one row per priced game.
func WriteCSV(w io.Writer, r *pipeline.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, g := range r.Games {
		row := []string{
			strconv.Itoa(g.Key.Season),
			strconv.Itoa(g.Key.Week),
			g.Key.Away,
			g.Key.Home,
			ftoa(g.Market.SpreadHome),
			ftoa(g.Market.Total),
			ftoa(-g.Simulation.ModelSpreadHome),
			ftoa(g.Simulation.ModelTotal),
			ftoa(g.Adjusted.SpreadHome),
			ftoa(g.Adjusted.Total),
			ftoa(g.Simulation.HomeCoverProb),
			ftoa(g.Simulation.OverProb),
		}
		if b := g.Decision.Best; b != nil {
			row = append(row, "bet", string(b.Kind), string(b.Side), ftoa(b.Line), strconv.Itoa(b.Price),
				ftoa(b.Probability), ftoa(b.EV), ftoa(b.KellyFraction), b.Stake.StringFixed(2))
		} else {
			row = append(row, "no_play", "", "", "", "", "", "", "", "0.00")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path, creating parent directories.
func WriteCSVFile(path string, r *pipeline.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
