package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/models"
)

var (
	convertSpread    float64
	convertTotal     float64
	convertAway      float64
	convertHome      float64
	convertAwayDelta float64
	convertHomeDelta float64
	convertPrice     int
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between market lines, implied scores and odds",
}

var impliedCmd = &cobra.Command{
	Use:   "implied",
	Short: "Implied team scores from a home spread and total, optionally adjusted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		line := models.MarketLine{SpreadHome: convertSpread, Total: convertTotal}
		implied := market.Implied(line)
		fmt.Fprintf(cmd.OutOrStdout(), "implied: away %.2f, home %.2f\n", implied.Away, implied.Home)
		if convertAwayDelta != 0 || convertHomeDelta != 0 {
			score, adjusted := market.Adjust(line, market.TeamDeltas{Away: convertAwayDelta, Home: convertHomeDelta})
			fmt.Fprintf(cmd.OutOrStdout(), "adjusted: away %.2f, home %.2f (spread %+.1f, total %.1f)\n",
				score.Away, score.Home, market.RoundHalf(adjusted.SpreadHome), market.RoundHalf(adjusted.Total))
		}
		return nil
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Home spread and total from team scores",
	RunE: func(cmd *cobra.Command, _ []string) error {
		line := market.ImpliedToMarket(convertAway, convertHome)
		fmt.Fprintf(cmd.OutOrStdout(), "spread (home) %+.2f, total %.2f (display %+.1f / %.1f)\n",
			line.SpreadHome, line.Total, market.RoundHalf(line.SpreadHome), market.RoundHalf(line.Total))
		return nil
	},
}

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Decimal odds and break-even probability of an American price",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dec, err := market.AmericanToDecimal(convertPrice)
		if err != nil {
			return err
		}
		be, err := market.BreakEven(convertPrice)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "decimal %.4f, break-even %.2f%%\n", dec, be*100)
		return nil
	},
}

func init() {
	impliedCmd.Flags().Float64Var(&convertSpread, "spread", 0, "Home spread (negative when home is favored)")
	impliedCmd.Flags().Float64Var(&convertTotal, "total", 0, "Game total")
	impliedCmd.Flags().Float64Var(&convertAwayDelta, "away-delta", 0, "Points added to the away score")
	impliedCmd.Flags().Float64Var(&convertHomeDelta, "home-delta", 0, "Points added to the home score")
	_ = impliedCmd.MarkFlagRequired("total")

	marketCmd.Flags().Float64Var(&convertAway, "away", 0, "Away team points")
	marketCmd.Flags().Float64Var(&convertHome, "home", 0, "Home team points")

	oddsCmd.Flags().IntVar(&convertPrice, "american", -110, "American price")

	convertCmd.AddCommand(impliedCmd, marketCmd, oddsCmd)
}
