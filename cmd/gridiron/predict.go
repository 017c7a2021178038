package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/pipeline"
	"github.com/yourusername/gridiron-edge/internal/report"
)

var (
	predictSeason int
	predictWeek   int
	predictFormat string
	predictOutput string
	predictRecord bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Price one week of games and print recommendations",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().IntVar(&predictSeason, "season", 0, "Season to price")
	predictCmd.Flags().IntVar(&predictWeek, "week", 0, "Week to price")
	predictCmd.Flags().StringVar(&predictFormat, "format", "console", "Output format: console, csv or json")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "Write output to this file instead of stdout")
	predictCmd.Flags().BoolVar(&predictRecord, "record", false, "Store recommendations in the database (postgres source only)")
	_ = predictCmd.MarkFlagRequired("season")
	_ = predictCmd.MarkFlagRequired("week")
}

var predictFormats = []string{"console", "csv", "json"}

func runPredict(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(predictFormats, predictFormat) {
		return fmt.Errorf("unknown format %q, expected one of %v", predictFormat, predictFormats)
	}
	ctx := cmd.Context()
	in, err := openInputs(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.close()

	pcfg, err := pipeline.FromConfig(cfg, predictSeason, predictWeek)
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	if predictRecord {
		if in.repos == nil {
			return fmt.Errorf("--record requires data.source=postgres")
		}
		opts = append(opts, pipeline.WithRecorder(in.repos.Recommendation))
	}

	p, err := pipeline.New(pcfg, in.source, newCalibration(), log, opts...)
	if err != nil {
		return err
	}
	rep, err := p.Run(ctx)
	if err != nil {
		return err
	}
	return render(rep)
}

func render(rep *pipeline.Report) error {
	out := os.Stdout
	if predictOutput != "" {
		if predictFormat == "csv" {
			return report.WriteCSVFile(predictOutput, rep)
		}
		f, err := os.Create(predictOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch predictFormat {
	case "console":
		_, err := fmt.Fprint(out, report.Console(rep))
		return err
	case "csv":
		return report.WriteCSV(out, rep)
	default:
		return report.WriteJSON(out, rep)
	}
}
