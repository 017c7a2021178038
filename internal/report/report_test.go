package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
)

func sampleReport() *pipeline.Report {
	betKey := models.GameKey{Season: 2023, Week: 6, Away: "DET", Home: "KC"}
	passKey := models.GameKey{Season: 2023, Week: 6, Away: "ARI", Home: "WAS"}
	bet := models.Bet{
		ID:            uuid.MustParse("6f1c1f5e-8a1b-4c43-9d8e-2f0f5b7a9c01"),
		Kind:          models.MarketSpread,
		Side:          models.SideHome,
		Team:          "KC",
		Line:          -4.5,
		Price:         -110,
		Probability:   0.58,
		EV:            0.1073,
		KellyFraction: 0.05,
		Stake:         decimal.NewFromInt(500),
	}
	return &pipeline.Report{
		RunID:       uuid.MustParse("0b6a3f2e-1d4c-4e8a-b0a1-5c7d9e2f3a4b"),
		Season:      2023,
		Week:        6,
		ModelFamily: "ridge",
		WagerMode:   "probability",
		Games: []pipeline.GameReport{
			{
				Key:        betKey,
				Market:     models.MarketLine{SpreadHome: -4.5, Total: 53},
				Simulation: models.SimulationResult{ModelSpreadHome: 7.8, ModelTotal: 51.2, HomeCoverProb: 0.58, HomeWinProb: 0.7, OverProb: 0.45},
				Adjustments: []models.Adjustment{
					{Category: models.AdjustmentWeather, Delta: -2, Explanation: "wind 16 mph"},
				},
				Adjusted: models.MarketLine{SpreadHome: -4.5, Total: 51},
				Decision: models.GameDecision{
					Key:    betKey,
					Spread: bet,
					Total:  models.Skip{Kind: models.MarketTotal, Reason: "no positive expected value", EV: -0.012},
					Best:   &bet,
				},
			},
			{
				Key:    passKey,
				Market: models.MarketLine{SpreadHome: -7, Total: 38},
				Decision: models.GameDecision{
					Key:    passKey,
					Spread: models.Skip{Kind: models.MarketSpread, Reason: "edge below point threshold"},
					Total:  models.Skip{Kind: models.MarketTotal, Reason: "edge below point threshold"},
				},
			},
		},
		Skipped: []*models.GameError{
			{Game: models.GameKey{Season: 2023, Week: 6, Away: "NYJ", Home: "BUF"}, Stage: "simulate", Err: models.ErrMissingMarketLine},
		},
	}
}

func TestRecommendation(t *testing.T) {
	bet := sampleReport().Games[0].Decision.Best
	assert.Equal(t, "BET spread KC -4.5 @ -110 (p 0.580, EV +10.7%, kelly 5.00%, stake $500.00)", Recommendation(*bet))
	assert.Equal(t, "SKIP total (no positive expected value, EV -1.2%)",
		Recommendation(models.Skip{Kind: models.MarketTotal, Reason: "no positive expected value", EV: -0.012}))
	assert.Equal(t, "SKIP spread (edge below point threshold)",
		Recommendation(models.Skip{Kind: models.MarketSpread, Reason: "edge below point threshold"}))
	assert.Equal(t, NoPlay, Recommendation(nil))
}

func TestBetLineTotal(t *testing.T) {
	b := models.Bet{Kind: models.MarketTotal, Side: models.SideUnder, Line: 41, Price: -110, Stake: decimal.Zero}
	assert.Contains(t, BetLine(b), "BET total under 41.0 @ -110")
}

func TestConsole(t *testing.T) {
	out := Console(sampleReport())

	assert.Contains(t, out, "Season 2023 Week 6 | model ridge | mode probability")
	assert.Contains(t, out, "DET@KC")
	assert.Contains(t, out, "market:   KC -4.5, total 53.0")
	assert.Contains(t, out, "model:    KC -8.0, total 51.0")
	assert.Contains(t, out, "adjusted: KC -4.5, total 51.0")
	assert.Contains(t, out, "wind 16 mph")
	assert.Contains(t, out, "best:   "+NoPlay)
	assert.Contains(t, out, "2023-W06 NYJ@BUF [simulate] missing market line")
	assert.Contains(t, out, "Bets: 1 | Exposure: $500.00")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])

	for _, row := range records {
		assert.Len(t, row, len(CSVHeader))
	}
	assert.Equal(t, "bet", records[1][12])
	assert.Equal(t, "home", records[1][14])
	assert.Equal(t, "500.00", records[1][20])
	assert.Equal(t, "no_play", records[2][12])
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "week6.csv")
	require.NoError(t, WriteCSVFile(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DET,KC")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0b6a3f2e-1d4c-4e8a-b0a1-5c7d9e2f3a4b", decoded["run_id"])

	skipped := decoded["skipped"].([]any)
	require.Len(t, skipped, 1)
	assert.Equal(t, "missing market line", skipped[0].(map[string]any)["error"])
}
