package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/regression"
	"github.com/yourusername/gridiron-edge/internal/simulation"
	"github.com/yourusername/gridiron-edge/internal/wager"
)

const (
	testSeason = 2023
	testWeek   = 6
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) TeamWeeks(ctx context.Context, season int) ([]*models.TeamWeekRecord, error) {
	args := m.Called(ctx, season)
	rows, _ := args.Get(0).([]*models.TeamWeekRecord)
	return rows, args.Error(1)
}

func (m *mockSource) Results(ctx context.Context, season int) ([]models.GameResult, error) {
	args := m.Called(ctx, season)
	rows, _ := args.Get(0).([]models.GameResult)
	return rows, args.Error(1)
}

func (m *mockSource) Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error) {
	args := m.Called(ctx, season, week)
	rows, _ := args.Get(0).([]models.ScheduledGame)
	return rows, args.Error(1)
}

func (m *mockSource) MarketLines(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error) {
	args := m.Called(ctx, season, week)
	lines, _ := args.Get(0).(map[models.GameKey]models.MarketLine)
	return lines, args.Error(1)
}

func (m *mockSource) Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error) {
	args := m.Called(ctx, season, week)
	env, _ := args.Get(0).(map[models.GameKey]models.EnvironmentRow)
	return env, args.Error(1)
}

func (m *mockSource) Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error) {
	args := m.Called(ctx, season, week)
	rows, _ := args.Get(0).([]models.InjuryReport)
	return rows, args.Error(1)
}

func (m *mockSource) TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error) {
	args := m.Called(ctx, season, week)
	rows, _ := args.Get(0).(map[string]adjustments.TeamContext)
	return rows, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) InsertBatch(ctx context.Context, runID uuid.UUID, decisions []models.GameDecision) (int, error) {
	args := m.Called(ctx, runID, decisions)
	return args.Int(0), args.Error(1)
}

var (
	keyAB = models.GameKey{Season: testSeason, Week: testWeek, Away: "AAA", Home: "BBB"}
	keyCD = models.GameKey{Season: testSeason, Week: testWeek, Away: "CCC", Home: "DDD"}
	keyEF = models.GameKey{Season: testSeason, Week: testWeek, Away: "EEE", Home: "FFF"}
)

// strength gives each team a fixed quality with a small weekly wobble.
var strength = map[string]float64{"AAA": 0.10, "BBB": -0.05, "CCC": 0.02, "DDD": 0.06}

func teamWeek(team, opp string, week int) *models.TeamWeekRecord {
	s := strength[team]
	wobble := float64(week%3) * 0.01
	return &models.TeamWeekRecord{
		Season:         testSeason,
		Week:           week,
		Team:           team,
		Opponent:       opp,
		OffEPAPerPlay:  models.Float64(s + wobble),
		DefEPAPerPlay:  models.Float64(-strength[opp] + wobble),
		OffSuccessRate: models.Float64(0.45 + s/2),
		DefSuccessRate: models.Float64(0.44 - s/4 + wobble),
		PointsFor:      models.Float64(22 + 40*s + float64(week%2)),
		PointsAgainst:  models.Float64(22 - 30*s + float64(week%4)),
		OffPlays:       62,
		DefPlays:       61,
	}
}

func fixture() ([]*models.TeamWeekRecord, []models.GameResult) {
	pairings := [][2][2]string{
		{{"AAA", "BBB"}, {"CCC", "DDD"}},
		{{"AAA", "CCC"}, {"BBB", "DDD"}},
		{{"AAA", "DDD"}, {"BBB", "CCC"}},
	}
	var records []*models.TeamWeekRecord
	var results []models.GameResult
	for week := 1; week < testWeek; week++ {
		for _, pair := range pairings[week%3] {
			away, home := pair[0], pair[1]
			if week%2 == 0 {
				away, home = home, away
			}
			records = append(records, teamWeek(away, home, week), teamWeek(home, away, week))
			results = append(results, models.GameResult{
				Key:       models.GameKey{Season: testSeason, Week: week, Away: away, Home: home},
				AwayScore: 21 + 50*strength[away] + float64(week),
				HomeScore: 23 + 50*strength[home] - float64(week%3),
			})
		}
	}
	return records, results
}

func testConfig() Config {
	return Config{
		Season:       testSeason,
		Week:         testWeek,
		RecentWeight: 0.6,
		Regression: regression.Config{
			Family:           regression.FamilyRidge,
			Params:           regression.DefaultParams(),
			Features:         regression.FeatureOptions{Interactions: true},
			HomeFieldPts:     1.5,
			ApplyCalibration: true,
		},
		Simulation:  simulation.Config{TeamSD: 13.5, NSims: 4000, Seed: 7, Workers: 2},
		Weather:     adjustments.DefaultWeatherParams(),
		Injury:      adjustments.DefaultInjuryParams(),
		Situational: adjustments.DefaultSituationalParams(),
		WagerMode:   wager.ModeProbability,
		Wager: wager.Params{
			Bankroll: decimal.NewFromInt(10000),
			MinEV:    0.02,
			KellyCap: 0.05,
			Price:    -110,
		},
	}
}

type sourceOpts struct {
	env        map[models.GameKey]models.EnvironmentRow
	envErr     error
	history    map[models.GameKey]models.EnvironmentRow
	historyErr error
}

// history builds an environment row for every completed fixture game.
func history(fill func(models.GameResult) models.EnvironmentRow) map[models.GameKey]models.EnvironmentRow {
	_, results := fixture()
	out := make(map[models.GameKey]models.EnvironmentRow, len(results))
	for _, res := range results {
		row := fill(res)
		row.Key = res.Key
		out[res.Key] = row
	}
	return out
}

func calmHistory() map[models.GameKey]models.EnvironmentRow {
	return history(func(models.GameResult) models.EnvironmentRow { return models.EnvironmentRow{} })
}

func newSource(opts sourceOpts) *mockSource {
	records, results := fixture()
	kickoff := time.Date(2023, 10, 15, 17, 0, 0, 0, time.UTC).Unix()
	src := &mockSource{}
	src.On("TeamWeeks", mock.Anything, testSeason).Return(records, nil)
	src.On("Results", mock.Anything, testSeason).Return(results, nil)
	src.On("Schedule", mock.Anything, testSeason, testWeek).Return([]models.ScheduledGame{
		{Key: keyAB, Kickoff: kickoff},
		{Key: keyCD, Kickoff: kickoff},
		{Key: keyEF, Kickoff: kickoff},
	}, nil)
	src.On("MarketLines", mock.Anything, testSeason, testWeek).Return(map[models.GameKey]models.MarketLine{
		keyAB: {SpreadHome: 2.5, Total: 44.5},
		keyEF: {SpreadHome: -3, Total: 41},
	}, nil)
	src.On("Environment", mock.Anything, testSeason, testWeek).Return(opts.env, opts.envErr)
	if opts.history != nil || opts.historyErr != nil {
		src.On("Environment", mock.Anything, testSeason, mock.AnythingOfType("int")).Return(opts.history, opts.historyErr)
	}
	src.On("Injuries", mock.Anything, testSeason, testWeek).Return(nil, nil)
	src.On("TeamContexts", mock.Anything, testSeason, testWeek).Return(nil, nil)
	return src
}

func quietLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func TestRunProducesReportAndSkips(t *testing.T) {
	src := newSource(sourceOpts{})
	p, err := New(testConfig(), src, nil, quietLogger())
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Equal(t, regression.FamilyRidge, report.ModelFamily)
	require.Len(t, report.Games, 1)

	game := report.Games[0]
	assert.Equal(t, keyAB, game.Key)
	assert.Equal(t, models.MarketLine{SpreadHome: 2.5, Total: 44.5}, game.Market)
	assert.Equal(t, game.Market, game.Simulation.Market)
	for _, prob := range []float64{game.Simulation.HomeCoverProb, game.Simulation.HomeWinProb, game.Simulation.OverProb} {
		assert.GreaterOrEqual(t, prob, 0.0)
		assert.LessOrEqual(t, prob, 1.0)
	}
	assert.NotNil(t, game.Decision.Spread)
	assert.NotNil(t, game.Decision.Total)
	assert.Empty(t, game.Adjustments)
	assert.Equal(t, game.Market, game.Adjusted)

	require.Len(t, report.Skipped, 2)
	stages := map[models.GameKey]*models.GameError{}
	for _, ge := range report.Skipped {
		stages[ge.Game] = ge
	}
	assert.ErrorIs(t, stages[keyEF], models.ErrMissingTeamFeatures)
	assert.ErrorIs(t, stages[keyCD], models.ErrMissingMarketLine)

	src.AssertExpectations(t)
}

func TestRunIsDeterministic(t *testing.T) {
	p1, err := New(testConfig(), newSource(sourceOpts{}), nil, quietLogger())
	require.NoError(t, err)
	p2, err := New(testConfig(), newSource(sourceOpts{}), nil, quietLogger())
	require.NoError(t, err)

	r1, err := p1.Run(context.Background())
	require.NoError(t, err)
	r2, err := p2.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, r1.Games, 1)
	require.Len(t, r2.Games, 1)
	assert.Equal(t, r1.Games[0].Simulation, r2.Games[0].Simulation)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestRunPointModeUsesWeatherAdjustment(t *testing.T) {
	cfg := testConfig()
	cfg.WagerMode = wager.ModeAdjustedVsMarket
	cfg.Wager.PointThreshold = 1.0
	env := map[models.GameKey]models.EnvironmentRow{
		keyAB: {Key: keyAB, WindMPH: 22},
	}

	p, err := New(cfg, newSource(sourceOpts{env: env}), nil, quietLogger())
	require.NoError(t, err)
	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Games, 1)

	game := report.Games[0]
	assert.InDelta(t, -3.5, game.Deltas.Away+game.Deltas.Home, 1e-9)
	assert.InDelta(t, 41.0, game.Adjusted.Total, 1e-9)
	assert.InDelta(t, 2.5, game.Adjusted.SpreadHome, 1e-9)

	best := game.Decision.Best
	require.NotNil(t, best)
	assert.Equal(t, models.MarketTotal, best.Kind)
	assert.Equal(t, models.SideUnder, best.Side)
	assert.InDelta(t, 3.5, best.PointEdge, 1e-9)
	assert.True(t, report.Exposure().Equal(best.Stake))
}

func TestRunStrictEnvironmentMerge(t *testing.T) {
	cfg := testConfig()
	cfg.UseEnvironment = true
	env := map[models.GameKey]models.EnvironmentRow{
		keyAB: {Key: keyAB, Dome: true},
	}

	src := newSource(sourceOpts{env: env, history: calmHistory()})
	p, err := New(cfg, src, nil, quietLogger())
	require.NoError(t, err)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Games, 1)
	assert.Equal(t, keyAB, report.Games[0].Key)
	for week := 1; week < testWeek; week++ {
		src.AssertCalled(t, "Environment", mock.Anything, testSeason, week)
	}

	var envSkip bool
	for _, ge := range report.Skipped {
		if ge.Game == keyCD && errors.Is(ge, models.ErrMissingEnvironment) {
			envSkip = true
		}
	}
	assert.True(t, envSkip, "game without environment should be skipped")
}

func TestRunEnvironmentErrorHandling(t *testing.T) {
	feedErr := errors.New("weather feed down")

	t.Run("optional", func(t *testing.T) {
		p, err := New(testConfig(), newSource(sourceOpts{envErr: feedErr}), nil, quietLogger())
		require.NoError(t, err)
		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.Games, 1)
	})

	t.Run("required", func(t *testing.T) {
		cfg := testConfig()
		cfg.UseEnvironment = true
		p, err := New(cfg, newSource(sourceOpts{envErr: feedErr}), nil, quietLogger())
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		assert.ErrorIs(t, err, feedErr)
	})

	t.Run("training weeks required", func(t *testing.T) {
		cfg := testConfig()
		cfg.UseEnvironment = true
		env := map[models.GameKey]models.EnvironmentRow{keyAB: {Key: keyAB}}
		p, err := New(cfg, newSource(sourceOpts{env: env, historyErr: feedErr}), nil, quietLogger())
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		assert.ErrorIs(t, err, feedErr)
	})
}

func runWithHomeInjury(t *testing.T, past map[models.GameKey]models.EnvironmentRow, wind, homeIndex float64) GameReport {
	t.Helper()
	cfg := testConfig()
	cfg.UseEnvironment = true
	env := map[models.GameKey]models.EnvironmentRow{
		keyAB: {Key: keyAB, WindMPH: wind, HomeInjuryIndex: homeIndex},
		keyCD: {Key: keyCD},
	}
	p, err := New(cfg, newSource(sourceOpts{env: env, history: past}), nil, quietLogger())
	require.NoError(t, err)
	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Games, 1)
	return report.Games[0]
}

func TestRunInjuryIndexAdjustsWhenModelNeverSawIt(t *testing.T) {
	windy := history(func(res models.GameResult) models.EnvironmentRow {
		return models.EnvironmentRow{WindMPH: float64(res.Key.Week%3) * 6}
	})

	healthy := runWithHomeInjury(t, windy, 22, 0)
	hurt := runWithHomeInjury(t, windy, 22, 3)

	assert.Zero(t, healthy.Deltas.Home)
	assert.InDelta(t, -9.0, hurt.Deltas.Home, 1e-9)
	assert.Zero(t, hurt.Deltas.Away)
	assert.InDelta(t, healthy.Prediction.Home, hurt.Prediction.Home, 1e-9)

	var categories []models.AdjustmentCategory
	for _, adj := range hurt.Adjustments {
		categories = append(categories, adj.Category)
	}
	assert.Contains(t, categories, models.AdjustmentInjury)
	assert.NotContains(t, categories, models.AdjustmentWeather, "wind was learned by the model")
}

func TestRunInjuryIndexLearnedAsFeature(t *testing.T) {
	injured := history(func(res models.GameResult) models.EnvironmentRow {
		return models.EnvironmentRow{HomeInjuryIndex: float64(res.Key.Week % 3)}
	})

	healthy := runWithHomeInjury(t, injured, 0, 0)
	hurt := runWithHomeInjury(t, injured, 0, 3)

	assert.Zero(t, hurt.Deltas.Home, "index is not applied twice")
	assert.Zero(t, hurt.Deltas.Away)
	assert.Greater(t, math.Abs(hurt.Prediction.Home-healthy.Prediction.Home), 0.01)
}

func TestRunSourceFailureAbortsRun(t *testing.T) {
	boom := errors.New("connection refused")
	src := &mockSource{}
	src.On("TeamWeeks", mock.Anything, testSeason).Return(nil, boom)

	p, err := New(testConfig(), src, nil, quietLogger())
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, report.Games)
}

func TestRunRecordsRecommendations(t *testing.T) {
	cfg := testConfig()
	cfg.WagerMode = wager.ModeAdjustedVsMarket
	cfg.Wager.PointThreshold = 1.0
	env := map[models.GameKey]models.EnvironmentRow{keyAB: {Key: keyAB, WindMPH: 22}}

	rec := &mockRecorder{}
	rec.On("InsertBatch", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.Anything).Return(1, nil)

	p, err := New(cfg, newSource(sourceOpts{env: env}), nil, quietLogger(), WithRecorder(rec))
	require.NoError(t, err)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	rec.AssertCalled(t, "InsertBatch", mock.Anything, report.RunID, report.Decisions())
}

func TestRunRecorderFailure(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("InsertBatch", mock.Anything, mock.Anything, mock.Anything).Return(0, errors.New("disk full"))

	p, err := New(testConfig(), newSource(sourceOpts{}), nil, quietLogger(), WithRecorder(rec))
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record recommendations")
}

func TestRunLogsModelFallback(t *testing.T) {
	log, hook := test.NewNullLogger()
	cfg := testConfig()
	cfg.Regression.Family = regression.FamilyGradientBoost

	p, err := New(cfg, newSource(sourceOpts{}), nil, log)
	require.NoError(t, err)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, regression.FamilyRidge, report.ModelFamily)
	var fellBack bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Model family fell back" {
			fellBack = true
			assert.Equal(t, "gbt", entry.Data["requested"])
		}
	}
	assert.True(t, fellBack)
}

func TestNewValidation(t *testing.T) {
	src := newSource(sourceOpts{})

	_, err := New(testConfig(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	cfg := testConfig()
	cfg.Week = 0
	_, err = New(cfg, src, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidWeek)

	cfg = testConfig()
	cfg.Simulation.NSims = 0
	_, err = New(cfg, src, nil, nil)
	assert.ErrorIs(t, err, simulation.ErrInvalidConfig)

	cfg = testConfig()
	cfg.WagerMode = "martingale"
	_, err = New(cfg, src, nil, nil)
	assert.ErrorIs(t, err, wager.ErrUnknownMode)
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.LoadWithDefaults("")
	require.NoError(t, err)
	cfg.Wager.Bankroll = 2500
	cfg.Model.Family = "gbt"

	pc, err := FromConfig(cfg, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2024, pc.Season)
	assert.Equal(t, 3, pc.Week)
	assert.Equal(t, regression.FamilyGradientBoost, pc.Regression.Family)
	assert.True(t, pc.Wager.Bankroll.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, cfg.Simulation.NSims, pc.Simulation.NSims)
	assert.Equal(t, adjustments.DefaultWeatherParams(), pc.Weather)
	assert.Equal(t, adjustments.DefaultSituationalParams(), pc.Situational)

	_, err = FromConfig(cfg, 2024, 0)
	assert.ErrorIs(t, err, ErrInvalidWeek)
}
