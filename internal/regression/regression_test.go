package regression

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func randomRow(rng *rand.Rand, week int) *models.MatchupRow {
	return &models.MatchupRow{
		Key:                        models.GameKey{Season: 2023, Week: week, Away: "A", Home: "H"},
		AwayOffVsHomeDefEPAMean:    rng.NormFloat64() * 0.1,
		AwayOffVsHomeDefEPAProduct: rng.NormFloat64() * 0.01,
		AwayOffVsHomeDefSRMean:     0.45 + rng.NormFloat64()*0.03,
		AwayOffVsHomeDefSRProduct:  0.2 + rng.NormFloat64()*0.02,
		HomeOffVsAwayDefEPAMean:    rng.NormFloat64() * 0.1,
		HomeOffVsAwayDefEPAProduct: rng.NormFloat64() * 0.01,
		HomeOffVsAwayDefSRMean:     0.45 + rng.NormFloat64()*0.03,
		HomeOffVsAwayDefSRProduct:  0.2 + rng.NormFloat64()*0.02,
		AwayPointsFor:              21 + rng.NormFloat64()*4,
		AwayPointsAgainst:          21 + rng.NormFloat64()*4,
		HomePointsFor:              22 + rng.NormFloat64()*4,
		HomePointsAgainst:          21 + rng.NormFloat64()*4,
	}
}

func constantOutcomeRows(n int, away, home float64) []*models.MatchupRow {
	rng := rand.New(rand.NewSource(3))
	rows := make([]*models.MatchupRow, n)
	for i := range rows {
		rows[i] = randomRow(rng, i%17+1)
		rows[i].AwayScore = models.Float64(away)
		rows[i].HomeScore = models.Float64(home)
	}
	return rows
}

func TestFeatureVectorShape(t *testing.T) {
	row := randomRow(rand.New(rand.NewSource(1)), 1)

	plain := FeatureVector(row, FeatureOptions{})
	require.Len(t, plain, FeatureCount)
	assert.Zero(t, plain[10])
	assert.Zero(t, plain[11])

	withInteractions := FeatureVector(row, FeatureOptions{Interactions: true})
	assert.NotZero(t, withInteractions[10])
	assert.Equal(t, plain[:10], withInteractions[:10])

	row.Environment = &models.EnvironmentRow{Dome: true, WindMPH: 25, PrecipInches: 0.4, HomeInjuryIndex: 2, AwayInjuryIndex: 0.5}
	domed := FeatureVector(row, FeatureOptions{})
	assert.Equal(t, 1.0, domed[12])
	assert.Zero(t, domed[13], "wind ignored under a roof")
	assert.Zero(t, domed[14])
	assert.Equal(t, 1.5, domed[15])
}

func TestRidgeRecoversLinearSignal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var x [][]float64
	var y []float64
	for i := 0; i < 400; i++ {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		x = append(x, []float64{a, b, 5})
		y = append(y, 3+2*a-b)
	}

	r := NewRidge(1e-6)
	require.NoError(t, r.Fit(x, y))

	got, err := r.Predict([]float64{1, 1, 5})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-3)

	got, err = r.Predict([]float64{-2, 0.5, 5})
	require.NoError(t, err)
	assert.InDelta(t, -1.5, got, 1e-3)

	assert.Zero(t, r.Weights()[2], "constant column carries no weight")
}

func TestRidgeErrors(t *testing.T) {
	r := NewRidge(1)
	_, err := r.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, r.Fit(nil, nil), ErrInsufficientData)
	assert.ErrorIs(t, r.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}), ErrDimension)

	require.NoError(t, r.Fit([][]float64{{1, 2}, {2, 1}, {3, 3}}, []float64{1, 2, 3}))
	_, err = r.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestGradientBoostedLearnsStep(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var x [][]float64
	var y []float64
	for i := 0; i < 200; i++ {
		v := rng.Float64()
		target := 10.0
		if v > 0.5 {
			target = 30.0
		}
		x = append(x, []float64{v, rng.Float64()})
		y = append(y, target)
	}

	g := NewGradientBoosted(200, 0.1, 2, 5)
	require.NoError(t, g.Fit(x, y))

	low, err := g.Predict([]float64{0.2, 0.5})
	require.NoError(t, err)
	high, err := g.Predict([]float64{0.8, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, low, 1.0)
	assert.InDelta(t, 30.0, high, 1.0)
}

func TestGradientBoostedAvailability(t *testing.T) {
	g := NewGradientBoosted(10, 0.1, 2, 2)
	assert.ErrorIs(t, g.Available(MinBoostSamples-1), ErrInsufficientData)
	assert.NoError(t, g.Available(MinBoostSamples))
}

func TestRegressorFallsBackToRidgeWithWarning(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	reg := NewRegressor(Config{Family: FamilyGradientBoost, Params: DefaultParams()}, nil, logger)

	require.NoError(t, reg.Fit(constantOutcomeRows(20, 20, 23)))
	assert.Equal(t, FamilyRidge, reg.Family())

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, FamilyRidge, entry.Data["fallback"])
		}
	}
	assert.True(t, warned, "fallback must be visible in the log")
}

func TestRegressorUsesBoostedWhenAvailable(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	params := DefaultParams()
	params.Trees = 20
	reg := NewRegressor(Config{Family: FamilyGradientBoost, Params: params}, nil, logger)

	require.NoError(t, reg.Fit(constantOutcomeRows(MinBoostSamples+10, 20, 23)))
	assert.Equal(t, FamilyGradientBoost, reg.Family())
}

func TestRegressorHomeFieldThenCalibrationOnce(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cal := calibration.New(1.1, 3.0)
	reg := NewRegressor(Config{
		Family:           FamilyRidge,
		Params:           DefaultParams(),
		HomeFieldPts:     2.5,
		ApplyCalibration: true,
	}, cal, logger)

	rows := constantOutcomeRows(30, 20, 23)
	require.NoError(t, reg.Fit(rows))

	pred, err := reg.Predict(rows[0])
	require.NoError(t, err)
	assert.InDelta(t, 20.0, pred.RawAway, 1e-6)
	assert.InDelta(t, 25.5, pred.RawHome, 1e-6)
	assert.InDelta(t, 22.0, pred.Away, 1e-6)
	assert.InDelta(t, 28.05, pred.Home, 1e-6)
	assert.Equal(t, rows[0].Key, pred.Key)
}

func TestRegressorWithoutCalibration(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	reg := NewRegressor(Config{Family: FamilyRidge, Params: DefaultParams()}, calibration.New(5, 5), logger)
	rows := constantOutcomeRows(30, 17, 24)
	require.NoError(t, reg.Fit(rows))

	pred, err := reg.Predict(rows[1])
	require.NoError(t, err)
	assert.Equal(t, pred.RawAway, pred.Away)
	assert.Equal(t, pred.RawHome, pred.Home)
}

func TestRegressorVariesTracksTrainingColumns(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	rows := constantOutcomeRows(30, 20, 23)
	for i, row := range rows {
		row.Environment = &models.EnvironmentRow{WindMPH: float64(i%4*5)}
	}

	reg := NewRegressor(Config{Family: FamilyRidge, Params: DefaultParams()}, nil, logger)
	assert.False(t, reg.Varies(FeatureWind), "unfitted")
	require.NoError(t, reg.Fit(rows))

	assert.True(t, reg.Varies(FeatureWind))
	assert.True(t, reg.Varies("away_points_blend"))
	assert.False(t, reg.Varies(FeatureInjuryDiff))
	assert.False(t, reg.Varies(FeatureDome))
	assert.False(t, reg.Varies("no_such_feature"))
}

func TestRegressorErrors(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	reg := NewRegressor(Config{}, nil, logger)

	_, err := reg.Predict(&models.MatchupRow{})
	assert.ErrorIs(t, err, ErrNotFitted)

	noOutcomes := constantOutcomeRows(5, 1, 1)
	for _, r := range noOutcomes {
		r.AwayScore = nil
	}
	assert.ErrorIs(t, reg.Fit(noOutcomes), ErrInsufficientData)
}
