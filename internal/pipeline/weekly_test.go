package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

var week6Kickoff = time.Date(2023, 10, 15, 17, 0, 0, 0, time.UTC)

// weeklySource extends the week 6 fixture with a played week 5, a week 7
// game without a line and nothing after that.
func weeklySource() *mockSource {
	src := newSource(sourceOpts{})
	week5 := models.GameKey{Season: testSeason, Week: 5, Away: "AAA", Home: "CCC"}
	week7 := models.GameKey{Season: testSeason, Week: 7, Away: "BBB", Home: "AAA"}

	src.On("Schedule", mock.Anything, testSeason, 5).Return([]models.ScheduledGame{
		{Key: week5, Kickoff: week6Kickoff.AddDate(0, 0, -7).Unix()},
	}, nil)
	src.On("Schedule", mock.Anything, testSeason, 7).Return([]models.ScheduledGame{
		{Key: week7, Kickoff: week6Kickoff.AddDate(0, 0, 7).Unix()},
	}, nil)
	src.On("Schedule", mock.Anything, testSeason, mock.AnythingOfType("int")).Return(nil, nil)
	src.On("MarketLines", mock.Anything, testSeason, 7).Return(map[models.GameKey]models.MarketLine{}, nil)
	src.On("Environment", mock.Anything, testSeason, 7).Return(nil, nil)
	src.On("Injuries", mock.Anything, testSeason, 7).Return(nil, nil)
	src.On("TeamContexts", mock.Anything, testSeason, 7).Return(nil, nil)
	return src
}

func newWeekly(t *testing.T, season int, at *time.Time) *Weekly {
	t.Helper()
	w, err := NewWeekly(testConfig(), season, 5, weeklySource(), nil, quietLogger())
	require.NoError(t, err)
	w.now = func() time.Time { return *at }
	return w
}

func TestWeeklyRunsAdvanceThroughTheSeason(t *testing.T) {
	now := week6Kickoff.Add(-24 * time.Hour)
	w := newWeekly(t, testSeason, &now)

	first, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSeason, first.Season)
	assert.Equal(t, testWeek, first.Week)
	require.Len(t, first.Games, 1)
	assert.Equal(t, keyAB, first.Games[0].Key)

	now = week6Kickoff.Add(24 * time.Hour)
	second, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testWeek+1, second.Week)
	assert.Empty(t, second.Games)
	require.Len(t, second.Skipped, 1)
	assert.ErrorIs(t, second.Skipped[0], models.ErrMissingMarketLine)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestWeeklyTarget(t *testing.T) {
	now := week6Kickoff
	w := newWeekly(t, testSeason, &now)

	season, week, err := w.Target(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSeason, season)
	assert.Equal(t, testWeek, week, "a game kicking off now is still upcoming")

	now = week6Kickoff.AddDate(0, 0, 30)
	_, _, err = w.Target(context.Background())
	assert.ErrorIs(t, err, ErrSeasonComplete)
}

func TestWeeklySeasonFromClock(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	w := newWeekly(t, 0, &now)

	_, _, err := w.Target(context.Background())
	require.ErrorIs(t, err, ErrSeasonComplete)
	assert.Contains(t, err.Error(), "season 2023")
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2023, 9, 7, 0, 0, 0, 0, time.UTC), 2023},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 2023},
		{time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC), 2023},
		{time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), 2023},
		{time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), 2024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeasonFor(tt.date), tt.date.String())
	}
}

func TestNewWeeklyValidation(t *testing.T) {
	_, err := NewWeekly(testConfig(), testSeason, 1, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	cfg := testConfig()
	cfg.Simulation.NSims = 0
	_, err = NewWeekly(cfg, testSeason, 1, weeklySource(), nil, nil)
	assert.Error(t, err)
}
