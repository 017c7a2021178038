package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func testClient() *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Second,
		MaxRetries:        3,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 3,
	}, nil)
}

const teamWeeksJSON = `[
 {"season":2024,"week":1,"team":"KC","opponent":"BAL","off_epa_per_play":0.1,"def_epa_per_play":-0.05,
  "off_success_rate":0.47,"def_success_rate":0.41,"points_for":27,"points_against":20,"off_plays":60,"def_plays":58}
]`

func TestFeedTeamWeeks(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/team-weeks", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(teamWeeksJSON))
	}))
	defer srv.Close()

	feed := NewFeed(testClient(), nil, srv.URL, "secret", nil)
	rows, err := feed.TeamWeeks(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KC", rows[0].Team)
	v, ok := rows[0].Metric(models.MetricPointsFor)
	assert.True(t, ok)
	assert.Equal(t, 27.0, v)
	assert.Equal(t, "secret", gotKey)
}

func TestFeedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"season":2024,"week":5,"away":"KC","home":"BUF","spread_home":-2.5,"total":47.5}]`))
	}))
	defer srv.Close()

	feed := NewFeed(testClient(), nil, srv.URL, "", nil)
	lines, err := feed.MarketLines(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	key := models.GameKey{Season: 2024, Week: 5, Away: "KC", Home: "BUF"}
	assert.Equal(t, models.MarketLine{SpreadHome: -2.5, Total: 47.5}, lines[key])
}

func TestFeedCachesResponses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"team":"KC","player":"P","position":"QB","status":"Out"}]`))
	}))
	defer srv.Close()

	cache := NewResponseCache(time.Minute)
	feed := NewFeed(testClient(), cache, srv.URL, "", nil)
	for i := 0; i < 3; i++ {
		rows, err := feed.Injuries(context.Background(), 2024, 5)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
	assert.Equal(t, int32(1), calls.Load())
	hits, misses := cache.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestFeedErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrCodeAuthenticationFailed},
		{"not found", http.StatusNotFound, "", ErrCodeNotFound},
		{"bad json", http.StatusOK, "{", ErrCodeInvalidData},
		{"invalid line", http.StatusOK, `[{"season":2024,"week":5,"away":"KC","home":"KC","total":40}]`, ErrCodeInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewFeed(testClient(), nil, srv.URL, "", nil).MarketLines(context.Background(), 2024, 5)
			var fe FeedError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.code, fe.Code)
		})
	}
}

func TestFeedRejectsInvalidTeamWeek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"season":2024,"week":0,"team":"KC","opponent":"BAL"}]`))
	}))
	defer srv.Close()

	_, err := NewFeed(testClient(), nil, srv.URL, "", nil).TeamWeeks(context.Background(), 2024)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileTeamWeeks, teamWeeksJSON)
	writeFile(t, dir, FileSchedule, `[
		{"key":{"season":2024,"week":5,"away":"KC","home":"BUF"},"kickoff_unix":1728250000},
		{"key":{"season":2024,"week":6,"away":"NYJ","home":"MIA"},"kickoff_unix":1728850000}
	]`)
	writeFile(t, dir, FileLines, `[{"season":2024,"week":5,"away":"KC","home":"BUF","spread_home":-2.5,"total":47.5}]`)
	writeFile(t, dir, FileContexts, `[{"team":"KC","division":"AFC West","lat":39.0489,"lon":-94.4839},{"team":"BUF","division":"AFC East"}]`)

	src := NewFileSource(dir)
	ctx := context.Background()

	rows, err := src.TeamWeeks(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	rows, err = src.TeamWeeks(ctx, 2023)
	require.NoError(t, err)
	assert.Empty(t, rows)

	games, err := src.Schedule(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "KC", games[0].Key.Away)

	lines, err := src.MarketLines(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	contexts, err := src.TeamContexts(ctx, 2024, 5)
	require.NoError(t, err)
	require.NotNil(t, contexts["KC"].Stadium)
	assert.Nil(t, contexts["BUF"].Stadium)

	// Optional files may be missing.
	env, err := src.Environment(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Empty(t, env)
	results, err := src.Results(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFileSourceMissingRequiredFile(t *testing.T) {
	_, err := NewFileSource(t.TempDir()).Schedule(context.Background(), 2024, 1)
	var fe FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeNotFound, fe.Code)
}
