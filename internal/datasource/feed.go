package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const feedSourceName = "http_feed"

// Feed reads every input from a JSON HTTP service. Each endpoint takes
// season and, where relevant, week query parameters.
type Feed struct {
	httpClient *RateLimitedHTTPClient
	cache      *ResponseCache
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewFeed creates a feed client.
func NewFeed(httpClient *RateLimitedHTTPClient, cache *ResponseCache, baseURL, apiKey string, logger *logrus.Logger) *Feed {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Feed{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name implements Source.
func (f *Feed) Name() string { return feedSourceName }

// TeamWeeks implements StatsSource.
func (f *Feed) TeamWeeks(ctx context.Context, season int) ([]*models.TeamWeekRecord, error) {
	var rows []*models.TeamWeekRecord
	if err := f.getJSON(ctx, "/team-weeks", season, 0, &rows); err != nil {
		return nil, err
	}
	if err := checkTeamWeeks(feedSourceName, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Results implements StatsSource.
func (f *Feed) Results(ctx context.Context, season int) ([]models.GameResult, error) {
	var rows []models.GameResult
	if err := f.getJSON(ctx, "/results", season, 0, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Schedule implements ScheduleSource.
func (f *Feed) Schedule(ctx context.Context, season, week int) ([]models.ScheduledGame, error) {
	var rows []models.ScheduledGame
	if err := f.getJSON(ctx, "/schedule", season, week, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarketLines implements LinesSource.
func (f *Feed) MarketLines(ctx context.Context, season, week int) (map[models.GameKey]models.MarketLine, error) {
	var rows []lineRecord
	if err := f.getJSON(ctx, "/lines", season, week, &rows); err != nil {
		return nil, err
	}
	return toLines(feedSourceName, rows)
}

// Environment implements EnvironmentSource.
func (f *Feed) Environment(ctx context.Context, season, week int) (map[models.GameKey]models.EnvironmentRow, error) {
	var rows []models.EnvironmentRow
	if err := f.getJSON(ctx, "/environment", season, week, &rows); err != nil {
		return nil, err
	}
	return toEnvironment(rows), nil
}

// Injuries implements InjurySource.
func (f *Feed) Injuries(ctx context.Context, season, week int) ([]models.InjuryReport, error) {
	var rows []models.InjuryReport
	if err := f.getJSON(ctx, "/injuries", season, week, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TeamContexts implements ContextSource.
func (f *Feed) TeamContexts(ctx context.Context, season, week int) (map[string]adjustments.TeamContext, error) {
	var rows []contextRecord
	if err := f.getJSON(ctx, "/team-context", season, week, &rows); err != nil {
		return nil, err
	}
	return toContexts(feedSourceName, rows)
}

func (f *Feed) endpoint(path string, season, week int) string {
	q := url.Values{}
	q.Set("season", strconv.Itoa(season))
	if week > 0 {
		q.Set("week", strconv.Itoa(week))
	}
	return f.baseURL + path + "?" + q.Encode()
}

func (f *Feed) getJSON(ctx context.Context, path string, season, week int, out interface{}) error {
	u := f.endpoint(path, season, week)
	if body, ok := f.cache.Get(u); ok {
		return decode(body, out)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return NewFeedError(feedSourceName, ErrCodeNetworkError, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("X-API-Key", f.apiKey)
	}

	resp, err := f.httpClient.Do(ctx, req)
	if err != nil {
		return NewFeedError(feedSourceName, ErrCodeNetworkError, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewFeedError(feedSourceName, ErrCodeAuthenticationFailed, path, ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewFeedError(feedSourceName, ErrCodeRateLimitExceeded, path, ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewFeedError(feedSourceName, ErrCodeNotFound, path, models.ErrNotFound)
	case resp.StatusCode >= 500:
		return NewFeedError(feedSourceName, ErrCodeServerError, fmt.Sprintf("%s: status %d", path, resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return NewFeedError(feedSourceName, ErrCodeInvalidData, fmt.Sprintf("%s: status %d", path, resp.StatusCode), ErrInvalidData)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewFeedError(feedSourceName, ErrCodeNetworkError, "read body", err)
	}
	if err := decode(body, out); err != nil {
		return err
	}
	f.cache.Set(u, body)

	f.logger.WithFields(logrus.Fields{
		"endpoint": path,
		"season":   season,
		"week":     week,
		"bytes":    len(body),
	}).Debug("Feed response fetched")
	return nil
}

func decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return NewFeedError(feedSourceName, ErrCodeInvalidData, "decode", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}
	return nil
}
