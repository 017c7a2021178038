package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// inputs is the configured data source plus the database handle when the
// source is Postgres. refresh drops anything cached between scheduled cycles.
type inputs struct {
	source  datasource.Source
	db      *database.DB
	repos   *repository.Repositories
	refresh func()
	close   func()
}

func openInputs(ctx context.Context, cfg *config.Config) (*inputs, error) {
	switch cfg.Data.Source {
	case config.SourceFile:
		return &inputs{source: datasource.NewFileSource(cfg.Data.Dir), refresh: func() {}, close: func() {}}, nil

	case config.SourceHTTP:
		httpCfg := datasource.DefaultHTTPClientConfig()
		if cfg.Data.TimeoutSeconds > 0 {
			httpCfg.Timeout = cfg.FeedTimeout()
		}
		httpCfg.MaxRetries = cfg.Data.MaxRetries
		if cfg.Data.RateLimit > 0 {
			httpCfg.RateLimit = cfg.Data.RateLimit
		}
		client := datasource.NewRateLimitedHTTPClient(httpCfg, log)
		cache := datasource.NewResponseCache(cfg.CacheTTL())
		feed := datasource.NewFeed(client, cache, cfg.Data.FeedURL, cfg.Data.APIKey, log)
		refresh := func() {
			hits, misses := cache.Stats()
			log.WithFields(logrus.Fields{"cache_hits": hits, "cache_misses": misses}).Debug("Refreshing feed")
			cache.Flush()
			client.Reset()
		}
		return &inputs{source: feed, refresh: refresh, close: func() { client.Close() }}, nil

	case config.SourcePostgres:
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &inputs{source: repository.NewSource(repos), db: db, repos: repos, refresh: func() {}, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

func newDB(ctx context.Context) (*database.DB, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
