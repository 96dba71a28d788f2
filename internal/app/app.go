// Package app wires the application together.
package app

import (
	"context"
	"fmt"

	"github.com/allyman17/orchard-rss/internal/cache"
	"github.com/allyman17/orchard-rss/internal/config"
	"github.com/allyman17/orchard-rss/internal/database"
	"github.com/allyman17/orchard-rss/internal/dynamo"
	"github.com/allyman17/orchard-rss/internal/feed"
	"github.com/allyman17/orchard-rss/internal/httpapi"
	"github.com/allyman17/orchard-rss/internal/logging"
	"github.com/allyman17/orchard-rss/internal/ratelimit"
	"github.com/allyman17/orchard-rss/internal/yts"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Cache      cache.Cache
	FeedSvc    *feed.Service
	HTTPServer *httpapi.Server

	db *database.DB
}

// New creates and initializes a new App instance
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.Logger = app.initLogger()
	app.Cache = app.initCache()

	store, err := app.initStore(ctx)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(cfg.YTS.RateLimitDur)
	catalog := yts.NewClient(yts.Config{
		BaseURL:   cfg.YTS.BaseURL,
		Timeout:   cfg.YTS.Timeout,
		UserAgent: "orchard-rss/1.0",
	}, limiter, app.Logger)

	channel := feed.ChannelConfig{
		Title:       cfg.Feed.Title,
		Description: cfg.Feed.Description,
		Link:        cfg.Feed.Link,
	}

	app.FeedSvc = feed.NewService(store, catalog, app.Cache, channel, app.Logger)
	app.HTTPServer = httpapi.New(app.FeedSvc, cfg.Server.APIKey, app.Logger)

	return app, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.Logger.Info("Starting HTTP server", logging.WithField("addr", a.Config.Server.HTTPAddr))
	return a.HTTPServer.Start(a.Config.Server.HTTPAddr)
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}

	if redisCache, ok := a.Cache.(*cache.RedisCache); ok {
		if err := redisCache.Close(); err != nil {
			a.Logger.Error("Redis close error", logging.WithField("error", err.Error()))
		}
	}

	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:   a.Config.Cache.RedisAddr,
			Prefix: "orchard:",
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(a.Config.Cache.TTL)
		}
		return redisCache
	default:
		a.Logger.Info("Using in-memory cache backend")
		return cache.NewMemory(a.Config.Cache.TTL)
	}
}

// initStore builds the configured persistence backend. Unlike the cache
// there is no fallback: a feed service without a durable store is useless.
func (a *App) initStore(ctx context.Context) (feed.EntryStore, error) {
	switch a.Config.Store.Backend {
	case "dynamodb":
		a.Logger.Info("Using DynamoDB store", logging.WithFields(map[string]interface{}{
			"table":  a.Config.Dynamo.Table,
			"region": a.Config.Dynamo.Region,
		}))
		store, err := dynamo.NewEntryStore(ctx, a.Config.Dynamo.Region, a.Config.Dynamo.Table)
		if err != nil {
			return nil, fmt.Errorf("init dynamodb store: %w", err)
		}
		return store, nil

	case "postgres":
		db, err := database.New(database.Config{
			Host:            a.Config.Database.Host,
			Port:            a.Config.Database.Port,
			User:            a.Config.Database.User,
			Password:        a.Config.Database.Password,
			Database:        a.Config.Database.Database,
			SSLMode:         a.Config.Database.SSLMode,
			MaxOpenConns:    database.DefaultConfig().MaxOpenConns,
			MaxIdleConns:    database.DefaultConfig().MaxIdleConns,
			ConnMaxLifetime: database.DefaultConfig().ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.Logger.Info("Connected to PostgreSQL")
		a.db = db
		return database.NewEntryStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", a.Config.Store.Backend)
	}
}
