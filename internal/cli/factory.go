// Package cli wires the assistant's components for the sunbun commands and
// hosts the interactive chat session.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sunbun/assistant/internal/config"
	"github.com/sunbun/assistant/internal/dataset"
	"github.com/sunbun/assistant/internal/flow"
	"github.com/sunbun/assistant/internal/logging"
	"github.com/sunbun/assistant/internal/observability"
	"github.com/sunbun/assistant/pkg/adapters/memory"
	redisadapter "github.com/sunbun/assistant/pkg/adapters/redis"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/ports"
	"github.com/sunbun/assistant/pkg/runner"
	"github.com/sunbun/assistant/pkg/session"
)

// App bundles the wired components of a running assistant.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *graph.Engine
	Runner   *runner.Runner
	Sessions *session.Manager
	Metrics  *observability.Metrics

	closers []io.Closer
}

// NewApp builds the full dependency graph from configuration. Redis backs
// persistence and locking when configured, otherwise everything stays
// in-process.
func NewApp(cfg config.Config) (*App, error) {
	logger := createLogger(cfg.Logging)

	var provider *dataset.Provider
	var err error
	if cfg.Dataset.Path != "" {
		provider, err = dataset.LoadFile(cfg.Dataset.Path)
	} else {
		provider, err = dataset.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}

	var store ports.StateStore
	sessionOpts := []session.Option{session.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisStore := redisadapter.NewFromClient(client, redisadapter.WithTTL(cfg.Redis.TTL))
		store = redisStore
		app.closers = append(app.closers, redisStore)
		sessionOpts = append(sessionOpts,
			session.WithLocker(redisadapter.NewLocker(client, "sunbun:lock:")),
		)
		logger.Info("Using Redis persistence", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	} else {
		store = memory.NewStore()
		logger.Info("Using in-memory persistence (threads are lost on restart)")
	}

	app.Metrics = observability.New()
	engine, err := graph.NewEngine(
		flow.Build(flow.Deps{
			Directory: provider,
			OTP:       provider,
			Telemetry: provider,
			Catalog:   provider,
			Presence:  provider,
			Logger:    logger,
		}),
		graph.WithLogger(logger),
		graph.WithLifecycleHooks(app.Metrics.Hooks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	app.Engine = engine
	app.Sessions = session.NewManager(store, sessionOpts...)
	app.Runner = runner.New(app.Sessions, engine, runner.WithLogger(logger))
	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func createLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Format == "json" {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.New(level)
}
