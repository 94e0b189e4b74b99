package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/haimle/botshop/internal/infrastructure/config"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/infrastructure/redis"
	"github.com/haimle/botshop/internal/repository/postgres"
)

// App holds the process-wide resources: configuration, logging, tracing,
// metrics, and the backing-store clients. Services and controllers are wired
// on top of it in cmd/api.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Pool     *pgxpool.Pool
	Redis    *redislib.Client

	tracerProvider *sdktrace.TracerProvider
}

// New loads configuration and brings up every shared resource. On any failure
// the resources already opened are closed before returning.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout).
		With().
		Str("service", "botshop").
		Str("instance", cfg.InstanceID).
		Logger()

	app := &App{Config: cfg, Logger: logger}

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer("botshop", cfg.Observability.JaegerEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		app.tracerProvider = tp
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Registry = registry
	app.Metrics = observability.NewMetrics("botshop", registry)

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	app.Pool = pool

	rdb, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	app.Redis = rdb

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("log_level", cfg.Observability.LogLevel).
		Msg("application bootstrapped")
	return app, nil
}

// Close releases all resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("closing redis client")
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.tracerProvider != nil {
		observability.Shutdown(ctx, a.tracerProvider)
	}
}
