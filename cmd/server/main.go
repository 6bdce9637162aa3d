package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/pscheid92/prizeintervals/internal/adapter/httpserver"
	"github.com/pscheid92/prizeintervals/internal/adapter/memory"
	"github.com/pscheid92/prizeintervals/internal/adapter/metrics"
	"github.com/pscheid92/prizeintervals/internal/adapter/postgres"
	"github.com/pscheid92/prizeintervals/internal/adapter/redis"
	"github.com/pscheid92/prizeintervals/internal/app"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/movielist"
	"github.com/pscheid92/prizeintervals/internal/platform/config"
	"github.com/pscheid92/prizeintervals/internal/platform/logging"
	"github.com/pscheid92/prizeintervals/internal/platform/retry"
	"github.com/pscheid92/prizeintervals/internal/platform/version"
)

const (
	connectTimeout = 30 * time.Second
	importTimeout  = 2 * time.Minute
)

func connectPolicy(clock clockwork.Clock, component string) retry.Policy {
	return retry.Policy{
		MaxAttempts:    5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Clock:          clock,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Connection attempt failed, retrying",
				"component", component,
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
			)
		},
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, clock clockwork.Clock, storeMetrics *metrics.StoreMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	classify := func(err error) retry.Action {
		if errors.Is(err, postgres.ErrInvalidDatabaseURL) {
			return retry.Stop
		}
		return retry.Retry
	}
	pool, err := retry.Do(ctx, connectPolicy(clock, "postgres"), classify, func(ctx context.Context) (*pgxpool.Pool, error) {
		return postgres.Connect(ctx, cfg.DatabaseURL, postgres.NewMetricsTracer(storeMetrics))
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config, clock clockwork.Clock, storeMetrics *metrics.StoreMetrics) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	classify := func(err error) retry.Action {
		if errors.Is(err, redis.ErrInvalidRedisURL) {
			return retry.Stop
		}
		return retry.Retry
	}
	client, err := retry.Do(ctx, connectPolicy(clock, "redis"), classify, func(ctx context.Context) (*goredis.Client, error) {
		// Fresh breaker per attempt so failed startup pings do not leave it open.
		breaker := redis.NewCircuitBreakerHook(func(_, to gobreaker.State) {
			storeMetrics.BreakerStateChanged("redis", to.String(), redis.StateValue(to))
		})
		return redis.NewClient(ctx, cfg.RedisURL, redis.NewMetricsHook(storeMetrics), breaker)
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func importMovieList(appSvc *app.Service, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	report, err := appSvc.ImportFile(ctx, path, domain.ImportReplace)
	if err != nil {
		slog.Error("Failed to import movie list", "path", path, "error", err)
		os.Exit(1)
	}
	slog.Info("Startup import finished", "path", path, "imported", report.Imported, "skipped", len(report.Skipped))
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	reg := metrics.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(reg)

	var (
		movies       domain.MovieRepository
		cache        domain.IntervalCache
		cacheBackend string
		healthChecks httpserver.HealthChecks
	)

	if cfg.DatabaseURL != "" {
		pool := setupDB(cfg, clock, storeMetrics)
		defer pool.Close()

		movies = postgres.NewMovieRepo(pool)
		healthChecks.Readiness = append(healthChecks.Readiness, httpserver.HealthCheck{Name: "postgres", Check: pool.Ping})
	} else {
		slog.Warn("DATABASE_URL not set, keeping movies in memory")
		movies = memory.NewMovieRepo()
	}

	if cfg.RedisURL != "" {
		redisClient := setupRedis(cfg, clock, storeMetrics)
		defer func() { _ = redisClient.Close() }()

		cache = redis.NewIntervalCache(redisClient, cfg.CacheTTL)
		cacheBackend = "redis"
	} else {
		cache = memory.NewIntervalCache(cfg.CacheTTL, clock)
		cacheBackend = "memory"
	}

	appSvc := app.NewService(movies, cache, metrics.NewIntervalMetrics(reg, cacheBackend), clock,
		movielist.Options{SplitConjunction: cfg.ProducerSplitAnd},
		app.WithComputeTimeout(cfg.QueryTimeout))

	if cfg.ImportOnStartup {
		importMovieList(appSvc, cfg.MovieListPath)
		healthChecks.Startup = append(healthChecks.Startup, httpserver.HealthCheck{Name: "movie_list", Check: appSvc.CheckMovieListLoaded})
	}

	srv := httpserver.NewServer(cfg, appSvc, reg, healthChecks)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
