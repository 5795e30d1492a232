package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/flagquiz/internal/config"
	"github.com/playperu/flagquiz/internal/database"
	"github.com/playperu/flagquiz/internal/handler/health"
	"github.com/playperu/flagquiz/internal/migrations"
	"github.com/playperu/flagquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Game store ---
	store, checks, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	games := server.NewRegistry(store, server.EngineConfig{
		TotalRounds: cfg.TotalRounds,
		Seed:        cfg.Seed,
	}, cfg.SessionTTL, logger)
	broker := server.NewBroker()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, games, broker, cfg.SPADir, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks, map[string]health.Gauge{
			"games":       games.Len,
			"subscribers": broker.Subscribers,
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "rounds", cfg.TotalRounds)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return games.Run(gctx, sweepInterval(cfg.SessionTTL))
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openStore connects the configured game store and returns the health checks
// that cover it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (server.Store, map[string]health.Checker, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)
		store := server.NewSQLiteStore(db)
		return store, map[string]health.Checker{"sqlite": store}, func() { db.Close() }, nil

	case config.StoreRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis")
		store := server.NewRedisStore(rdb, cfg.SessionTTL)
		return store, map[string]health.Checker{"redis": store}, func() { rdb.Close() }, nil

	default:
		logger.Info("using in-memory game store")
		return server.NewMemoryStore(), map[string]health.Checker{}, func() {}, nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/10, time.Second), 10*time.Minute)
}
