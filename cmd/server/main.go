package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ttp-solver-service/internal/adapters/cache"
	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/adapters/repositories"
	"ttp-solver-service/internal/api"
	"ttp-solver-service/internal/config"
	"ttp-solver-service/internal/platform/db"
	"ttp-solver-service/internal/platform/logging"
	"ttp-solver-service/internal/platform/metrics"
	"ttp-solver-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, _ := logging.New(logging.Config{
		Service:    "ttp-server",
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	slog.SetDefault(logger)
	if dotenvErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	solver := services.NewSolver(services.SolveOptions{
		Heuristics:   cfg.Solver.Heuristics,
		Temperatures: cfg.Solver.Temperatures,
		Seed:         cfg.Solver.Seed,
		MaxPasses:    cfg.Solver.TwoOptMaxPasses,
	},
		services.WithSolverLogger(logger),
		services.WithMaxConcurrent(cfg.Solver.MaxConcurrent),
		services.WithTimeout(cfg.Solver.Timeout),
		services.WithRunObserver(func(r services.RunResult) {
			m.ObserveHeuristic(r.Key, r.Valid, r.Elapsed)
		}),
	)

	// Reject a bad default line-up at startup rather than on the first request.
	if _, err := solver.Heuristics(services.SolveOptions{}); err != nil {
		return fmt.Errorf("solver defaults: %w", err)
	}

	deps := api.Deps{
		Solver:       solver,
		Metrics:      m,
		Logger:       logger,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Limits: reader.SizeLimits{
			MaxDimension: cfg.Solver.MaxDimension,
			MaxItems:     cfg.Solver.MaxItems,
		},
	}

	var conn *sql.DB
	if cfg.Database.URL != "" {
		conn, err = db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		deps.Repo = repositories.NewPostgresInstanceRepository(conn)
		logger.Info("instance library enabled")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()

		deps.Cache = cache.NewRedisReportCache(rdb, "ttp:report", cfg.ReportCacheTTL)
		logger.Info("report cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.ReportCacheTTL)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
