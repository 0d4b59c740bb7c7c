package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/adapters/repositories"
	"ttp-solver-service/internal/config"
	"ttp-solver-service/internal/platform/db"
	"ttp-solver-service/internal/platform/logging"
)

// dbtool creates the instance library schema and loads instances into it,
// either from a JSON seed file or from individual instance files.
//
//	dbtool [-seed data/seeds/instances.json] [instance files...]
func main() {
	logger := logging.NewWithWriter(logging.Config{
		Service: "ttp-dbtool",
		Level:   config.Get("LOG_LEVEL", "info"),
	}, os.Stderr)
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/instances.json"), "JSON array of instance documents; empty skips seeding")
	flag.Parse()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, *seedPath, flag.Args()); err != nil {
		logger.Error("dbtool failed", "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, files []string) error {
	slog.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	slog.Info("schema ready")

	if strings.TrimSpace(seedPath) != "" {
		n, err := repositories.SeedFromJSON(ctx, conn, seedPath)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		slog.Info("seeding complete", "path", seedPath, "instances", n)
	}

	for _, path := range files {
		inst, err := reader.ReadFile(path)
		if err != nil {
			return err
		}
		if err := repositories.SaveInstance(ctx, conn, inst); err != nil {
			return err
		}
		slog.Info("instance stored", "name", inst.Name, "cities", inst.Dimension, "items", inst.NumItems())
	}

	return nil
}
