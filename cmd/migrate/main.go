// Command migrate applies the goose migrations under db/migrations.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"vinylvault/internal/platform/logging"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := loadSettingsFromEnv()
	if err != nil {
		slog.Error("load settings", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logger = slog.Default()
	}
	logger = logging.Component(logger, "migrate")
	fatal := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	dir := cfg.Dir
	if *command == "create" {
		if *name == "" {
			logger.Error("name is required for 'create' command")
			os.Exit(2)
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			fatal("create migration", err)
		}
		logger.Info("migration created", "name", *name, "dir", dir)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("connect to database", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		fatal("set dialect", err)
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			fatal("apply migrations", err)
		}
		logger.Info("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			fatal("roll back migration", err)
		}
		logger.Info("migration rolled back")
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			fatal("migration status", err)
		}
	default:
		logger.Error("unknown command, use: up, down, status, create", "command", *command)
		os.Exit(2)
	}
}
