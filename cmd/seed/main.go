// Command seed creates a demo account with a public collection filled from
// the catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"vinylvault/internal/collection"
	"vinylvault/internal/config"
	"vinylvault/internal/enrich"
	"vinylvault/internal/ingest"
	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/platform/logging"
	"vinylvault/internal/user"
)

const (
	demoEmail      = "demo@vinylvault.local"
	demoName       = "Demo Collector"
	demoPassword   = "Vinyl#2024"
	demoCollection = "Demo Crate"

	defaultReleaseIDs = "1873013,1392917,1133212,2081464,1012651,367084"

	seedMaxTries = 4
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	logger = logging.Component(logger, "seed")
	slog.SetDefault(logger)

	raw := os.Getenv("SEED_RELEASE_IDS")
	if raw == "" {
		raw = defaultReleaseIDs
	}
	ids, err := parseIDs(raw)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	client, err := discogs.New(discogs.Config{
		BaseURL:   cfg.Discogs.BaseURL,
		UserAgent: cfg.Discogs.UserAgent,
		Credentials: discogs.Credentials{
			UserToken:      cfg.Discogs.Token,
			ConsumerKey:    cfg.Discogs.ConsumerKey,
			ConsumerSecret: cfg.Discogs.ConsumerSecret,
		},
		HTTPClient: &http.Client{Timeout: cfg.Discogs.Timeout.Duration},
	})
	if err != nil {
		return err
	}

	dbTimeout := cfg.Database.Timeout.Duration
	users := user.NewService(user.NewPostgresRepo(pool, dbTimeout))
	collections := collection.NewService(
		collection.NewPostgresRepo(pool, dbTimeout),
		enrich.NewService(newRetryingFetcher(client, seedMaxTries), logger),
		logger,
	)

	demo, err := ensureUser(ctx, users)
	if err != nil {
		return err
	}
	crate, err := ensureCollection(ctx, collections, demo.ID)
	if err != nil {
		return err
	}
	logger.Info("seeding collection", "user", demo.Email, "collection_id", crate.ID, "releases", len(ids))

	importer := ingest.NewService(collections, ingest.NewPostgresRepo(pool, dbTimeout), ingest.DefaultWorkers, logger)
	rep, err := importer.Import(ctx, demo.ID, crate.ID, ids)
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(rep))
	return nil
}

func ensureUser(ctx context.Context, users *user.Service) (user.User, error) {
	u, err := users.Register(ctx, demoEmail, demoName, demoPassword)
	if errors.Is(err, user.ErrAlreadyExists) {
		return users.GetByEmail(ctx, demoEmail)
	}
	return u, err
}

func ensureCollection(ctx context.Context, collections *collection.Service, userID string) (collection.Collection, error) {
	c, err := collections.Create(ctx, userID, collection.CreateCommand{
		Name:        demoCollection,
		Description: "Seeded from the catalog",
		IsPublic:    true,
	})
	if !errors.Is(err, collection.ErrDuplicate) {
		return c, err
	}
	existing, err := collections.List(ctx, userID)
	if err != nil {
		return collection.Collection{}, err
	}
	for _, c := range existing {
		if c.Name == demoCollection {
			return c, nil
		}
	}
	return collection.Collection{}, collection.ErrNotFound
}
