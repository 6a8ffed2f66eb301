// Command api serves the VinylVault JSON API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vinylvault/internal/auth"
	"vinylvault/internal/catalog"
	"vinylvault/internal/collection"
	"vinylvault/internal/config"
	"vinylvault/internal/enrich"
	"vinylvault/internal/httpx"
	"vinylvault/internal/ingest"
	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/platform/logging"
	"vinylvault/internal/platform/telemetry"
	"vinylvault/internal/profile"
	"vinylvault/internal/session"
	"vinylvault/internal/stats"
	"vinylvault/internal/user"
)

const (
	version            = "1.0.0"
	sessionSweepPeriod = time.Hour
	shutdownTimeout    = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
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
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ServiceVersion: version,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()
	metrics, err := telemetry.NewCatalogMetrics(tp.Meter("vinylvault/catalog"))
	if err != nil {
		return err
	}

	catalogLogger := logging.Component(logger, "catalog")
	creds := discogs.Credentials{
		UserToken:      cfg.Discogs.Token,
		ConsumerKey:    cfg.Discogs.ConsumerKey,
		ConsumerSecret: cfg.Discogs.ConsumerSecret,
	}
	discogsClient, err := discogs.New(discogs.Config{
		BaseURL:     cfg.Discogs.BaseURL,
		UserAgent:   cfg.Discogs.UserAgent,
		Credentials: creds,
		Fetcher: telemetry.InstrumentFetcher(
			discogs.NewHTTPFetcher(&http.Client{Timeout: cfg.Discogs.Timeout.Duration}),
			metrics,
		),
		LowWaterMark:   cfg.Discogs.LowWaterMark,
		OnRateLimitLow: telemetry.RateLimitObserver(catalogLogger, metrics),
	})
	if err != nil {
		return err
	}
	catalogLogger.Info("catalog client ready", "auth_mode", creds.Mode())

	pool, err := openDB(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	dbTimeout := cfg.Database.Timeout.Duration
	userService := user.NewService(user.NewPostgresRepo(pool, dbTimeout))
	blacklistRepo := session.NewBlacklistPostgresRepo(pool, dbTimeout)
	sessionService := session.NewService(session.NewPostgresRepo(pool, dbTimeout), blacklistRepo)
	authService := auth.NewService(cfg.Auth.JWTSecret, userService, sessionService)
	enricher := enrich.NewService(discogsClient, logging.Component(logger, "enrich"))
	collectionService := collection.NewService(
		collection.NewPostgresRepo(pool, dbTimeout), enricher, logging.Component(logger, "collection"),
	)
	importService := ingest.NewService(
		collectionService, ingest.NewPostgresRepo(pool, dbTimeout), ingest.DefaultWorkers, logging.Component(logger, "ingest"),
	)

	statsService := stats.NewService(stats.NewPostgresRepo(pool, dbTimeout))

	h := handlers{
		auth:        auth.NewHTTPHandler(authService),
		users:       user.NewHTTPHandler(userService),
		sessions:    session.NewHTTPHandler(sessionService),
		catalog:     catalog.NewHTTPHandler(catalog.NewService(discogsClient, catalogLogger)),
		collections: collection.NewHTTPHandler(collectionService),
		stats:       stats.NewHTTPHandler(statsService),
		imports:     ingest.NewHTTPHandler(importService),
		profiles:    profile.NewHTTPHandler(profile.NewService(userService, statsService)),
	}

	var limiter *httpx.RateLimitMiddleware
	if cfg.Server.RateLimitRPS > 0 {
		limiter = httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		defer limiter.Close()
	}

	router := newRouter(h, routerConfig{
		jwtSecret:      cfg.Auth.JWTSecret,
		blacklist:      blacklistRepo,
		ping:           pool.Ping,
		logger:         logging.Component(logger, "http"),
		allowedOrigins: cfg.Server.AllowedOrigins,
		enableHSTS:     cfg.Server.EnableHSTS,
		maxBodyBytes:   cfg.Server.MaxBodyBytes,
		rateLimiter:    limiter,
	})

	go sessionService.RunSweeper(ctx, sessionSweepPeriod, logging.Component(logger, "session"))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Error("cannot ping database", "dsn", redactDSN(dsn), "error", err)
		return nil, err
	}
	logger.Info("database connection OK")
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
