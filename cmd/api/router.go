package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"vinylvault/internal/auth"
	"vinylvault/internal/catalog"
	"vinylvault/internal/collection"
	"vinylvault/internal/httpx"
	"vinylvault/internal/ingest"
	"vinylvault/internal/profile"
	"vinylvault/internal/session"
	"vinylvault/internal/stats"
	"vinylvault/internal/user"
)

type handlers struct {
	auth        *auth.HTTPHandler
	users       *user.HTTPHandler
	sessions    *session.HTTPHandler
	catalog     *catalog.HTTPHandler
	collections *collection.HTTPHandler
	stats       *stats.HTTPHandler
	imports     *ingest.HTTPHandler
	profiles    *profile.HTTPHandler
}

type routerConfig struct {
	jwtSecret      string
	blacklist      httpx.BlacklistRepository
	ping           func(context.Context) error
	logger         *slog.Logger
	allowedOrigins []string
	enableHSTS     bool
	maxBodyBytes   int64
	// nil disables per-client throttling
	rateLimiter    *httpx.RateLimitMiddleware
}

func newRouter(h handlers, cfg routerConfig) http.Handler {
	mux := http.NewServeMux()
	authMW := httpx.AuthMiddleware(cfg.jwtSecret, cfg.blacklist)
	protect := func(fn http.HandlerFunc) http.Handler { return authMW(fn) }

	mux.HandleFunc("GET /healthz", healthHandler(cfg.ping))

	mux.HandleFunc("POST /v1/auth/register", h.users.Register)
	mux.HandleFunc("POST /v1/auth/login", h.auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.auth.RefreshToken)
	mux.Handle("POST /v1/auth/logout", protect(h.auth.Logout))

	mux.Handle("GET /v1/me", protect(h.users.Me))
	mux.Handle("GET /v1/me/profile", protect(h.profiles.Get))
	mux.Handle("PATCH /v1/me/profile", protect(h.profiles.Update))
	mux.Handle("GET /v1/me/stats", protect(h.stats.Get))
	mux.Handle("GET /v1/me/imports", protect(h.imports.Runs))
	mux.Handle("GET /v1/me/sessions", protect(h.sessions.ListSessions))
	mux.Handle("DELETE /v1/me/sessions/{id}", protect(h.sessions.DeleteSession))

	mux.Handle("GET /v1/catalog/search", protect(h.catalog.Search))
	mux.Handle("GET /v1/catalog/suggestions", protect(h.catalog.Suggestions))
	mux.Handle("POST /v1/catalog/barcode", protect(h.catalog.Barcode))
	mux.Handle("GET /v1/catalog/releases/{id}", protect(h.catalog.GetRelease))
	mux.Handle("GET /v1/catalog/masters/{id}", protect(h.catalog.GetMaster))

	mux.Handle("GET /v1/collections", protect(h.collections.List))
	mux.Handle("POST /v1/collections", protect(h.collections.Create))
	mux.Handle("PATCH /v1/collections/{id}", protect(h.collections.Update))
	mux.Handle("DELETE /v1/collections/{id}", protect(h.collections.Delete))
	mux.Handle("GET /v1/collections/{id}/vinyls", protect(h.collections.ListVinyls))
	mux.Handle("POST /v1/collections/{id}/vinyls", protect(h.collections.AddVinyl))
	mux.Handle("GET /v1/collections/{id}/timeline", protect(h.collections.Timeline))
	mux.Handle("POST /v1/collections/{id}/import", protect(h.imports.Import))
	mux.Handle("DELETE /v1/vinyls/{id}", protect(h.collections.RemoveVinyl))

	var handler http.Handler = mux
	if cfg.rateLimiter != nil {
		handler = cfg.rateLimiter.Middleware(handler)
	}
	if cfg.maxBodyBytes > 0 {
		handler = httpx.RequestSizeLimitMiddleware(cfg.maxBodyBytes)(handler)
	}
	handler = httpx.SecurityHeadersMiddleware(cfg.enableHSTS)(handler)
	handler = httpx.CORSMiddleware(cfg.allowedOrigins)(handler)
	handler = httpx.RecoveryMiddleware(cfg.logger)(handler)
	handler = httpx.AccessLogMiddleware(cfg.logger)(handler)
	return httpx.RequestIDMiddleware(handler)
}

func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := ping(ctx); err != nil {
				httpx.JSONErrorWithRequest(r, w, http.StatusServiceUnavailable, httpx.CodeUpstreamUnavailable, "Database not ready", nil)
				return
			}
		}
		httpx.JSONSuccessWithRequest(r, w, map[string]string{"status": "ok"}, nil)
	}
}
