// Package http assembles the trigger surface router.
package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/condensed-game-notifier/internal/http/handlers"
	"github.com/preston-bernstein/condensed-game-notifier/internal/http/middleware"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
)

// RouterConfig carries the handlers and cross-cutting settings.
type RouterConfig struct {
	Handler         *handlers.Handler
	Admin           *handlers.AdminHandler
	Logger          *slog.Logger
	Metrics         *metrics.Recorder
	AdminRateLimit  int
	AdminRateWindow time.Duration
}

// NewRouter registers the public, admin and legacy routes.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(func(next nethttp.Handler) nethttp.Handler {
		return middleware.LoggingMiddleware(cfg.Logger, cfg.Metrics, next)
	})

	// One bucket per client is shared by every route that accepts the secret.
	limit := middleware.RateLimit(cfg.AdminRateLimit, cfg.AdminRateWindow)

	h := cfg.Handler
	r.Get("/", h.Index)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.With(limit).Get("/run", h.Run)
	r.With(limit).Post("/run", h.Run)

	if cfg.Admin != nil {
		admin := cfg.Admin
		r.With(limit).Get("/debug", admin.Debug)
		r.Route("/admin", func(r chi.Router) {
			r.Use(limit)
			r.Use(admin.RequireSecret)
			r.Post("/run", admin.ForceRun)
			r.Post("/ledger/reset", admin.ResetLedger)
			r.Get("/ledger/{gameID}", admin.LedgerEntry)
		})
	}
	return r
}
