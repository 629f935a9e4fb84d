// Package handlers implements the trigger surface.
package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/condensed-game-notifier/internal/http/requestutil"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/poller"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

// Banner is the plain-text body served at the root path.
const Banner = "MLB Condensed Game Bot is running."

// Controller runs the trigger pipeline and reports on its last run.
type Controller interface {
	Run(ctx context.Context, opts trigger.Options) trigger.Result
	Status() trigger.Status
	Config() trigger.Config
}

// Handler serves the public routes.
type Handler struct {
	ctrl     Controller
	secret   string
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no scheduler runs.
func NewHandler(ctrl Controller, secret string, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		ctrl:     ctrl,
		secret:   secret,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Index serves the liveness banner.
func (h *Handler) Index(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeText(w, nethttp.StatusOK, Banner)
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness along with the last run and scheduler state.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.ctrl == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "controller not configured", h.logger)
		return
	}
	body := map[string]any{
		"status":  "ready",
		"lastRun": h.ctrl.Status(),
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, body, h.logger)
		return
	}
	sched := h.statusFn()
	body["scheduler"] = sched
	if sched.IsReady() {
		writeJSON(w, nethttp.StatusOK, body, h.logger)
		return
	}
	msg := sched.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Run performs a gated run. A valid key overrides the time window; an
// invalid key is rejected before anything runs.
func (h *Handler) Run(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	var opts trigger.Options
	if key, ok := presentedKey(r); ok {
		if !keyMatches(h.secret, key) {
			logging.Warn(logger, "trigger key rejected",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)
			writeError(w, r, nethttp.StatusUnauthorized, "unauthorized", logger)
			return
		}
		opts.Override = true
	}
	res := runDetached(r, h.ctrl, opts)
	writeJSON(w, statusForResult(res), res, logger)
}

// runDetached lets a run finish after the caller disconnects so a delivered
// notification is still committed to the ledger.
func runDetached(r *nethttp.Request, ctrl Controller, opts trigger.Options) trigger.Result {
	return ctrl.Run(context.WithoutCancel(r.Context()), opts)
}

func statusForResult(res trigger.Result) int {
	if res.Outcome == trigger.OutcomeNotifyFailed {
		return nethttp.StatusBadGateway
	}
	return nethttp.StatusOK
}
