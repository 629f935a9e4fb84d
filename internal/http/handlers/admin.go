package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/condensed-game-notifier/internal/http/requestutil"
	"github.com/preston-bernstein/condensed-game-notifier/internal/ledger"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

// Legacy /debug response texts.
const (
	debugUnauthorized  = "Unauthorized"
	debugNoFlag        = "Debug mode active, but no force_condensed flag provided."
	debugNoGameFormat  = "No completed %s games found in the last %d days."
	debugPosted        = "Condensed game posted to Telegram."
	debugPostFailed    = "Failed to post."
	debugVideoNotFound = "Condensed game not found for that gamePk."
)

// LedgerAdmin is the ledger surface exposed to operators.
type LedgerAdmin interface {
	Check(ctx context.Context, gameID string) (bool, error)
	Reset(ctx context.Context) error
	Backend() string
}

// AdminHandler exposes the secret-gated routes.
type AdminHandler struct {
	ctrl   Controller
	ledger LedgerAdmin
	secret string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(ctrl Controller, ledger LedgerAdmin, secret string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		ctrl:   ctrl,
		ledger: ledger,
		secret: secret,
		logger: logger,
	}
}

// RequireSecret rejects requests without a valid shared secret. With no
// secret configured every request is rejected.
func (h *AdminHandler) RequireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, h.secret) {
			h.logUnauthorized(r)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ForceRun runs the pipeline outside the window. force=false keeps the
// already-sent check; skip_ledger=true leaves the ledger untouched.
func (h *AdminHandler) ForceRun(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	forced, err := flagParam(q.Get("force"), true)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid force parameter", logger)
		return
	}
	skip, err := flagParam(q.Get("skip_ledger"), false)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid skip_ledger parameter", logger)
		return
	}
	res := runDetached(r, h.ctrl, trigger.Options{Forced: forced, Override: true, SkipLedgerWrite: skip})
	writeJSON(w, statusForResult(res), res, logger)
}

// ResetLedger clears every recorded game.
func (h *AdminHandler) ResetLedger(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.ledger == nil {
		writeError(w, r, http.StatusServiceUnavailable, "ledger not configured", logger)
		return
	}
	if err := h.ledger.Reset(r.Context()); err != nil {
		logging.Error(logger, "ledger reset failed", err)
		writeError(w, r, http.StatusInternalServerError, "ledger reset failed", logger)
		return
	}
	logging.Info(logger, "ledger reset via admin", slog.String("backend", h.ledger.Backend()))
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": h.ledger.Backend(),
	}, logger)
}

// LedgerEntry reports whether a game id is recorded.
func (h *AdminHandler) LedgerEntry(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.ledger == nil {
		writeError(w, r, http.StatusServiceUnavailable, "ledger not configured", logger)
		return
	}
	gameID := chi.URLParam(r, "gameID")
	if err := ledger.ValidateGameID(gameID); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid game id", logger)
		return
	}
	found, err := h.ledger.Check(r.Context(), gameID)
	if err != nil {
		logging.Warn(logger, "ledger lookup failed", slog.String(logging.FieldGameID, gameID), slog.Any("err", err))
		writeError(w, r, http.StatusServiceUnavailable, "ledger unavailable", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"gameId":   gameID,
		"notified": found,
		"backend":  h.ledger.Backend(),
	}, logger)
}

// Debug is the legacy forced run. It never writes the ledger, answers in
// plain text and rejects a bad key with 403 as older clients expect.
func (h *AdminHandler) Debug(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !authorized(r, h.secret) {
		h.logUnauthorized(r)
		writeText(w, http.StatusForbidden, debugUnauthorized)
		return
	}
	if r.URL.Query().Get("force_condensed") != "true" {
		writeText(w, http.StatusOK, debugNoFlag)
		return
	}

	logging.Info(logger, "force-condensed mode triggered via debug endpoint")
	res := runDetached(r, h.ctrl, trigger.Options{Forced: true, Override: true, SkipLedgerWrite: true})
	writeText(w, http.StatusOK, h.debugMessage(res))
}

func (h *AdminHandler) debugMessage(res trigger.Result) string {
	switch res.Outcome {
	case trigger.OutcomeSent:
		return debugPosted
	case trigger.OutcomeNotifyFailed:
		return debugPostFailed
	case trigger.OutcomeVideoNotFound:
		return debugVideoNotFound
	default:
		cfg := h.ctrl.Config()
		team := cfg.TeamName
		if team == "" {
			team = "Team " + cfg.TeamID
		}
		return fmt.Sprintf(debugNoGameFormat, team, cfg.LookbackDays)
	}
}

func (h *AdminHandler) logUnauthorized(r *http.Request) {
	logging.Warn(loggerFromContext(r, h.logger), "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
}

// flagParam parses an optional boolean query value.
func flagParam(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}
