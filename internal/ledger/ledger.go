// Package ledger records which games have already been announced.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
)

var (
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("ledger closed")
	// ErrInvalidGameID rejects ids that cannot be stored one per line.
	ErrInvalidGameID = errors.New("invalid game id")
)

// Store is a durable set of game ids.
type Store interface {
	Has(ctx context.Context, gameID string) (bool, error)
	Add(ctx context.Context, gameID string) error
	Reset(ctx context.Context) error
	Close() error
}

// Ledger wraps a Store with id validation and fail-open reads.
type Ledger struct {
	store   Store
	backend string
	logger  *slog.Logger
}

// New wraps store. backend names the store in logs.
func New(store Store, backend string, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, backend: backend, logger: logger}
}

// Backend returns the configured backend name.
func (l *Ledger) Backend() string {
	if l == nil {
		return ""
	}
	return l.backend
}

// Contains reports whether gameID was recorded. Store failures are logged and read as false.
func (l *Ledger) Contains(ctx context.Context, gameID string) bool {
	found, err := l.Check(ctx, gameID)
	if err != nil {
		var logger *slog.Logger
		if l != nil {
			logger = l.logger
		}
		logging.Warn(logging.FromContext(ctx, logger), "ledger read failed, treating game as not notified",
			slog.String("backend", l.Backend()),
			slog.String(logging.FieldGameID, gameID),
			slog.Any("err", err),
		)
		return false
	}
	return found
}

// Check is Contains without fail-open semantics.
func (l *Ledger) Check(ctx context.Context, gameID string) (bool, error) {
	if err := ValidateGameID(gameID); err != nil {
		return false, err
	}
	if l == nil || l.store == nil {
		return false, ErrClosed
	}
	return l.store.Has(ctx, gameID)
}

// Add records gameID. Adding an id twice is harmless.
func (l *Ledger) Add(ctx context.Context, gameID string) error {
	if err := ValidateGameID(gameID); err != nil {
		return err
	}
	if l == nil || l.store == nil {
		return ErrClosed
	}
	if err := l.store.Add(ctx, gameID); err != nil {
		return fmt.Errorf("ledger add %s: %w", gameID, err)
	}
	return nil
}

// Reset removes every recorded id.
func (l *Ledger) Reset(ctx context.Context) error {
	if l == nil || l.store == nil {
		return ErrClosed
	}
	if err := l.store.Reset(ctx); err != nil {
		return fmt.Errorf("ledger reset: %w", err)
	}
	logging.Info(logging.FromContext(ctx, l.logger), "ledger reset", slog.String("backend", l.backend))
	return nil
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	if l == nil || l.store == nil {
		return nil
	}
	return l.store.Close()
}

// ValidateGameID rejects empty ids and ids containing whitespace.
func ValidateGameID(gameID string) error {
	if gameID == "" || strings.ContainsAny(gameID, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidGameID, gameID)
	}
	return nil
}
