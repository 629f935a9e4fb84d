package trigger

import (
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/timeutil"
)

// Gate decides whether an unforced, unauthenticated run may proceed at a given instant.
type Gate interface {
	Open(now time.Time) bool
}

// WindowGate opens during a wall-clock hour window.
type WindowGate struct {
	Window timeutil.HourWindow
}

func (g WindowGate) Open(now time.Time) bool {
	return g.Window.Contains(now)
}

// AlwaysOpen is a gate that never blocks.
type AlwaysOpen struct{}

func (AlwaysOpen) Open(time.Time) bool { return true }
