package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
)

// GameQuery scopes a resolver lookup to one team and a window of days ending on Day.
type GameQuery struct {
	TeamID       string
	Day          time.Time
	LookbackDays int
}

// GameResolver finds the most recent completed game for a team.
// Implementations return ok=false, nil when no completed game exists in the window.
type GameResolver interface {
	LatestCompleted(ctx context.Context, q GameQuery) (games.Record, bool, error)
}

// VideoStrategy is one best-effort way of locating a condensed game video.
type VideoStrategy interface {
	Name() string
	Lookup(ctx context.Context, gameID string) LookupResult
}
