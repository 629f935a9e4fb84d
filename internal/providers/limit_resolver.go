package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
)

// rateLimitedResolver wraps a GameResolver and enforces a minimum interval between calls.
type rateLimitedResolver struct {
	next    GameResolver
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedResolver returns a GameResolver that allows one call per interval.
// Calls block until a token is available or the context ends.
func NewRateLimitedResolver(next GameResolver, interval time.Duration, logger *slog.Logger) GameResolver {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedResolver{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

func (p *rateLimitedResolver) LatestCompleted(ctx context.Context, q GameQuery) (games.Record, bool, error) {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		}
		return games.Record{}, false, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited resolve canceled", "err", err)
		if ctx.Err() != nil {
			return games.Record{}, false, ctx.Err()
		}
		return games.Record{}, false, err
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited resolve", slog.String("team_id", q.TeamID))
	return p.next.LatestCompleted(ctx, q)
}
