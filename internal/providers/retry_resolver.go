package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingResolver wraps a GameResolver with retry/backoff behavior.
type retryingResolver struct {
	inner        GameResolver
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc
	rng          *rand.Rand
}

// NewRetryingResolver wraps the given resolver with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingResolver(inner GameResolver, logger *slog.Logger, rec *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) GameResolver {
	return NewRetryingResolverWithRNG(inner, logger, rec, name, nil, maxAttempts, backoff)
}

// NewRetryingResolverWithRNG is NewRetryingResolver with an explicit jitter source.
func NewRetryingResolverWithRNG(inner GameResolver, logger *slog.Logger, rec *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) GameResolver {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingResolver{
		inner:        inner,
		logger:       logger,
		metrics:      rec,
		providerName: name,
		maxAttempts:  maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

func (r *retryingResolver) LatestCompleted(ctx context.Context, q GameQuery) (games.Record, bool, error) {
	if r.inner == nil {
		return games.Record{}, false, ErrProviderUnavailable
	}
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		record, ok, err := r.inner.LatestCompleted(ctx, q)
		r.metrics.RecordUpstreamAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return record, ok, nil
		}
		lastErr = err

		if rlErr, isRL := AsRateLimitError(err); isRL {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if errors.Is(err, ErrMalformedPayload) || attempt == r.maxAttempts {
			break
		}

		r.log(ctx, slog.LevelWarn, "resolver retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.computeDelay(err, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return games.Record{}, false, ctx.Err()
		case <-timer.C:
		}
	}

	r.log(ctx, slog.LevelWarn, "resolver failed", "attempts", r.maxAttempts, "err", lastErr)
	return games.Record{}, false, lastErr
}

// computeDelay honours Retry-After on rate limits and otherwise jitters the backoff into [base/2, base].
func (r *retryingResolver) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	return half + time.Duration(r.rng.Int63n(int64(half)+1))
}

func (r *retryingResolver) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), level, r.providerName, msg, args...)
}
