package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const chainName = "chain"

// Chain tries lookup strategies in priority order and stops at the first hit.
type Chain struct {
	strategies []providers.VideoStrategy
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewChain builds a chain over strategies; nil entries are skipped.
func NewChain(logger *slog.Logger, rec *metrics.Recorder, strategies ...providers.VideoStrategy) *Chain {
	kept := make([]providers.VideoStrategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{strategies: kept, logger: logger, metrics: rec}
}

// Strategies returns the strategy names in the order they are tried.
func (c *Chain) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Locate returns the first found result. When every strategy misses it returns a
// not-found result whose error joins the individual strategy errors.
func (c *Chain) Locate(ctx context.Context, gameID string) providers.LookupResult {
	logger := logging.FromContext(ctx, c.logger)
	var errs []error

	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		start := time.Now()
		res := safeLookup(ctx, strategy, gameID)
		c.metrics.RecordUpstreamAttempt(strategy.Name(), time.Since(start), res.Err)

		if res.Found() {
			logging.Info(logger, "condensed game located",
				slog.String(logging.FieldGameID, gameID),
				slog.String(logging.FieldStrategy, res.Strategy),
			)
			return res
		}
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Name(), res.Err))
		}
		if logger != nil {
			logger.Debug("lookup strategy missed",
				slog.String(logging.FieldGameID, gameID),
				slog.String(logging.FieldStrategy, strategy.Name()),
				slog.String(logging.FieldOutcome, string(res.Outcome)),
			)
		}
	}

	return providers.NotFound(chainName, errors.Join(errs...))
}

// safeLookup converts a strategy panic into a malformed result.
func safeLookup(ctx context.Context, strategy providers.VideoStrategy, gameID string) (res providers.LookupResult) {
	defer func() {
		if r := recover(); r != nil {
			res = providers.Malformed(strategy.Name(), fmt.Errorf("strategy panic: %v", r))
		}
	}()
	res = strategy.Lookup(ctx, gameID)
	if res.Strategy == "" {
		res.Strategy = strategy.Name()
	}
	return res
}
