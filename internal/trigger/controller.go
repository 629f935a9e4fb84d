// Package trigger runs the resolve, dedupe, locate, notify and commit pipeline.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/notify"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

// Ledger is the subset of the notification ledger the controller needs.
type Ledger interface {
	Contains(ctx context.Context, gameID string) bool
	Add(ctx context.Context, gameID string) error
}

// Locator finds a condensed game video for a game id.
type Locator interface {
	Locate(ctx context.Context, gameID string) providers.LookupResult
}

// Dispatcher delivers a message to every configured notifier.
type Dispatcher interface {
	Send(ctx context.Context, msg notify.Message) notify.Report
}

// Options adjust one run.
type Options struct {
	// Forced skips the gate and the already-sent check.
	Forced bool
	// Override skips only the gate, for callers that presented the shared secret.
	Override bool
	// SkipLedgerWrite leaves the ledger untouched even after a successful send.
	SkipLedgerWrite bool
}

// Result describes how a run ended.
type Result struct {
	RunID     string            `json:"runId"`
	Outcome   Outcome           `json:"outcome"`
	GameID    string            `json:"gameId,omitempty"`
	Video     *videos.Video     `json:"video,omitempty"`
	Delivered []string          `json:"delivered,omitempty"`
	Failed    map[string]string `json:"failed,omitempty"`
	Committed bool              `json:"committed"`
	Duration  time.Duration     `json:"-"`
}

// Config carries the team being followed and the reference clock settings.
type Config struct {
	TeamID       string
	TeamName     string
	LookbackDays int
	Location     *time.Location
}

// Controller orchestrates one trigger run end to end.
type Controller struct {
	cfg        Config
	gate       Gate
	resolver   providers.GameResolver
	locator    Locator
	ledger     Ledger
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
	newRunID   func() string

	// mu serialises unforced runs so the ledger check and write cannot interleave in-process.
	mu sync.Mutex

	statusMu sync.RWMutex
	last     Result
	lastAt   time.Time
	runs     int
}

// Deps bundles the controller collaborators.
type Deps struct {
	Gate       Gate
	Resolver   providers.GameResolver
	Locator    Locator
	Ledger     Ledger
	Dispatcher Dispatcher
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// New builds a controller. A nil gate is always open.
func New(cfg Config, deps Deps) *Controller {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 3
	}
	gate := deps.Gate
	if gate == nil {
		gate = AlwaysOpen{}
	}
	return &Controller{
		cfg:        cfg,
		gate:       gate,
		resolver:   deps.Resolver,
		locator:    deps.Locator,
		ledger:     deps.Ledger,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		now:        time.Now,
		newRunID:   func() string { return uuid.NewString() },
	}
}

// Config returns the team and clock settings.
func (c *Controller) Config() Config {
	return c.cfg
}

// Run executes one pipeline pass. It always returns a terminal result.
func (c *Controller) Run(ctx context.Context, opts Options) Result {
	start := c.now()
	res := Result{RunID: c.newRunID()}
	logger := logging.FromContext(ctx, c.logger)
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldRunID, res.RunID))
	}
	ctx = logging.WithLogger(ctx, logger)

	if !opts.Forced {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error(logger, "trigger run panicked", fmt.Errorf("%v", r))
				if res.Outcome == "" {
					res.Outcome = OutcomeNothingToDo
				}
			}
		}()
		c.run(ctx, opts, start, &res, logger)
	}()

	res.Duration = c.now().Sub(start)
	c.metrics.RecordTriggerOutcome(string(res.Outcome), res.Duration)
	c.remember(res, start)

	logging.Info(logger, "trigger run finished",
		slog.String(logging.FieldOutcome, string(res.Outcome)),
		slog.String(logging.FieldGameID, res.GameID),
		slog.Bool("forced", opts.Forced),
		slog.Bool("committed", res.Committed),
		slog.Int64(logging.FieldDurationMS, res.Duration.Milliseconds()),
	)
	return res
}

func (c *Controller) run(ctx context.Context, opts Options, start time.Time, res *Result, logger *slog.Logger) {
	if !opts.Forced && !opts.Override && !c.gate.Open(start) {
		res.Outcome = OutcomeGateClosed
		return
	}

	game, ok := c.resolve(ctx, start, logger)
	if !ok {
		res.Outcome = OutcomeNothingToDo
		return
	}
	res.GameID = game.ID

	if !opts.Forced && c.ledger != nil && c.ledger.Contains(ctx, game.ID) {
		res.Outcome = OutcomeAlreadySent
		return
	}

	lookup := c.locate(ctx, game.ID)
	if !lookup.Found() {
		if lookup.Err != nil {
			logging.Warn(logger, "condensed game lookup failed",
				slog.String(logging.FieldGameID, game.ID),
				slog.Any("err", lookup.Err),
			)
		}
		res.Outcome = OutcomeVideoNotFound
		return
	}
	video := lookup.Video
	res.Video = &video

	report := c.send(ctx, notify.NewMessage(game.ID, c.teamLabel(game), video))
	res.Delivered = report.Delivered
	if len(report.Failed) > 0 {
		res.Failed = report.Failed
	}
	if !report.OK() {
		res.Outcome = OutcomeNotifyFailed
		return
	}
	res.Outcome = OutcomeSent

	if opts.SkipLedgerWrite || c.ledger == nil {
		return
	}
	if err := c.ledger.Add(ctx, game.ID); err != nil {
		logging.Error(logger, "ledger write failed after send", err, slog.String(logging.FieldGameID, game.ID))
		return
	}
	res.Committed = true
}

func (c *Controller) resolve(ctx context.Context, now time.Time, logger *slog.Logger) (games.Record, bool) {
	if c.resolver == nil {
		logging.Warn(logger, "no game resolver configured")
		return games.Record{}, false
	}
	q := providers.GameQuery{
		TeamID:       c.cfg.TeamID,
		Day:          now.In(c.cfg.Location),
		LookbackDays: c.cfg.LookbackDays,
	}
	game, ok, err := c.resolver.LatestCompleted(ctx, q)
	if err != nil {
		logging.Warn(logger, "game resolver failed", slog.String("team_id", c.cfg.TeamID), slog.Any("err", err))
		return games.Record{}, false
	}
	if !ok || game.ID == "" {
		return games.Record{}, false
	}
	return game, true
}

func (c *Controller) locate(ctx context.Context, gameID string) providers.LookupResult {
	if c.locator == nil {
		return providers.NotFound("none", nil)
	}
	return c.locator.Locate(ctx, gameID)
}

func (c *Controller) send(ctx context.Context, msg notify.Message) notify.Report {
	if c.dispatcher == nil {
		return notify.Report{Failed: map[string]string{"none": notify.ErrNoNotifiers.Error()}}
	}
	return c.dispatcher.Send(ctx, msg)
}

// teamLabel names the followed team, preferring the configured display name.
func (c *Controller) teamLabel(game games.Record) string {
	if c.cfg.TeamName != "" {
		return c.cfg.TeamName
	}
	for _, t := range game.Teams() {
		if t.ID == c.cfg.TeamID && t.Name != "" {
			return t.Name
		}
	}
	return "Team " + c.cfg.TeamID
}
