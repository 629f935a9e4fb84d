// Package poller runs the trigger controller on a cron schedule.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

const failureThreshold = 3

// ErrNotifyFailed marks a scheduled cycle where every notifier failed.
var ErrNotifyFailed = errors.New("scheduled run failed to notify")

// Runner executes one trigger run.
type Runner interface {
	Run(ctx context.Context, opts trigger.Options) trigger.Result
}

// Poller invokes the controller on a cron schedule evaluated in the reference timezone.
type Poller struct {
	runner   Runner
	logger   *slog.Logger
	metrics  *metrics.Recorder
	schedule string
	location *time.Location
	now      func() time.Time

	cron     *cron.Cron
	ctx      context.Context
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the scheduler loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt,omitempty"`
	LastSuccess         time.Time `json:"lastSuccess,omitempty"`
	LastOutcome         string    `json:"lastOutcome,omitempty"`
}

// IsReady reports whether the scheduler is not failing repeatedly.
// A scheduler that has not fired yet is ready.
func (s Status) IsReady() bool {
	return s.ConsecutiveFailures < failureThreshold
}

// New validates the cron expression and builds a Poller. Standard five-field
// expressions and descriptors such as "@every 15m" are accepted.
func New(runner Runner, logger *slog.Logger, recorder *metrics.Recorder, schedule string, loc *time.Location) (*Poller, error) {
	if runner == nil {
		return nil, errors.New("poller requires a runner")
	}
	if loc == nil {
		loc = time.UTC
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}
	return &Poller{
		runner:   runner,
		logger:   logger,
		metrics:  recorder,
		schedule: schedule,
		location: loc,
		now:      time.Now,
	}, nil
}

// Schedule returns the cron expression.
func (p *Poller) Schedule() string {
	return p.schedule
}

// Start registers the job and starts the cron loop. It stops when ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.ctx = ctx
	p.cron = cron.New(
		cron.WithLocation(p.location),
		cron.WithChain(cron.Recover(cronLogger{p.logger}), cron.SkipIfStillRunning(cronLogger{p.logger})),
	)
	// The expression was validated in New.
	_, _ = p.cron.AddFunc(p.schedule, func() { p.runOnce(p.ctx) })
	p.cron.Start()
	p.startMu.Unlock()

	logging.Info(p.logger, "scheduler started",
		slog.String("schedule", p.schedule),
		slog.String("timezone", p.location.String()),
	)

	go func() {
		<-ctx.Done()
		_ = p.Stop(context.Background())
	}()
}

// Stop halts the cron loop and waits for a running job until ctx expires.
func (p *Poller) Stop(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		p.startMu.Lock()
		c := p.cron
		p.startMu.Unlock()
		if c == nil {
			return
		}
		done := c.Stop()
		select {
		case <-done.Done():
			logging.Info(p.logger, "scheduler stopped")
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

func (p *Poller) runOnce(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := p.now()
	p.recordAttempt(start)

	res := p.runner.Run(ctx, trigger.Options{})
	duration := p.now().Sub(start)

	var err error
	if res.Outcome == trigger.OutcomeNotifyFailed {
		err = ErrNotifyFailed
	}
	p.metrics.RecordSchedulerCycle(duration, err)

	if err != nil {
		logging.Error(p.logger, "scheduled run failed", err,
			slog.String(logging.FieldRunID, res.RunID),
			slog.String(logging.FieldGameID, res.GameID),
		)
		p.recordFailure(err, res.Outcome)
		return
	}
	p.recordSuccess(start, res.Outcome)
	logging.Info(p.logger, "scheduled run finished",
		slog.String(logging.FieldRunID, res.RunID),
		slog.String(logging.FieldOutcome, string(res.Outcome)),
		slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
	)
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, outcome trigger.Outcome) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.LastOutcome = string(outcome)
}

func (p *Poller) recordFailure(err error, outcome trigger.Outcome) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastOutcome = string(outcome)
}

// Status returns a snapshot of the scheduler's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Debug("cron: "+msg, keysAndValues...)
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Error(l.logger, "cron: "+msg, err, keysAndValues...)
}
