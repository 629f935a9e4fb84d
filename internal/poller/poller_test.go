package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/testutil"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

type stubRunner struct {
	mu      sync.Mutex
	outcome trigger.Outcome
	calls   atomic.Int32
	opts    []trigger.Options
	notify  chan struct{}
}

func (s *stubRunner) Run(ctx context.Context, opts trigger.Options) trigger.Result {
	_ = ctx
	s.calls.Add(1)
	s.mu.Lock()
	s.opts = append(s.opts, opts)
	outcome := s.outcome
	s.mu.Unlock()
	if s.notify != nil {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
	return trigger.Result{RunID: "run-1", Outcome: outcome}
}

func TestNewRejectsBadSchedule(t *testing.T) {
	if _, err := New(&stubRunner{}, nil, nil, "not a cron", nil); err == nil {
		t.Fatalf("expected parse error for invalid schedule")
	}
	if _, err := New(nil, nil, nil, "@hourly", nil); err == nil {
		t.Fatalf("expected error for nil runner")
	}
	p, err := New(&stubRunner{}, nil, nil, "*/15 18-23 * * *", nil)
	if err != nil {
		t.Fatalf("expected valid schedule, got %v", err)
	}
	if p.location != time.UTC || p.Schedule() != "*/15 18-23 * * *" {
		t.Fatalf("unexpected defaults %s %s", p.location, p.Schedule())
	}
}

func TestRunOnceIsUnforced(t *testing.T) {
	runner := &stubRunner{outcome: trigger.OutcomeSent}
	p, _ := New(runner, nil, nil, "@hourly", time.UTC)

	p.runOnce(context.Background())
	if len(runner.opts) != 1 || runner.opts[0] != (trigger.Options{}) {
		t.Fatalf("expected a plain gated run, got %+v", runner.opts)
	}
}

func TestStatusTracksFailuresAndSuccess(t *testing.T) {
	runner := &stubRunner{outcome: trigger.OutcomeNotifyFailed}
	rec := metrics.NewRecorder()
	logger, _ := testutil.NewBufferLogger()
	p, _ := New(runner, logger, rec, "@hourly", time.UTC)
	p.now = testutil.NowAt(time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC))

	for i := 0; i < failureThreshold; i++ {
		p.runOnce(context.Background())
	}
	status := p.Status()
	if status.ConsecutiveFailures != failureThreshold {
		t.Fatalf("expected %d failures, got %d", failureThreshold, status.ConsecutiveFailures)
	}
	if status.LastError == "" || status.LastOutcome != "notify_failed" {
		t.Fatalf("expected failure details, got %+v", status)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after repeated failures")
	}

	runner.outcome = trigger.OutcomeVideoNotFound
	p.runOnce(context.Background())
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastSuccess.IsZero() {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusReadyBeforeFirstRun(t *testing.T) {
	if !(Status{}).IsReady() {
		t.Fatalf("expected fresh scheduler to be ready")
	}
}

func TestStartFiresAndStops(t *testing.T) {
	runner := &stubRunner{outcome: trigger.OutcomeNothingToDo, notify: make(chan struct{}, 1)}
	p, err := New(runner, nil, nil, "@every 1s", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // no-op

	select {
	case <-runner.notify:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for scheduled run")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	p, _ := New(&stubRunner{}, nil, nil, "@hourly", nil)
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
