package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
)

// ErrNoNotifiers is reported when a message is dispatched with nothing configured.
var ErrNoNotifiers = errors.New("no notifiers configured")

// Report lists which notifiers confirmed delivery and why the rest failed.
type Report struct {
	Delivered []string          `json:"delivered"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// OK reports whether at least one notifier confirmed delivery.
func (r Report) OK() bool {
	return len(r.Delivered) > 0
}

// Dispatcher fans a message out to every configured notifier concurrently.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
	metrics   *metrics.Recorder
	timeout   time.Duration
}

// NewDispatcher builds a dispatcher; nil notifiers are skipped.
func NewDispatcher(logger *slog.Logger, rec *metrics.Recorder, notifiers ...Notifier) *Dispatcher {
	kept := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return &Dispatcher{notifiers: kept, logger: logger, metrics: rec, timeout: defaultTimeout}
}

// WithTimeout bounds each notifier's delivery. Non-positive values keep the default.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Names returns the configured notifier names in dispatch order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Send delivers msg through every notifier and waits for all of them. A
// notifier still running at its deadline is reported as failed.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Report {
	report := Report{Delivered: []string{}, Failed: map[string]string{}}
	if len(d.notifiers) == 0 {
		report.Failed["none"] = ErrNoNotifiers.Error()
		return report
	}

	logger := logging.FromContext(ctx, d.logger)
	errs := make([]error, len(d.notifiers))
	var wg sync.WaitGroup
	for i, n := range d.notifiers {
		wg.Add(1)
		go func(i int, n Notifier) {
			defer wg.Done()
			start := time.Now()
			errs[i] = d.notifyWithDeadline(ctx, n, msg)
			d.metrics.RecordUpstreamAttempt("notify:"+n.Name(), time.Since(start), errs[i])
		}(i, n)
	}
	wg.Wait()

	for i, n := range d.notifiers {
		if errs[i] != nil {
			report.Failed[n.Name()] = errs[i].Error()
			logging.Warn(logger, "notification failed",
				slog.String(logging.FieldNotifier, n.Name()),
				slog.String(logging.FieldGameID, msg.GameID),
				slog.Any("err", errs[i]),
			)
			continue
		}
		report.Delivered = append(report.Delivered, n.Name())
	}
	return report
}

func (d *Dispatcher) notifyWithDeadline(ctx context.Context, n Notifier, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- safeNotify(ctx, n, msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", n.Name(), ctx.Err())
	}
}

func safeNotify(ctx context.Context, n Notifier, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: notifier panic: %v", n.Name(), r)
		}
	}()
	return n.Notify(ctx, msg)
}
