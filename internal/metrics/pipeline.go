package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// sentOutcome is the run outcome that marks a delivered notification.
const sentOutcome = "sent"

// pipelineInstruments covers the trigger controller and the scheduler. The
// last-sent gauge is observed from the Recorder at collection time.
type pipelineInstruments struct {
	ctx                context.Context
	runs               metric.Int64Counter
	runLatencyMs       metric.Float64Histogram
	schedulerCycles    metric.Int64Counter
	schedulerErrors    metric.Int64Counter
	schedulerLatencyMs metric.Float64Histogram
}

func newPipelineInstruments(meter metric.Meter, rec *Recorder) (*pipelineInstruments, error) {
	runs, err := meter.Int64Counter("trigger_runs_total")
	if err != nil {
		return nil, err
	}
	runLatency, err := meter.Float64Histogram("trigger_run_duration_ms")
	if err != nil {
		return nil, err
	}

	_, err = meter.Float64ObservableGauge("trigger_last_sent_timestamp_seconds",
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			if last := rec.LastSent(); !last.IsZero() {
				o.Observe(float64(last.Unix()))
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	schedulerCycles, err := meter.Int64Counter("scheduler_cycles_total")
	if err != nil {
		return nil, err
	}
	schedulerErrors, err := meter.Int64Counter("scheduler_errors_total")
	if err != nil {
		return nil, err
	}
	schedulerLatency, err := meter.Float64Histogram("scheduler_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &pipelineInstruments{
		ctx:                context.Background(),
		runs:               runs,
		runLatencyMs:       runLatency,
		schedulerCycles:    schedulerCycles,
		schedulerErrors:    schedulerErrors,
		schedulerLatencyMs: schedulerLatency,
	}, nil
}

func (p *pipelineInstruments) recordOutcome(outcome string, duration time.Duration) {
	if p == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	p.runs.Add(p.ctx, 1, attrs)
	p.runLatencyMs.Record(p.ctx, float64(duration.Milliseconds()), attrs)
}

func (p *pipelineInstruments) recordScheduler(duration time.Duration, err error) {
	if p == nil {
		return
	}
	p.schedulerCycles.Add(p.ctx, 1)
	p.schedulerLatencyMs.Record(p.ctx, float64(duration.Milliseconds()))
	if err != nil {
		p.schedulerErrors.Add(p.ctx, 1)
	}
}

// RecordTriggerOutcome counts terminal outcomes of controller runs and
// remembers when the last notification went out.
func (r *Recorder) RecordTriggerOutcome(outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.outcomes[outcome]++
	if outcome == sentOutcome {
		r.lastSent = r.now()
	}
	pipe := r.pipeline
	r.mu.Unlock()

	pipe.recordOutcome(outcome, duration)
}

// TriggerOutcomes returns how many runs ended with the given outcome.
func (r *Recorder) TriggerOutcomes(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[outcome]
}

// LastSent returns when a run last ended with a delivered notification, or
// the zero time if none has.
func (r *Recorder) LastSent() time.Time {
	if r == nil {
		return time.Time{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSent
}

// RecordSchedulerCycle tracks scheduled trigger cycles and errors.
func (r *Recorder) RecordSchedulerCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.cycles++
	if err != nil {
		r.cycleErrors++
	}
	pipe := r.pipeline
	r.mu.Unlock()

	pipe.recordScheduler(duration, err)
}

// SchedulerCycles returns how many scheduled cycles ran and how many of them failed.
func (r *Recorder) SchedulerCycles() (runs, failed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycles, r.cycleErrors
}
