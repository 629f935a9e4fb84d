package metrics

import (
	"sync"
	"time"
)

type upstreamStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls and trigger outcomes.
// When built by Setup it also forwards every observation to OpenTelemetry instruments.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*upstreamStats
	outcomes    map[string]int
	lastSent    time.Time
	cycles      int
	cycleErrors int
	now         func() time.Time
	otel        *otelInstruments
	pipeline    *pipelineInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*upstreamStats),
		outcomes: make(map[string]int),
		now:      time.Now,
		otel:     otel,
	}
}

// RecordUpstreamAttempt increments counters for an upstream call (resolver, lookup strategy
// or notifier) and stores the last observed latency.
func (r *Recorder) RecordUpstreamAttempt(upstream string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(upstream)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamAttempt(upstream, duration, err)
	}
}

// RecordRateLimit tracks that an upstream response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(upstream string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(upstream)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(upstream, retryAfter)
	}
}

// UpstreamCalls returns the total attempts recorded for an upstream.
func (r *Recorder) UpstreamCalls(upstream string) int {
	return r.Snapshot(upstream).Calls
}

// UpstreamErrors returns the total failed attempts recorded for an upstream.
func (r *Recorder) UpstreamErrors(upstream string) int {
	return r.Snapshot(upstream).Errors
}

// RateLimitHits returns the number of rate limit events seen for an upstream.
func (r *Recorder) RateLimitHits(upstream string) int {
	return r.Snapshot(upstream).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for an upstream.
func (r *Recorder) LastRetryAfter(upstream string) time.Duration {
	return r.Snapshot(upstream).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for an upstream call.
func (r *Recorder) LastCallLatency(upstream string) time.Duration {
	return r.Snapshot(upstream).LastCallLatency
}

// Snapshot returns a copy of the current stats for the upstream.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(upstream string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[upstream]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(upstream string) *upstreamStats {
	stats, ok := r.stats[upstream]
	if !ok {
		stats = &upstreamStats{}
		r.stats[upstream] = stats
	}
	return stats
}
