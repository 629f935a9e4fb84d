package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksUpstreamAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordUpstreamAttempt("statsapi", 10*time.Millisecond, nil)
	rec.RecordUpstreamAttempt("statsapi", 15*time.Millisecond, errors.New("boom"))

	if got := rec.UpstreamCalls("statsapi"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.UpstreamErrors("statsapi"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("statsapi"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("statsapi")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("statsapi", 5*time.Second)
	rec.RecordRateLimit("statsapi", 0)

	if got := rec.RateLimitHits("statsapi"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("statsapi"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksOutcomes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTriggerOutcome("sent", time.Millisecond)
	rec.RecordTriggerOutcome("sent", time.Millisecond)
	rec.RecordTriggerOutcome("gate_closed", 0)

	if got := rec.TriggerOutcomes("sent"); got != 2 {
		t.Fatalf("expected 2 sent outcomes, got %d", got)
	}
	if got := rec.TriggerOutcomes("gate_closed"); got != 1 {
		t.Fatalf("expected 1 gate_closed outcome, got %d", got)
	}
	if got := rec.TriggerOutcomes("unknown"); got != 0 {
		t.Fatalf("expected 0 for unseen outcome, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordUpstreamAttempt("x", time.Second, nil)
	rec.RecordRateLimit("x", time.Second)
	rec.RecordTriggerOutcome("sent", time.Second)
	rec.RecordHTTPRequest("GET", "/", 200, time.Second)
	rec.RecordSchedulerCycle(time.Second, nil)
	if runs, _ := rec.SchedulerCycles(); runs != 0 || !rec.LastSent().IsZero() {
		t.Fatalf("expected zero pipeline values from nil recorder")
	}
	if rec.UpstreamCalls("x") != 0 || rec.TriggerOutcomes("sent") != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordUpstreamAttempt("telegram", time.Millisecond, nil)
			rec.RecordTriggerOutcome("sent", time.Millisecond)
		}()
	}
	wg.Wait()
	if got := rec.UpstreamCalls("telegram"); got != 20 {
		t.Fatalf("expected 20 calls, got %d", got)
	}
}
