package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/testutil"
)

func TestRateLimitPerClient(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := RateLimit(2, time.Hour)(ok)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/run", nil)
		req.RemoteAddr = ip + ":5555"
		return testutil.ServeRequest(handler, req)
	}

	testutil.AssertStatus(t, send("203.0.113.1"), http.StatusNoContent)
	testutil.AssertStatus(t, send("203.0.113.1"), http.StatusNoContent)
	limited := send("203.0.113.1")
	testutil.AssertStatus(t, limited, http.StatusTooManyRequests)
	if limited.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	var body map[string]string
	testutil.DecodeJSON(t, limited, &body)
	if body["error"] == "" {
		t.Fatalf("expected error body, got %v", body)
	}

	testutil.AssertStatus(t, send("203.0.113.2"), http.StatusNoContent)
}

func TestIPLimiterDefaults(t *testing.T) {
	l := newIPLimiter(0, 0)
	if l.burst != 1 {
		t.Fatalf("expected burst 1, got %d", l.burst)
	}
	if got := l.retryAfter(); got != 60 {
		t.Fatalf("expected 60s retry after, got %d", got)
	}
	if newIPLimiter(5, time.Minute).retryAfter() != 12 {
		t.Fatalf("expected 12s retry after for 5/min")
	}
}

func TestIPLimiterBoundsTrackedClients(t *testing.T) {
	l := newIPLimiter(1, time.Minute)
	for i := 0; i < maxTrackedClients; i++ {
		l.limiters[strconv.Itoa(i)] = nil
	}
	_ = l.get("fresh")
	if len(l.limiters) != 1 {
		t.Fatalf("expected limiter map reset, got %d entries", len(l.limiters))
	}
}
