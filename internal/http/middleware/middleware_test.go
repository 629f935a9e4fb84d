package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestIDAndRecordsMetrics(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Errorf("expected request id in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	handler := LoggingMiddleware(logger, rec, next)
	rr := testutil.Serve(handler, http.MethodGet, "/health", nil)

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rec.Snapshot("http").Calls; got != 0 {
		t.Fatalf("expected no upstream metrics recorded, got %d", got)
	}
	if !strings.Contains(buf.String(), "status_code=418") {
		t.Fatalf("expected status in request log, got %s", buf.String())
	}
}

func TestLoggingMiddlewareKeepsValidIncomingRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Errorf("expected incoming request id, got %s", got)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/run", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected X-Request-ID echoed, got %s", got)
	}
}

func TestLoggingMiddlewareDoesNotLogQuery(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	_ = testutil.Serve(LoggingMiddleware(logger, nil, next), http.MethodGet, "/debug?key=s3cret", nil)
	if strings.Contains(buf.String(), "s3cret") {
		t.Fatalf("expected trigger key to stay out of logs, got %s", buf.String())
	}
}

func TestResponseWriterDefaultsStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}
	if w.status != 0 {
		t.Fatalf("expected zero status before write, got %d", w.status)
	}
	w.WriteHeader(http.StatusAccepted)
	if w.status != http.StatusAccepted {
		t.Fatalf("expected status set to 202, got %d", w.status)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/", want: "/"},
		{in: "/health", want: "/health"},
		{in: "/run", want: "/run"},
		{in: "/admin/ledger/reset", want: "/admin/ledger/reset"},
		{in: "/admin/ledger/745623", want: "/admin/ledger/:gameID"},
		{in: "/wp-login.php", want: "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}

	ctx = withRequestID(ctx, "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected id from context, got %s", got)
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %s", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Microsecond)
		w.WriteHeader(http.StatusOK)
	})

	handler := LoggingMiddleware(logger, rec, next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(rr, req)
	}
}
