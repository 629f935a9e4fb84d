package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/condensed-game-notifier/internal/http/requestutil"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
)

// maxTrackedClients bounds the limiter map; it is cleared when exceeded.
const maxTrackedClients = 10000

type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPLimiter(requestsPerWindow int, window time.Duration) *ipLimiter {
	if requestsPerWindow <= 0 {
		requestsPerWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:    requestsPerWindow,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[ip]; ok {
		return limiter
	}
	if len(l.limiters) >= maxTrackedClients {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// retryAfter is the wait for one token to refill, rounded up to whole seconds.
func (l *ipLimiter) retryAfter() int {
	if l.rate <= 0 {
		return 60
	}
	return int(math.Ceil(1 / float64(l.rate)))
}

// RateLimit limits requests per client IP with a token bucket that refills
// requestsPerWindow tokens over window.
func RateLimit(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newIPLimiter(requestsPerWindow, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := requestutil.ClientIP(r)
			if limiter.get(ip).Allow() {
				next.ServeHTTP(w, r)
				return
			}
			logging.Warn(logging.FromContext(r.Context(), nil), "rate limited", slog.String("client_ip", ip))
			w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfter()))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			body := map[string]string{"error": "too many requests"}
			if reqID := RequestIDFromContext(r.Context()); reqID != "" {
				body["requestId"] = reqID
			}
			_ = json.NewEncoder(w).Encode(body)
		})
	}
}
