package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrProviderUnavailable is returned when a decorator has nothing to delegate to.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedPayload marks upstream payloads that could not be interpreted.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewStatusError maps an upstream status to a RateLimitError for 429 or a StatusError otherwise.
func NewStatusError(provider string, status int, header http.Header, body string) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{
			Provider:   provider,
			StatusCode: status,
			RetryAfter: ParseRetryAfter(header.Get("Retry-After")),
			Remaining:  header.Get("X-RateLimit-Remaining"),
			Message:    provider + " rate limited",
		}
	}
	return &StatusError{Provider: provider, StatusCode: status, Body: body}
}

// ParseRetryAfter accepts delta-seconds or an HTTP date. Unparseable values yield zero.
func ParseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
