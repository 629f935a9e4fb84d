package statsapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

func newRestyClient(baseURL string, httpClient *http.Client, timeout time.Duration) *resty.Client {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return client.
		SetBaseURL(normalizeBaseURL(baseURL)).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func truncateBody(body []byte) string {
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return strings.TrimSpace(string(body))
}
