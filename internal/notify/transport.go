package notify

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

func newRestyClient(baseURL string, httpClient *http.Client, timeout time.Duration) *resty.Client {
	client := resty.New()
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client.SetTimeout(timeout).SetHeader("Content-Type", "application/json")
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return client
}
