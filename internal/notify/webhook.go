package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const webhookName = "webhook"

// WebhookConfig points at a chat incoming-webhook URL.
type WebhookConfig struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Webhook posts {"text": ...} to an incoming webhook.
type Webhook struct {
	http *resty.Client
	url  string
}

// NewWebhook returns nil when no URL is configured.
func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.URL == "" {
		return nil
	}
	return &Webhook{http: newRestyClient("", cfg.HTTPClient, cfg.Timeout), url: cfg.URL}
}

func (w *Webhook) Name() string {
	return webhookName
}

func (w *Webhook) Notify(ctx context.Context, msg Message) error {
	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": msg.Text}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", webhookName, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return providers.NewStatusError(webhookName, resp.StatusCode(), resp.Header(), "")
	}
	return nil
}
