package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const (
	telegramName           = "telegram"
	defaultTelegramBaseURL = "https://api.telegram.org"
	defaultTimeout         = 10 * time.Second
)

// TelegramConfig identifies the bot and the chat to post into.
type TelegramConfig struct {
	BaseURL    string
	Token      string
	ChatID     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Telegram posts messages with the Bot API sendMessage method.
type Telegram struct {
	http   *resty.Client
	token  string
	chatID string
}

type telegramRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// NewTelegram returns nil when the token or chat id is missing.
func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.Token == "" || cfg.ChatID == "" {
		return nil
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultTelegramBaseURL
	}
	return &Telegram{
		http:   newRestyClient(base, cfg.HTTPClient, cfg.Timeout),
		token:  cfg.Token,
		chatID: cfg.ChatID,
	}
}

func (t *Telegram) Name() string {
	return telegramName
}

func (t *Telegram) Notify(ctx context.Context, msg Message) error {
	resp, err := t.http.R().
		SetContext(ctx).
		SetPathParam("token", t.token).
		SetBody(telegramRequest{ChatID: t.chatID, Text: msg.Text, DisableWebPagePreview: false}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		// resty errors embed the URL, which carries the bot token.
		return fmt.Errorf("%s: request failed: %w", telegramName, redact(err, t.token))
	}

	var body telegramResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)

	if resp.StatusCode() == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   telegramName,
			StatusCode: resp.StatusCode(),
			RetryAfter: time.Duration(body.Parameters.RetryAfter) * time.Second,
			Message:    body.Description,
		}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return providers.NewStatusError(telegramName, resp.StatusCode(), resp.Header(), body.Description)
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: decode response: %w", telegramName, decodeErr)
	}
	if !body.OK {
		return fmt.Errorf("%s: api rejected message: %s", telegramName, body.Description)
	}
	return nil
}

func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), secret, "***"))
}
