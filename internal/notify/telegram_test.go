package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

func TestTelegramSendsMessage(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	tg := NewTelegram(TelegramConfig{BaseURL: srv.URL, Token: "123:abc", ChatID: "-100"})
	if err := tg.Notify(context.Background(), Message{Text: "hello"}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody["chat_id"] != "-100" || gotBody["text"] != "hello" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if preview, ok := gotBody["disable_web_page_preview"].(bool); !ok || preview {
		t.Fatalf("expected disable_web_page_preview=false, got %v", gotBody["disable_web_page_preview"])
	}
}

func TestTelegramFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"ok false", http.StatusOK, `{"ok":false,"description":"chat not found"}`},
		{"bad request", http.StatusBadRequest, `{"ok":false,"description":"Bad Request"}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			tg := NewTelegram(TelegramConfig{BaseURL: srv.URL, Token: "t", ChatID: "c"})
			if err := tg.Notify(context.Background(), Message{Text: "x"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestTelegramRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Too Many Requests","parameters":{"retry_after":4}}`))
	}))
	defer srv.Close()

	err := NewTelegram(TelegramConfig{BaseURL: srv.URL, Token: "t", ChatID: "c"}).Notify(context.Background(), Message{})
	rl, ok := providers.AsRateLimitError(err)
	if !ok || rl.RetryAfter != 4*time.Second {
		t.Fatalf("expected rate limit with 4s retry-after, got %v", err)
	}
}

func TestTelegramRedactsTokenFromTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewTelegram(TelegramConfig{BaseURL: srv.URL, Token: "secret-token", ChatID: "c", Timeout: time.Second}).Notify(context.Background(), Message{})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("expected token redacted, got %q", err.Error())
	}
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	if NewTelegram(TelegramConfig{Token: "t"}) != nil {
		t.Fatalf("expected nil without chat id")
	}
	if NewTelegram(TelegramConfig{ChatID: "c"}) != nil {
		t.Fatalf("expected nil without token")
	}
}
