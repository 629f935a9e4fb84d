package locator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const (
	defaultWebBaseURL = "https://www.mlb.com"
	defaultTimeout    = 10 * time.Second
	pageCacheTTL      = time.Minute
	pageProvider      = "gameday"
	browserUserAgent  = "Mozilla/5.0 (compatible; condensed-game-notifier/1.0)"
)

// PageConfig controls how gameday video pages are fetched.
type PageConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// GamedayPages fetches the public gameday video page for a game. The last page is
// cached briefly so strategies reading the same page share one request.
type GamedayPages struct {
	http    *resty.Client
	baseURL string
	now     func() time.Time

	mu     sync.Mutex
	cached cachedPage
}

type cachedPage struct {
	gameID    string
	body      []byte
	fetchedAt time.Time
}

// NewGamedayPages constructs a page fetcher.
func NewGamedayPages(cfg PageConfig) *GamedayPages {
	client := resty.New()
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultWebBaseURL
	}
	client.SetTimeout(timeout).SetHeader("User-Agent", browserUserAgent)
	return &GamedayPages{http: client, baseURL: base, now: time.Now}
}

// PageURL returns the gameday video page address for a game.
func (p *GamedayPages) PageURL(gameID string) string {
	return fmt.Sprintf("%s/gameday/%s/video", p.baseURL, url.PathEscape(gameID))
}

// Fetch returns the page body or an error for transport failures and non-2xx responses.
func (p *GamedayPages) Fetch(ctx context.Context, gameID string) ([]byte, error) {
	if body, ok := p.fromCache(gameID); ok {
		return body, nil
	}

	resp, err := p.http.R().SetContext(ctx).Get(p.PageURL(gameID))
	if err != nil {
		return nil, fmt.Errorf("%s: fetch page: %w", pageProvider, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, providers.NewStatusError(pageProvider, resp.StatusCode(), resp.Header(), "")
	}

	body := resp.Body()
	p.mu.Lock()
	p.cached = cachedPage{gameID: gameID, body: body, fetchedAt: p.now()}
	p.mu.Unlock()
	return body, nil
}

func (p *GamedayPages) fromCache(gameID string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached.gameID != gameID || p.cached.body == nil {
		return nil, false
	}
	if p.now().Sub(p.cached.fetchedAt) > pageCacheTTL {
		return nil, false
	}
	return p.cached.body, true
}
