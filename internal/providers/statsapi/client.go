package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
	"github.com/preston-bernstein/condensed-game-notifier/internal/timeutil"
)

// Config controls how the client reaches the MLB Stats API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client queries the schedule and game content endpoints of the MLB Stats API.
type Client struct {
	http *resty.Client
}

// NewClient constructs a Stats API client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{http: newRestyClient(cfg.BaseURL, cfg.HTTPClient, cfg.Timeout)}
}

// Name identifies the client in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// LatestCompleted returns the final game with the latest gameDate inside the lookback window.
func (c *Client) LatestCompleted(ctx context.Context, q providers.GameQuery) (games.Record, bool, error) {
	days := q.LookbackDays
	if days <= 0 {
		days = defaultLookbackDays
	}
	day := q.Day
	if day.IsZero() {
		day = time.Now().UTC()
	}
	startDate, endDate := timeutil.LookbackRange(day, days)

	var payload scheduleResponse
	req := c.http.R().SetQueryParams(map[string]string{
		"sportId":   sportIDMLB,
		"teamId":    q.TeamID,
		"startDate": startDate,
		"endDate":   endDate,
	})
	if err := c.getJSON(ctx, req, "/schedule", &payload); err != nil {
		return games.Record{}, false, err
	}

	record, ok := latestCompleted(payload)
	return record, ok, nil
}

func (c *Client) content(ctx context.Context, gameID string) (contentResponse, error) {
	var payload contentResponse
	req := c.http.R().SetPathParam("gamePk", gameID)
	err := c.getJSON(ctx, req, "/game/{gamePk}/content", &payload)
	return payload, err
}

func (c *Client) getJSON(ctx context.Context, req *resty.Request, path string, out any) error {
	req.SetContext(ctx)

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("%s: request %s: %w", providerName, path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return providers.NewStatusError(providerName, resp.StatusCode(), resp.Header(), truncateBody(resp.Body()))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: decode %s: %w: %v", providerName, path, providers.ErrMalformedPayload, err)
	}
	return nil
}
