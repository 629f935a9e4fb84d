package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const graphqlStrategyName = "graphql"

const condensedQuery = `query CondensedGame($gamePk: Int!) {
  mediaPlayback(ids: [$gamePk], idType: GAME_PK, languagePreference: EN) {
    title
    slug
    feeds { type playbacks { name url } }
  }
}`

// GraphQLConfig points the strategy at a media GraphQL endpoint.
type GraphQLConfig struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// GraphQLStrategy asks a media GraphQL endpoint for the game's playback entries.
type GraphQLStrategy struct {
	http *resty.Client
	url  string
}

// NewGraphQLStrategy returns nil when no endpoint is configured.
func NewGraphQLStrategy(cfg GraphQLConfig) *GraphQLStrategy {
	if cfg.URL == "" {
		return nil
	}
	client := resty.New()
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client.SetTimeout(timeout).SetHeader("Content-Type", "application/json")
	return &GraphQLStrategy{http: client, url: cfg.URL}
}

func (s *GraphQLStrategy) Name() string {
	return graphqlStrategyName
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		MediaPlayback []mediaPlayback `json:"mediaPlayback"`
		Search        struct {
			Items []mediaPlayback `json:"items"`
		} `json:"search"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type mediaPlayback struct {
	Title     string               `json:"title"`
	Slug      string               `json:"slug"`
	Feeds     []mediaFeed          `json:"feeds"`
	Playbacks []providers.Playback `json:"playbacks"`
}

type mediaFeed struct {
	Type      string               `json:"type"`
	Playbacks []providers.Playback `json:"playbacks"`
}

func (s *GraphQLStrategy) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	var gamePk any = gameID
	if n, err := strconv.Atoi(gameID); err == nil {
		gamePk = n
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(graphqlRequest{Query: condensedQuery, Variables: map[string]any{"gamePk": gamePk}}).
		Post(s.url)
	if err != nil {
		return providers.NotFound(graphqlStrategyName, fmt.Errorf("graphql request: %w", err))
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return providers.NotFound(graphqlStrategyName, providers.NewStatusError(graphqlStrategyName, resp.StatusCode(), resp.Header(), ""))
	}

	var payload graphqlResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return providers.Malformed(graphqlStrategyName, err)
	}

	entries := append(payload.Data.MediaPlayback, payload.Data.Search.Items...)
	if len(entries) == 0 && len(payload.Errors) > 0 {
		return providers.NotFound(graphqlStrategyName, fmt.Errorf("graphql: %s", payload.Errors[0].Message))
	}

	for _, entry := range entries {
		if !providers.MentionsCondensed(entry.Title) && !providers.MentionsCondensed(entry.Slug) {
			continue
		}
		candidates := entry.Playbacks
		for _, feed := range entry.Feeds {
			candidates = append(candidates, feed.Playbacks...)
		}
		if url := providers.PickPlayback(candidates); url != "" {
			title := entry.Title
			if title == "" {
				title = "Condensed Game"
			}
			return providers.FoundVideo(graphqlStrategyName, videos.Video{Title: title, URL: url})
		}
	}
	return providers.NotFound(graphqlStrategyName, nil)
}
