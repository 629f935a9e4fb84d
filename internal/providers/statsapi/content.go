package statsapi

import (
	"context"
	"errors"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

// ContentStrategy locates condensed games through the Stats API content document.
type ContentStrategy struct {
	client *Client
}

// NewContentStrategy builds the content lookup on top of a Stats API client.
func NewContentStrategy(client *Client) *ContentStrategy {
	return &ContentStrategy{client: client}
}

func (s *ContentStrategy) Name() string {
	return contentStrategyName
}

func (s *ContentStrategy) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	if s == nil || s.client == nil {
		return providers.NotFound(contentStrategyName, providers.ErrProviderUnavailable)
	}
	payload, err := s.client.content(ctx, gameID)
	if err != nil {
		if errors.Is(err, providers.ErrMalformedPayload) {
			return providers.Malformed(contentStrategyName, err)
		}
		return providers.NotFound(contentStrategyName, err)
	}
	video, ok := findCondensed(payload)
	if !ok {
		return providers.NotFound(contentStrategyName, nil)
	}
	return providers.FoundVideo(contentStrategyName, video)
}
