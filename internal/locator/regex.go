package locator

import (
	"context"
	"regexp"
	"strings"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const regexStrategyName = "gameday-regex"

var (
	playbacksPattern = regexp.MustCompile(`(?s)"playbacks":\s*\[(.*?)\]`)
	condensedPattern = regexp.MustCompile(`"name":"Condensed Game".*?"url":"(https:[^"]+\.mp4)"`)
)

// RegexStrategy scans the playbacks blocks embedded in the gameday page's inline JSON.
type RegexStrategy struct {
	pages *GamedayPages
}

func NewRegexStrategy(pages *GamedayPages) *RegexStrategy {
	return &RegexStrategy{pages: pages}
}

func (s *RegexStrategy) Name() string {
	return regexStrategyName
}

func (s *RegexStrategy) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	body, err := s.pages.Fetch(ctx, gameID)
	if err != nil {
		return providers.NotFound(regexStrategyName, err)
	}
	url, ok := extractCondensedURL(string(body))
	if !ok {
		return providers.NotFound(regexStrategyName, nil)
	}
	return providers.FoundVideo(regexStrategyName, videos.Video{Title: "Condensed Game", URL: url})
}

func extractCondensedURL(page string) (string, bool) {
	for _, block := range playbacksPattern.FindAllStringSubmatch(page, -1) {
		m := condensedPattern.FindStringSubmatch(block[1])
		if m == nil {
			continue
		}
		return unescapeSlashes(m[1]), true
	}
	return "", false
}

func unescapeSlashes(s string) string {
	return strings.NewReplacer(`\u002F`, "/", `\u002f`, "/", `\/`, "/").Replace(s)
}
