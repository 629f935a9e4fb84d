package locator

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

const anchorStrategyName = "gameday-anchors"

// AnchorStrategy looks for a link to an .mp4 that is labelled as a condensed game.
type AnchorStrategy struct {
	pages *GamedayPages
}

func NewAnchorStrategy(pages *GamedayPages) *AnchorStrategy {
	return &AnchorStrategy{pages: pages}
}

func (s *AnchorStrategy) Name() string {
	return anchorStrategyName
}

func (s *AnchorStrategy) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	body, err := s.pages.Fetch(ctx, gameID)
	if err != nil {
		return providers.NotFound(anchorStrategyName, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return providers.Malformed(anchorStrategyName, fmt.Errorf("parse page: %w", err))
	}
	base, _ := url.Parse(s.pages.PageURL(gameID))

	video, ok := findCondensedAnchor(doc, base)
	if !ok {
		return providers.NotFound(anchorStrategyName, nil)
	}
	return providers.FoundVideo(anchorStrategyName, video)
}

func findCondensedAnchor(doc *goquery.Document, base *url.URL) (videos.Video, bool) {
	var (
		found videos.Video
		ok    bool
	)
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		resolved := resolveHref(base, strings.TrimSpace(href))
		if resolved == "" || !isMP4(resolved) {
			return true
		}
		label := anchorLabel(sel)
		if !providers.MentionsCondensed(label) && !providers.MentionsCondensed(resolved) {
			return true
		}
		title := label
		if title == "" {
			title = "Condensed Game"
		}
		found = videos.Video{Title: title, URL: resolved}
		ok = true
		return false
	})
	return found, ok
}

func anchorLabel(sel *goquery.Selection) string {
	label := strings.Join(strings.Fields(sel.Text()), " ")
	if label != "" {
		return label
	}
	for _, attr := range []string{"title", "aria-label", "data-title"} {
		if v, exists := sel.Attr(attr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func resolveHref(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "https" && ref.Scheme != "http" {
		return ""
	}
	return ref.String()
}

func isMP4(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".mp4")
}
