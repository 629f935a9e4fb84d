package statsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

func contentServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/game/7791/content" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestContentStrategyPrefersEpgAlternate(t *testing.T) {
	body := `{
		"media": {
			"epgAlternate": [
				{ "title": "Extended Highlights", "items": [ { "title": "extended", "playbacks": [ { "name": "mp4Avc", "url": "https://cdn.example.com/ext.mp4" } ] } ] },
				{ "title": "Condensed Game", "items": [
					{
						"title": "CG: SF@LAD",
						"playbacks": [
							{ "name": "hlsCloud", "url": "https://cdn.example.com/cg.m3u8" },
							{ "name": "highBit", "url": "https://cdn.example.com/cg-high.mp4" },
							{ "name": "mp4Avc", "url": "https://cdn.example.com/cg.mp4" }
						],
						"image": { "cuts": [ { "src": "https://img.example.com/small.jpg", "width": 320 }, { "src": "https://img.example.com/big.jpg", "width": 1280 } ] }
					}
				] }
			]
		},
		"highlights": { "highlights": { "items": [ { "title": "Condensed Game fallback", "playbacks": [ { "name": "mp4Avc", "url": "https://cdn.example.com/other.mp4" } ] } ] } }
	}`
	srv := contentServer(t, http.StatusOK, body)

	res := NewContentStrategy(NewClient(Config{BaseURL: srv.URL})).Lookup(context.Background(), "7791")
	if !res.Found() {
		t.Fatalf("expected found, got %+v", res)
	}
	if res.Video.URL != "https://cdn.example.com/cg.mp4" {
		t.Fatalf("expected mp4Avc playback, got %s", res.Video.URL)
	}
	if res.Video.Title != "CG: SF@LAD" {
		t.Fatalf("unexpected title %q", res.Video.Title)
	}
	if res.Video.ThumbnailURL != "https://img.example.com/big.jpg" {
		t.Fatalf("expected widest thumbnail, got %s", res.Video.ThumbnailURL)
	}
	if res.Strategy != contentStrategyName {
		t.Fatalf("unexpected strategy %s", res.Strategy)
	}
}

func TestContentStrategyFallsBackToHighlights(t *testing.T) {
	body := `{
		"media": { "epgAlternate": [] },
		"highlights": { "highlights": { "items": [
			{ "headline": "Top play", "playbacks": [ { "name": "mp4Avc", "url": "https://cdn.example.com/top.mp4" } ] },
			{ "headline": "Recap", "keywordsAll": [ { "type": "taxonomy", "value": "condensed-game" } ], "playbacks": [ { "name": "FLASH_2500K", "url": "https://cdn.example.com/recap.mp4" } ] }
		] } }
	}`
	srv := contentServer(t, http.StatusOK, body)

	res := NewContentStrategy(NewClient(Config{BaseURL: srv.URL})).Lookup(context.Background(), "7791")
	if !res.Found() || res.Video.URL != "https://cdn.example.com/recap.mp4" {
		t.Fatalf("expected keyword-tagged highlight, got %+v", res)
	}
	if res.Video.Title != "Recap" {
		t.Fatalf("expected headline as title, got %q", res.Video.Title)
	}
}

func TestContentStrategyNotFound(t *testing.T) {
	srv := contentServer(t, http.StatusOK, `{"media":{},"highlights":{}}`)
	res := NewContentStrategy(NewClient(Config{BaseURL: srv.URL})).Lookup(context.Background(), "7791")
	if res.Outcome != providers.LookupNotFound {
		t.Fatalf("expected not found, got %s", res.Outcome)
	}
}

func TestContentStrategyUpstreamError(t *testing.T) {
	srv := contentServer(t, http.StatusServiceUnavailable, "down")
	res := NewContentStrategy(NewClient(Config{BaseURL: srv.URL})).Lookup(context.Background(), "7791")
	if res.Outcome != providers.LookupNotFound || res.Err == nil {
		t.Fatalf("expected not found with error, got %+v", res)
	}
}

func TestContentStrategyMalformed(t *testing.T) {
	srv := contentServer(t, http.StatusOK, "<html>")
	res := NewContentStrategy(NewClient(Config{BaseURL: srv.URL})).Lookup(context.Background(), "7791")
	if res.Outcome != providers.LookupMalformed {
		t.Fatalf("expected malformed, got %s", res.Outcome)
	}
}

func TestContentStrategyNilClient(t *testing.T) {
	var s *ContentStrategy
	if res := s.Lookup(context.Background(), "1"); res.Outcome != providers.LookupNotFound {
		t.Fatalf("expected not found, got %s", res.Outcome)
	}
}
