package providers

import "strings"

// Playback is one encoded rendition of a video as listed by upstream media APIs.
type Playback struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var preferredPlaybacks = []string{"mp4Avc", "highBit"}

// PickPlayback ranks mp4Avc, then highBit, then any .mp4, then any https URL.
// It returns "" when no https rendition exists.
func PickPlayback(playbacks []Playback) string {
	for _, name := range preferredPlaybacks {
		for _, p := range playbacks {
			if strings.EqualFold(p.Name, name) && isHTTPS(p.URL) {
				return p.URL
			}
		}
	}
	for _, p := range playbacks {
		if isHTTPS(p.URL) && hasMP4Suffix(p.URL) {
			return p.URL
		}
	}
	for _, p := range playbacks {
		if isHTTPS(p.URL) {
			return p.URL
		}
	}
	return ""
}

// MentionsCondensed reports whether s refers to a condensed game.
func MentionsCondensed(s string) bool {
	return strings.Contains(strings.ToLower(s), "condensed")
}

func isHTTPS(u string) bool {
	return strings.HasPrefix(u, "https://")
}

func hasMP4Suffix(u string) bool {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(strings.ToLower(u), ".mp4")
}
