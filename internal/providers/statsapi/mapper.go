package statsapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/teams"
	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

func mapGame(g scheduleGame) games.Record {
	completedAt, _ := time.Parse(time.RFC3339, g.GameDate)
	return games.Record{
		ID:          strconv.FormatInt(g.GamePk, 10),
		CompletedAt: completedAt,
		Away:        mapTeam(g.Teams.Away.Team),
		Home:        mapTeam(g.Teams.Home.Team),
		Status:      g.Status.AbstractGameCode,
	}
}

func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           strconv.Itoa(t.ID),
		Name:         t.Name,
		Abbreviation: t.Abbreviation,
	}
}

// latestCompleted returns the final game with the latest gameDate. Later entries win ties.
func latestCompleted(payload scheduleResponse) (games.Record, bool) {
	var (
		best  games.Record
		found bool
	)
	for _, d := range payload.Dates {
		for _, g := range d.Games {
			if g.GamePk <= 0 || g.Status.AbstractGameCode != games.AbstractCodeFinal {
				continue
			}
			record := mapGame(g)
			if !found || !record.CompletedAt.Before(best.CompletedAt) {
				best = record
				found = true
			}
		}
	}
	return best, found
}

// findCondensed prefers the epgAlternate "Condensed Game" list, then any highlight mentioning condensed.
func findCondensed(payload contentResponse) (videos.Video, bool) {
	for _, alt := range payload.Media.EpgAlternate {
		if !strings.EqualFold(alt.Title, condensedTitle) {
			continue
		}
		for _, item := range alt.Items {
			if v, ok := mapItem(item); ok {
				return v, true
			}
		}
	}
	for _, item := range payload.Highlights.Highlights.Items {
		if !mentionsCondensed(item) {
			continue
		}
		if v, ok := mapItem(item); ok {
			return v, true
		}
	}
	return videos.Video{}, false
}

func mapItem(item contentItem) (videos.Video, bool) {
	url := providers.PickPlayback(item.Playbacks)
	if url == "" {
		return videos.Video{}, false
	}
	title := item.Title
	if title == "" {
		title = item.Headline
	}
	if title == "" {
		title = condensedTitle
	}
	return videos.Video{Title: title, URL: url, ThumbnailURL: pickThumbnail(item.Image)}, true
}

func mentionsCondensed(item contentItem) bool {
	if providers.MentionsCondensed(item.Title) || providers.MentionsCondensed(item.Headline) {
		return true
	}
	for _, kw := range item.Keywords {
		if providers.MentionsCondensed(kw.Value) || providers.MentionsCondensed(kw.DisplayName) {
			return true
		}
	}
	return false
}

func pickThumbnail(img contentImage) string {
	best := ""
	bestWidth := -1
	for _, cut := range img.Cuts {
		if isHTTPS(cut.Src) && cut.Width > bestWidth {
			best = cut.Src
			bestWidth = cut.Width
		}
	}
	return best
}

func isHTTPS(u string) bool {
	return strings.HasPrefix(u, "https://")
}
