package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/teams"
	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
	"github.com/preston-bernstein/condensed-game-notifier/internal/timeutil"
)

const (
	providerName = "fixture"
	videoBaseURL = "https://fixtures.condensed-game.local"
)

// Provider returns deterministic games and videos for local runs and smoke tests.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

func (p *Provider) Name() string {
	return providerName
}

// LatestCompleted reports one final game for the team, played the evening before the query day.
func (p *Provider) LatestCompleted(ctx context.Context, q providers.GameQuery) (games.Record, bool, error) {
	_ = ctx
	day := q.Day
	if day.IsZero() {
		day = p.now()
	}
	played := time.Date(day.Year(), day.Month(), day.Day()-1, 22, 0, 0, 0, time.UTC)
	teamID := q.TeamID
	if teamID == "" {
		teamID = "137"
	}

	return games.Record{
		ID:          "fixture-" + timeutil.FormatDate(played),
		CompletedAt: played,
		Away:        teams.Team{ID: "0", Name: "Fixture Visitors", Abbreviation: "FXV"},
		Home:        teams.Team{ID: teamID, Name: "Fixture Home Club", Abbreviation: "FHC"},
		Status:      games.AbstractCodeFinal,
	}, true, nil
}

// Lookup always finds a condensed game for the given id.
func (p *Provider) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	_ = ctx
	return providers.FoundVideo(providerName, videos.Video{
		Title: fmt.Sprintf("Condensed Game: %s", gameID),
		URL:   fmt.Sprintf("%s/%s/condensed.mp4", videoBaseURL, gameID),
	})
}
