package fixture

import (
	"context"
	"testing"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

func TestLatestCompletedIsDeterministic(t *testing.T) {
	day := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	p := New()

	record, ok, err := p.LatestCompleted(context.Background(), providers.GameQuery{TeamID: "137", Day: day})
	if err != nil || !ok {
		t.Fatalf("expected a game, got ok=%v err=%v", ok, err)
	}
	if record.ID != "fixture-2024-06-02" {
		t.Fatalf("unexpected id %s", record.ID)
	}
	if !record.Completed() || record.Home.ID != "137" {
		t.Fatalf("unexpected record %+v", record)
	}

	again, _, _ := p.LatestCompleted(context.Background(), providers.GameQuery{TeamID: "137", Day: day})
	if again.ID != record.ID {
		t.Fatalf("expected same id on repeat, got %s", again.ID)
	}
}

func TestLatestCompletedUsesClockWhenDayMissing(t *testing.T) {
	p := New()
	p.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	record, _, _ := p.LatestCompleted(context.Background(), providers.GameQuery{})
	if record.ID != "fixture-2023-12-31" {
		t.Fatalf("expected previous day fixture, got %s", record.ID)
	}
	if record.Home.ID != "137" {
		t.Fatalf("expected default team id, got %s", record.Away.ID)
	}
}

func TestLookupFindsVideo(t *testing.T) {
	res := New().Lookup(context.Background(), "7791")
	if !res.Found() {
		t.Fatalf("expected found, got %+v", res)
	}
	if res.Video.URL != "https://fixtures.condensed-game.local/7791/condensed.mp4" {
		t.Fatalf("unexpected url %s", res.Video.URL)
	}
	if res.Strategy != "fixture" {
		t.Fatalf("unexpected strategy %s", res.Strategy)
	}
}
