package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestLookbackRange(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		days      int
		wantStart string
	}{
		{3, "2024-02-29"},
		{1, "2024-03-02"},
		{0, "2024-03-02"},
	}
	for _, tc := range cases {
		start, end := LookbackRange(now, tc.days)
		if start != tc.wantStart || end != "2024-03-02" {
			t.Fatalf("days=%d: expected %s..2024-03-02, got %s..%s", tc.days, tc.wantStart, start, end)
		}
	}
}

func TestHourWindowContains(t *testing.T) {
	pacific := time.FixedZone("PT", -7*60*60)
	at := func(hour int) time.Time {
		return time.Date(2024, 6, 1, hour, 30, 0, 0, pacific)
	}

	cases := []struct {
		name   string
		window HourWindow
		hour   int
		want   bool
	}{
		{"inside", HourWindow{Start: 18, End: 23, Location: pacific}, 20, true},
		{"start inclusive", HourWindow{Start: 18, End: 23, Location: pacific}, 18, true},
		{"end exclusive", HourWindow{Start: 18, End: 23, Location: pacific}, 23, false},
		{"before", HourWindow{Start: 18, End: 23, Location: pacific}, 9, false},
		{"wrap late", HourWindow{Start: 22, End: 3, Location: pacific}, 23, true},
		{"wrap early", HourWindow{Start: 22, End: 3, Location: pacific}, 1, true},
		{"wrap outside", HourWindow{Start: 22, End: 3, Location: pacific}, 12, false},
		{"always open", HourWindow{Start: 5, End: 5, Location: pacific}, 12, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Contains(at(tc.hour)); got != tc.want {
				t.Fatalf("expected %v for hour %d in %s, got %v", tc.want, tc.hour, tc.window, got)
			}
		})
	}
}

func TestHourWindowUsesLocationNotInputZone(t *testing.T) {
	pacific := time.FixedZone("PT", -7*60*60)
	w := HourWindow{Start: 18, End: 23, Location: pacific}
	// 02:00 UTC is 19:00 PT the previous day.
	if !w.Contains(time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected window evaluated in its own location")
	}
}

func TestHourWindowValidate(t *testing.T) {
	if err := (HourWindow{Start: 0, End: 23}).Validate(); err != nil {
		t.Fatalf("expected valid window, got %v", err)
	}
	if err := (HourWindow{Start: -1, End: 5}).Validate(); err == nil {
		t.Fatalf("expected error for negative start")
	}
	if err := (HourWindow{Start: 1, End: 24}).Validate(); err == nil {
		t.Fatalf("expected error for end beyond 23")
	}
}
