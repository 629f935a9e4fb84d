package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Team.ID != defaultTeamID || cfg.Team.LookbackDays != defaultLookbackDays {
		t.Fatalf("expected default team %s/%d, got %+v", defaultTeamID, defaultLookbackDays, cfg.Team)
	}
	if cfg.Trigger.Timezone != defaultTriggerTimezone {
		t.Fatalf("expected default timezone %s, got %s", defaultTriggerTimezone, cfg.Trigger.Timezone)
	}
	if cfg.Trigger.Key != "" {
		t.Fatalf("expected no default trigger key, got %q", cfg.Trigger.Key)
	}
	if cfg.Trigger.Schedule != "" {
		t.Fatalf("expected scheduler disabled by default, got %q", cfg.Trigger.Schedule)
	}
	if cfg.Providers.Name != defaultProvider || cfg.Providers.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("unexpected provider defaults %+v", cfg.Providers)
	}
	if cfg.Ledger.Backend != defaultLedgerBackend || cfg.Ledger.Path != defaultLedgerPath {
		t.Fatalf("unexpected ledger defaults %+v", cfg.Ledger)
	}
	if cfg.Notify.SMTPPort != defaultSMTPPort {
		t.Fatalf("expected default smtp port %d, got %d", defaultSMTPPort, cfg.Notify.SMTPPort)
	}
	if cfg.AdminRate.Limit != defaultAdminRateLimit || cfg.AdminRate.Window != defaultAdminRateWindow {
		t.Fatalf("unexpected admin rate defaults %+v", cfg.AdminRate)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ServiceName != "condensed-game-notifier" {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envTeamID, "119")
	t.Setenv(envTeamName, "Dodgers")
	t.Setenv(envLookbackDays, "5")
	t.Setenv(envTriggerWindowStart, "22")
	t.Setenv(envTriggerWindowEnd, "0")
	t.Setenv(envPollSchedule, "*/15 * * * *")
	t.Setenv(envHTTPTimeout, "3s")
	t.Setenv(envLedgerBackend, "redis")
	t.Setenv(envRedisURL, "redis://localhost:6379/0")
	t.Setenv(envTelegramToken, "tok")
	t.Setenv(envTelegramChatID, "42")
	t.Setenv(envEmailTo, "a@example.com, b@example.com")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Team.ID != "119" || cfg.Team.Name != "Dodgers" || cfg.Team.LookbackDays != 5 {
		t.Fatalf("unexpected team config %+v", cfg.Team)
	}
	if cfg.Trigger.WindowStart != 22 || cfg.Trigger.WindowEnd != 0 {
		t.Fatalf("expected window 22-0, got %d-%d", cfg.Trigger.WindowStart, cfg.Trigger.WindowEnd)
	}
	if cfg.Trigger.Schedule != "*/15 * * * *" {
		t.Fatalf("expected schedule override, got %q", cfg.Trigger.Schedule)
	}
	if cfg.Providers.HTTPTimeout != 3*time.Second {
		t.Fatalf("expected http timeout 3s, got %s", cfg.Providers.HTTPTimeout)
	}
	if cfg.Ledger.Backend != "redis" || cfg.Ledger.RedisURL == "" {
		t.Fatalf("unexpected ledger config %+v", cfg.Ledger)
	}
	if cfg.Notify.TelegramToken != "tok" || cfg.Notify.TelegramChatID != "42" {
		t.Fatalf("unexpected telegram config %+v", cfg.Notify)
	}
	if !strings.Contains(cfg.Notify.EmailTo, "b@example.com") {
		t.Fatalf("expected raw recipients, got %q", cfg.Notify.EmailTo)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadReadsLegacyDebugKey(t *testing.T) {
	t.Setenv(envLegacyDebugKey, "legacy-secret")
	if got := Load().Trigger.Key; got != "legacy-secret" {
		t.Fatalf("expected legacy key fallback, got %q", got)
	}
	t.Setenv(envTriggerKey, "new-secret")
	if got := Load().Trigger.Key; got != "new-secret" {
		t.Fatalf("expected TRIGGER_KEY to win, got %q", got)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envHTTPTimeout, "not-a-duration")
	t.Setenv(envAdminRateWindow, "0s")

	cfg := Load()

	if cfg.Providers.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout on invalid value, got %s", cfg.Providers.HTTPTimeout)
	}
	if cfg.AdminRate.Window != defaultAdminRateWindow {
		t.Fatalf("expected default window on non-positive value, got %s", cfg.AdminRate.Window)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Load()
	cfg.Team.ID = " "
	cfg.Trigger.Timezone = "Mars/Olympus"
	cfg.Trigger.Schedule = "every tuesday"
	cfg.Providers.Name = "espn"
	cfg.Ledger.Backend = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"TEAM_ID", "TRIGGER_TIMEZONE", "POLL_SCHEDULE", "PROVIDER", "DATABASE_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got %v", want, err)
		}
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Load()
	cfg.Ledger.Backend = "sqlite"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "LEDGER_BACKEND") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestTriggerLocationFallsBackToUTC(t *testing.T) {
	if loc := (TriggerConfig{Timezone: "Nope/Nowhere"}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", loc)
	}
}
