package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds runtime configuration for the server and CLI.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	Team      TeamConfig
	Trigger   TriggerConfig
	Providers ProvidersConfig
	Ledger    LedgerConfig
	Notify    NotifyConfig
	Metrics   MetricsConfig
	AdminRate RateLimitConfig
}

// TeamConfig names the team being followed.
type TeamConfig struct {
	ID           string
	Name         string
	LookbackDays int
}

// TriggerConfig controls when runs may proceed and who may force them.
type TriggerConfig struct {
	Timezone    string
	WindowStart int
	WindowEnd   int
	// Key is the shared secret for forced runs. Empty disables secret-gated routes.
	Key string
	// Schedule is a cron expression for in-process runs. Empty disables the scheduler.
	Schedule string
}

// Location loads the reference timezone, falling back to UTC.
func (t TriggerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RateLimitConfig bounds requests per client over a window.
type RateLimitConfig struct {
	Limit  int
	Window Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:      envOrDefault(envPort, defaultPort),
		LogLevel:  envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat: envOrDefault(envLogFormat, defaultLogFormat),
		Team: TeamConfig{
			ID:           envOrDefault(envTeamID, defaultTeamID),
			Name:         envOrDefault(envTeamName, ""),
			LookbackDays: intEnvOrDefault(envLookbackDays, defaultLookbackDays),
		},
		Trigger: TriggerConfig{
			Timezone:    envOrDefault(envTriggerTimezone, defaultTriggerTimezone),
			WindowStart: hourEnvOrDefault(envTriggerWindowStart, 0),
			WindowEnd:   hourEnvOrDefault(envTriggerWindowEnd, 0),
			Key:         firstEnv(envTriggerKey, envLegacyDebugKey),
			Schedule:    strings.TrimSpace(envOrDefault(envPollSchedule, "")),
		},
		Providers: loadProviders(),
		Ledger:    loadLedger(),
		Notify:    loadNotify(),
		Metrics:   loadMetrics(),
		AdminRate: RateLimitConfig{
			Limit:  intEnvOrDefault(envAdminRateLimit, defaultAdminRateLimit),
			Window: durationEnvOrDefault(envAdminRateWindow, defaultAdminRateWindow),
		},
	}
}

// Validate reports every setting that would stop the service from starting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Team.ID) == "" {
		errs = append(errs, errors.New("TEAM_ID must not be empty"))
	}
	if _, err := time.LoadLocation(c.Trigger.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TRIGGER_TIMEZONE %q: %w", c.Trigger.Timezone, err))
	}
	if c.Trigger.Schedule != "" {
		if _, err := cron.ParseStandard(c.Trigger.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("POLL_SCHEDULE %q: %w", c.Trigger.Schedule, err))
		}
	}
	switch strings.ToLower(c.Providers.Name) {
	case ProviderStatsAPI, ProviderFixture:
	default:
		errs = append(errs, fmt.Errorf("PROVIDER %q is not supported", c.Providers.Name))
	}
	switch strings.ToLower(c.Ledger.Backend) {
	case "", "file", "memory":
	case "redis":
		if c.Ledger.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis ledger"))
		}
	case "postgres":
		if c.Ledger.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres ledger"))
		}
	default:
		errs = append(errs, fmt.Errorf("LEDGER_BACKEND %q is not supported", c.Ledger.Backend))
	}
	return errors.Join(errs...)
}
