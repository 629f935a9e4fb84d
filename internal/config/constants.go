package config

import "time"

const (
	envPort      = "PORT"
	envLogLevel  = "LOG_LEVEL"
	envLogFormat = "LOG_FORMAT"

	envTeamID       = "TEAM_ID"
	envTeamName     = "TEAM_NAME"
	envLookbackDays = "LOOKBACK_DAYS"

	envTriggerTimezone    = "TRIGGER_TIMEZONE"
	envTriggerWindowStart = "TRIGGER_WINDOW_START"
	envTriggerWindowEnd   = "TRIGGER_WINDOW_END"
	envTriggerKey         = "TRIGGER_KEY"
	envLegacyDebugKey     = "DEBUG_KEY"
	envPollSchedule       = "POLL_SCHEDULE"

	envProvider         = "PROVIDER"
	envStatsAPIBaseURL  = "STATSAPI_BASE_URL"
	envWebBaseURL       = "MLB_WEB_BASE_URL"
	envGraphQLURL       = "LOCATOR_GRAPHQL_URL"
	envHTTPTimeout      = "HTTP_TIMEOUT"
	envResolverRetries  = "RESOLVER_MAX_ATTEMPTS"
	envResolverInterval = "RESOLVER_MIN_INTERVAL"

	envLedgerBackend  = "LEDGER_BACKEND"
	envLedgerPath     = "LEDGER_PATH"
	envRedisURL       = "REDIS_URL"
	envLedgerRedisKey = "LEDGER_REDIS_KEY"
	envDatabaseURL    = "DATABASE_URL"

	envTelegramToken   = "TELEGRAM_BOT_TOKEN"
	envTelegramChatID  = "TELEGRAM_CHAT_ID"
	envTelegramBaseURL = "TELEGRAM_BASE_URL"
	envWebhookURL      = "WEBHOOK_URL"
	envSMTPHost        = "SMTP_HOST"
	envSMTPPort        = "SMTP_PORT"
	envSMTPUsername    = "SMTP_USERNAME"
	envSMTPPassword    = "SMTP_PASSWORD"
	envEmailFrom       = "EMAIL_FROM"
	envEmailTo         = "EMAIL_TO"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envAdminRateLimit  = "ADMIN_RATE_LIMIT"
	envAdminRateWindow = "ADMIN_RATE_WINDOW"

	defaultPort      = "10000"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	// San Francisco Giants.
	defaultTeamID       = "137"
	defaultLookbackDays = 3

	defaultTriggerTimezone = "America/Los_Angeles"

	defaultProvider         = "statsapi"
	defaultStatsAPIBaseURL  = "https://statsapi.mlb.com/api/v1"
	defaultWebBaseURL       = "https://www.mlb.com"
	defaultHTTPTimeout      = 10 * Duration(time.Second)
	defaultResolverRetries  = 3
	defaultResolverInterval = Duration(time.Second)

	defaultLedgerBackend = "file"
	defaultLedgerPath    = "data/notified_games.txt"
	defaultSMTPPort      = 587

	defaultMetricsPort = "9090"

	// Admin routes allow a handful of attempts per client per window.
	defaultAdminRateLimit  = 5
	defaultAdminRateWindow = Duration(time.Minute)
)
