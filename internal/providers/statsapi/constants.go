package statsapi

import "time"

const (
	providerName        = "statsapi"
	contentStrategyName = "statsapi-content"
	defaultBaseURL      = "https://statsapi.mlb.com/api/v1"
	defaultHTTPTimeout  = 10 * time.Second
	defaultLookbackDays = 3
	sportIDMLB          = "1"
	userAgent           = "condensed-game-notifier/1.0"
	condensedTitle      = "Condensed Game"
	errorBodyLimit      = 512
)
