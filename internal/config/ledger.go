package config

// LedgerConfig selects the notification ledger backend.
type LedgerConfig struct {
	Backend     string
	Path        string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
}

func loadLedger() LedgerConfig {
	return LedgerConfig{
		Backend:     envOrDefault(envLedgerBackend, defaultLedgerBackend),
		Path:        envOrDefault(envLedgerPath, defaultLedgerPath),
		RedisURL:    envOrDefault(envRedisURL, ""),
		RedisKey:    envOrDefault(envLedgerRedisKey, ""),
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
	}
}
