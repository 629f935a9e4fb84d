package config

const (
	ProviderStatsAPI = "statsapi"
	ProviderFixture  = "fixture"
)

// ProvidersConfig configures the game resolver and the video lookup strategies.
type ProvidersConfig struct {
	Name               string
	StatsAPIBaseURL    string
	WebBaseURL         string
	GraphQLURL         string
	HTTPTimeout        Duration
	MaxAttempts        int
	MinRequestInterval Duration
}

func loadProviders() ProvidersConfig {
	return ProvidersConfig{
		Name:               envOrDefault(envProvider, defaultProvider),
		StatsAPIBaseURL:    envOrDefault(envStatsAPIBaseURL, defaultStatsAPIBaseURL),
		WebBaseURL:         envOrDefault(envWebBaseURL, defaultWebBaseURL),
		GraphQLURL:         envOrDefault(envGraphQLURL, ""),
		HTTPTimeout:        durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
		MaxAttempts:        intEnvOrDefault(envResolverRetries, defaultResolverRetries),
		MinRequestInterval: durationEnvOrDefault(envResolverInterval, defaultResolverInterval),
	}
}
