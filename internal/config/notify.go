package config

// NotifyConfig carries credentials for every notifier. A notifier whose
// required fields are empty is not configured.
type NotifyConfig struct {
	TelegramToken   string
	TelegramChatID  string
	TelegramBaseURL string
	WebhookURL      string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	EmailFrom       string
	EmailTo         string
}

func loadNotify() NotifyConfig {
	return NotifyConfig{
		TelegramToken:   envOrDefault(envTelegramToken, ""),
		TelegramChatID:  envOrDefault(envTelegramChatID, ""),
		TelegramBaseURL: envOrDefault(envTelegramBaseURL, ""),
		WebhookURL:      envOrDefault(envWebhookURL, ""),
		SMTPHost:        envOrDefault(envSMTPHost, ""),
		SMTPPort:        intEnvOrDefault(envSMTPPort, defaultSMTPPort),
		SMTPUsername:    envOrDefault(envSMTPUsername, ""),
		SMTPPassword:    envOrDefault(envSMTPPassword, ""),
		EmailFrom:       envOrDefault(envEmailFrom, ""),
		EmailTo:         envOrDefault(envEmailTo, ""),
	}
}
