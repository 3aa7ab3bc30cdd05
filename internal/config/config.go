package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	AnthropicAPIKey string
	AnthropicModel  string
	APIToken        string
	Feedback        bool
	HistoryLimit    int
}

// Load reads the environment. An empty DatabaseURL or NatsURL disables
// persistence or events.
func Load() Config {
	return Config{
		Port:            envInt("NEUROPILOT_PORT", 8760),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("NEUROPILOT_MODEL", "claude-sonnet-4-20250514"),
		APIToken:        envStr("NEUROPILOT_API_TOKEN", ""),
		Feedback:        envBool("NEUROPILOT_FEEDBACK", true),
		HistoryLimit:    envInt("NEUROPILOT_HISTORY_LIMIT", 20),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
