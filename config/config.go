// Package config provides configuration for the assistant.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the assistant configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Session store
	DatabaseURL string
	SessionTTL  time.Duration

	// Language understanding
	OpenAIAPIKey string
	OpenAIModel  string
	STTModel     string
	NLUTimeout   time.Duration

	// Messaging channel
	ChannelBaseURL     string
	ChannelAccessToken string
	ChannelPhoneID     string
	WebhookVerifyToken string
	WebhookAppSecret   string

	// Logging
	Debug bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:        getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_SECONDS", 3600)) * time.Second,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		STTModel:           getEnv("STT_MODEL", "whisper-1"),
		NLUTimeout:         time.Duration(getEnvInt("NLU_TIMEOUT_MS", 30000)) * time.Millisecond,
		ChannelBaseURL:     getEnv("CHANNEL_BASE_URL", "https://graph.facebook.com/v18.0"),
		ChannelAccessToken: getEnv("CHANNEL_ACCESS_TOKEN", ""),
		ChannelPhoneID:     getEnv("CHANNEL_PHONE_ID", ""),
		WebhookVerifyToken: getEnv("WEBHOOK_VERIFY_TOKEN", ""),
		WebhookAppSecret:   getEnv("WEBHOOK_APP_SECRET", ""),
		Debug:              getEnvBool("DEBUG", false),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
