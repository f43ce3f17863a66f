package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Payment platform webhook configuration
	WebhookSecrets       []string
	WebhookSigningSecret string

	// Identity provider configuration
	IdentityAPIURL string
	IdentityAPIKey string

	// Session configuration
	SessionTTLMinutes int
	ServiceName       string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		WebhookSecrets:       getEnvList("WEBHOOK_SECRETS", ""),
		WebhookSigningSecret: getEnv("WEBHOOK_SIGNING_SECRET", ""),
		IdentityAPIURL:       getEnv("IDENTITY_API_URL", ""),
		IdentityAPIKey:       getEnv("IDENTITY_API_KEY", ""),
		SessionTTLMinutes:    getEnvInt("SESSION_TTL_MINUTES", 30),
		ServiceName:          getEnv("SERVICE_NAME", "Member Portal"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated environment variable into a list
func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
