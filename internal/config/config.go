package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API
	VerifyToken     string
	WhatsAppToken   string
	PhoneNumberID   string
	GraphAPIVersion string
	GraphAPIBase    string

	// Outbound send retry policy
	SendMaxRetries   int
	SendRetryBackoff time.Duration
	SendTimeout      time.Duration

	// CRM webhook
	CRMWebhookURL string
	CRMTimeout    time.Duration

	// Dedup / session stores
	DedupTTL        time.Duration
	DedupMaxEntries int
	SessionTTL      time.Duration

	// Optional shared store for multi-instance deployments
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VerifyToken:     getEnv("VERIFY_TOKEN", ""),
		WhatsAppToken:   getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:   getEnv("PHONE_NUMBER_ID", ""),
		GraphAPIVersion: strings.TrimSpace(getEnv("GRAPH_API_VERSION", "v19.0")),
		GraphAPIBase:    getEnv("GRAPH_API_BASE", "https://graph.facebook.com"),

		SendMaxRetries:   getEnvAsInt("SEND_MAX_RETRIES", 3),
		SendRetryBackoff: getEnvAsDuration("SEND_RETRY_BACKOFF", 250*time.Millisecond),
		SendTimeout:      getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),

		CRMWebhookURL: getEnv("CRM_WEBHOOK_URL", ""),
		CRMTimeout:    getEnvAsDuration("CRM_TIMEOUT", 15*time.Second),

		DedupTTL:        getEnvAsDuration("DEDUP_TTL", 24*time.Hour),
		DedupMaxEntries: getEnvAsInt("DEDUP_MAX_ENTRIES", 100000),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
