package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env       string
	LogLevel  string
	LogFormat string

	// CatalogFile points at a YAML catalog; empty means the built-in one.
	CatalogFile string

	// Cosmetic delays before assistant and result messages appear.
	TypingDelay   time.Duration
	AnalysisDelay time.Duration

	MarkdownRendering bool
	MetricsTextfile   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "warn"),
		LogFormat:         strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", "text"))),
		CatalogFile:       strings.TrimSpace(getEnv("CATALOG_FILE", "")),
		TypingDelay:       getEnvAsDuration("TYPING_DELAY", 500*time.Millisecond),
		AnalysisDelay:     getEnvAsDuration("ANALYSIS_DELAY", 2*time.Second),
		MarkdownRendering: getEnvAsBool("MARKDOWN_RENDERING", true),
		MetricsTextfile:   strings.TrimSpace(getEnv("METRICS_TEXTFILE", "")),
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

// getEnvAsDuration accepts Go durations ("750ms") or bare milliseconds ("750").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value >= 0 {
		return value
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
