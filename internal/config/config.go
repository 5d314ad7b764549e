package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings in correct types. It is built once in
// main and passed by reference into every component; there is no global.
type Config struct {
	// Required API credentials.
	GeminiAPIKey string
	HeyGenAPIKey string

	// Service endpoints. Overridable so tests can point at local servers.
	GeminiBaseURL string
	HeyGenBaseURL string
	GeminiModel   string

	// Scraping behaviour.
	UserAgent     string
	MaxPageSizeMB int

	// HTTP and polling behaviour.
	HTTPTimeout  time.Duration
	PollInterval time.Duration
	// MaxPollWait bounds the total time spent polling a video job.
	// Zero means poll until the job reaches a terminal state.
	MaxPollWait time.Duration

	Server struct {
		Host string
		Port int
	}
}

// New reads configuration from the environment. Missing credentials are a
// startup error: proceeding with empty keys just burns a request before
// failing remotely.
func New() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		HeyGenAPIKey:  os.Getenv("HEYGEN_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		HeyGenBaseURL: getEnv("HEYGEN_BASE_URL", "https://api.heygen.com"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-flash-latest"),
		UserAgent:     getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0"),
		MaxPageSizeMB: getEnvAsInt("SCRAPER_MAX_PAGE_MB", 5),
		HTTPTimeout:   time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		PollInterval:  time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		MaxPollWait:   time.Duration(getEnvAsInt("MAX_POLL_WAIT_SECONDS", 0)) * time.Second,
	}
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", 8080)

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if cfg.HeyGenAPIKey == "" {
		return nil, fmt.Errorf("HEYGEN_API_KEY environment variable not set")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	str := os.Getenv(key)
	if val, err := strconv.Atoi(str); err == nil {
		return val
	}
	return fallback
}
