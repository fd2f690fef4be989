package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken   string
	GitHubBaseURL string // empty means api.github.com

	// Bitbucket
	BitbucketBaseURL     string
	BitbucketUsername    string
	BitbucketAppPassword string

	// Upstream behavior
	UpstreamTimeout time.Duration // per-source fetch deadline
	MaxPages        int           // page cap per upstream listing

	// API Server
	APIPort string
	APIHost string

	// CLI
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		GitHubToken:          getEnv("GITHUB_TOKEN", ""),
		GitHubBaseURL:        getEnv("GITHUB_BASE_URL", ""),
		BitbucketBaseURL:     getEnv("BITBUCKET_BASE_URL", "https://api.bitbucket.org/2.0"),
		BitbucketUsername:    getEnv("BITBUCKET_USERNAME", ""),
		BitbucketAppPassword: getEnv("BITBUCKET_APP_PASSWORD", ""),
		UpstreamTimeout:      getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		MaxPages:             getEnvInt("MAX_PAGES", 10),
		APIPort:              getEnv("API_PORT", "8080"),
		APIHost:              getEnv("API_HOST", "localhost"),
		APIEndpoint:          getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.UpstreamTimeout <= 0 {
		return &ConfigError{Field: "UPSTREAM_TIMEOUT", Message: "must be a positive duration"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MAX_PAGES", Message: "must be at least 1"}
	}
	if c.BitbucketBaseURL == "" {
		return &ConfigError{Field: "BITBUCKET_BASE_URL", Message: "must not be empty"}
	}
	if (c.BitbucketUsername == "") != (c.BitbucketAppPassword == "") {
		return &ConfigError{Field: "BITBUCKET_USERNAME", Message: "username and app password must be set together"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
