// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// Completion upstream. An empty APIKey is not a startup error: the
	// server runs with fallback replies and /api/chat reports the
	// configuration error per request.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string
	ChatTimeout   time.Duration

	HealthCheckTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	chatTimeout := getEnvInt("CHAT_TIMEOUT_SECONDS", 30)
	if chatTimeout <= 0 {
		chatTimeout = 30
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		DBPath:             getEnv("DB_PATH", "./data/tutor.db"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatTimeout:        time.Duration(chatTimeout) * time.Second,
		HealthCheckTimeout: 5 * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("CHAT_MODEL cannot be empty")
	}
	if c.ChatTimeout <= 0 {
		return fmt.Errorf("CHAT_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// ChatConfigured returns true if the completion upstream credential is set.
func (c *Config) ChatConfigured() bool {
	return c.OpenAIAPIKey != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
