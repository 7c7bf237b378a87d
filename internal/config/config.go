package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	CORS     CORSConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type CatalogConfig struct {
	// BaseURL is the products collection of the remote catalog service
	BaseURL        string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type SessionConfig struct {
	CookieName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AllowCredentials reports whether cookies may be sent cross-origin.
// It is false whenever the wildcard origin is configured.
func (c CORSConfig) AllowCredentials() bool {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return false
		}
	}
	return len(c.AllowedOrigins) > 0
}

// Load reads configuration from environment variables.
// When envFile is set, its variables are loaded first without overriding the
// ones already present in the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 45),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Catalog: CatalogConfig{
			BaseURL:        getEnv("CATALOG_API_URL", "https://fake-api-dfa7.onrender.com/products"),
			RequestTimeout: time.Duration(getEnvAsInt("CATALOG_API_TIMEOUT", 30)) * time.Second,
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 5<<20)),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "storefront_session"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CATALOG_API_URL must be an absolute URL: %q", c.Catalog.BaseURL)
	}

	if c.Catalog.RequestTimeout <= 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT must be positive")
	}

	// create and reload answer only after the catalog call returns
	if time.Duration(c.Server.WriteTimeout)*time.Second <= c.Catalog.RequestTimeout {
		return fmt.Errorf("WRITE_TIMEOUT (%ds) must exceed CATALOG_API_TIMEOUT (%s)", c.Server.WriteTimeout, c.Catalog.RequestTimeout)
	}

	if c.Catalog.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
