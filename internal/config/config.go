// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StoreConfig holds document store connection settings.
type StoreConfig struct {
	// Driver selects the backend: "mongo" or "postgres" (default: mongo)
	Driver string `env:"STORE_DRIVER" default:"mongo"`

	// URL is the connection string for the selected driver (required)
	// Supports both STORE_URL and DATABASE_URL env vars for compatibility
	URL string `env:"STORE_URL" envAlt:"DATABASE_URL" required:"true"`

	// Database is the MongoDB database name (default: stationcms)
	Database string `env:"STORE_DATABASE" default:"stationcms"`

	// ConnectTimeout bounds the initial connection attempt (default: 10s)
	ConnectTimeout time.Duration `env:"STORE_CONNECT_TIMEOUT" default:"10s"`

	// MaxConns is the maximum pool size for the postgres driver (default: 20)
	MaxConns int `env:"STORE_MAX_CONNS" default:"20"`

	// MinConns is the minimum pool size for the postgres driver (default: 2)
	MinConns int `env:"STORE_MIN_CONNS" default:"2"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// MaxPayloadSize is the maximum accepted raw text size in bytes (default: 10MB)
	MaxPayloadSize int64 `env:"IMPORT_MAX_PAYLOAD_SIZE" default:"10485760"`

	// ListLimit is the default page size for record listings (default: 50)
	ListLimit int `env:"IMPORT_LIST_LIMIT" default:"50"`

	// ListLimitMax caps the requested page size for record listings (default: 500)
	ListLimitMax int `env:"IMPORT_LIST_LIMIT_MAX" default:"500"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey gates the API behind X-API-Key validation (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted operator keys
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
