// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	S3       S3Config
	Query    QueryConfig
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

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig selects where settlement records come from.
type DataConfig struct {
	// Source is one of: embedded, file, http, postgres, s3 (default: embedded)
	Source string `env:"DATA_SOURCE" default:"embedded"`

	// Path is the JSON or CSV file for the file source
	Path string `env:"DATA_PATH"`

	// URL is the dataset location for the http source
	URL string `env:"DATA_URL"`

	// FetchTimeout bounds a single load from a remote source (default: 15s)
	FetchTimeout time.Duration `env:"DATA_FETCH_TIMEOUT" default:"15s"`

	// MaxBytes caps downloaded datasets (default: 50MB)
	MaxBytes int64 `env:"DATA_MAX_BYTES" default:"52428800"`

	// Fallback serves the embedded dataset when the source fails (default: true)
	Fallback bool `env:"DATA_FALLBACK" default:"true"`

	// RefreshInterval reloads the dataset periodically; 0 disables (default: 0s)
	RefreshInterval time.Duration `env:"DATA_REFRESH_INTERVAL" default:"0s"`
}

// DatabaseConfig holds settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table holds the settlement rows, optionally schema-qualified (default: settlements)
	Table string `env:"DB_TABLE" default:"settlements"`

	// OrderBy is the column that defines dataset order (default: id)
	OrderBy string `env:"DB_ORDER_BY" default:"id"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// S3Config holds settings for the s3 source.
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Key       string `env:"S3_KEY" default:"settlements.json"`
	Region    string `env:"S3_REGION" default:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"`
	PathStyle bool   `env:"S3_PATH_STYLE" default:"false"`
}

// QueryConfig holds pipeline settings.
type QueryConfig struct {
	// PageSize is the number of rows per page (default: 50)
	PageSize int `env:"PAGE_SIZE" default:"50"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// Burst is the number of requests allowed at once (default: 30)
	Burst int `env:"RATE_LIMIT_BURST" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// ReloadToken protects POST /api/reload; empty disables the endpoint
	ReloadToken string `env:"RELOAD_TOKEN"`
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}
