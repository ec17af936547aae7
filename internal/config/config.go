// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Search    SearchConfig
	Convert   ConvertConfig
	Session   SessionConfig
	Languages LanguageConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
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

// UploadConfig holds file upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxFiles is the maximum number of files in one batch upload (default: 10)
	MaxFiles int `env:"UPLOAD_MAX_FILES" default:"10"`

	// AllowFilenameFallback accepts nonconforming JSON filenames as the
	// default language on single-file uploads (default: true)
	AllowFilenameFallback bool `env:"UPLOAD_ALLOW_FILENAME_FALLBACK" default:"true"`
}

// SearchConfig holds fuzzy search engine settings.
type SearchConfig struct {
	// Threshold is the default match threshold in [0,1]; lower is stricter (default: 0.3)
	Threshold float64 `env:"SEARCH_THRESHOLD" default:"0.3"`

	// MaxResults is the default result limit (default: 100)
	MaxResults int `env:"SEARCH_MAX_RESULTS" default:"100"`

	// SuggestionLimit caps autocomplete suggestions (default: 10)
	SuggestionLimit int `env:"SEARCH_SUGGESTION_LIMIT" default:"10"`
}

// ConvertConfig holds conversion engine settings.
type ConvertConfig struct {
	// CacheSize bounds the table-transform cache; 0 disables it (default: 32)
	CacheSize int `env:"CONVERT_CACHE_SIZE" default:"32"`

	// PreviewRows is the default row count for conversion previews (default: 10)
	PreviewRows int `env:"CONVERT_PREVIEW_ROWS" default:"10"`
}

// SessionConfig holds in-memory session store settings.
type SessionConfig struct {
	// MaxSessions bounds the number of live sessions (default: 100)
	MaxSessions int `env:"SESSION_MAX_SESSIONS" default:"100"`

	// MaxUploadHistory bounds the upload events kept per session (default: 50)
	MaxUploadHistory int `env:"SESSION_MAX_UPLOAD_HISTORY" default:"50"`
}

// LanguageConfig holds the language catalog settings.
type LanguageConfig struct {
	// Spec overrides the built-in catalog. Format:
	// "code:Name:NativeName;code:Name" with the first entry as the default
	// language. Empty keeps the built-in set.
	// Supports both LANGUAGES and SUPPORTED_LANGUAGES env vars.
	Spec string `env:"LANGUAGES" envAlt:"SUPPORTED_LANGUAGES"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
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
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
