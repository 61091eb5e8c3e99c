package config

import "time"

// ServerConfig holds the HTTP API server configuration
type ServerConfig struct {
	// Listen address, e.g. ":8080"
	Addr string `mapstructure:"addr" validate:"required"`

	// Per-request deadline; requests past it answer 504
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`

	// CORS allowed origins; "*" allows any
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Per-IP request floor for the token bucket limiter
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Admin key guarding the /admin endpoints; empty disables them
	AdminKey string `mapstructure:"admin_key"`

	// PID file written at startup (empty disables)
	PIDFile string `mapstructure:"pid_file"`

	// Grace period for in-flight requests on shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per minute per client IP
	PerMinute int `mapstructure:"per_minute" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}
