// Package config defines service configuration and its layered loader.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Store backends accepted by StoreBackend.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text, json or console.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory notification queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of notification dispatchers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps the engagement dedupe cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DedupeWindowMS is how long a view or click suppresses repeats.
	DedupeWindowMS int `koanf:"dedupe_window_ms"`

	// DispatchTimeoutMS bounds one delivery attempt.
	DispatchTimeoutMS int `koanf:"dispatch_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful shutdown of the server and the queue drain.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// CatalogPath points at a YAML deal catalog. Empty uses the built-in seed.
	CatalogPath string `koanf:"catalog_path"`

	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`

	// CORSOrigins is a comma separated allow list.
	CORSOrigins string `koanf:"cors_origins"`

	// RateLimitPerMin caps requests per client IP. Zero disables the limiter.
	RateLimitPerMin int `koanf:"rate_limit_per_min"`

	StoreBackend  string `koanf:"store_backend"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// MarketingAPIKey enables delivery. Without it events are only logged.
	MarketingAPIKey     string  `koanf:"marketing_api_key"`
	MarketingBaseURL    string  `koanf:"marketing_base_url"`
	MarketingRevision   string  `koanf:"marketing_revision"`
	MarketingRatePerSec float64 `koanf:"marketing_rate_per_sec"`
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":8080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		DedupeWindowMS:      int((30 * time.Minute).Milliseconds()),
		DispatchTimeoutMS:   5_000,
		ShutdownTimeoutMS:   10_000,
		RateLimitPerMin:     120,
		StoreBackend:        StoreMemory,
		RedisAddr:           "localhost:6379",
		MarketingBaseURL:    "https://a.klaviyo.com",
		MarketingRevision:   "2025-01-15",
		MarketingRatePerSec: 10,
		BreakerFailureRatio: 0.6,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.JWTSecret == "":
		return fmt.Errorf("%w: jwt_secret must be set", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.DedupeWindowMS <= 0:
		return fmt.Errorf("%w: dedupe_window_ms must be positive", ErrInvalidConfig)
	case c.DispatchTimeoutMS <= 0:
		return fmt.Errorf("%w: dispatch_timeout_ms must be positive", ErrInvalidConfig)
	case c.RateLimitPerMin < 0:
		return fmt.Errorf("%w: rate_limit_per_min must not be negative", ErrInvalidConfig)
	case c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1:
		return fmt.Errorf("%w: breaker_failure_ratio must be in (0, 1]", ErrInvalidConfig)
	}
	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	switch c.LogFormat {
	case "text", "json", "console":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Origins splits CORSOrigins into a trimmed list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) DedupeWindow() time.Duration {
	return time.Duration(c.DedupeWindowMS) * time.Millisecond
}

func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.DispatchTimeoutMS) * time.Millisecond
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
