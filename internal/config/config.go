// Package config loads and validates process configuration.
//
// Configuration comes from environment variables (optionally via a
// .env file), is unmarshalled into structured Go types with koanf,
// and is validated once at startup so the process refuses to serve
// requests with missing or malformed settings.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads a .env file into the process environment before any
	// variable is read. No call needed.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Env var keys use the BOOKING_ prefix and "." for nesting, e.g.
// BOOKING_SERVER.PORT -> server.port -> Config.Server.Port.
const envPrefix = "BOOKING_"

// Config is the root configuration object for the application.
type Config struct {
	Primary   Primary         `koanf:"primary" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Mail      MailConfig      `koanf:"mail" validate:"required"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Redis     RedisConfig     `koanf:"redis"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs and reported by the health endpoint.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// BodyLimit is the request body ceiling in echo's size notation
	// (e.g. "10K"). Oversized bodies are rejected before parsing.
	BodyLimit string `koanf:"body_limit"`
}

// MailConfig selects and configures the outbound mail transport.
//
// Provider picks one of two realizations of the same sender contract:
// "resend" (send-API) or "smtp". The transport is swapped here, by
// configuration, never by parallel handler code paths.
type MailConfig struct {
	Provider string `koanf:"provider" validate:"required,oneof=resend smtp"`

	ResendAPIKey string `koanf:"resend_api_key" validate:"required_if=Provider resend"`

	SMTPHost     string `koanf:"smtp_host" validate:"required_if=Provider smtp"`
	SMTPPort     int    `koanf:"smtp_port" validate:"required_if=Provider smtp"`
	SMTPUsername string `koanf:"smtp_username"`
	SMTPPassword string `koanf:"smtp_password"`

	FromName     string `koanf:"from_name" validate:"required"`
	FromAddress  string `koanf:"from_address" validate:"required,email"`
	AdminAddress string `koanf:"admin_address" validate:"required,email"`

	// SendTimeout bounds each outbound dispatch call, in seconds.
	SendTimeout int `koanf:"send_timeout"`
}

// RateLimitConfig tunes the per-client request quota on the booking
// endpoint. Store selects the counter backend: "memory" (default) or
// "redis" for horizontally scaled deployments.
type RateLimitConfig struct {
	Requests      int    `koanf:"requests"`
	WindowMinutes int    `koanf:"window_minutes"`
	Store         string `koanf:"store" validate:"omitempty,oneof=memory redis"`
}

// RedisConfig contains Redis connection details, required only when
// the redis rate-limit store is selected. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address"`
}

// Load reads configuration from the environment, unmarshals it,
// validates required values, and applies defaults.
//
// Any missing required value is a startup-time failure: the error is
// returned and the caller is expected to exit rather than serve
// requests in a partially-configured state.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.RateLimit.Store == "redis" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("config validation failed: redis.address is required when ratelimit.store is redis")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = "10K"
	}
	if c.Mail.SendTimeout <= 0 {
		c.Mail.SendTimeout = 10
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 5
	}
	if c.RateLimit.WindowMinutes <= 0 {
		c.RateLimit.WindowMinutes = 15
	}
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = "memory"
	}
}
