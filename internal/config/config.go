package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Auth      AuthConfig
	Preview   PreviewConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// DatabaseConfig holds postgres pool configuration.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     string `envconfig:"DB_PORT" required:"true"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

func (c *DatabaseConfig) Validate() error {
	if c.Host == "" || c.Port == "" {
		return fmt.Errorf("database host and port cannot be empty")
	}
	if c.User == "" || c.Name == "" {
		return fmt.Errorf("database user and name cannot be empty")
	}
	if c.MaxConns <= 0 || c.MinConns <= 0 {
		return fmt.Errorf("pool sizes must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot exceed max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the postgres connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

// AuthConfig holds bearer-token verification settings. Token issuance
// happens elsewhere; this service only verifies.
type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"JWT_ISSUER" default:"linkboard"`
}

func (c *AuthConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 bytes")
	}
	return nil
}

// PreviewConfig bounds the background preview fetch.
type PreviewConfig struct {
	FetchTimeout time.Duration `envconfig:"PREVIEW_FETCH_TIMEOUT" default:"10s"`
	MaxBodyBytes int64         `envconfig:"PREVIEW_MAX_BODY_BYTES" default:"1048576"`
	UserAgent    string        `envconfig:"PREVIEW_USER_AGENT" default:"linkboard-preview/1.0"`
}

func (c *PreviewConfig) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	return nil
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

func (c *RateLimitConfig) Validate() error {
	if c.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}
	return nil
}

// Load reads configuration from environment variables. Loading of .env
// files is the caller's concern (see internal/app).
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		name     string
		target   any
		validate func() error
	}{
		{"Server", &cfg.Server, func() error { return cfg.Server.Validate() }},
		{"Database", &cfg.Database, func() error { return cfg.Database.Validate() }},
		{"App", &cfg.App, func() error { return cfg.App.Validate() }},
		{"Auth", &cfg.Auth, func() error { return cfg.Auth.Validate() }},
		{"Preview", &cfg.Preview, func() error { return cfg.Preview.Validate() }},
		{"RateLimit", &cfg.RateLimit, func() error { return cfg.RateLimit.Validate() }},
	}

	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	return cfg, nil
}
