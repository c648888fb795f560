package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the sentiment gateway
type Config struct {
	// Server configuration
	Host      string `env:"HOST" envDefault:"0.0.0.0"`
	Port      int    `env:"PORT" envDefault:"5001"`
	GRPCPort  int    `env:"GRPC_PORT" envDefault:"0"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Inference provider configuration
	HuggingFace HuggingFaceConfig

	// Redis configuration (optional event bus)
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// HuggingFaceConfig holds the inference provider configuration
type HuggingFaceConfig struct {
	Token   string `env:"HF_TOKEN"`
	BaseURL string `env:"HF_INFERENCE_URL" envDefault:"https://router.huggingface.co/hf-inference/models"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	PoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	Shutdown     time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
	EventPublish time.Duration `env:"TIMEOUT_EVENT_PUBLISH" envDefault:"2s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// A missing HF_TOKEN is not an error: the server starts and refuses
// classification requests instead.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Port)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCPort == c.Port {
		return fmt.Errorf("gRPC port %d collides with HTTP port", c.GRPCPort)
	}

	if c.HuggingFace.BaseURL == "" {
		return fmt.Errorf("inference base URL is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	if c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// TokenConfigured reports whether the inference provider credential is set
func (c *Config) TokenConfigured() bool {
	return c.HuggingFace.Token != ""
}

// RedisEnabled reports whether the Redis event bus should be used
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}
