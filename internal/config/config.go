package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Server         ServerConfig         `env:", prefix=FIBER_"`
	SMHI           SMHIConfig           `env:", prefix=SMHI_"`
	CircuitBreaker CircuitBreakerConfig `env:", prefix=CIRCUIT_BREAKER_"`
	Preferences    PreferencesConfig    `env:", prefix=PREFERENCES_"`
	Redis          RedisConfig          `env:", prefix=REDIS_"`

	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=30s"`
	// WaitTimeout caps how long a ?wait=true request blocks on a loading screen.
	WaitTimeout time.Duration `env:"WAIT_TIMEOUT, default=15s"`
}

type ServerConfig struct {
	Port         string        `env:"PORT, default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=10s"`
}

type SMHIConfig struct {
	WarningsURL     string        `env:"WARNINGS_URL, default=https://opendata-download-warnings.smhi.se/ibww/api/version/1/warning.json"`
	Timeout         time.Duration `env:"TIMEOUT, default=10s"`
	MaxRetries      int           `env:"MAX_RETRIES, default=0"`
	RetryDelay      time.Duration `env:"RETRY_DELAY, default=1s"`
	RetryMultiplier float64       `env:"RETRY_MULTIPLIER, default=2"`
}

type CircuitBreakerConfig struct {
	Threshold int           `env:"THRESHOLD, default=3"`
	Timeout   time.Duration `env:"TIMEOUT, default=30s"`
}

type PreferencesConfig struct {
	Backend string `env:"BACKEND, default=file"`
	Path    string `env:"PATH, default=./data/preferences.json"`
}

type RedisConfig struct {
	Address   string `env:"ADDRESS, default=localhost:6379"`
	Password  string `env:"PASSWORD"`
	DB        int    `env:"DB, default=0"`
	KeyPrefix string `env:"KEY_PREFIX, default=smhi-warnings:"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("FIBER_PORT is required")
	}
	if c.SMHI.WarningsURL == "" {
		return fmt.Errorf("SMHI_WARNINGS_URL is required")
	}
	if c.SMHI.Timeout <= 0 {
		return fmt.Errorf("SMHI_TIMEOUT must be positive, got %s", c.SMHI.Timeout)
	}
	if c.SMHI.MaxRetries < 0 {
		return fmt.Errorf("SMHI_MAX_RETRIES must not be negative, got %d", c.SMHI.MaxRetries)
	}
	if c.SMHI.RetryMultiplier < 1 {
		return fmt.Errorf("SMHI_RETRY_MULTIPLIER must be at least 1, got %g", c.SMHI.RetryMultiplier)
	}
	if c.CircuitBreaker.Threshold < 1 {
		return fmt.Errorf("CIRCUIT_BREAKER_THRESHOLD must be at least 1, got %d", c.CircuitBreaker.Threshold)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("WAIT_TIMEOUT must be positive, got %s", c.WaitTimeout)
	}

	switch c.Preferences.Backend {
	case BackendFile:
		if c.Preferences.Path == "" {
			return fmt.Errorf("PREFERENCES_PATH is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis backend")
		}
	default:
		return fmt.Errorf("PREFERENCES_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, c.Preferences.Backend)
	}

	return nil
}
