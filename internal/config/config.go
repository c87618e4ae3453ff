// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/mmynk/freeslots/pkg/logging"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// localJWTSecret signs tokens when APP_ENV is local and JWT_SECRET is unset.
const localJWTSecret = "freeslots-local-secret"

var ErrMissingSecret = errors.New("JWT_SECRET is required outside the local environment")

type Config struct {
	App struct {
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		LogLevel string      `env:"LOG_LEVEL" envDefault:"info"`
	}

	HTTP struct {
		Port int `env:"HTTP_PORT" envDefault:"8080"`
	}

	Database struct {
		Path string `env:"DB_PATH" envDefault:"./data/freeslots.db"`
	}

	JWT struct {
		Secret string        `env:"JWT_SECRET"`
		TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	}

	Resolve struct {
		Timezone    string `env:"RESOLVE_TIMEZONE" envDefault:"UTC"`
		MaxParallel int    `env:"RESOLVE_MAX_PARALLEL" envDefault:"4"`
		Location    *time.Location
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CACHE_SIZE" envDefault:"512"`
	}
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	loc, err := time.LoadLocation(cfg.Resolve.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RESOLVE_TIMEZONE %q: %w", cfg.Resolve.Timezone, err)
	}
	cfg.Resolve.Location = loc

	if cfg.Resolve.MaxParallel < 1 {
		return nil, fmt.Errorf("RESOLVE_MAX_PARALLEL must be positive, got %d", cfg.Resolve.MaxParallel)
	}
	if cfg.Cache.Enabled && cfg.Cache.Size < 1 {
		return nil, fmt.Errorf("CACHE_SIZE must be positive, got %d", cfg.Cache.Size)
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWT.TTL)
	}

	if cfg.JWT.Secret == "" {
		if !cfg.IsLocal() {
			return nil, ErrMissingSecret
		}
		cfg.JWT.Secret = localJWTSecret
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

// LogLevel returns the slog level named by LOG_LEVEL.
func (c *Config) LogLevel() slog.Level {
	return logging.ParseLevel(c.App.LogLevel)
}
