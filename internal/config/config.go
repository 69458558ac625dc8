package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrMissingJWTSecret indicates the token signing secret is absent. The
// server refuses to start without it.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	Port       string `env:"PORT" envDefault:"8000"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"taskuser"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName     string `env:"DB_NAME" envDefault:"task_management"`
	JWTSecret  string `env:"JWT_SECRET"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverMySQL {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}
