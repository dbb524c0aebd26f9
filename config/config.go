package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"memories/db"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DatabaseDriver  string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL     string        `env:"DB_URL"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	DefaultUserID   uuid.UUID     `env:"DEFAULT_USER_ID" envDefault:"873a8f21-ce60-4c2f-9b99-a84f4a2c836c"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DatabaseDriver)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DB_URL environment variable is required")
	}

	if c.DefaultUserID == uuid.Nil {
		return errors.New("DEFAULT_USER_ID must not be the nil UUID")
	}

	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}
