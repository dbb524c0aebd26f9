package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/memories")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, expected 8080", cfg.Port)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("DatabaseDriver = %q, expected postgres", cfg.DatabaseDriver)
	}
	if !cfg.AutoMigrate {
		t.Errorf("Expected AutoMigrate to default to true")
	}
	if cfg.DefaultUserID != uuid.MustParse("873a8f21-ce60-4c2f-9b99-a84f4a2c836c") {
		t.Errorf("Unexpected DefaultUserID %s", cfg.DefaultUserID)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, expected 10s", cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	userID := uuid.New()
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("DB_URL", "memories.db")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("DEFAULT_USER_ID", userID.String())
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.DatabaseDriver != "sqlite" || cfg.AutoMigrate || cfg.DefaultUserID != userID || cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
}

func TestLoadInvalidUserID(t *testing.T) {
	t.Setenv("DEFAULT_USER_ID", "not-a-uuid")

	if _, err := Load(); err == nil {
		t.Errorf("Expected error for invalid DEFAULT_USER_ID")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseDriver:  "sqlite",
		DatabaseURL:     "memories.db",
		DefaultUserID:   uuid.New(),
		ShutdownTimeout: time.Second,
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}, wantErr: false},
		{name: "unknown driver", modify: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: true},
		{name: "missing url", modify: func(c *Config) { c.DatabaseURL = " " }, wantErr: true},
		{name: "nil user", modify: func(c *Config) { c.DefaultUserID = uuid.Nil }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
