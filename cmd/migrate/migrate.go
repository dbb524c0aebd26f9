package main

import (
	"context"
	"fmt"
	"log"

	"memories/config"
	"memories/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("[INFO] Memory database is up to date")
}

func run(ctx context.Context, cfg *config.Config) error {
	names, err := db.MigrationNames(cfg.DatabaseDriver)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	store, err := db.NewStore(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize memory database: %w", err)
	}
	defer store.Close()

	log.Printf("[INFO] Applying %d %s migrations", len(names), cfg.DatabaseDriver)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate memory database: %w", err)
	}
	return nil
}
