package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

type migrationDialect struct {
	dir         string
	createTable string
	isApplied   string
	record      string
}

var postgresMigrations = migrationDialect{
	dir: "migrations/postgres",
	createTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at BIGINT NOT NULL
		)`,
	isApplied: "SELECT 1 FROM schema_migrations WHERE name = $1",
	record:    "INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)",
}

var sqliteMigrations = migrationDialect{
	dir: "migrations/sqlite",
	createTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)`,
	isApplied: "SELECT 1 FROM schema_migrations WHERE name = ?",
	record:    "INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)",
}

// MigrationNames lists the embedded migrations for driver in apply order.
func MigrationNames(driver string) ([]string, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return migrationFiles(dialect)
}

func dialectFor(driver string) (migrationDialect, error) {
	switch driver {
	case DriverPostgres:
		return postgresMigrations, nil
	case DriverSQLite:
		return sqliteMigrations, nil
	default:
		return migrationDialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func migrationFiles(dialect migrationDialect) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, dialect.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// applyMigrations runs every embedded migration of the dialect at most once.
func applyMigrations(ctx context.Context, sqlDB *sql.DB, dialect migrationDialect) error {
	if _, err := sqlDB.ExecContext(ctx, dialect.createTable); err != nil {
		return fmt.Errorf("failed to ensure migration table: %w", err)
	}

	names, err := migrationFiles(dialect)
	if err != nil {
		return err
	}

	for _, name := range names {
		applied, err := isMigrationApplied(ctx, sqlDB, dialect, name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(dialect.dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, dialect.record, name, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", name, err)
		}
	}

	return nil
}

func isMigrationApplied(ctx context.Context, sqlDB *sql.DB, dialect migrationDialect, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRowContext(ctx, dialect.isApplied, name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
