package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"memories/models"

	"github.com/google/uuid"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrMemoryNotFound = errors.New("memory not found")

type MemoryRepository interface {
	ListMemories(ctx context.Context) ([]*models.Memory, error)
	GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error)
	// CreateMemory fills in the generated ID and CreatedAt of memory.
	CreateMemory(ctx context.Context, memory *models.Memory) error
	UpdateMemory(ctx context.Context, id uuid.UUID, fields models.MemoryFields) error
	DeleteMemory(ctx context.Context, id uuid.UUID) error
}

// Store is a MemoryRepository that owns its connection and schema.
type Store interface {
	MemoryRepository
	Migrate(ctx context.Context) error
	Close() error
}

func NewStore(driver, databaseURL string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres:
		return NewPostgresMemoryRepository(databaseURL)
	case DriverSQLite:
		return NewSQLiteMemoryRepository(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func memoryNotFound(id uuid.UUID) error {
	return fmt.Errorf("memory with id %s: %w", id, ErrMemoryNotFound)
}
