package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memories/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type PostgresMemoryRepository struct {
	db *sql.DB
}

func NewPostgresMemoryRepository(databaseURL string) (*PostgresMemoryRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMemoryRepository{db: db}, nil
}

func (r *PostgresMemoryRepository) ListMemories(ctx context.Context) ([]*models.Memory, error) {
	query := `
		SELECT id, cover_url, content, is_public, created_at, user_id
		FROM memories
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	memories := make([]*models.Memory, 0)
	for rows.Next() {
		memory := &models.Memory{}
		err := rows.Scan(&memory.ID, &memory.CoverURL, &memory.Content, &memory.IsPublic, &memory.CreatedAt, &memory.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memory.CreatedAt = memory.CreatedAt.UTC()
		memories = append(memories, memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over memories: %w", err)
	}

	return memories, nil
}

func (r *PostgresMemoryRepository) GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error) {
	query := `
		SELECT id, cover_url, content, is_public, created_at, user_id
		FROM memories
		WHERE id = $1`

	memory := &models.Memory{}
	row := r.db.QueryRowContext(ctx, query, id)

	err := row.Scan(&memory.ID, &memory.CoverURL, &memory.Content, &memory.IsPublic, &memory.CreatedAt, &memory.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, memoryNotFound(id)
		}
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	memory.CreatedAt = memory.CreatedAt.UTC()

	return memory, nil
}

func (r *PostgresMemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) error {
	query := `
		INSERT INTO memories (user_id, cover_url, content, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query, memory.UserID, memory.CoverURL, memory.Content, memory.IsPublic)

	if err := row.Scan(&memory.ID, &memory.CreatedAt); err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}
	memory.CreatedAt = memory.CreatedAt.UTC()

	return nil
}

func (r *PostgresMemoryRepository) UpdateMemory(ctx context.Context, id uuid.UUID, fields models.MemoryFields) error {
	query := `
		UPDATE memories
		SET cover_url = $1, content = $2, is_public = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, fields.CoverURL, fields.Content, fields.IsPublic, id)
	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}

	return checkAffected(result, id)
}

func (r *PostgresMemoryRepository) DeleteMemory(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM memories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	return checkAffected(result, id)
}

func (r *PostgresMemoryRepository) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, r.db, postgresMigrations)
}

func (r *PostgresMemoryRepository) Close() error {
	return r.db.Close()
}

func checkAffected(result sql.Result, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return memoryNotFound(id)
	}

	return nil
}
