package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"memories/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// SQLiteMemoryRepository stores created_at as unix nanoseconds and hands out
// strictly increasing timestamps so list order follows insertion order.
type SQLiteMemoryRepository struct {
	db  *sql.DB
	now func() time.Time

	mu          sync.Mutex
	lastCreated time.Time
}

func NewSQLiteMemoryRepository(path string) (*SQLiteMemoryRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + sqlitePragmas
	} else {
		dsn += "?" + sqlitePragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteMemoryRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteMemoryRepository) ListMemories(ctx context.Context) ([]*models.Memory, error) {
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
		memory, err := scanSQLiteMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over memories: %w", err)
	}

	return memories, nil
}

func (r *SQLiteMemoryRepository) GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error) {
	query := `
		SELECT id, cover_url, content, is_public, created_at, user_id
		FROM memories
		WHERE id = ?`

	memory, err := scanSQLiteMemory(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, memoryNotFound(id)
		}
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}

	return memory, nil
}

func (r *SQLiteMemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) error {
	query := `
		INSERT INTO memories (id, user_id, cover_url, content, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	id := uuid.New()
	createdAt := r.nextCreatedAt()

	_, err := r.db.ExecContext(ctx, query, id.String(), memory.UserID.String(), memory.CoverURL, memory.Content, memory.IsPublic, createdAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}

	memory.ID = id
	memory.CreatedAt = createdAt
	return nil
}

func (r *SQLiteMemoryRepository) UpdateMemory(ctx context.Context, id uuid.UUID, fields models.MemoryFields) error {
	query := `
		UPDATE memories
		SET cover_url = ?, content = ?, is_public = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, fields.CoverURL, fields.Content, fields.IsPublic, id.String())
	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}

	return checkAffected(result, id)
}

func (r *SQLiteMemoryRepository) DeleteMemory(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM memories WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	return checkAffected(result, id)
}

func (r *SQLiteMemoryRepository) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, r.db, sqliteMigrations)
}

func (r *SQLiteMemoryRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteMemoryRepository) nextCreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Unix(0, r.now().UnixNano()).UTC()
	if !now.After(r.lastCreated) {
		now = r.lastCreated.Add(time.Nanosecond)
	}
	r.lastCreated = now
	return now
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteMemory(row rowScanner) (*models.Memory, error) {
	var (
		memory    models.Memory
		id        string
		userID    string
		createdAt int64
	)

	if err := row.Scan(&id, &memory.CoverURL, &memory.Content, &memory.IsPublic, &createdAt, &userID); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", id, err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id %q: %w", userID, err)
	}

	memory.ID = parsedID
	memory.UserID = parsedUserID
	memory.CreatedAt = time.Unix(0, createdAt).UTC()
	return &memory, nil
}
