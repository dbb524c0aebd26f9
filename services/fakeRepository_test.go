package services

import (
	"context"
	"sort"
	"time"

	"memories/db"
	"memories/models"

	"github.com/google/uuid"
)

type fakeMemoryRepository struct {
	memories map[uuid.UUID]*models.Memory
	clock    time.Time
	err      error
}

func newFakeMemoryRepository() *fakeMemoryRepository {
	return &fakeMemoryRepository{
		memories: make(map[uuid.UUID]*models.Memory),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeMemoryRepository) ListMemories(ctx context.Context) ([]*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	memories := make([]*models.Memory, 0, len(r.memories))
	for _, memory := range r.memories {
		copied := *memory
		memories = append(memories, &copied)
	}
	sort.Slice(memories, func(i, j int) bool {
		return memories[i].CreatedAt.Before(memories[j].CreatedAt)
	})
	return memories, nil
}

func (r *fakeMemoryRepository) GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error) {
	if r.err != nil {
		return nil, r.err
	}
	memory, ok := r.memories[id]
	if !ok {
		return nil, db.ErrMemoryNotFound
	}
	copied := *memory
	return &copied, nil
}

func (r *fakeMemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) error {
	if r.err != nil {
		return r.err
	}
	r.clock = r.clock.Add(time.Second)
	memory.ID = uuid.New()
	memory.CreatedAt = r.clock
	copied := *memory
	r.memories[memory.ID] = &copied
	return nil
}

func (r *fakeMemoryRepository) UpdateMemory(ctx context.Context, id uuid.UUID, fields models.MemoryFields) error {
	if r.err != nil {
		return r.err
	}
	memory, ok := r.memories[id]
	if !ok {
		return db.ErrMemoryNotFound
	}
	memory.CoverURL = fields.CoverURL
	memory.Content = fields.Content
	memory.IsPublic = fields.IsPublic
	return nil
}

func (r *fakeMemoryRepository) DeleteMemory(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.memories[id]; !ok {
		return db.ErrMemoryNotFound
	}
	delete(r.memories, id)
	return nil
}
