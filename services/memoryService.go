package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf16"

	"memories/db"
	"memories/models"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const excerptLength = 160

type MemoryService struct {
	repo db.MemoryRepository
}

func NewMemoryService(repo db.MemoryRepository) *MemoryService {
	return &MemoryService{repo: repo}
}

// ListMemories returns summaries ordered by creation time. A non-blank query
// keeps only memories whose content matches one of its terms.
func (s *MemoryService) ListMemories(ctx context.Context, query string) ([]models.MemorySummary, error) {
	log.Printf("[INFO] Starting list memories")

	memories, err := s.repo.ListMemories(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to list memories: %v", err)
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}

	if terms := strings.Fields(query); len(terms) > 0 {
		memories = lo.Filter(memories, func(memory *models.Memory, _ int) bool {
			return memoryMatchesSearch(memory, terms)
		})
		log.Printf("[INFO] Found %d memories matching %d search terms", len(memories), len(terms))
	}

	summaries := lo.Map(memories, func(memory *models.Memory, _ int) models.MemorySummary {
		return models.MemorySummary{
			ID:        memory.ID,
			CoverURL:  memory.CoverURL,
			Excerpt:   Excerpt(memory.Content),
			CreatedAt: memory.CreatedAt,
		}
	})

	log.Printf("[INFO] Successfully listed %d memories", len(summaries))
	return summaries, nil
}

func (s *MemoryService) GetMemoryByID(ctx context.Context, rawID string) (*models.Memory, error) {
	log.Printf("[INFO] Starting get memory by ID %q", rawID)

	id, err := parseMemoryID(rawID)
	if err != nil {
		log.Printf("[ERROR] Invalid memory ID provided: %q", rawID)
		return nil, err
	}

	memory, err := s.repo.GetMemoryByID(ctx, id)
	if err != nil {
		log.Printf("[ERROR] Failed to get memory by ID %s: %v", id, err)
		return nil, translateRepoError(id, err)
	}

	log.Printf("[INFO] Successfully retrieved memory with ID %s", id)
	return memory, nil
}

// CreateMemory validates body and stores a new memory owned by userID. The
// returned memory carries the generated ID and CreatedAt.
func (s *MemoryService) CreateMemory(ctx context.Context, userID uuid.UUID, body any) (*models.Memory, error) {
	log.Printf("[INFO] Starting memory creation for user %s", userID)

	if userID == uuid.Nil {
		log.Printf("[ERROR] Memory creation without caller identity")
		return nil, &ValidationError{Message: "user id is required", Fields: map[string]string{"userId": "required"}}
	}

	fields, err := parseMemoryFields(body)
	if err != nil {
		log.Printf("[ERROR] Memory creation validation failed: %v", err)
		return nil, err
	}

	memory := &models.Memory{
		CoverURL: fields.CoverURL,
		Content:  fields.Content,
		IsPublic: fields.IsPublic,
		UserID:   userID,
	}

	if err := s.repo.CreateMemory(ctx, memory); err != nil {
		log.Printf("[ERROR] Failed to create memory in repository: %v", err)
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	log.Printf("[INFO] Successfully created memory with ID %s", memory.ID)
	return memory, nil
}

func (s *MemoryService) UpdateMemory(ctx context.Context, rawID string, body any) error {
	log.Printf("[INFO] Starting update memory with ID %q", rawID)

	id, err := parseMemoryID(rawID)
	if err != nil {
		log.Printf("[ERROR] Invalid memory ID provided for update: %q", rawID)
		return err
	}

	fields, err := parseMemoryFields(body)
	if err != nil {
		log.Printf("[ERROR] Memory update validation failed for ID %s: %v", id, err)
		return err
	}

	if err := s.repo.UpdateMemory(ctx, id, fields); err != nil {
		log.Printf("[ERROR] Failed to update memory ID %s: %v", id, err)
		return translateRepoError(id, err)
	}

	log.Printf("[INFO] Successfully updated memory with ID %s", id)
	return nil
}

func (s *MemoryService) DeleteMemory(ctx context.Context, rawID string) error {
	log.Printf("[INFO] Starting delete memory with ID %q", rawID)

	id, err := parseMemoryID(rawID)
	if err != nil {
		log.Printf("[ERROR] Invalid memory ID provided for deletion: %q", rawID)
		return err
	}

	if err := s.repo.DeleteMemory(ctx, id); err != nil {
		log.Printf("[ERROR] Failed to delete memory ID %s: %v", id, err)
		return translateRepoError(id, err)
	}

	log.Printf("[INFO] Successfully deleted memory with ID %s", id)
	return nil
}

// Excerpt returns the first 160 UTF-16 code units of content followed by
// "...". The suffix is appended even when nothing was cut. A surrogate pair
// split by the cut is dropped whole.
func Excerpt(content string) string {
	units := utf16.Encode([]rune(content))
	if len(units) <= excerptLength {
		return content + "..."
	}

	units = units[:excerptLength]
	if last := units[len(units)-1]; last >= 0xD800 && last < 0xDC00 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units)) + "..."
}

func translateRepoError(id uuid.UUID, err error) error {
	if errors.Is(err, db.ErrMemoryNotFound) {
		return &NotFoundError{ID: id, Err: err}
	}
	return fmt.Errorf("memory %s: %w", id, err)
}

func memoryMatchesSearch(memory *models.Memory, searchTerms []string) bool {
	content := memory.Content
	if content == "" {
		return false
	}

	words := strings.Fields(strings.ToLower(content))
	cleanWords := make([]string, 0, len(words))
	for _, word := range words {
		cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
		if len(cleanWord) > 0 {
			cleanWords = append(cleanWords, cleanWord)
		}
	}

	for _, term := range searchTerms {
		if fuzzy.MatchFold(term, content) {
			return true
		}

		if len(fuzzy.Find(strings.ToLower(term), cleanWords)) > 0 {
			return true
		}
	}

	return false
}
