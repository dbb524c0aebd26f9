package models

import (
	"time"

	"github.com/google/uuid"
)

type Memory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CoverURL  string    `json:"coverUrl" db:"cover_url"`
	Content   string    `json:"content" db:"content"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
}

// MemorySummary is the list projection of a Memory.
type MemorySummary struct {
	ID        uuid.UUID `json:"id"`
	CoverURL  string    `json:"coverUrl"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryFields are the attributes a caller may set on create and update.
type MemoryFields struct {
	CoverURL string
	Content  string
	IsPublic bool
}

// MemoryRequest documents the create/update body. Decoding goes through the
// services validation descriptors, this type only feeds the published schema.
type MemoryRequest struct {
	CoverURL string `json:"coverUrl" jsonschema:"required,description=Reference to the cover image of the memory"`
	Content  string `json:"content" jsonschema:"required,description=Full text of the memory"`
	IsPublic bool   `json:"isPublic,omitempty" jsonschema:"description=Whether the memory is publicly visible,default=false"`
}
