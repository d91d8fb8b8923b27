package domain

import (
	"time"

	"github.com/google/uuid"
)

// RankedDoc is one candidate document from a retrieval backend. Rank is
// 1-based within that backend's result list.
type RankedDoc struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
	Rank    int    `json:"rank"`
}

// Document is a corpus entry served by the retrieval backends.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
