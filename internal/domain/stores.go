package domain

import (
	"context"

	"github.com/google/uuid"
)

// Retriever is one ranked-retrieval backend (lexical or vector). An absent
// or timed-out backend is a valid, non-fatal response; callers treat an
// empty list as "nothing found".
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]RankedDoc, error)
}

// EmbeddingClient produces query embeddings for the vector backend.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SessionStore persists session records keyed by session id. The engine
// does not mandate a storage medium.
type SessionStore interface {
	Save(ctx context.Context, rec *SessionRecord) error
	Load(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentStore manages the retrieval corpus.
type DocumentStore interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
}
