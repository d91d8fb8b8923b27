package retrieval

import (
	"context"
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// VectorRetriever ranks documents by cosine distance between a query
// embedding and stored document embeddings.
type VectorRetriever struct {
	db       *pgxpool.Pool
	embedder domain.EmbeddingClient
}

func NewVectorRetriever(db *pgxpool.Pool, embedder domain.EmbeddingClient) *VectorRetriever {
	return &VectorRetriever{db: db, embedder: embedder}
}

func (r *VectorRetriever) Search(ctx context.Context, query string, limit int) ([]domain.RankedDoc, error) {
	if limit <= 0 {
		limit = 10
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, content
		 FROM documents
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var docs []domain.RankedDoc
	for rows.Next() {
		var doc domain.RankedDoc
		if err := rows.Scan(&doc.ID, &doc.Snippet); err != nil {
			return nil, fmt.Errorf("scan vector result: %w", err)
		}
		doc.Rank = len(docs) + 1
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search rows: %w", err)
	}
	return docs, nil
}
