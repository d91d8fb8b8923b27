package retrieval

import (
	"context"
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LexicalRetriever ranks documents by Postgres full-text search. Queries go
// through websearch_to_tsquery so free-form generator output is accepted
// as-is.
type LexicalRetriever struct {
	db *pgxpool.Pool
}

func NewLexicalRetriever(db *pgxpool.Pool) *LexicalRetriever {
	return &LexicalRetriever{db: db}
}

func (r *LexicalRetriever) Search(ctx context.Context, query string, limit int) ([]domain.RankedDoc, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, content
		 FROM documents
		 WHERE to_tsvector('simple', content) @@ websearch_to_tsquery('simple', $1)
		 ORDER BY ts_rank(to_tsvector('simple', content), websearch_to_tsquery('simple', $1)) DESC
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()

	var docs []domain.RankedDoc
	for rows.Next() {
		var doc domain.RankedDoc
		if err := rows.Scan(&doc.ID, &doc.Snippet); err != nil {
			return nil, fmt.Errorf("scan lexical result: %w", err)
		}
		doc.Rank = len(docs) + 1
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lexical search rows: %w", err)
	}
	return docs, nil
}
