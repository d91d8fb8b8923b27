package store

import (
	"context"
	"errors"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// DocumentStore manages the retrieval corpus the search backends rank over.
type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Create(ctx context.Context, d *domain.Document) error {
	var embedding *pgvector.Vector
	if len(d.Embedding) > 0 {
		v := pgvector.NewVector(d.Embedding)
		embedding = &v
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO documents (content, source, embedding)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		d.Content, d.Source, embedding,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.db.QueryRow(ctx,
		`SELECT id, content, source, created_at FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Content, &d.Source, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}
