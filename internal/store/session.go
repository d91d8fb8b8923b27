package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionStore persists session snapshots in Postgres. The slot, hypothesis
// and question state lives in one JSONB column; only the columns the API
// filters on are broken out.
type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Save(ctx context.Context, rec *domain.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO sessions (id, template, state, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET template = EXCLUDED.template, state = EXCLUDED.state, data = EXCLUDED.data, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		rec.ID, rec.Template, rec.State, data,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (s *SessionStore) Load(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	var data []byte
	rec := &domain.SessionRecord{}
	err := s.db.QueryRow(ctx,
		`SELECT data, created_at, updated_at FROM sessions WHERE id = $1`,
		id,
	).Scan(&data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	createdAt, updatedAt := rec.CreatedAt, rec.UpdatedAt
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	rec.CreatedAt, rec.UpdatedAt = createdAt, updatedAt
	return rec, nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
