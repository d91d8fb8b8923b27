package service

import (
	"context"
	"errors"
	"strings"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDocumentContentEmpty = errors.New("document content is required")
	ErrDocumentNotFound     = errors.New("document not found")
)

// DocumentService ingests corpus documents for the retrieval backends,
// embedding them when an embedding client is configured. Ingestion without
// an embedding keeps the document reachable through lexical search only.
type DocumentService struct {
	docs     domain.DocumentStore
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewDocumentService(docs domain.DocumentStore, embedder domain.EmbeddingClient, logger *zap.Logger) *DocumentService {
	return &DocumentService{docs: docs, embedder: embedder, logger: logger}
}

func (s *DocumentService) Create(ctx context.Context, doc *domain.Document) error {
	if strings.TrimSpace(doc.Content) == "" {
		return ErrDocumentContentEmpty
	}

	if s.embedder != nil {
		embedding, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			s.logger.Warn("document embedding failed, storing without vector",
				zap.Error(err))
		} else {
			doc.Embedding = embedding
		}
	}

	return s.docs.Create(ctx, doc)
}

func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}
