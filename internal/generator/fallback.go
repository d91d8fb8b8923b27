package generator

import (
	"context"
	"strings"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/template"
)

// FallbackClient produces deterministic questions from the curated template
// texts and keyword queries from slot definitions. It never fails, which
// makes it both the offline provider and the tail of a Chain.
type FallbackClient struct{}

func NewFallbackClient() *FallbackClient {
	return &FallbackClient{}
}

func (c *FallbackClient) Question(_ context.Context, req domain.GenerationRequest) (string, error) {
	parts := make([]string, 0, len(req.Slots))
	for _, slot := range req.Slots {
		q := template.FallbackQuestion(req.Context, slot.Name, req.Language)
		if q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, " "), nil
}

func (c *FallbackClient) Query(_ context.Context, req domain.GenerationRequest) (string, error) {
	terms := make([]string, 0, len(req.Slots)*2)
	if req.Context != "" {
		terms = append(terms, req.Context)
	}
	for _, slot := range req.Slots {
		terms = append(terms, strings.ReplaceAll(slot.Name, "_", " "))
	}
	return strings.Join(terms, " "), nil
}

// Chain tries each generator in order and returns the first non-empty
// result. Ending a chain with the fallback client mirrors how curated
// questions back up the model-generated ones.
type Chain struct {
	clients []domain.Generator
}

func NewChain(clients ...domain.Generator) *Chain {
	return &Chain{clients: clients}
}

func (c *Chain) Question(ctx context.Context, req domain.GenerationRequest) (string, error) {
	var lastErr error
	for _, client := range c.clients {
		q, err := client.Question(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if q != "" {
			return q, nil
		}
	}
	return "", lastErr
}

func (c *Chain) Query(ctx context.Context, req domain.GenerationRequest) (string, error) {
	var lastErr error
	for _, client := range c.clients {
		q, err := client.Query(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if q != "" {
			return q, nil
		}
	}
	return "", lastErr
}
