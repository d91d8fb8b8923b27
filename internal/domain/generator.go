package domain

import (
	"context"
	"fmt"
)

// GenerationRequest describes the target the generator should produce a
// question or query for. Slots carries one slot, or several when the
// strategist bundled them.
type GenerationRequest struct {
	Slots    []Slot
	Context  string
	Language string
}

// Generator is the external capability that turns a selected action into a
// candidate question text or search query string. Failures surface as a
// typed *GenerationError; an empty result means "no candidate produced".
type Generator interface {
	Question(ctx context.Context, req GenerationRequest) (string, error)
	Query(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationError wraps a generator failure so callers can distinguish it
// from engine errors.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generator %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
