package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// FeatureVector carries the per-evidence signals consumed by the belief
// updater. All unit fields live in [0,1]; PolaritySign is -1 or +1.
type FeatureVector struct {
	LexicalSimilarity  float64 `json:"lexical_similarity"`
	SourceTrust        float64 `json:"source_trust"`
	Recency            float64 `json:"recency"`
	LogicalConsistency float64 `json:"logical_consistency"`
	RedundancyPenalty  float64 `json:"redundancy_penalty"`
	PolaritySign       float64 `json:"polarity_sign"`
}

// ValidationError reports an out-of-range evidence field. Such evidence is
// rejected at ingestion, never silently clamped.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("evidence field %s out of range: %v", e.Field, e.Value)
}

// Validate checks every feature against its legal range.
func (f FeatureVector) Validate() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"lexical_similarity", f.LexicalSimilarity},
		{"source_trust", f.SourceTrust},
		{"recency", f.Recency},
		{"logical_consistency", f.LogicalConsistency},
		{"redundancy_penalty", f.RedundancyPenalty},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return &ValidationError{Field: u.name, Value: u.value}
		}
	}
	if f.PolaritySign != 1 && f.PolaritySign != -1 && f.PolaritySign != 0 {
		return &ValidationError{Field: "polarity_sign", Value: f.PolaritySign}
	}
	return nil
}

// Evidence is one unit of support extracted from a user answer or a
// retrieval result. SlotNames attributes the evidence to the slots it helps
// fill; SourceRef may carry an externally assigned graph identifier which
// the engine never interprets.
type Evidence struct {
	ID         uuid.UUID     `json:"id"`
	Text       string        `json:"text"`
	SourceRef  string        `json:"source_ref,omitempty"`
	SourceKind SourceKind    `json:"source_kind"`
	Confidence float64       `json:"confidence"`
	SlotNames  []string      `json:"slot_names,omitempty"`
	Features   FeatureVector `json:"features"`
}

// Validate rejects evidence with an out-of-range confidence or feature
// vector before any state mutation happens.
func (e Evidence) Validate() error {
	if e.Confidence < 0 || e.Confidence > 1 {
		return &ValidationError{Field: "confidence", Value: e.Confidence}
	}
	return e.Features.Validate()
}
