package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind records where a slot's fill (or a piece of evidence) came from.
type SourceKind string

const (
	SourceUser           SourceKind = "user"
	SourceRetrieval      SourceKind = "retrieval"
	SourceModelInference SourceKind = "model_inference"
	SourceMixed          SourceKind = "mixed"
)

func ValidSourceKind(s string) bool {
	switch SourceKind(s) {
	case SourceUser, SourceRetrieval, SourceModelInference, SourceMixed:
		return true
	}
	return false
}

// MergeSourceKind combines an existing slot provenance with a new update's
// provenance. Two distinct concrete kinds collapse to mixed.
func MergeSourceKind(existing, incoming SourceKind) SourceKind {
	if existing == "" {
		return incoming
	}
	if incoming == "" || existing == incoming {
		return existing
	}
	return SourceMixed
}

// Slot is one required fact in the document being built. Name is unique
// within a session. Importance and FilledRatio are always kept in [0,1].
type Slot struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Type         string      `json:"type,omitempty"`
	Importance   float64     `json:"importance"`
	FilledRatio  float64     `json:"filled_ratio"`
	LastFilledTS *time.Time  `json:"last_filled_ts,omitempty"`
	EvidenceIDs  []uuid.UUID `json:"evidence_ids,omitempty"`
	SourceKind   SourceKind  `json:"source_kind,omitempty"`
}

// Filled reports whether the slot's fill ratio has crossed the configured
// threshold.
func (s Slot) Filled(threshold float64) bool {
	return s.FilledRatio >= threshold
}

// Clone returns a deep copy so registry snapshots stay consistent while the
// caller iterates.
func (s Slot) Clone() Slot {
	out := s
	if s.LastFilledTS != nil {
		ts := *s.LastFilledTS
		out.LastFilledTS = &ts
	}
	if len(s.EvidenceIDs) > 0 {
		out.EvidenceIDs = make([]uuid.UUID, len(s.EvidenceIDs))
		copy(out.EvidenceIDs, s.EvidenceIDs)
	}
	return out
}
