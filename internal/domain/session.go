package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord is the serializable snapshot of one session's state, keyed
// by session id. The engine owns the live state; this record is what
// persistence stores and reloads between turns.
type SessionRecord struct {
	ID             uuid.UUID           `json:"id"`
	Template       string              `json:"template,omitempty"`
	State          SessionState        `json:"state"`
	Reason         TerminationReason   `json:"reason,omitempty"`
	Turn           int                 `json:"turn"`
	Slots          []Slot              `json:"slots"`
	Hypotheses     []Hypothesis        `json:"hypotheses,omitempty"`
	AskedQuestions map[string][]string `json:"asked_questions,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
