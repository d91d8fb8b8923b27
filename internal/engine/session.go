package engine

import (
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
)

// Session is one dialogue's explicitly passed context. It owns its
// SlotRegistry and BeliefStore; sessions run concurrently only by isolation,
// never by sharing.
type Session struct {
	ID       uuid.UUID
	Template string
	State    domain.SessionState
	Reason   domain.TerminationReason
	Turn     int

	Registry *SlotRegistry
	Beliefs  *BeliefStore
	History  *QuestionHistory
}

// NewSession validates the config once and builds a live session from slot
// and hypothesis definitions. Configuration errors surface here, never at
// decision time.
func NewSession(cfg Config, id uuid.UUID, slots []domain.Slot, hypotheses []domain.Hypothesis) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	s := &Session{
		ID:       id,
		State:    domain.StateActive,
		Registry: NewSlotRegistry(cfg.ImportanceFloor),
		Beliefs:  NewBeliefStore(cfg.BeliefWidthFloor),
		History:  NewQuestionHistory(),
	}
	for _, slot := range slots {
		if err := s.Registry.Propose(slot); err != nil {
			return nil, fmt.Errorf("slot %q: %w", slot.Name, err)
		}
	}
	for _, h := range hypotheses {
		if err := s.Beliefs.Add(h); err != nil {
			return nil, fmt.Errorf("hypothesis %q: %w", h.ID, err)
		}
	}
	return s, nil
}

// RestoreSession rebuilds a live session from a persisted record.
func RestoreSession(cfg Config, rec *domain.SessionRecord) (*Session, error) {
	s, err := NewSession(cfg, rec.ID, rec.Slots, rec.Hypotheses)
	if err != nil {
		return nil, err
	}
	s.Template = rec.Template
	s.State = rec.State
	s.Reason = rec.Reason
	s.Turn = rec.Turn
	s.History = RestoreQuestionHistory(rec.AskedQuestions)
	return s, nil
}

// Export snapshots the session into its serializable record.
func (s *Session) Export() *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:             s.ID,
		Template:       s.Template,
		State:          s.State,
		Reason:         s.Reason,
		Turn:           s.Turn,
		Slots:          s.Registry.List(),
		Hypotheses:     s.Beliefs.List(),
		AskedQuestions: s.History.Export(),
	}
}

// Terminated reports whether the session reached its absorbing state.
func (s *Session) Terminated() bool {
	return s.State == domain.StateTerminated
}

func (s *Session) terminate(reason domain.TerminationReason) {
	if s.State == domain.StateTerminated {
		return
	}
	s.State = domain.StateTerminated
	s.Reason = reason
}
