package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/engine"
	"github.com/elicitlabs/elicit/internal/store"
	"github.com/elicitlabs/elicit/internal/template"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrNoSlots         = errors.New("session needs a template or at least one slot")
)

// SessionService runs dialogue sessions: creation from a template or
// explicit slot definitions, one engine turn per request, and persistence
// of the session snapshot after every turn.
type SessionService struct {
	sessions domain.SessionStore
	orch     *engine.Orchestrator
	cfg      engine.Config
	logger   *zap.Logger
}

func NewSessionService(sessions domain.SessionStore, orch *engine.Orchestrator, cfg engine.Config, logger *zap.Logger) *SessionService {
	return &SessionService{sessions: sessions, orch: orch, cfg: cfg, logger: logger}
}

// CreateSessionInput starts a session from a named template, explicit slot
// definitions, or both. Template slots come first; explicit slots with a
// clashing name are rejected by the registry.
type CreateSessionInput struct {
	Template   string
	Slots      []domain.Slot
	Hypotheses []domain.Hypothesis
}

func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*domain.SessionRecord, error) {
	slots := make([]domain.Slot, 0, len(in.Slots))
	if in.Template != "" {
		templateSlots, err := template.Slots(in.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, in.Template)
		}
		slots = append(slots, templateSlots...)
	}
	slots = append(slots, in.Slots...)
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}

	sess, err := engine.NewSession(s.cfg, uuid.Nil, slots, in.Hypotheses)
	if err != nil {
		return nil, err
	}
	sess.Template = in.Template

	rec := sess.Export()
	if err := s.sessions.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", rec.ID.String()),
		zap.String("template", rec.Template),
		zap.Int("slots", len(rec.Slots)))
	return rec, nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	rec, err := s.sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Turn executes one engine cycle against the persisted session and stores
// the committed snapshot. A failed turn leaves the stored snapshot as it
// was.
func (s *SessionService) Turn(ctx context.Context, id uuid.UUID, in engine.TurnInput) (*engine.TurnResult, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess, err := engine.RestoreSession(s.cfg, rec)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	result, err := s.orch.Turn(ctx, sess, in)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, sess.Export()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("turn completed",
		zap.String("session_id", id.String()),
		zap.Int("turn", result.Turn),
		zap.String("state", string(result.State)),
		zap.String("action", string(result.Action.Kind)),
		zap.Float64("coverage", result.Coverage))
	return result, nil
}

// Abort terminates the session without applying any pending input.
func (s *SessionService) Abort(ctx context.Context, id uuid.UUID) (*engine.TurnResult, error) {
	return s.Turn(ctx, id, engine.TurnInput{Abort: true})
}

func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Templates lists the built-in slot templates a session can start from.
func (s *SessionService) Templates() []string {
	return template.Names()
}
