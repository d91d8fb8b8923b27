package engine

import (
	"context"
	"testing"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubGenerator struct {
	question func(req domain.GenerationRequest) (string, error)
	query    func(req domain.GenerationRequest) (string, error)
}

func (g stubGenerator) Question(_ context.Context, req domain.GenerationRequest) (string, error) {
	if g.question == nil {
		return "", nil
	}
	return g.question(req)
}

func (g stubGenerator) Query(_ context.Context, req domain.GenerationRequest) (string, error) {
	if g.query == nil {
		return "", nil
	}
	return g.query(req)
}

func slotQuestion(req domain.GenerationRequest) (string, error) {
	return "Tell me about " + req.Slots[0].Name + "?", nil
}

func newTestSession(t *testing.T, cfg Config, slots []domain.Slot, hyps []domain.Hypothesis) *Session {
	t.Helper()
	sess, err := NewSession(cfg, uuid.New(), slots, hyps)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return sess
}

func TestOrchestrator_AnswersAdvanceFillAndBelief(t *testing.T) {
	cfg := DefaultConfig()
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg,
		[]domain.Slot{{Name: "impact", Importance: 0.9, Description: "impact on users"}},
		[]domain.Hypothesis{{ID: "h1", Belief: 0.5, CIWidth: 0.5, Slots: []string{"impact"}}})

	res, err := o.Turn(context.Background(), sess, TurnInput{Answers: []domain.Evidence{{
		Text:       "about forty percent of users saw elevated error rates",
		Confidence: 0.9,
		SlotNames:  []string{"impact"},
		Features: domain.FeatureVector{
			LexicalSimilarity: 0.8, SourceTrust: 0.9, Recency: 1, LogicalConsistency: 1, PolaritySign: 1,
		},
	}}})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}

	if res.Turn != 1 || sess.Turn != 1 {
		t.Errorf("turn counter = %d/%d, want 1", res.Turn, sess.Turn)
	}
	slot, _ := sess.Registry.Get("impact")
	if slot.FilledRatio <= 0 {
		t.Errorf("answer should advance fill, got %f", slot.FilledRatio)
	}
	if slot.SourceKind != domain.SourceUser {
		t.Errorf("answer provenance = %q, want user", slot.SourceKind)
	}
	h, _ := sess.Beliefs.Get("h1")
	if h.Belief <= 0.5 {
		t.Errorf("supporting answer should raise belief, got %f", h.Belief)
	}
}

func TestOrchestrator_AbortDiscardsPendingAnswers(t *testing.T) {
	cfg := DefaultConfig()
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg,
		[]domain.Slot{{Name: "impact", Importance: 0.9}}, nil)

	res, err := o.Turn(context.Background(), sess, TurnInput{
		Abort: true,
		Answers: []domain.Evidence{{
			Text: "late answer", Confidence: 0.9, SlotNames: []string{"impact"},
			Features: domain.FeatureVector{PolaritySign: 1},
		}},
	})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.State != domain.StateTerminated || res.Reason != domain.ReasonUserAbort {
		t.Fatalf("expected user_abort termination, got %+v", res)
	}

	// Nothing from the aborted turn may leak into session state.
	if sess.Turn != 0 {
		t.Errorf("aborted turn must not advance the counter, got %d", sess.Turn)
	}
	slot, _ := sess.Registry.Get("impact")
	if slot.FilledRatio != 0 || slot.LastFilledTS != nil {
		t.Errorf("aborted turn leaked slot state: %+v", slot)
	}
}

func TestOrchestrator_TerminatedSessionIsAbsorbing(t *testing.T) {
	cfg := DefaultConfig()
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg, []domain.Slot{{Name: "impact", Importance: 0.9}}, nil)

	if _, err := o.Turn(context.Background(), sess, TurnInput{Abort: true}); err != nil {
		t.Fatalf("abort turn: %v", err)
	}

	res, err := o.Turn(context.Background(), sess, TurnInput{Answers: []domain.Evidence{{
		Text: "too late", Confidence: 0.9, SlotNames: []string{"impact"},
		Features: domain.FeatureVector{PolaritySign: 1},
	}}})
	if err != nil {
		t.Fatalf("turn after termination: %v", err)
	}
	if res.State != domain.StateTerminated || res.Reason != domain.ReasonUserAbort {
		t.Errorf("terminal state must be absorbing, got %+v", res)
	}
	if res.Action.Kind != domain.ActionNone {
		t.Errorf("terminated session produced an action: %+v", res.Action)
	}
	slot, _ := sess.Registry.Get("impact")
	if slot.FilledRatio != 0 {
		t.Errorf("terminated session mutated: %+v", slot)
	}
}

func TestOrchestrator_DuplicateQuestionReassigns(t *testing.T) {
	cfg := DefaultConfig()
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg, []domain.Slot{
		{Name: "primary", Importance: 0.9},
		{Name: "secondary", Importance: 0.6},
	}, nil)
	// The question the generator would produce for the top-priority slot
	// was already asked on an earlier turn.
	sess.History.Record("primary", "Tell me about primary?")

	res, err := o.Turn(context.Background(), sess, TurnInput{})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}

	if res.Action.Kind != domain.ActionAsk {
		t.Fatalf("expected an ask, got %+v", res.Action)
	}
	if len(res.Action.Slots) != 1 || res.Action.Slots[0] != "secondary" {
		t.Errorf("duplicate should reassign to the next gap, got %v", res.Action.Slots)
	}
	if res.Action.Text != "Tell me about secondary?" {
		t.Errorf("unexpected question text %q", res.Action.Text)
	}
	if res.State != domain.StateActive {
		t.Errorf("rejection must not terminate the session: %+v", res)
	}

	asked := sess.History.Export()
	if len(asked["secondary"]) != 1 || len(asked["primary"]) != 1 {
		t.Errorf("history after reassignment: %v", asked)
	}
}

func TestOrchestrator_AllCandidatesRejectedYieldsNone(t *testing.T) {
	cfg := DefaultConfig()
	// The generator never produces a question, so every ask candidate is
	// excluded within the turn.
	o, err := NewOrchestrator(cfg, stubGenerator{}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg, []domain.Slot{{Name: "only", Importance: 0.9}}, nil)

	res, err := o.Turn(context.Background(), sess, TurnInput{})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Action.Kind != domain.ActionNone {
		t.Errorf("expected no action, got %+v", res.Action)
	}
	// Exhausting candidates within one turn is not a session-level stop.
	if res.State != domain.StateActive || res.Reason != "" {
		t.Errorf("in-turn exhaustion terminated the session: %+v", res)
	}
	if sess.Turn != 1 {
		t.Errorf("turn should still commit, got %d", sess.Turn)
	}
}

func TestOrchestrator_SearchFoldsRetrievedEvidence(t *testing.T) {
	cfg := DefaultConfig()
	lexical := fixedHits(domain.RankedDoc{
		ID:      "doc-1",
		Rank:    1,
		Snippet: "The payment gateway timed out during failover. Alarms fired for ten minutes.",
	})
	gen := stubGenerator{
		question: slotQuestion,
		query: func(req domain.GenerationRequest) (string, error) {
			return "payment gateway timeout failover", nil
		},
	}
	o, err := NewOrchestrator(cfg, gen, lexical, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg,
		[]domain.Slot{{Name: "root_cause", Importance: 0.8, Description: "what failed and why"}},
		[]domain.Hypothesis{{ID: "h1", Belief: 0.5, CIWidth: 0.5, Slots: []string{"root_cause"}}})

	res, err := o.Turn(context.Background(), sess, TurnInput{})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}

	// Search at half the ask cost wins for an empty slot with a backend up.
	if res.Action.Kind != domain.ActionSearch {
		t.Fatalf("expected search action, got %+v", res.Action)
	}
	if len(res.Evidence) == 0 {
		t.Fatal("expected evidence extracted from retrieval")
	}
	for _, ev := range res.Evidence {
		if ev.SourceKind != domain.SourceRetrieval {
			t.Errorf("retrieved evidence kind = %q", ev.SourceKind)
		}
	}
	slot, _ := sess.Registry.Get("root_cause")
	if slot.FilledRatio <= 0 {
		t.Errorf("retrieved evidence should advance fill, got %f", slot.FilledRatio)
	}
}

func TestOrchestrator_HardStopTerminates(t *testing.T) {
	cfg := DefaultConfig()
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	// All critical slots filled past the threshold and no gap above the
	// critical priority line.
	sess := newTestSession(t, cfg, []domain.Slot{
		{Name: "a", Importance: 0.9, FilledRatio: 0.9},
		{Name: "b", Importance: 0.9, FilledRatio: 0.85},
	}, nil)

	res, err := o.Turn(context.Background(), sess, TurnInput{})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.State != domain.StateTerminated || res.Reason != domain.ReasonKPIMet {
		t.Errorf("expected kpi_met termination, got %+v", res)
	}
	if res.Coverage < cfg.CoverageTarget {
		t.Errorf("coverage = %f, want >= %f", res.Coverage, cfg.CoverageTarget)
	}
}

func TestOrchestrator_MaxTurnsTerminatesWithTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTurns = 1
	o, err := NewOrchestrator(cfg, stubGenerator{question: slotQuestion}, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	sess := newTestSession(t, cfg, []domain.Slot{{Name: "impact", Importance: 0.9}}, nil)

	res, err := o.Turn(context.Background(), sess, TurnInput{})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.State != domain.StateTerminated || res.Reason != domain.ReasonTimeout {
		t.Errorf("expected timeout termination at the turn cap, got %+v", res)
	}
	// The final turn's action is still reported alongside the termination.
	if res.Action.Kind != domain.ActionAsk {
		t.Errorf("expected the last ask to be surfaced, got %+v", res.Action)
	}
}
