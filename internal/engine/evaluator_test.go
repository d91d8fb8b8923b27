package engine

import (
	"errors"
	"testing"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestEvaluator(t *testing.T, cfg Config) *Evaluator {
	t.Helper()
	model, err := NewDeltaModel(cfg)
	if err != nil {
		t.Fatalf("delta model: %v", err)
	}
	return NewEvaluator(model, cfg.FillWeights, zap.NewNop())
}

func TestEvaluator_RejectsOutOfRangeFeatures(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEvaluator(t, cfg)

	registry := NewSlotRegistry(cfg.ImportanceFloor)
	if err := registry.Propose(domain.Slot{Name: "impact", Importance: 0.9, Description: "impact on users"}); err != nil {
		t.Fatalf("propose: %v", err)
	}
	beliefs := NewBeliefStore(cfg.BeliefWidthFloor)
	if err := beliefs.Add(domain.Hypothesis{ID: "h1", Belief: 0.5, CIWidth: 0.5, Slots: []string{"impact"}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ev := domain.Evidence{
		ID:         uuid.New(),
		Text:       "half the users saw errors",
		SourceKind: domain.SourceUser,
		Confidence: 0.9,
		SlotNames:  []string{"impact"},
		Features:   domain.FeatureVector{SourceTrust: 1.7, PolaritySign: 1},
	}
	err := e.Ingest(registry, beliefs, ev)

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Rejection must leave no partial state behind.
	slot, _ := registry.Get("impact")
	if slot.FilledRatio != 0 || slot.LastFilledTS != nil {
		t.Errorf("slot mutated despite rejected evidence: %+v", slot)
	}
	h, _ := beliefs.Get("h1")
	if !floatEq(h.Belief, 0.5) {
		t.Errorf("belief mutated despite rejected evidence: %f", h.Belief)
	}
}

func TestEvaluator_IngestUpdatesSlotAndBelief(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEvaluator(t, cfg)

	registry := NewSlotRegistry(cfg.ImportanceFloor)
	if err := registry.Propose(domain.Slot{Name: "impact", Importance: 0.9, Description: "user impact and failure rate"}); err != nil {
		t.Fatalf("propose: %v", err)
	}
	beliefs := NewBeliefStore(cfg.BeliefWidthFloor)
	if err := beliefs.Add(domain.Hypothesis{ID: "h1", Belief: 0.5, CIWidth: 0.5, Slots: []string{"impact"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := beliefs.Add(domain.Hypothesis{ID: "h2", Belief: 0.5, CIWidth: 0.5, Slots: []string{"other"}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ev := domain.Evidence{
		ID:         uuid.New(),
		Text:       "the user impact covered roughly forty percent of requests",
		SourceKind: domain.SourceUser,
		Confidence: 0.9,
		SlotNames:  []string{"impact"},
		Features: domain.FeatureVector{
			LexicalSimilarity:  0.8,
			SourceTrust:        0.9,
			Recency:            1.0,
			LogicalConsistency: 1.0,
			PolaritySign:       1,
		},
	}
	if err := e.Ingest(registry, beliefs, ev); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	slot, _ := registry.Get("impact")
	if slot.FilledRatio <= 0 {
		t.Errorf("expected fill progress, got %f", slot.FilledRatio)
	}
	if slot.LastFilledTS == nil {
		t.Error("expected last filled timestamp set")
	}
	if len(slot.EvidenceIDs) != 1 {
		t.Errorf("expected evidence recorded, got %v", slot.EvidenceIDs)
	}

	h1, _ := beliefs.Get("h1")
	if h1.Belief <= 0.5 {
		t.Errorf("supporting evidence should raise h1 belief, got %f", h1.Belief)
	}
	if h1.CIWidth >= 0.5 {
		t.Errorf("update should shrink h1 width, got %f", h1.CIWidth)
	}

	// Hypotheses on unrelated slots stay untouched.
	h2, _ := beliefs.Get("h2")
	if !floatEq(h2.Belief, 0.5) || !floatEq(h2.CIWidth, 0.5) {
		t.Errorf("unrelated hypothesis mutated: %+v", h2)
	}
}

func TestEvaluator_UnknownSlotFails(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEvaluator(t, cfg)
	registry := NewSlotRegistry(cfg.ImportanceFloor)
	beliefs := NewBeliefStore(cfg.BeliefWidthFloor)

	ev := domain.Evidence{
		ID:         uuid.New(),
		Text:       "something",
		SourceKind: domain.SourceUser,
		Confidence: 0.5,
		SlotNames:  []string{"ghost"},
		Features:   domain.FeatureVector{PolaritySign: 1},
	}
	if err := e.Ingest(registry, beliefs, ev); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestHeuristicDelta_PolarityAndRedundancy(t *testing.T) {
	cfg := DefaultConfig()
	m := HeuristicDelta{Weights: cfg.LinearWeights, Scale: cfg.DeltaScale}

	supporting := domain.Evidence{Features: domain.FeatureVector{
		LexicalSimilarity: 0.8, SourceTrust: 0.8, Recency: 0.8, LogicalConsistency: 1, PolaritySign: 1,
	}}
	refuting := supporting
	refuting.Features.PolaritySign = -1

	dPos := m.Delta(supporting)
	dNeg := m.Delta(refuting)
	if dPos <= 0 {
		t.Errorf("supporting delta should be positive, got %f", dPos)
	}
	if !floatEq(dPos, -dNeg) {
		t.Errorf("polarity should flip the sign: %f vs %f", dPos, dNeg)
	}

	redundant := supporting
	redundant.Features.RedundancyPenalty = 1
	if m.Delta(redundant) >= dPos {
		t.Error("redundancy should attenuate the delta")
	}
}

func TestLinearDelta(t *testing.T) {
	m := LinearDelta{Weights: LinearWeights{
		Intercept:         0.1,
		LexicalSimilarity: 0.5,
		SourceTrust:       0.5,
	}}
	ev := domain.Evidence{Features: domain.FeatureVector{
		LexicalSimilarity: 0.4, SourceTrust: 0.6, PolaritySign: 1,
	}}
	if got := m.Delta(ev); !floatEq(got, 0.1+0.2+0.3) {
		t.Errorf("delta = %f, want 0.6", got)
	}

	ev.Features.PolaritySign = -1
	if got := m.Delta(ev); !floatEq(got, -0.6) {
		t.Errorf("negated delta = %f, want -0.6", got)
	}
}

func TestNewDeltaModel_SelectsConfiguredModel(t *testing.T) {
	cfg := DefaultConfig()

	cfg.DeltaModel = DeltaModelLinear
	m, err := NewDeltaModel(cfg)
	if err != nil || m.ID() != DeltaModelLinear {
		t.Errorf("expected linear model, got %v (err %v)", m, err)
	}

	cfg.DeltaModel = DeltaModelHeuristic
	m, err = NewDeltaModel(cfg)
	if err != nil || m.ID() != DeltaModelHeuristic {
		t.Errorf("expected heuristic model, got %v (err %v)", m, err)
	}
}
