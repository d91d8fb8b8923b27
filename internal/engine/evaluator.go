package engine

import (
	"fmt"
	"strings"

	"github.com/elicitlabs/elicit/internal/domain"
	"go.uber.org/zap"
)

// DeltaModel turns an evidence feature vector into a signed logit delta.
// Two implementations ship: a linear combination with configurable weights
// and a heuristic redundancy/polarity-weighted average. Both stay behind
// this interface so the weighting scheme remains configuration, not code.
type DeltaModel interface {
	ID() string
	Delta(ev domain.Evidence) float64
}

// LinearDelta computes Δ = intercept + Σ wᵢ·fᵢ, with the polarity sign
// applied to the whole feature contribution.
type LinearDelta struct {
	Weights LinearWeights
}

func (m LinearDelta) ID() string { return DeltaModelLinear }

func (m LinearDelta) Delta(ev domain.Evidence) float64 {
	f := ev.Features
	sum := m.Weights.Intercept +
		m.Weights.LexicalSimilarity*f.LexicalSimilarity +
		m.Weights.SourceTrust*f.SourceTrust +
		m.Weights.Recency*f.Recency +
		m.Weights.LogicalConsistency*f.LogicalConsistency +
		m.Weights.RedundancyPenalty*f.RedundancyPenalty
	return polarity(f.PolaritySign) * sum
}

// HeuristicDelta normalizes a positive-weighted feature average into [0,1],
// subtracts the redundancy penalty, applies the polarity sign and scales
// the result into logit space.
type HeuristicDelta struct {
	Weights LinearWeights
	Scale   float64
}

func (m HeuristicDelta) ID() string { return DeltaModelHeuristic }

func (m HeuristicDelta) Delta(ev domain.Evidence) float64 {
	f := ev.Features
	posWeights := m.Weights.LexicalSimilarity + m.Weights.SourceTrust +
		m.Weights.Recency + m.Weights.LogicalConsistency
	if posWeights <= 0 {
		return 0
	}
	base := (m.Weights.LexicalSimilarity*f.LexicalSimilarity +
		m.Weights.SourceTrust*f.SourceTrust +
		m.Weights.Recency*f.Recency +
		m.Weights.LogicalConsistency*f.LogicalConsistency) / posWeights
	base = clamp01(base + m.Weights.RedundancyPenalty*f.RedundancyPenalty)
	return m.Scale * polarity(f.PolaritySign) * base
}

func polarity(sign float64) float64 {
	if sign < 0 {
		return -1
	}
	return 1
}

// NewDeltaModel resolves the configured model name. Config.Validate has
// already rejected unknown names.
func NewDeltaModel(cfg Config) (DeltaModel, error) {
	switch cfg.DeltaModel {
	case DeltaModelLinear:
		return LinearDelta{Weights: cfg.LinearWeights}, nil
	case DeltaModelHeuristic:
		return HeuristicDelta{Weights: cfg.LinearWeights, Scale: cfg.DeltaScale}, nil
	default:
		return nil, fmt.Errorf("unknown delta model %q", cfg.DeltaModel)
	}
}

// Evaluator folds new evidence into the belief store and writes fill
// progress back to the slot registry.
type Evaluator struct {
	model  DeltaModel
	fill   FillWeights
	logger *zap.Logger
}

func NewEvaluator(model DeltaModel, fill FillWeights, logger *zap.Logger) *Evaluator {
	return &Evaluator{model: model, fill: fill, logger: logger}
}

// Ingest validates the evidence, updates every hypothesis covering one of
// its slots, and raises the fill ratio of each named slot. Validation runs
// before any mutation so rejected evidence leaves no partial state.
func (e *Evaluator) Ingest(registry *SlotRegistry, beliefs *BeliefStore, ev domain.Evidence) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	delta := e.model.Delta(ev)
	for _, h := range beliefs.List() {
		if !coversAny(h, ev.SlotNames) {
			continue
		}
		updated, err := beliefs.Apply(h.ID, delta)
		if err != nil {
			return err
		}
		e.logger.Debug("belief updated",
			zap.String("hypothesis", h.ID),
			zap.Float64("delta", delta),
			zap.Float64("belief", updated.Belief),
			zap.Float64("ci_width", updated.CIWidth))
	}

	for _, name := range ev.SlotNames {
		slot, err := registry.Get(name)
		if err != nil {
			return fmt.Errorf("evidence references %q: %w", name, err)
		}
		match := TextSimilarity(ev.Text, slot.Name+" "+slot.Description)
		gain := FillSignal(e.fill, ev.Confidence, match, ev.Features.SourceTrust)
		updated, err := registry.Update(name, gain, ev.ID, ev.SourceKind)
		if err != nil {
			return err
		}
		e.logger.Debug("slot filled",
			zap.String("slot", name),
			zap.Float64("gain", gain),
			zap.Float64("filled_ratio", updated.FilledRatio))
	}
	return nil
}

func coversAny(h domain.Hypothesis, slots []string) bool {
	for _, s := range slots {
		if h.Covers(s) {
			return true
		}
	}
	return false
}

// attributable reports whether evidence names at least one slot; kept as a
// helper for callers that pre-filter free-floating evidence.
func attributable(ev domain.Evidence) bool {
	return len(ev.SlotNames) > 0 && strings.TrimSpace(ev.Text) != ""
}
