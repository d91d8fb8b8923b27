package engine

import (
	"errors"
	"math"
	"sort"

	"github.com/elicitlabs/elicit/internal/domain"
)

var (
	ErrHypothesisNotFound  = errors.New("hypothesis not found")
	ErrDuplicateHypothesis = errors.New("hypothesis already registered")
)

const (
	beliefEps = 0.01
)

// Logit maps a probability to log-odds, clamped away from 0 and 1 for
// numerical stability.
func Logit(p float64) float64 {
	p = clampBelief(p)
	return math.Log(p / (1 - p))
}

// Sigmoid is the logistic inverse of Logit.
func Sigmoid(x float64) float64 {
	if x >= 50 {
		return 1
	}
	if x <= -50 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

func clampBelief(p float64) float64 {
	if p < beliefEps {
		return beliefEps
	}
	if p > 1-beliefEps {
		return 1 - beliefEps
	}
	return p
}

// BeliefStore holds per-hypothesis belief probability plus confidence
// interval width. Owned by one session; no cross-session sharing.
type BeliefStore struct {
	hypotheses map[string]*domain.Hypothesis
	widthFloor float64
}

// NewBeliefStore creates an empty store with the given CI width floor.
func NewBeliefStore(widthFloor float64) *BeliefStore {
	return &BeliefStore{
		hypotheses: make(map[string]*domain.Hypothesis),
		widthFloor: widthFloor,
	}
}

// Add registers a hypothesis, clamping belief into (0,1) and the width into
// [floor,1].
func (b *BeliefStore) Add(h domain.Hypothesis) error {
	if _, ok := b.hypotheses[h.ID]; ok {
		return ErrDuplicateHypothesis
	}
	h.Belief = clampBelief(h.Belief)
	h.CIWidth = b.clampWidth(h.CIWidth)
	hyp := h.Clone()
	b.hypotheses[h.ID] = &hyp
	return nil
}

// Get returns a copy of the hypothesis.
func (b *BeliefStore) Get(id string) (domain.Hypothesis, error) {
	h, ok := b.hypotheses[id]
	if !ok {
		return domain.Hypothesis{}, ErrHypothesisNotFound
	}
	return h.Clone(), nil
}

// List returns all hypotheses sorted by id.
func (b *BeliefStore) List() []domain.Hypothesis {
	out := make([]domain.Hypothesis, 0, len(b.hypotheses))
	for _, h := range b.hypotheses {
		out = append(out, h.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Apply moves a hypothesis belief by delta in logit space and shrinks the
// CI width monotonically with the update magnitude. A zero delta is a
// strict no-op: belief and width are left untouched so ingesting empty
// evidence is idempotent.
func (b *BeliefStore) Apply(id string, delta float64) (domain.Hypothesis, error) {
	h, ok := b.hypotheses[id]
	if !ok {
		return domain.Hypothesis{}, ErrHypothesisNotFound
	}
	if delta == 0 {
		return h.Clone(), nil
	}
	h.Belief = clampBelief(Sigmoid(Logit(h.Belief) + delta))
	h.CIWidth = b.clampWidth(h.CIWidth / (1 + math.Abs(delta)))
	return h.Clone(), nil
}

// Clone deep-copies the store for turn staging.
func (b *BeliefStore) Clone() *BeliefStore {
	out := NewBeliefStore(b.widthFloor)
	for id, h := range b.hypotheses {
		hyp := h.Clone()
		out.hypotheses[id] = &hyp
	}
	return out
}

func (b *BeliefStore) clampWidth(w float64) float64 {
	if w < b.widthFloor {
		return b.widthFloor
	}
	if w > 1 {
		return 1
	}
	return w
}
