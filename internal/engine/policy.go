package engine

import (
	"github.com/elicitlabs/elicit/internal/domain"
	"go.uber.org/zap"
)

// DecisionState is the read-only view a policy scores against: the ranked
// gaps for this turn, whether search backends are reachable, and any slots
// excluded after duplicate-question rejection.
type DecisionState struct {
	Gaps            []GapScore
	Hypotheses      []domain.Hypothesis
	SearchAvailable bool
	Excluded        map[string]struct{}
	Turn            int
}

func (s DecisionState) excluded(name string) bool {
	_, ok := s.Excluded[name]
	return ok
}

// Policy selects the next action for a session state. The default is the
// closed-form VoI heuristic; alternatives plug in behind this interface.
type Policy interface {
	ID() string
	Score(state DecisionState) (domain.Action, error)
}

// SafeGate wraps an alternative policy with a bounds check and falls back
// to the default whenever the alternative diverges: errors, unknown action
// kinds, slots not present in the state, or a VoI outside [0, maxVoI].
type SafeGate struct {
	primary  Policy
	fallback Policy
	maxVoI   float64
	logger   *zap.Logger
}

func NewSafeGate(primary, fallback Policy, maxVoI float64, logger *zap.Logger) *SafeGate {
	return &SafeGate{primary: primary, fallback: fallback, maxVoI: maxVoI, logger: logger}
}

func (g *SafeGate) ID() string { return g.primary.ID() + "+gate" }

func (g *SafeGate) Score(state DecisionState) (domain.Action, error) {
	action, err := g.primary.Score(state)
	if err == nil && g.withinBounds(state, action) {
		return action, nil
	}
	g.logger.Warn("policy diverged from bounds, falling back",
		zap.String("policy", g.primary.ID()),
		zap.Error(err))
	return g.fallback.Score(state)
}

func (g *SafeGate) withinBounds(state DecisionState, a domain.Action) bool {
	switch a.Kind {
	case domain.ActionNone:
		return true
	case domain.ActionAsk, domain.ActionSearch:
	default:
		return false
	}
	if a.VoI < 0 || (g.maxVoI > 0 && a.VoI > g.maxVoI) {
		return false
	}
	if a.EstimatedCost <= 0 || len(a.Slots) == 0 {
		return false
	}
	known := make(map[string]struct{}, len(state.Gaps))
	for _, gap := range state.Gaps {
		known[gap.Slot.Name] = struct{}{}
	}
	for _, s := range a.Slots {
		if _, ok := known[s]; !ok {
			return false
		}
	}
	return true
}
