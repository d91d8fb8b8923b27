package engine

import (
	"math"
	"sort"

	"github.com/elicitlabs/elicit/internal/domain"
	"go.uber.org/zap"
)

// QuestionHistory records previously generated questions per slot so the
// strategist can reject near-duplicates and reassign.
type QuestionHistory struct {
	bySlot map[string][]string
}

func NewQuestionHistory() *QuestionHistory {
	return &QuestionHistory{bySlot: make(map[string][]string)}
}

// Record remembers a question asked against a slot.
func (h *QuestionHistory) Record(slot, text string) {
	h.bySlot[slot] = append(h.bySlot[slot], text)
}

// Duplicate reports whether text is too similar to any prior question on
// the same slot.
func (h *QuestionHistory) Duplicate(slot, text string, threshold float64) bool {
	for _, prior := range h.bySlot[slot] {
		if TextSimilarity(prior, text) >= threshold {
			return true
		}
	}
	return false
}

// Clone deep-copies the history for turn staging.
func (h *QuestionHistory) Clone() *QuestionHistory {
	out := NewQuestionHistory()
	for slot, qs := range h.bySlot {
		cp := make([]string, len(qs))
		copy(cp, qs)
		out.bySlot[slot] = cp
	}
	return out
}

// Export returns the history as a plain map for persistence.
func (h *QuestionHistory) Export() map[string][]string {
	if len(h.bySlot) == 0 {
		return nil
	}
	out := make(map[string][]string, len(h.bySlot))
	for slot, qs := range h.bySlot {
		cp := make([]string, len(qs))
		copy(cp, qs)
		out[slot] = cp
	}
	return out
}

// RestoreQuestionHistory rebuilds a history from a persisted map.
func RestoreQuestionHistory(m map[string][]string) *QuestionHistory {
	h := NewQuestionHistory()
	for slot, qs := range m {
		cp := make([]string, len(qs))
		copy(cp, qs)
		h.bySlot[slot] = cp
	}
	return h
}

// Decision is the strategist's verdict for one turn: either an action to
// take or a stop with its termination reason.
type Decision struct {
	Action domain.Action
	Stop   bool
	Reason domain.TerminationReason
}

// Strategist applies the two-stage stopping rule around the configured
// decision policy.
type Strategist struct {
	cfg    Config
	policy Policy
	logger *zap.Logger
}

func NewStrategist(cfg Config, policy Policy, logger *zap.Logger) *Strategist {
	return &Strategist{cfg: cfg, policy: policy, logger: logger}
}

// Decide checks the hard stop (critical coverage reached and no critical
// gap outstanding), then the policy's action, then the soft stop
// (max VoI below τ_stop).
func (s *Strategist) Decide(coverage float64, state DecisionState) (Decision, error) {
	if coverage >= s.cfg.CoverageTarget && maxPriority(state.Gaps) <= s.cfg.CriticalGapThreshold {
		s.logger.Info("hard stop reached",
			zap.Float64("coverage", coverage),
			zap.Float64("target", s.cfg.CoverageTarget))
		return Decision{Stop: true, Reason: domain.ReasonKPIMet}, nil
	}

	action, err := s.policy.Score(state)
	if err != nil {
		return Decision{}, err
	}
	if action.Kind == domain.ActionNone || action.VoI < s.cfg.StopVoI {
		s.logger.Info("soft stop: no action clears the value threshold",
			zap.Float64("max_voi", action.VoI),
			zap.Float64("tau_stop", s.cfg.StopVoI))
		return Decision{Stop: true, Reason: domain.ReasonVoILow}, nil
	}
	return Decision{Action: action}, nil
}

func maxPriority(gaps []GapScore) float64 {
	max := 0.0
	for _, g := range gaps {
		if g.Priority > max {
			max = g.Priority
		}
	}
	return max
}

// VoIPolicy is the default closed-form decision rule: expected utility gain
// per unit cost over single-slot asks/searches and same-context bundles.
type VoIPolicy struct {
	cfg Config
}

func NewVoIPolicy(cfg Config) VoIPolicy {
	return VoIPolicy{cfg: cfg}
}

func (p VoIPolicy) ID() string { return "voi-heuristic" }

type candidate struct {
	kind       domain.ActionKind
	slots      []string
	voi        float64
	gain       float64
	cost       float64
	importance float64
	name       string
}

func (p VoIPolicy) Score(state DecisionState) (domain.Action, error) {
	gaps := p.candidateGaps(state)
	if len(gaps) == 0 {
		return domain.Action{Kind: domain.ActionNone}, nil
	}

	var candidates []candidate
	askVoI := make(map[string]float64, len(gaps))
	for _, g := range gaps {
		slot := g.Slot
		value := slot.Importance*p.cfg.CriticalWeight + p.coverageBonus(state, slot.Name)
		dfill := math.Min(1-clamp01(slot.FilledRatio), p.cfg.QualityExpectation)

		gainAsk := p.cfg.Answerability * dfill
		voiAsk := gainAsk * value / p.cfg.AskCost
		askVoI[slot.Name] = voiAsk
		candidates = append(candidates, candidate{
			kind: domain.ActionAsk, slots: []string{slot.Name},
			voi: voiAsk, gain: gainAsk * value, cost: p.cfg.AskCost,
			importance: slot.Importance, name: slot.Name,
		})

		if state.SearchAvailable {
			gainSearch := p.cfg.Retrievability * dfill
			candidates = append(candidates, candidate{
				kind: domain.ActionSearch, slots: []string{slot.Name},
				voi: gainSearch * value / p.cfg.SearchCost, gain: gainSearch * value, cost: p.cfg.SearchCost,
				importance: slot.Importance, name: slot.Name,
			})
		}
	}

	candidates = append(candidates, p.bundles(state, gaps, askVoI)...)

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterCandidate(c, best) {
			best = c
		}
	}
	return domain.Action{
		Kind:          best.kind,
		Slots:         best.slots,
		VoI:           best.voi,
		ExpectedGain:  best.gain,
		EstimatedCost: best.cost,
	}, nil
}

// candidateGaps restricts scoring to the top-k unexcluded, not fully filled
// slots by priority.
func (p VoIPolicy) candidateGaps(state DecisionState) []GapScore {
	out := make([]GapScore, 0, len(state.Gaps))
	for _, g := range state.Gaps {
		if state.excluded(g.Slot.Name) || g.Slot.FilledRatio >= 1 {
			continue
		}
		out = append(out, g)
		if len(out) >= p.cfg.TopKSlots {
			break
		}
	}
	return out
}

func (p VoIPolicy) coverageBonus(state DecisionState, slot string) float64 {
	covering := 0
	for _, h := range state.Hypotheses {
		if h.Covers(slot) {
			covering++
		}
	}
	return p.cfg.CoverageBonusWeight * math.Min(1, float64(covering)/5)
}

// bundles groups candidate gaps sharing a slot type into one combined ask
// whose cost amortizes via the synergy discount. A bundle is only proposed
// when it beats every member's individual ask VoI.
func (p VoIPolicy) bundles(state DecisionState, gaps []GapScore, askVoI map[string]float64) []candidate {
	byType := make(map[string][]GapScore)
	for _, g := range gaps {
		if g.Slot.Type == "" {
			continue
		}
		byType[g.Slot.Type] = append(byType[g.Slot.Type], g)
	}

	var out []candidate
	for _, members := range byType {
		if len(members) < 2 {
			continue
		}
		if len(members) > p.cfg.BundleMaxSize {
			members = members[:p.cfg.BundleMaxSize]
		}

		totalMarginal := p.cfg.AskCost * float64(len(members))
		cost := p.cfg.BundleBaseCost + totalMarginal - p.cfg.BundleSynergy*totalMarginal
		if cost <= 0 {
			continue
		}

		gain := 0.0
		bestMemberVoI := 0.0
		maxImportance := 0.0
		names := make([]string, 0, len(members))
		for _, m := range members {
			slot := m.Slot
			value := slot.Importance*p.cfg.CriticalWeight + p.coverageBonus(state, slot.Name)
			dfill := math.Min(1-clamp01(slot.FilledRatio), p.cfg.QualityExpectation)
			gain += p.cfg.Answerability * dfill * value
			if v := askVoI[slot.Name]; v > bestMemberVoI {
				bestMemberVoI = v
			}
			if slot.Importance > maxImportance {
				maxImportance = slot.Importance
			}
			names = append(names, slot.Name)
		}
		sort.Strings(names)

		voi := gain / cost
		if voi <= bestMemberVoI {
			continue
		}
		out = append(out, candidate{
			kind: domain.ActionAsk, slots: names,
			voi: voi, gain: gain, cost: cost,
			importance: maxImportance, name: names[0],
		})
	}
	return out
}

// betterCandidate implements argmax with deterministic tie-breaking:
// highest VoI, then highest importance, then slot name.
func betterCandidate(a, b candidate) bool {
	if a.voi != b.voi {
		return a.voi > b.voi
	}
	if a.importance != b.importance {
		return a.importance > b.importance
	}
	return a.name < b.name
}
