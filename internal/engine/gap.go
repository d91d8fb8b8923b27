package engine

import (
	"math"
	"sort"
	"time"

	"github.com/elicitlabs/elicit/internal/domain"
)

// GapScore is the derived, non-persisted priority of one slot.
type GapScore struct {
	Slot      domain.Slot
	Staleness float64
	Priority  float64
}

// GapAnalyzer ranks slots by priority from registry state.
type GapAnalyzer struct {
	tau             time.Duration
	filledThreshold float64
	now             func() time.Time
}

// NewGapAnalyzer creates an analyzer with the given staleness time constant.
func NewGapAnalyzer(tau time.Duration, filledThreshold float64) *GapAnalyzer {
	return &GapAnalyzer{tau: tau, filledThreshold: filledThreshold, now: time.Now}
}

// Staleness is 1 - exp(-Δt/τ): 0 immediately after a fill, approaching 1 as
// the slot ages, and exactly 1 when the slot was never filled.
func (g *GapAnalyzer) Staleness(lastFilled *time.Time, now time.Time) float64 {
	if lastFilled == nil {
		return 1
	}
	age := now.Sub(*lastFilled)
	if age <= 0 {
		return 0
	}
	return 1 - math.Exp(-age.Seconds()/g.tau.Seconds())
}

// Rank scores every slot and returns them sorted by priority descending,
// ties broken by slot name for determinism. A fully filled slot always
// lands at priority 0 regardless of staleness.
func (g *GapAnalyzer) Rank(slots []domain.Slot) []GapScore {
	now := g.now()
	out := make([]GapScore, 0, len(slots))
	for _, s := range slots {
		staleness := g.Staleness(s.LastFilledTS, now)
		out = append(out, GapScore{
			Slot:      s,
			Staleness: staleness,
			Priority:  s.Importance * (1 - clamp01(s.FilledRatio)) * staleness,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Slot.Name < out[j].Slot.Name
	})
	return out
}

// Coverage is the fraction of critical slots (importance at or above the
// given threshold) currently filled. With no critical slots it reports 1.
func (g *GapAnalyzer) Coverage(slots []domain.Slot, criticalImportance float64) float64 {
	critical, filled := 0, 0
	for _, s := range slots {
		if s.Importance < criticalImportance {
			continue
		}
		critical++
		if s.Filled(g.filledThreshold) {
			filled++
		}
	}
	if critical == 0 {
		return 1
	}
	return float64(filled) / float64(critical)
}

// FillSignal combines evidence confidence, normalized slot match and source
// trust into one bounded fill increment.
func FillSignal(w FillWeights, confidence, match, trust float64) float64 {
	return clamp01(w.Confidence*confidence + w.Match*match + w.SourceTrust*trust)
}
