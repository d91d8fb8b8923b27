package engine

import (
	"testing"
	"time"

	"github.com/elicitlabs/elicit/internal/domain"
)

func TestStaleness(t *testing.T) {
	g := NewGapAnalyzer(7*24*time.Hour, 0.7)
	now := time.Now()

	if got := g.Staleness(nil, now); got != 1 {
		t.Errorf("never-filled staleness = %f, want 1", got)
	}
	if got := g.Staleness(&now, now); got != 0 {
		t.Errorf("just-filled staleness = %f, want 0", got)
	}

	prev := 0.0
	for _, age := range []time.Duration{time.Hour, 24 * time.Hour, 7 * 24 * time.Hour, 30 * 24 * time.Hour} {
		ts := now.Add(-age)
		s := g.Staleness(&ts, now)
		if s <= prev {
			t.Errorf("staleness not strictly increasing at age %v: %f <= %f", age, s, prev)
		}
		if s >= 1 {
			t.Errorf("staleness reached 1 at finite age %v: %f", age, s)
		}
		prev = s
	}

	ancient := now.Add(-1000 * 24 * time.Hour)
	if s := g.Staleness(&ancient, now); s < 0.999 {
		t.Errorf("staleness should approach 1 for very old fills, got %f", s)
	}
}

func TestGapAnalyzer_FullyFilledHasZeroPriority(t *testing.T) {
	g := NewGapAnalyzer(7*24*time.Hour, 0.7)

	ranked := g.Rank([]domain.Slot{
		{Name: "done", Importance: 1.0, FilledRatio: 1.0},
		{Name: "open", Importance: 0.3, FilledRatio: 0.0},
	})
	if ranked[0].Slot.Name != "open" {
		t.Fatalf("expected open slot ranked first, got %s", ranked[0].Slot.Name)
	}
	if ranked[1].Priority != 0 {
		t.Errorf("fully filled slot priority = %f, want 0", ranked[1].Priority)
	}
}

func TestGapAnalyzer_DeterministicTieBreak(t *testing.T) {
	g := NewGapAnalyzer(7*24*time.Hour, 0.7)

	slots := []domain.Slot{
		{Name: "zeta", Importance: 0.5},
		{Name: "alpha", Importance: 0.5},
		{Name: "mid", Importance: 0.5},
	}
	ranked := g.Rank(slots)
	if ranked[0].Slot.Name != "alpha" || ranked[1].Slot.Name != "mid" || ranked[2].Slot.Name != "zeta" {
		t.Errorf("tie break not by name: %s %s %s",
			ranked[0].Slot.Name, ranked[1].Slot.Name, ranked[2].Slot.Name)
	}
}

func TestGapAnalyzer_Coverage(t *testing.T) {
	g := NewGapAnalyzer(7*24*time.Hour, 0.7)

	slots := []domain.Slot{
		{Name: "a", Importance: 0.9, FilledRatio: 0.8},
		{Name: "b", Importance: 0.9, FilledRatio: 0.5},
		{Name: "c", Importance: 0.3, FilledRatio: 0.0},
	}
	if got := g.Coverage(slots, 0.8); !floatEq(got, 0.5) {
		t.Errorf("coverage = %f, want 0.5", got)
	}
	if got := g.Coverage(nil, 0.8); got != 1 {
		t.Errorf("empty coverage = %f, want 1", got)
	}
}

func TestFillSignal(t *testing.T) {
	w := FillWeights{Confidence: 0.5, Match: 0.3, SourceTrust: 0.2}

	if got := FillSignal(w, 1, 1, 1); got != 1 {
		t.Errorf("full signals = %f, want 1", got)
	}
	if got := FillSignal(w, 0, 0, 0); got != 0 {
		t.Errorf("zero signals = %f, want 0", got)
	}
	if got := FillSignal(w, 0.8, 0.5, 0.5); !floatEq(got, 0.65) {
		t.Errorf("combined = %f, want 0.65", got)
	}

	huge := FillWeights{Confidence: 5, Match: 5, SourceTrust: 5}
	if got := FillSignal(huge, 1, 1, 1); got != 1 {
		t.Errorf("oversized weights must clamp to 1, got %f", got)
	}
}
