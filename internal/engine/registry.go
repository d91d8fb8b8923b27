package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrDuplicateSlot = errors.New("slot already registered")
	ErrSlotNotFound  = errors.New("slot not found")
	ErrSlotNameEmpty = errors.New("slot name is required")
)

// SlotRegistry holds the per-session gap state. It is owned by exactly one
// session and is not safe for concurrent use; sessions isolate instead of
// locking.
type SlotRegistry struct {
	slots           map[string]*domain.Slot
	importanceFloor float64
	now             func() time.Time
}

// NewSlotRegistry creates an empty registry. Importance of proposed slots is
// floor-enforced so no slot becomes permanently unreachable.
func NewSlotRegistry(importanceFloor float64) *SlotRegistry {
	return &SlotRegistry{
		slots:           make(map[string]*domain.Slot),
		importanceFloor: importanceFloor,
		now:             time.Now,
	}
}

// Propose registers a new slot. Fails with ErrDuplicateSlot when the name is
// already taken within the session.
func (r *SlotRegistry) Propose(s domain.Slot) error {
	if s.Name == "" {
		return ErrSlotNameEmpty
	}
	if _, ok := r.slots[s.Name]; ok {
		return ErrDuplicateSlot
	}
	s.Importance = clamp01(s.Importance)
	if s.Importance < r.importanceFloor {
		s.Importance = r.importanceFloor
	}
	s.FilledRatio = clamp01(s.FilledRatio)
	slot := s.Clone()
	r.slots[s.Name] = &slot
	return nil
}

// Update applies a fill-ratio delta to a slot, clamps the result to [0,1],
// records the evidence reference, merges source provenance and stamps
// LastFilledTS with the current time.
func (r *SlotRegistry) Update(name string, deltaFilled float64, evidenceID uuid.UUID, kind domain.SourceKind) (domain.Slot, error) {
	slot, ok := r.slots[name]
	if !ok {
		return domain.Slot{}, ErrSlotNotFound
	}
	slot.FilledRatio = clamp01(slot.FilledRatio + deltaFilled)
	slot.SourceKind = domain.MergeSourceKind(slot.SourceKind, kind)
	if evidenceID != uuid.Nil && !containsID(slot.EvidenceIDs, evidenceID) {
		slot.EvidenceIDs = append(slot.EvidenceIDs, evidenceID)
	}
	ts := r.now()
	slot.LastFilledTS = &ts
	return slot.Clone(), nil
}

// Get returns a copy of the named slot.
func (r *SlotRegistry) Get(name string) (domain.Slot, error) {
	slot, ok := r.slots[name]
	if !ok {
		return domain.Slot{}, ErrSlotNotFound
	}
	return slot.Clone(), nil
}

// List yields a snapshot sorted by name. Mutating the registry after List
// does not affect a snapshot already taken, which keeps one scoring pass
// consistent within a turn.
func (r *SlotRegistry) List() []domain.Slot {
	out := make([]domain.Slot, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered slots.
func (r *SlotRegistry) Len() int {
	return len(r.slots)
}

// Clone deep-copies the registry. Turn staging works on a clone and swaps it
// in on commit so aborts never observe partial state.
func (r *SlotRegistry) Clone() *SlotRegistry {
	out := NewSlotRegistry(r.importanceFloor)
	out.now = r.now
	for name, s := range r.slots {
		slot := s.Clone()
		out.slots[name] = &slot
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
