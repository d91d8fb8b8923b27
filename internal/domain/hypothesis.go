package domain

// Hypothesis is a candidate claim tracked with uncertainty. Belief lives in
// (0,1) and CIWidth never drops below the configured floor.
type Hypothesis struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Slots      []string `json:"slots,omitempty"`
	Belief     float64  `json:"belief"`
	CIWidth    float64  `json:"ci_width"`
	AskCost    float64  `json:"ask_cost"`
	SearchCost float64  `json:"search_cost"`
}

// Interval returns the confidence interval around the belief, clamped to
// [0,1].
func (h Hypothesis) Interval() (lo, hi float64) {
	lo = h.Belief - h.CIWidth/2
	hi = h.Belief + h.CIWidth/2
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	return lo, hi
}

// Covers reports whether the hypothesis is associated with the given slot.
func (h Hypothesis) Covers(slot string) bool {
	for _, s := range h.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the hypothesis.
func (h Hypothesis) Clone() Hypothesis {
	out := h
	if len(h.Slots) > 0 {
		out.Slots = make([]string, len(h.Slots))
		copy(out.Slots, h.Slots)
	}
	return out
}
