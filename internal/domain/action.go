package domain

// ActionKind is the move the strategist selected for the next turn.
type ActionKind string

const (
	ActionAsk    ActionKind = "ask"
	ActionSearch ActionKind = "search"
	ActionNone   ActionKind = "none"
)

// Action is the strategist's output: what to do, against which slot or
// bundle, and the value-of-information estimate that justified it.
type Action struct {
	Kind          ActionKind `json:"kind"`
	Slots         []string   `json:"slots,omitempty"`
	VoI           float64    `json:"voi"`
	ExpectedGain  float64    `json:"expected_gain"`
	EstimatedCost float64    `json:"estimated_cost"`
	// Text holds the generated question (ask) or search query (search).
	Text string `json:"text,omitempty"`
}

// Bundle reports whether the action targets more than one slot.
func (a Action) Bundle() bool {
	return len(a.Slots) > 1
}

// SessionState is the per-session lifecycle state. Terminated is absorbing.
type SessionState string

const (
	StateActive     SessionState = "active"
	StateTerminated SessionState = "terminated"
)

// TerminationReason explains why a session left the active state.
type TerminationReason string

const (
	ReasonKPIMet    TerminationReason = "kpi_met"
	ReasonVoILow    TerminationReason = "voi_low"
	ReasonTimeout   TerminationReason = "timeout"
	ReasonUserAbort TerminationReason = "user_abort"
)
