package engine

import (
	"context"
	"errors"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TurnInput carries what arrived since the last turn: user-answer evidence
// (already attributed to slots by the external extraction step) and an
// optional abort signal.
type TurnInput struct {
	Answers  []domain.Evidence
	Language string
	Abort    bool
}

// TurnResult is what one turn produced: the selected action with its
// generated text, any retrieval evidence folded in along the way, and the
// session state after the turn.
type TurnResult struct {
	SessionID uuid.UUID                `json:"session_id"`
	Turn      int                      `json:"turn"`
	State     domain.SessionState      `json:"state"`
	Reason    domain.TerminationReason `json:"reason,omitempty"`
	Action    domain.Action            `json:"action"`
	Coverage  float64                  `json:"coverage"`
	Gaps      []GapScore               `json:"-"`
	Evidence  []domain.Evidence        `json:"evidence,omitempty"`
}

// Orchestrator sequences one dialogue turn: Evaluator, GapAnalyzer,
// Strategist, then Generator or ResultFusion for the chosen action. All
// mutations run on staged clones and commit atomically at the turn
// boundary, so an abort never observes partial state.
type Orchestrator struct {
	cfg        Config
	evaluator  *Evaluator
	analyzer   *GapAnalyzer
	strategist *Strategist
	fusion     *Fusion
	generator  domain.Generator
	logger     *zap.Logger
}

// NewOrchestrator validates the config and wires the default VoI policy.
func NewOrchestrator(cfg Config, gen domain.Generator, lexical, vector domain.Retriever, logger *zap.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := NewDeltaModel(cfg)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		cfg:        cfg,
		evaluator:  NewEvaluator(model, cfg.FillWeights, logger),
		analyzer:   NewGapAnalyzer(cfg.StalenessTau, cfg.FilledThreshold),
		strategist: NewStrategist(cfg, NewVoIPolicy(cfg), logger),
		fusion:     NewFusion(lexical, vector, cfg, logger),
		generator:  gen,
		logger:     logger,
	}, nil
}

// UsePolicy swaps in an alternative decision policy, gated so that any
// action outside the configured bounds falls back to the default VoI rule.
func (o *Orchestrator) UsePolicy(p Policy, maxVoI float64) {
	o.strategist = NewStrategist(o.cfg, NewSafeGate(p, NewVoIPolicy(o.cfg), maxVoI, o.logger), o.logger)
}

// Turn runs one full engine cycle for the session. A terminated session is
// absorbing: the call reports the terminal state and changes nothing.
func (o *Orchestrator) Turn(ctx context.Context, sess *Session, in TurnInput) (*TurnResult, error) {
	if sess.Terminated() {
		return o.result(sess, domain.Action{Kind: domain.ActionNone}, 0, nil, nil), nil
	}
	if in.Abort {
		sess.terminate(domain.ReasonUserAbort)
		return o.result(sess, domain.Action{Kind: domain.ActionNone}, 0, nil, nil), nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.TurnBudget)
	defer cancel()

	// Stage all mutations; nothing touches the session until commit.
	registry := sess.Registry.Clone()
	beliefs := sess.Beliefs.Clone()
	history := sess.History.Clone()

	for _, ev := range in.Answers {
		if !attributable(ev) {
			continue
		}
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if ev.SourceKind == "" {
			ev.SourceKind = domain.SourceUser
		}
		if err := o.evaluator.Ingest(registry, beliefs, ev); err != nil {
			return nil, err
		}
	}

	slots := registry.List()
	gaps := o.analyzer.Rank(slots)
	coverage := o.analyzer.Coverage(slots, o.cfg.CriticalImportance)

	action, retrieved, reason, err := o.selectAction(ctx, registry, beliefs, history, gaps, coverage, sess.Template, in.Language, sess.Turn)
	if err != nil {
		return nil, err
	}

	// Commit the staged state atomically at the turn boundary.
	sess.Registry = registry
	sess.Beliefs = beliefs
	sess.History = history
	sess.Turn++

	switch {
	case reason != "":
		sess.terminate(reason)
	case ctx.Err() != nil:
		sess.terminate(domain.ReasonTimeout)
	case sess.Turn >= o.cfg.MaxTurns:
		sess.terminate(domain.ReasonTimeout)
	}

	return o.result(sess, action, coverage, gaps, retrieved), nil
}

// selectAction loops over strategist decisions, handling generator
// failures and duplicate questions by excluding the affected slots and
// letting the strategist reassign.
func (o *Orchestrator) selectAction(
	ctx context.Context,
	registry *SlotRegistry,
	beliefs *BeliefStore,
	history *QuestionHistory,
	gaps []GapScore,
	coverage float64,
	template, language string,
	turn int,
) (domain.Action, []domain.Evidence, domain.TerminationReason, error) {
	excluded := make(map[string]struct{})

	for attempt := 0; attempt <= len(gaps); attempt++ {
		state := DecisionState{
			Gaps:            gaps,
			Hypotheses:      beliefs.List(),
			SearchAvailable: o.fusion.Available(),
			Excluded:        excluded,
			Turn:            turn,
		}
		decision, err := o.strategist.Decide(coverage, state)
		if err != nil {
			return domain.Action{}, nil, "", err
		}
		if decision.Stop {
			// After a rejection the absence of further candidates means
			// "nothing to do this turn", not a session-level soft stop.
			if decision.Reason == domain.ReasonVoILow && len(excluded) > 0 {
				return domain.Action{Kind: domain.ActionNone}, nil, "", nil
			}
			return domain.Action{Kind: domain.ActionNone}, nil, decision.Reason, nil
		}

		action := decision.Action
		targets, err := o.resolveSlots(registry, action.Slots)
		if err != nil {
			return domain.Action{}, nil, "", err
		}
		req := domain.GenerationRequest{Slots: targets, Context: template, Language: language}

		switch action.Kind {
		case domain.ActionAsk:
			question, err := o.generator.Question(ctx, req)
			if err != nil || question == "" {
				o.logGeneratorMiss("question", action.Slots, err)
				exclude(excluded, action.Slots)
				continue
			}
			if o.duplicate(history, action.Slots, question) {
				o.logger.Debug("duplicate question suppressed",
					zap.Strings("slots", action.Slots),
					zap.String("question", question))
				exclude(excluded, action.Slots)
				continue
			}
			for _, slot := range action.Slots {
				history.Record(slot, question)
			}
			action.Text = question
			return action, nil, "", nil

		case domain.ActionSearch:
			query, err := o.generator.Query(ctx, req)
			if err != nil || query == "" {
				o.logGeneratorMiss("query", action.Slots, err)
				exclude(excluded, action.Slots)
				continue
			}
			docs := o.fusion.Retrieve(ctx, query)
			evidence := o.fusion.ExtractEvidence(query, action.Slots, docs)
			for _, ev := range evidence {
				if err := o.evaluator.Ingest(registry, beliefs, ev); err != nil {
					return domain.Action{}, nil, "", err
				}
			}
			action.Text = query
			return action, evidence, "", nil

		default:
			return domain.Action{Kind: domain.ActionNone}, nil, domain.ReasonVoILow, nil
		}
	}

	// Every candidate slot was excluded; report no action rather than
	// forcing a low-value one.
	return domain.Action{Kind: domain.ActionNone}, nil, "", nil
}

func (o *Orchestrator) duplicate(history *QuestionHistory, slots []string, question string) bool {
	for _, slot := range slots {
		if history.Duplicate(slot, question, o.cfg.DupSimilarity) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) resolveSlots(registry *SlotRegistry, names []string) ([]domain.Slot, error) {
	out := make([]domain.Slot, 0, len(names))
	for _, name := range names {
		slot, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

func (o *Orchestrator) logGeneratorMiss(kind string, slots []string, err error) {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		o.logger.Warn("generation failed",
			zap.String("kind", kind),
			zap.Strings("slots", slots),
			zap.String("provider", genErr.Provider),
			zap.Error(genErr.Err))
		return
	}
	o.logger.Debug("generator produced no candidate",
		zap.String("kind", kind),
		zap.Strings("slots", slots),
		zap.Error(err))
}

func (o *Orchestrator) result(sess *Session, action domain.Action, coverage float64, gaps []GapScore, evidence []domain.Evidence) *TurnResult {
	return &TurnResult{
		SessionID: sess.ID,
		Turn:      sess.Turn,
		State:     sess.State,
		Reason:    sess.Reason,
		Action:    action,
		Coverage:  coverage,
		Gaps:      gaps,
		Evidence:  evidence,
	}
}

func exclude(set map[string]struct{}, slots []string) {
	for _, s := range slots {
		set[s] = struct{}{}
	}
}
