package engine

import (
	"fmt"
	"time"
)

// Default tunables. RRF's k and the bundle synergy factor are operational
// defaults, not invariants; every one of these is configurable.
const (
	DefaultFilledThreshold      = 0.7
	DefaultImportanceFloor      = 0.2
	DefaultStalenessTau         = 7 * 24 * time.Hour
	DefaultBeliefWidthFloor     = 0.05
	DefaultDeltaScale           = 2.0
	DefaultRRFK                 = 60.0
	DefaultRerankAlpha          = 0.6
	DefaultRerankBeta           = 0.4
	DefaultRerankClip           = 1.0
	DefaultTopDocs              = 8
	DefaultMinSentenceOverlap   = 0.3
	DefaultMaxEvidenceSentences = 8
	DefaultRetrievalTimeout     = 2 * time.Second
	DefaultRetrievalRetries     = 1
	DefaultAskCost              = 1.0
	DefaultSearchCost           = 0.5
	DefaultBundleBaseCost       = 0.2
	DefaultBundleSynergy        = 0.15
	DefaultBundleMaxSize        = 3
	DefaultCriticalWeight       = 1.0
	DefaultCoverageBonusWeight  = 0.2
	DefaultQualityExpectation   = 0.6
	DefaultAnswerability        = 0.6
	DefaultRetrievability       = 0.7
	DefaultCoverageTarget       = 0.85
	DefaultCriticalImportance   = 0.8
	DefaultCriticalGapThreshold = 0.3
	DefaultStopVoI              = 0.08
	DefaultTopKSlots            = 8
	DefaultDupSimilarity        = 0.9
	DefaultMaxTurns             = 5
	DefaultTurnBudget           = 30 * time.Second
)

// Delta model identifiers.
const (
	DeltaModelLinear    = "linear"
	DeltaModelHeuristic = "heuristic"
)

// FillWeights combines the three fill signals applied on every slot update:
// evidence confidence, normalized slot match, and source trust.
type FillWeights struct {
	Confidence  float64
	Match       float64
	SourceTrust float64
}

// LinearWeights parameterizes the linear delta model over the evidence
// feature vector.
type LinearWeights struct {
	Intercept          float64
	LexicalSimilarity  float64
	SourceTrust        float64
	Recency            float64
	LogicalConsistency float64
	RedundancyPenalty  float64
}

// Config carries every engine tunable. Validate runs once at session
// construction; decision-time code assumes a valid config.
type Config struct {
	FilledThreshold float64
	ImportanceFloor float64
	StalenessTau    time.Duration
	FillWeights     FillWeights

	BeliefWidthFloor float64
	DeltaModel       string
	DeltaScale       float64
	LinearWeights    LinearWeights

	RRFK                 float64
	RerankAlpha          float64
	RerankBeta           float64
	RerankClip           float64
	TopDocs              int
	MinSentenceOverlap   float64
	MaxEvidenceSentences int
	RetrievalTimeout     time.Duration
	RetrievalRetries     int

	AskCost              float64
	SearchCost           float64
	BundleBaseCost       float64
	BundleSynergy        float64
	BundleMaxSize        int
	CriticalWeight       float64
	CoverageBonusWeight  float64
	QualityExpectation   float64
	Answerability        float64
	Retrievability       float64
	CoverageTarget       float64
	CriticalImportance   float64
	CriticalGapThreshold float64
	StopVoI              float64
	TopKSlots            int
	DupSimilarity        float64

	MaxTurns   int
	TurnBudget time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		FilledThreshold: DefaultFilledThreshold,
		ImportanceFloor: DefaultImportanceFloor,
		StalenessTau:    DefaultStalenessTau,
		FillWeights:     FillWeights{Confidence: 0.5, Match: 0.3, SourceTrust: 0.2},

		BeliefWidthFloor: DefaultBeliefWidthFloor,
		DeltaModel:       DeltaModelHeuristic,
		DeltaScale:       DefaultDeltaScale,
		LinearWeights: LinearWeights{
			Intercept:          0,
			LexicalSimilarity:  0.6,
			SourceTrust:        0.3,
			Recency:            0.2,
			LogicalConsistency: 0.4,
			RedundancyPenalty:  -0.2,
		},

		RRFK:                 DefaultRRFK,
		RerankAlpha:          DefaultRerankAlpha,
		RerankBeta:           DefaultRerankBeta,
		RerankClip:           DefaultRerankClip,
		TopDocs:              DefaultTopDocs,
		MinSentenceOverlap:   DefaultMinSentenceOverlap,
		MaxEvidenceSentences: DefaultMaxEvidenceSentences,
		RetrievalTimeout:     DefaultRetrievalTimeout,
		RetrievalRetries:     DefaultRetrievalRetries,

		AskCost:              DefaultAskCost,
		SearchCost:           DefaultSearchCost,
		BundleBaseCost:       DefaultBundleBaseCost,
		BundleSynergy:        DefaultBundleSynergy,
		BundleMaxSize:        DefaultBundleMaxSize,
		CriticalWeight:       DefaultCriticalWeight,
		CoverageBonusWeight:  DefaultCoverageBonusWeight,
		QualityExpectation:   DefaultQualityExpectation,
		Answerability:        DefaultAnswerability,
		Retrievability:       DefaultRetrievability,
		CoverageTarget:       DefaultCoverageTarget,
		CriticalImportance:   DefaultCriticalImportance,
		CriticalGapThreshold: DefaultCriticalGapThreshold,
		StopVoI:              DefaultStopVoI,
		TopKSlots:            DefaultTopKSlots,
		DupSimilarity:        DefaultDupSimilarity,

		MaxTurns:   DefaultMaxTurns,
		TurnBudget: DefaultTurnBudget,
	}
}

// Validate fails fast on misconfiguration so invalid thresholds never reach
// decision time.
func (c Config) Validate() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"filled_threshold", c.FilledThreshold},
		{"importance_floor", c.ImportanceFloor},
		{"belief_width_floor", c.BeliefWidthFloor},
		{"quality_expectation", c.QualityExpectation},
		{"answerability", c.Answerability},
		{"retrievability", c.Retrievability},
		{"coverage_target", c.CoverageTarget},
		{"critical_importance", c.CriticalImportance},
		{"dup_similarity", c.DupSimilarity},
		{"min_sentence_overlap", c.MinSentenceOverlap},
		{"bundle_synergy", c.BundleSynergy},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return fmt.Errorf("config: %s must be in [0,1], got %v", u.name, u.value)
		}
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"ask_cost", c.AskCost},
		{"search_cost", c.SearchCost},
		{"rrf_k", c.RRFK},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %v", p.name, p.value)
		}
	}
	if c.BundleBaseCost < 0 {
		return fmt.Errorf("config: bundle_base_cost must be non-negative, got %v", c.BundleBaseCost)
	}
	if c.StopVoI < 0 {
		return fmt.Errorf("config: stop_voi must be non-negative, got %v", c.StopVoI)
	}
	if c.CriticalWeight < 0 || c.CoverageBonusWeight < 0 {
		return fmt.Errorf("config: critical_weight and coverage_bonus_weight must be non-negative")
	}
	if c.CriticalGapThreshold < 0 {
		return fmt.Errorf("config: critical_gap_threshold must be non-negative, got %v", c.CriticalGapThreshold)
	}
	if c.StalenessTau <= 0 {
		return fmt.Errorf("config: staleness_tau must be positive, got %v", c.StalenessTau)
	}
	if c.FillWeights.Confidence < 0 || c.FillWeights.Match < 0 || c.FillWeights.SourceTrust < 0 {
		return fmt.Errorf("config: fill weights must be non-negative")
	}
	if c.FillWeights.Confidence+c.FillWeights.Match+c.FillWeights.SourceTrust <= 0 {
		return fmt.Errorf("config: fill weights must not all be zero")
	}
	switch c.DeltaModel {
	case DeltaModelLinear, DeltaModelHeuristic:
	default:
		return fmt.Errorf("config: unknown delta model %q", c.DeltaModel)
	}
	if c.DeltaScale <= 0 {
		return fmt.Errorf("config: delta_scale must be positive, got %v", c.DeltaScale)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("config: max_turns must be positive, got %d", c.MaxTurns)
	}
	if c.TurnBudget <= 0 {
		return fmt.Errorf("config: turn_budget must be positive, got %v", c.TurnBudget)
	}
	if c.TopDocs <= 0 || c.TopKSlots <= 0 {
		return fmt.Errorf("config: top_docs and top_k_slots must be positive")
	}
	if c.BundleMaxSize < 2 {
		return fmt.Errorf("config: bundle_max_size must be at least 2, got %d", c.BundleMaxSize)
	}
	if c.RetrievalTimeout <= 0 {
		return fmt.Errorf("config: retrieval_timeout must be positive, got %v", c.RetrievalTimeout)
	}
	if c.RetrievalRetries < 0 {
		return fmt.Errorf("config: retrieval_retries must be non-negative, got %d", c.RetrievalRetries)
	}
	return nil
}
