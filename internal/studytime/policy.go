// Package studytime decides how much of a closed study session counts as
// effective learning time: a validation gate, quality scoring, effective
// time calculation and daily cap enforcement.
package studytime

import "github.com/alexanderramin/studytime/internal/behavior"

// Defaults applied when a deployment does not override them.
const (
	DefaultDailyLimitSeconds         = 28800.0
	DefaultInteractionTimeoutSeconds = 300
	DefaultContinuityGapSeconds      = behavior.DefaultContinuityGapSeconds

	DefaultFocusWeight       = 0.4
	DefaultInteractionWeight = 0.3
	DefaultContinuityWeight  = 0.3

	DefaultReviewScoreThreshold = 6.0
	DefaultReviewFocusThreshold = 0.7

	MaxQualityScore = 10.0
)

// Policy holds the tunable constants of the engine.
type Policy struct {
	DailyLimitSeconds         float64 `yaml:"daily_limit_seconds"`
	InteractionTimeoutSeconds int64   `yaml:"interaction_timeout_seconds"`
	ContinuityGapSeconds      int64   `yaml:"continuity_gap_seconds"`
	Weights                   Weights `yaml:"weights"`
	ReviewScoreThreshold      float64 `yaml:"review_score_threshold"`
	ReviewFocusThreshold      float64 `yaml:"review_focus_threshold"`
}

// Weights are the contributions of each behavioral ratio to the composite
// quality score. They are expected to sum to 1.
type Weights struct {
	Focus       float64 `yaml:"focus"`
	Interaction float64 `yaml:"interaction"`
	Continuity  float64 `yaml:"continuity"`
}

func DefaultWeights() Weights {
	return Weights{
		Focus:       DefaultFocusWeight,
		Interaction: DefaultInteractionWeight,
		Continuity:  DefaultContinuityWeight,
	}
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		DailyLimitSeconds:         DefaultDailyLimitSeconds,
		InteractionTimeoutSeconds: DefaultInteractionTimeoutSeconds,
		ContinuityGapSeconds:      DefaultContinuityGapSeconds,
		Weights:                   DefaultWeights(),
		ReviewScoreThreshold:      DefaultReviewScoreThreshold,
		ReviewFocusThreshold:      DefaultReviewFocusThreshold,
	}
}

// WithDefaults fills zero-valued fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.DailyLimitSeconds <= 0 {
		p.DailyLimitSeconds = d.DailyLimitSeconds
	}
	if p.InteractionTimeoutSeconds <= 0 {
		p.InteractionTimeoutSeconds = d.InteractionTimeoutSeconds
	}
	if p.ContinuityGapSeconds <= 0 {
		p.ContinuityGapSeconds = d.ContinuityGapSeconds
	}
	if p.Weights == (Weights{}) {
		p.Weights = d.Weights
	}
	if p.ReviewScoreThreshold <= 0 {
		p.ReviewScoreThreshold = d.ReviewScoreThreshold
	}
	if p.ReviewFocusThreshold <= 0 {
		p.ReviewFocusThreshold = d.ReviewFocusThreshold
	}
	return p
}
