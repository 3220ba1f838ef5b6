package studytime

import (
	"math"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/domain"
)

// RatioSource computes the three behavioral ratios. Values are not assumed
// to lie in [0, 1]; consumers clamp where required.
type RatioSource interface {
	FocusRatio(events []domain.BehaviorEvent) float64
	InteractionRatio(events []domain.BehaviorEvent) float64
	ContinuityRatio(events []domain.BehaviorEvent) float64
}

// RuleSignals answers the yes/no questions the validator asks.
type RuleSignals interface {
	IsBrowsingOrTesting(events []domain.BehaviorEvent) bool
	HasAuthenticationFailure(events []domain.BehaviorEvent) bool
	CheckInteractionTimeout(events []domain.BehaviorEvent, maxIntervalSeconds int64) behavior.TimeoutCheck
	HasCompletedTest(events []domain.BehaviorEvent) bool
}

// Signals is everything the engine needs from a behavior stream.
type Signals interface {
	RatioSource
	RuleSignals
	BuildEvidenceData(events []domain.BehaviorEvent, totalDuration float64) domain.EvidenceData
}

var _ Signals = (*behavior.Extractor)(nil)

// Result is a validation verdict. A false Valid is an expected business
// outcome, not an error.
type Result struct {
	Valid       bool
	Reason      *domain.InvalidTimeReason
	Description string
}

func validResult() Result {
	return Result{Valid: true}
}

func invalidResult(reason domain.InvalidTimeReason, description string) Result {
	return Result{Valid: false, Reason: &reason, Description: description}
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
