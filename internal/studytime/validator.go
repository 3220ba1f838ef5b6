package studytime

import "github.com/alexanderramin/studytime/internal/domain"

const (
	descBrowsingExcluded   = "browsing/testing time excluded from effective study time."
	descIdentityFailed     = "identity verification failed during the session."
	descInteractionTimeout = "interaction timeout exceeded."
	descIncompleteTest     = "course test required but not completed."
)

// TestPolicy decides whether a record's course requires a completed test
// before its time counts.
type TestPolicy interface {
	IsTestRequired(rec *domain.StudyTimeRecord) bool
}

// TestPolicyFunc adapts a function to TestPolicy.
type TestPolicyFunc func(rec *domain.StudyTimeRecord) bool

func (f TestPolicyFunc) IsTestRequired(rec *domain.StudyTimeRecord) bool {
	return f(rec)
}

// NoTestRequired never requires a test. It is the default policy until
// course test configuration is available.
type NoTestRequired struct{}

func (NoTestRequired) IsTestRequired(*domain.StudyTimeRecord) bool { return false }

// Validator applies the ordered rule chain that decides whether a session's
// time counts at all. The first failing rule wins.
type Validator struct {
	signals        RuleSignals
	tests          TestPolicy
	timeoutSeconds int64
}

// NewValidator creates a Validator. A nil tests policy means NoTestRequired;
// a non-positive timeout means DefaultInteractionTimeoutSeconds.
func NewValidator(signals RuleSignals, tests TestPolicy, timeoutSeconds int64) *Validator {
	if tests == nil {
		tests = NoTestRequired{}
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultInteractionTimeoutSeconds
	}
	return &Validator{signals: signals, tests: tests, timeoutSeconds: timeoutSeconds}
}

// ValidateStudyTime evaluates rec and its behavior events. rec is not modified.
func (v *Validator) ValidateStudyTime(rec *domain.StudyTimeRecord, events []domain.BehaviorEvent) Result {
	if v.signals.IsBrowsingOrTesting(events) {
		return invalidResult(domain.ReasonBrowsingWebInfo, descBrowsingExcluded)
	}

	if v.signals.HasAuthenticationFailure(events) {
		return invalidResult(domain.ReasonIdentityVerificationFailed, descIdentityFailed)
	}

	if check := v.signals.CheckInteractionTimeout(events, v.timeoutSeconds); !check.Valid {
		return invalidResult(domain.ReasonInteractionTimeout,
			domain.CoalesceStr(check.Description, descInteractionTimeout))
	}

	if v.tests.IsTestRequired(rec) && !v.signals.HasCompletedTest(events) {
		return invalidResult(domain.ReasonIncompleteCourseTest, descIncompleteTest)
	}

	return validResult()
}
