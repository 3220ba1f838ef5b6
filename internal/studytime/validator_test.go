package studytime

import (
	"testing"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_BrowsingShortCircuits(t *testing.T) {
	sig := newFakeSignals()
	sig.browsing = true
	sig.authFailure = true
	sig.timeout = behavior.TimeoutCheck{Valid: false}

	v := NewValidator(sig, TestPolicyFunc(func(*domain.StudyTimeRecord) bool { return true }), 300)
	res := v.ValidateStudyTime(newRecord(600), nil)

	assert.False(t, res.Valid)
	require.NotNil(t, res.Reason)
	assert.Equal(t, domain.ReasonBrowsingWebInfo, *res.Reason)
	assert.Equal(t, "browsing/testing time excluded from effective study time.", res.Description)

	assert.Equal(t, 1, sig.browsingCalls)
	assert.Equal(t, 0, sig.authCalls, "auth check must not run after browsing rejection")
	assert.Equal(t, 0, sig.timeoutCalls, "timeout check must not run after browsing rejection")
	assert.Equal(t, 0, sig.testCalls, "test check must not run after browsing rejection")
}

func TestValidator_RuleOrder(t *testing.T) {
	always := TestPolicyFunc(func(*domain.StudyTimeRecord) bool { return true })

	tests := []struct {
		name     string
		setup    func(*fakeSignals)
		tests    TestPolicy
		want     *domain.InvalidTimeReason
		wantDesc string
	}{
		{
			name:     "auth failure",
			setup:    func(f *fakeSignals) { f.authFailure = true; f.timeout = behavior.TimeoutCheck{} },
			want:     reasonPtr(domain.ReasonIdentityVerificationFailed),
			wantDesc: descIdentityFailed,
		},
		{
			name: "timeout with description",
			setup: func(f *fakeSignals) {
				f.timeout = behavior.TimeoutCheck{Valid: false, Description: "interaction gap exceeded 300 seconds"}
			},
			want:     reasonPtr(domain.ReasonInteractionTimeout),
			wantDesc: "interaction gap exceeded 300 seconds",
		},
		{
			name:     "timeout without description uses fallback",
			setup:    func(f *fakeSignals) { f.timeout = behavior.TimeoutCheck{Valid: false} },
			want:     reasonPtr(domain.ReasonInteractionTimeout),
			wantDesc: descInteractionTimeout,
		},
		{
			name:     "test required and missing",
			setup:    func(f *fakeSignals) {},
			tests:    always,
			want:     reasonPtr(domain.ReasonIncompleteCourseTest),
			wantDesc: descIncompleteTest,
		},
		{
			name:  "test required and completed",
			setup: func(f *fakeSignals) { f.testDone = true },
			tests: always,
		},
		{
			name:  "default policy never requires a test",
			setup: func(f *fakeSignals) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := newFakeSignals()
			tt.setup(sig)
			res := NewValidator(sig, tt.tests, 0).ValidateStudyTime(newRecord(600), nil)

			if tt.want == nil {
				assert.True(t, res.Valid)
				assert.Nil(t, res.Reason)
				assert.Empty(t, res.Description)
				return
			}
			assert.False(t, res.Valid)
			require.NotNil(t, res.Reason)
			assert.Equal(t, *tt.want, *res.Reason)
			assert.Equal(t, tt.wantDesc, res.Description)
		})
	}
}

func TestValidator_DefaultTestPolicySkipsCompletionCheck(t *testing.T) {
	sig := newFakeSignals()
	res := NewValidator(sig, nil, 0).ValidateStudyTime(newRecord(600), nil)

	assert.True(t, res.Valid)
	assert.Equal(t, 0, sig.testCalls)
	assert.Equal(t, int64(DefaultInteractionTimeoutSeconds), sig.lastTimeout)
}

func TestValidator_WithRealExtractor(t *testing.T) {
	v := NewValidator(behavior.NewDefaultExtractor(), nil, 300)

	gap := []domain.BehaviorEvent{
		{"action": "play", "timestamp": 0},
		{"action": "click", "timestamp": 400},
	}
	res := v.ValidateStudyTime(newRecord(600), gap)
	assert.False(t, res.Valid)
	assert.Equal(t, domain.ReasonInteractionTimeout, *res.Reason)
	assert.Equal(t, "interaction gap exceeded 300 seconds", res.Description)

	ok := []domain.BehaviorEvent{
		{"action": "play", "timestamp": 0},
		{"action": "click", "timestamp": 200},
	}
	assert.True(t, v.ValidateStudyTime(newRecord(600), ok).Valid)
}

func reasonPtr(r domain.InvalidTimeReason) *domain.InvalidTimeReason {
	return &r
}
