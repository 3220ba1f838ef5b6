package studytime

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/domain"
)

// fakeSignals returns canned answers and counts how often each rule signal
// is consulted.
type fakeSignals struct {
	focus, interaction, continuity float64

	browsing    bool
	authFailure bool
	timeout     behavior.TimeoutCheck
	testDone    bool

	browsingCalls, authCalls, timeoutCalls, testCalls int
	lastTimeout                                       int64
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{focus: 1, interaction: 1, continuity: 1, timeout: behavior.TimeoutCheck{Valid: true}}
}

func (f *fakeSignals) FocusRatio([]domain.BehaviorEvent) float64       { return f.focus }
func (f *fakeSignals) InteractionRatio([]domain.BehaviorEvent) float64 { return f.interaction }
func (f *fakeSignals) ContinuityRatio([]domain.BehaviorEvent) float64  { return f.continuity }

func (f *fakeSignals) IsBrowsingOrTesting([]domain.BehaviorEvent) bool {
	f.browsingCalls++
	return f.browsing
}

func (f *fakeSignals) HasAuthenticationFailure([]domain.BehaviorEvent) bool {
	f.authCalls++
	return f.authFailure
}

func (f *fakeSignals) CheckInteractionTimeout(_ []domain.BehaviorEvent, max int64) behavior.TimeoutCheck {
	f.timeoutCalls++
	f.lastTimeout = max
	return f.timeout
}

func (f *fakeSignals) HasCompletedTest([]domain.BehaviorEvent) bool {
	f.testCalls++
	return f.testDone
}

func (f *fakeSignals) BuildEvidenceData(events []domain.BehaviorEvent, total float64) domain.EvidenceData {
	return domain.EvidenceData{EventCount: len(events)}
}

type fakeAggregates struct {
	seconds float64
	err     error
	calls   int
}

func (f *fakeAggregates) DailyEffectiveTime(context.Context, string, time.Time, string) (float64, error) {
	f.calls++
	return f.seconds, f.err
}

type fakeLimits struct {
	seconds float64
	err     error
}

func (f *fakeLimits) UserDailyLimit(context.Context, string) (float64, error) {
	return f.seconds, f.err
}

var errUnavailable = errors.New("store unavailable")

func newRecord(total float64) *domain.StudyTimeRecord {
	start := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	return domain.NewStudyTimeRecord(
		domain.SessionRef{UserID: "u-1", SessionID: "s-1"},
		start, start.Add(time.Duration(total)*time.Second), total, time.UTC,
	)
}
