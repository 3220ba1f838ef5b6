// Package behavior derives study-quality signals from raw player and page
// behavior events. Every function is pure: no state, no I/O.
package behavior

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/studytime/internal/domain"
)

const (
	// DefaultContinuityGapSeconds is the largest pause between consecutive
	// events that still counts as continuous study.
	DefaultContinuityGapSeconds = 120
)

// Action sets recognised by the extractor.
var (
	DefaultUnfocusedActions = []string{
		"window_blur", "mouse_leave", "tab_switch", "page_hidden",
		"visibility_hidden", "minimize", "idle",
	}
	DefaultInteractiveActions = []string{
		"click", "scroll", "key_press", "video_control", "play", "pause",
		"seek", "volume_change", "rate_change", "mouse_move", "answer",
	}
	DefaultBrowsingActions = []string{
		"browse_info", "view_materials", "take_test", "quiz_attempt",
		"browse_web_info", "view_course_info",
	}
	DefaultAuthFailureActions = []string{
		"auth_failed", "face_verify_failed", "identity_mismatch",
	}
	DefaultTestCompletionActions = []string{
		"test_completed", "quiz_completed", "exam_submitted",
	}
)

// Config tunes the extractor. Zero-valued fields fall back to defaults.
type Config struct {
	UnfocusedActions      []string
	InteractiveActions    []string
	BrowsingActions       []string
	AuthFailureActions    []string
	TestCompletionActions []string
	ContinuityGapSeconds  int64
}

// Extractor computes behavior signals using a fixed set of action
// vocabularies. It is safe for concurrent use.
type Extractor struct {
	unfocused      map[string]bool
	interactive    map[string]bool
	browsing       map[string]bool
	authFailure    map[string]bool
	testCompletion map[string]bool
	continuityGap  int64
}

// NewExtractor builds an Extractor from cfg.
func NewExtractor(cfg Config) *Extractor {
	gap := cfg.ContinuityGapSeconds
	if gap <= 0 {
		gap = DefaultContinuityGapSeconds
	}
	return &Extractor{
		unfocused:      actionSet(cfg.UnfocusedActions, DefaultUnfocusedActions),
		interactive:    actionSet(cfg.InteractiveActions, DefaultInteractiveActions),
		browsing:       actionSet(cfg.BrowsingActions, DefaultBrowsingActions),
		authFailure:    actionSet(cfg.AuthFailureActions, DefaultAuthFailureActions),
		testCompletion: actionSet(cfg.TestCompletionActions, DefaultTestCompletionActions),
		continuityGap:  gap,
	}
}

// NewDefaultExtractor returns an Extractor with the default vocabularies.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(Config{})
}

func actionSet(actions, fallback []string) map[string]bool {
	if len(actions) == 0 {
		actions = fallback
	}
	set := make(map[string]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// FocusRatio is the share of reported duration spent outside focus-loss
// actions. Events without a usable duration contribute nothing. Returns 0
// when no duration was reported at all or the sums overflow.
func (x *Extractor) FocusRatio(events []domain.BehaviorEvent) float64 {
	var focused, total float64
	for _, e := range events {
		d, ok := e.Duration()
		if !ok {
			continue
		}
		total += d
		if !x.unfocused[e.Action()] {
			focused += d
		}
	}
	if total == 0 || math.IsInf(total, 0) || math.IsInf(focused, 0) {
		return 0
	}
	return focused / total
}

// InteractionRatio is the share of events that are deliberate interactions.
func (x *Extractor) InteractionRatio(events []domain.BehaviorEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var n int
	for _, e := range events {
		if x.interactive[e.Action()] {
			n++
		}
	}
	return float64(n) / float64(len(events))
}

// ContinuityRatio is 1 minus the share of consecutive timestamped event
// pairs separated by more than the continuity gap. Events without a
// timestamp are skipped. Returns 0 for no events and 1 when fewer than two
// events carry a timestamp.
func (x *Extractor) ContinuityRatio(events []domain.BehaviorEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	ts := sortedTimestamps(events)
	if len(ts) < 2 {
		return 1
	}
	pairs := len(ts) - 1
	var gaps int
	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] > x.continuityGap {
			gaps++
		}
	}
	return 1 - float64(gaps)/float64(pairs)
}

// IsBrowsingOrTesting reports whether any event marks information browsing
// or test taking, which never counts as study time.
func (x *Extractor) IsBrowsingOrTesting(events []domain.BehaviorEvent) bool {
	return x.anyAction(events, x.browsing)
}

// HasAuthenticationFailure reports whether identity verification failed
// during the session.
func (x *Extractor) HasAuthenticationFailure(events []domain.BehaviorEvent) bool {
	return x.anyAction(events, x.authFailure)
}

// HasCompletedTest reports whether the session contains a completed course test.
func (x *Extractor) HasCompletedTest(events []domain.BehaviorEvent) bool {
	return x.anyAction(events, x.testCompletion)
}

func (x *Extractor) anyAction(events []domain.BehaviorEvent, set map[string]bool) bool {
	for _, e := range events {
		if set[e.Action()] {
			return true
		}
	}
	return false
}

// TimeoutCheck is the outcome of an interaction-timeout scan.
type TimeoutCheck struct {
	Valid       bool
	Description string
}

// CheckInteractionTimeout reports an invalid result when two consecutive
// timestamped events are more than maxIntervalSeconds apart.
func (x *Extractor) CheckInteractionTimeout(events []domain.BehaviorEvent, maxIntervalSeconds int64) TimeoutCheck {
	ts := sortedTimestamps(events)
	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] > maxIntervalSeconds {
			return TimeoutCheck{
				Valid:       false,
				Description: fmt.Sprintf("interaction gap exceeded %d seconds", maxIntervalSeconds),
			}
		}
	}
	return TimeoutCheck{Valid: true}
}

// BuildEvidenceData summarizes events for audit. Interaction frequency is
// events per minute of totalDuration, or 0 when the duration is not positive.
func (x *Extractor) BuildEvidenceData(events []domain.BehaviorEvent, totalDuration float64) domain.EvidenceData {
	ev := domain.EvidenceData{
		EventCount: len(events),
		Actions:    []string{},
	}

	seen := make(map[string]bool)
	for _, e := range events {
		a := e.Action()
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		ev.Actions = append(ev.Actions, a)
	}
	sort.Strings(ev.Actions)

	if ts := sortedTimestamps(events); len(ts) > 0 {
		ev.TimestampRange = &domain.TimestampRange{Start: ts[0], End: ts[len(ts)-1]}
	}

	if minutes := totalDuration / 60; minutes > 0 {
		ev.InteractionFrequency = float64(len(events)) / minutes
	}
	return ev
}

// sortedTimestamps returns the timestamps of all events that carry one, in
// ascending order.
func sortedTimestamps(events []domain.BehaviorEvent) []int64 {
	ts := make([]int64, 0, len(events))
	for _, e := range events {
		if t, ok := e.Timestamp(); ok {
			ts = append(ts, t)
		}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	return ts
}
