package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/google/uuid"
)

var testSessionCounter atomic.Int64

// RecordOption customizes a record built by NewTestRecord.
type RecordOption func(*domain.StudyTimeRecord)

func WithStudyDate(d time.Time) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.StudyDate = domain.StudyDateOf(d, time.UTC)
		r.StartTime = d
		r.EndTime = d.Add(time.Duration(r.TotalDuration) * time.Second)
	}
}

func WithEffective(seconds float64) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.SetEffectiveDuration(seconds)
	}
}

func WithStatus(s domain.StudyTimeStatus) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.Status = s
	}
}

func WithReason(reason domain.InvalidTimeReason, description string) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.InvalidReason = &reason
		r.Description = description
	}
}

func WithScores(quality, focus float64) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.QualityScore = &quality
		r.FocusScore = &focus
	}
}

func WithSessionID(id string) RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.SessionID = id
	}
}

func ExcludedFromDailyTotal() RecordOption {
	return func(r *domain.StudyTimeRecord) {
		r.IncludeInDailyTotal = false
	}
}

// NewTestRecord builds a valid, fully effective record for userID starting at
// 09:00 UTC on 2025-03-15.
func NewTestRecord(userID string, total float64, opts ...RecordOption) *domain.StudyTimeRecord {
	start := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	ref := domain.SessionRef{
		UserID:    userID,
		SessionID: fmt.Sprintf("sess-%d", testSessionCounter.Add(1)),
		CourseID:  "course-1",
		LessonID:  "lesson-1",
	}
	r := domain.NewStudyTimeRecord(ref, start, start.Add(time.Duration(total)*time.Second), total, time.UTC)
	r.ID = uuid.New().String()
	r.SetEffectiveDuration(total)
	r.Status = domain.StatusValid
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSessionID returns a session id unique within the test binary.
func NewSessionID() string {
	return fmt.Sprintf("sess-%d", testSessionCounter.Add(1))
}

// FocusedEvents returns n click events one minute apart, each reporting
// a ten second duration. The extractor scores them 1.0 on every ratio.
func FocusedEvents(n int) []domain.BehaviorEvent {
	events := make([]domain.BehaviorEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, domain.BehaviorEvent{
			"action":    "click",
			"timestamp": int64(1_700_000_000 + i*60),
			"duration":  10,
		})
	}
	return events
}

// ScenarioEvents yields focus 0.8, interaction 0.9 and continuity 0.95 from
// the default extractor: 36 clicks and 4 window blurs, with 20 timestamp
// gaps of which one exceeds the continuity threshold.
func ScenarioEvents() []domain.BehaviorEvent {
	events := make([]domain.BehaviorEvent, 0, 40)
	base := int64(1_700_000_000)
	offset := int64(0)
	for i := 0; i < 40; i++ {
		e := domain.BehaviorEvent{"action": "click", "duration": 4}
		if i%10 == 9 {
			e = domain.BehaviorEvent{"action": "window_blur", "duration": 9}
		}
		if i < 21 {
			if i == 10 {
				offset += 200
			}
			e["timestamp"] = base + int64(i)*60 + offset
		}
		events = append(events, e)
	}
	return events
}
