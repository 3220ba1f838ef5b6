package domain

import (
	"math"
	"time"
)

// DateLayout is the storage and display format for study dates.
const DateLayout = "2006-01-02"

// SessionRef identifies the learning session a record belongs to. The IDs are
// opaque references owned by the surrounding platform.
type SessionRef struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	CourseID  string `json:"course_id,omitempty"`
	LessonID  string `json:"lesson_id,omitempty"`
}

// StudyTimeRecord is the effective-time verdict for one closed study session.
type StudyTimeRecord struct {
	ID        string
	UserID    string
	SessionID string
	CourseID  string
	LessonID  string
	StudyDate time.Time

	StartTime         time.Time
	EndTime           time.Time
	TotalDuration     float64
	EffectiveDuration float64
	InvalidDuration   float64

	Status        StudyTimeStatus
	InvalidReason *InvalidTimeReason
	Description   string

	QualityScore     *float64
	FocusScore       *float64
	InteractionScore *float64
	ContinuityScore  *float64

	BehaviorStats []BehaviorEvent
	Evidence      *EvidenceData

	StudentNotified     bool
	IncludeInDailyTotal bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStudyTimeRecord builds an unevaluated record for a session. The study
// date is the calendar day of start in loc.
func NewStudyTimeRecord(ref SessionRef, start, end time.Time, totalDuration float64, loc *time.Location) *StudyTimeRecord {
	if loc == nil {
		loc = time.UTC
	}
	return &StudyTimeRecord{
		UserID:              ref.UserID,
		SessionID:           ref.SessionID,
		CourseID:            ref.CourseID,
		LessonID:            ref.LessonID,
		StudyDate:           StudyDateOf(start, loc),
		StartTime:           start,
		EndTime:             end,
		TotalDuration:       totalDuration,
		InvalidDuration:     totalDuration,
		Status:              StatusPending,
		IncludeInDailyTotal: true,
	}
}

// StudyDateOf truncates t to midnight of its calendar day in loc.
func StudyDateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// SetEffectiveDuration stores effective time and derives invalid time so the
// two always sum to the total. Values are bounded to [0, TotalDuration]; NaN
// counts as zero.
func (r *StudyTimeRecord) SetEffectiveDuration(seconds float64) {
	if math.IsNaN(seconds) {
		seconds = 0
	}
	seconds = math.Max(0, math.Min(seconds, r.TotalDuration))
	r.EffectiveDuration = seconds
	r.InvalidDuration = r.TotalDuration - seconds
}

// Invalidate zeroes effective time and records why.
func (r *StudyTimeRecord) Invalidate(reason InvalidTimeReason, description string) {
	r.SetEffectiveDuration(0)
	r.Status = StatusInvalid
	r.InvalidReason = &reason
	r.Description = description
}

// AppendDescription adds a note to the record's description.
func (r *StudyTimeRecord) AppendDescription(note string) {
	if r.Description == "" {
		r.Description = note
		return
	}
	r.Description = r.Description + "; " + note
}

// CountsTowardTotal reports whether this record's effective time is summed
// into the user's daily total.
func (r *StudyTimeRecord) CountsTowardTotal() bool {
	return r.IncludeInDailyTotal && r.Status.CountsTowardTotal()
}

// DailySummary is the committed effective time for one user on one day.
type DailySummary struct {
	UserID         string
	StudyDate      time.Time
	EffectiveTotal float64
	InvalidTotal   float64
	DailyLimit     float64
	Remaining      float64
	RecordCount    int
	CountedRecords int
}

// UserDailyLimit is a per-user override of the daily effective-time ceiling.
type UserDailyLimit struct {
	UserID       string
	LimitSeconds float64
	UpdatedAt    time.Time
}
