package domain

type StudyTimeStatus string

const (
	StatusValid     StudyTimeStatus = "valid"
	StatusInvalid   StudyTimeStatus = "invalid"
	StatusPending   StudyTimeStatus = "pending"
	StatusPartial   StudyTimeStatus = "partial"
	StatusExcluded  StudyTimeStatus = "excluded"
	StatusSuspended StudyTimeStatus = "suspended"
	StatusReviewing StudyTimeStatus = "reviewing"
	StatusApproved  StudyTimeStatus = "approved"
	StatusRejected  StudyTimeStatus = "rejected"
	StatusExpired   StudyTimeStatus = "expired"
)

// AllStudyTimeStatuses lists every status in lifecycle order.
var AllStudyTimeStatuses = []StudyTimeStatus{
	StatusValid, StatusInvalid, StatusPending, StatusPartial, StatusExcluded,
	StatusSuspended, StatusReviewing, StatusApproved, StatusRejected, StatusExpired,
}

// ParseStudyTimeStatus returns the status for s, or false if s is not a known status.
func ParseStudyTimeStatus(s string) (StudyTimeStatus, bool) {
	for _, st := range AllStudyTimeStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transitions are allowed.
func (s StudyTimeStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// CountsTowardTotal reports whether effective time in this status is summed
// into daily and course totals.
func (s StudyTimeStatus) CountsTowardTotal() bool {
	switch s {
	case StatusValid, StatusPartial, StatusApproved:
		return true
	}
	return false
}

// CanTransitionTo reports whether the review workflow may move a record from s to next.
func (s StudyTimeStatus) CanTransitionTo(next StudyTimeStatus) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	if next == StatusExpired {
		return true
	}
	switch s {
	case StatusValid, StatusPartial:
		return next == StatusReviewing
	case StatusPending:
		return next == StatusReviewing || next == StatusSuspended
	case StatusReviewing:
		return next == StatusApproved || next == StatusRejected || next == StatusSuspended
	case StatusSuspended:
		return next == StatusReviewing
	}
	return false
}

func (s StudyTimeStatus) Label() string {
	switch s {
	case StatusValid:
		return "Valid"
	case StatusInvalid:
		return "Invalid"
	case StatusPending:
		return "Pending"
	case StatusPartial:
		return "Partially valid"
	case StatusExcluded:
		return "Excluded"
	case StatusSuspended:
		return "Suspended"
	case StatusReviewing:
		return "Under review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusExpired:
		return "Expired"
	default:
		return string(s)
	}
}

type InvalidTimeReason string

const (
	ReasonBrowsingWebInfo            InvalidTimeReason = "browsing_web_info"
	ReasonIdentityVerificationFailed InvalidTimeReason = "identity_verification_failed"
	ReasonInteractionTimeout         InvalidTimeReason = "interaction_timeout"
	ReasonIncompleteCourseTest       InvalidTimeReason = "incomplete_course_test"
	ReasonDailyLimitExceeded         InvalidTimeReason = "daily_limit_exceeded"
	ReasonWindowInactive             InvalidTimeReason = "window_inactive"
	ReasonMultipleDeviceLogin        InvalidTimeReason = "multiple_device_login"
	ReasonSuspiciousBehavior         InvalidTimeReason = "suspicious_behavior"
	ReasonVideoSeeking               InvalidTimeReason = "video_seeking"
	ReasonPlaybackSpeedAbnormal      InvalidTimeReason = "playback_speed_abnormal"
	ReasonNetworkInterrupted         InvalidTimeReason = "network_interrupted"
	ReasonSessionExpired             InvalidTimeReason = "session_expired"
	ReasonDuplicateSession           InvalidTimeReason = "duplicate_session"
	ReasonManualExclusion            InvalidTimeReason = "manual_exclusion"
	ReasonAnomalyDetected            InvalidTimeReason = "anomaly_detected"
)

// AllInvalidTimeReasons lists every reason a record's time can be disallowed.
var AllInvalidTimeReasons = []InvalidTimeReason{
	ReasonBrowsingWebInfo, ReasonIdentityVerificationFailed, ReasonInteractionTimeout,
	ReasonIncompleteCourseTest, ReasonDailyLimitExceeded, ReasonWindowInactive,
	ReasonMultipleDeviceLogin, ReasonSuspiciousBehavior, ReasonVideoSeeking,
	ReasonPlaybackSpeedAbnormal, ReasonNetworkInterrupted, ReasonSessionExpired,
	ReasonDuplicateSession, ReasonManualExclusion, ReasonAnomalyDetected,
}

// ParseInvalidTimeReason returns the reason for s, or false if s is not a known reason.
func ParseInvalidTimeReason(s string) (InvalidTimeReason, bool) {
	for _, r := range AllInvalidTimeReasons {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

var invalidReasonLabels = map[InvalidTimeReason]string{
	ReasonBrowsingWebInfo:            "Browsing or testing",
	ReasonIdentityVerificationFailed: "Identity verification failed",
	ReasonInteractionTimeout:         "Interaction timeout",
	ReasonIncompleteCourseTest:       "Course test not completed",
	ReasonDailyLimitExceeded:         "Daily limit exceeded",
	ReasonWindowInactive:             "Window inactive",
	ReasonMultipleDeviceLogin:        "Multiple device login",
	ReasonSuspiciousBehavior:         "Suspicious behavior",
	ReasonVideoSeeking:               "Video seeking",
	ReasonPlaybackSpeedAbnormal:      "Abnormal playback speed",
	ReasonNetworkInterrupted:         "Network interrupted",
	ReasonSessionExpired:             "Session expired",
	ReasonDuplicateSession:           "Duplicate session",
	ReasonManualExclusion:            "Manually excluded",
	ReasonAnomalyDetected:            "Anomaly detected",
}

func (r InvalidTimeReason) Label() string {
	if l, ok := invalidReasonLabels[r]; ok {
		return l
	}
	return string(r)
}
