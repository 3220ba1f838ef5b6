package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
)

// StudyTimeRequest describes one closed study session to evaluate.
type StudyTimeRequest struct {
	domain.SessionRef
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// TotalDuration in seconds. Derived from the time window when omitted.
	TotalDuration *float64               `json:"total_duration,omitempty"`
	Behavior      []domain.BehaviorEvent `json:"behavior"`
}

// Duration returns the session length in seconds.
func (r StudyTimeRequest) Duration() float64 {
	if r.TotalDuration != nil {
		return *r.TotalDuration
	}
	return r.EndTime.Sub(r.StartTime).Seconds()
}

type RequestErrorCode string

const (
	RequestErrMissingUser      RequestErrorCode = "MISSING_USER"
	RequestErrMissingSession   RequestErrorCode = "MISSING_SESSION"
	RequestErrInvalidWindow    RequestErrorCode = "INVALID_WINDOW"
	RequestErrNegativeDuration RequestErrorCode = "NEGATIVE_DURATION"
	RequestErrMalformed        RequestErrorCode = "MALFORMED"
)

type RequestError struct {
	Code    RequestErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Validate checks the request shape. Behavior content is never validated
// here; malformed events are tolerated downstream.
func (r StudyTimeRequest) Validate() error {
	if r.UserID == "" {
		return &RequestError{Code: RequestErrMissingUser, Message: "user_id is required"}
	}
	if r.SessionID == "" {
		return &RequestError{Code: RequestErrMissingSession, Message: "session_id is required"}
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() || r.EndTime.Before(r.StartTime) {
		return &RequestError{Code: RequestErrInvalidWindow, Message: "end_time must not precede start_time"}
	}
	if r.Duration() < 0 {
		return &RequestError{Code: RequestErrNegativeDuration, Message: "total_duration must not be negative"}
	}
	return nil
}

// DecodeRequests reads either a single request object or an array of them.
func DecodeRequests(r io.Reader) ([]StudyTimeRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading requests: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &RequestError{Code: RequestErrMalformed, Message: "empty input"}
	}

	if data[0] == '[' {
		var reqs []StudyTimeRequest
		if err := json.Unmarshal(data, &reqs); err != nil {
			return nil, &RequestError{Code: RequestErrMalformed, Message: err.Error()}
		}
		return reqs, nil
	}

	var req StudyTimeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &RequestError{Code: RequestErrMalformed, Message: err.Error()}
	}
	return []StudyTimeRequest{req}, nil
}
