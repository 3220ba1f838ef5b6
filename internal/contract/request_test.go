package contract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleRequest = `{
	"user_id": "u-1",
	"session_id": "s-1",
	"course_id": "c-1",
	"start_time": "2025-03-15T09:00:00Z",
	"end_time": "2025-03-15T10:00:00Z",
	"behavior": [
		{"action": "click", "timestamp": 1700000000, "duration": 4},
		{"action": "window_blur", "timestamp": "1700000060", "duration": "9"}
	]
}`

func TestDecodeRequests_SingleObject(t *testing.T) {
	reqs, err := DecodeRequests(strings.NewReader(singleRequest))
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	req := reqs[0]
	assert.Equal(t, "u-1", req.UserID)
	assert.Equal(t, "s-1", req.SessionID)
	assert.Equal(t, "c-1", req.CourseID)
	assert.Equal(t, 3600.0, req.Duration(), "derived from the window")
	require.Len(t, req.Behavior, 2)
	assert.Equal(t, "window_blur", req.Behavior[1].Action())
	d, ok := req.Behavior[1].Duration()
	assert.True(t, ok)
	assert.Equal(t, 9.0, d)
	assert.NoError(t, req.Validate())
}

func TestDecodeRequests_Array(t *testing.T) {
	reqs, err := DecodeRequests(strings.NewReader("[" + singleRequest + "," + singleRequest + "]"))
	require.NoError(t, err)
	assert.Len(t, reqs, 2)
}

func TestDecodeRequests_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "{not json", "[1, 2]"} {
		_, err := DecodeRequests(strings.NewReader(in))
		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr), "input %q", in)
		assert.Equal(t, RequestErrMalformed, reqErr.Code)
	}
}

func TestStudyTimeRequest_ExplicitDurationWins(t *testing.T) {
	total := 1800.0
	req := validRequest()
	req.TotalDuration = &total
	assert.Equal(t, 1800.0, req.Duration())
}

func TestStudyTimeRequest_Validate(t *testing.T) {
	negative := -5.0
	tests := []struct {
		name   string
		mutate func(*StudyTimeRequest)
		want   RequestErrorCode
	}{
		{"missing user", func(r *StudyTimeRequest) { r.UserID = "" }, RequestErrMissingUser},
		{"missing session", func(r *StudyTimeRequest) { r.SessionID = "" }, RequestErrMissingSession},
		{"end before start", func(r *StudyTimeRequest) { r.EndTime = r.StartTime.Add(-time.Second) }, RequestErrInvalidWindow},
		{"zero start", func(r *StudyTimeRequest) { r.StartTime = time.Time{} }, RequestErrInvalidWindow},
		{"negative duration", func(r *StudyTimeRequest) { r.TotalDuration = &negative }, RequestErrNegativeDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			var reqErr *RequestError
			require.True(t, errors.As(req.Validate(), &reqErr))
			assert.Equal(t, tt.want, reqErr.Code)
		})
	}
}

func TestBatchResult_Errors(t *testing.T) {
	boom := errors.New("boom")
	b := BatchResult{Items: []BatchItemResult{
		{Index: 0, SessionID: "a"},
		{Index: 1, SessionID: "b", Err: boom},
		{Index: 2, SessionID: "c"},
	}}
	failed := b.Errors()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
}

func validRequest() StudyTimeRequest {
	start := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	req := StudyTimeRequest{StartTime: start, EndTime: start.Add(time.Hour)}
	req.UserID = "u-1"
	req.SessionID = "s-1"
	return req
}
