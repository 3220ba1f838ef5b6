package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/stretchr/testify/assert"
)

func usePlain(t *testing.T) {
	t.Helper()
	prev := Plain()
	SetPlain(true)
	t.Cleanup(func() { SetPlain(prev) })
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0s"},
		{-5, "0s"},
		{12, "12s"},
		{59.6, "1m"},
		{2462.4, "41m 2s"},
		{3600, "1h"},
		{28800, "8h"},
		{7500, "2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in), "FormatSeconds(%v)", tt.in)
	}
}

func TestRenderUsage(t *testing.T) {
	usePlain(t)

	assert.Equal(t, "[░░░░]   0%", RenderUsage(0, 100, 4))
	assert.Equal(t, "[██░░]  50%", RenderUsage(50, 100, 4))
	assert.Equal(t, "[████] 100%", RenderUsage(150, 100, 4), "usage is clamped")
	assert.Equal(t, "[░░]   0%", RenderUsage(10, 0, 1), "zero limit and tiny width")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	usePlain(t)

	out := RenderTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, []string{
		"A    LONG",
		"───  ────",
		"xyz  1",
		"q    ",
	}, lines)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestTruncateAndTruncID(t *testing.T) {
	usePlain(t)

	assert.Equal(t, "abcdefgh", TruncID("abcdefgh-1234"))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}

func TestStatusPill(t *testing.T) {
	usePlain(t)

	assert.Equal(t, "● Valid", StatusPill(domain.StatusValid))
	assert.Equal(t, "✖ Invalid", StatusPill(domain.StatusInvalid))
	assert.Equal(t, "✔ Approved", StatusPill(domain.StatusApproved))
	assert.Equal(t, "○ Expired", StatusPill(domain.StatusExpired))
	assert.Equal(t, "● Partially valid", StatusPill(domain.StatusPartial))
}

func sampleRecord() *domain.StudyTimeRecord {
	reason := domain.ReasonDailyLimitExceeded
	q, f := 8.75, 0.8
	return &domain.StudyTimeRecord{
		ID:                "0d4f6a2c-aaaa-bbbb-cccc-000000000001",
		UserID:            "u-1",
		SessionID:         "s-1",
		CourseID:          "c-1",
		StudyDate:         time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalDuration:     5400,
		EffectiveDuration: 1800,
		InvalidDuration:   3600,
		Status:            domain.StatusPartial,
		InvalidReason:     &reason,
		Description:       "partial time exceeds daily limit",
		QualityScore:      &q,
		FocusScore:        &f,
	}
}

func TestFormatRecord(t *testing.T) {
	usePlain(t)

	out := FormatRecord(sampleRecord())
	assert.Contains(t, out, "STUDY TIME")
	assert.Contains(t, out, "2025-03-15")
	assert.Contains(t, out, "● Partially valid")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "Daily limit exceeded")
	assert.Contains(t, out, "partial time exceeds daily limit")
	assert.Contains(t, out, "8.75 / 10")
	assert.Contains(t, out, "c-1")
}

func TestFormatRecordList(t *testing.T) {
	usePlain(t)

	assert.Equal(t, "No records found.\n", FormatRecordList(nil))

	out := FormatRecordList([]*domain.StudyTimeRecord{sampleRecord()})
	assert.Contains(t, out, "EFFECTIVE")
	assert.Contains(t, out, "0d4f6a2c")
	assert.NotContains(t, out, "0d4f6a2c-aaaa")
	assert.Contains(t, out, "8.8")
}

func TestFormatBatch(t *testing.T) {
	usePlain(t)

	res := &contract.BatchResult{
		Items: []contract.BatchItemResult{
			{Index: 0, SessionID: "s-1", Record: sampleRecord()},
			{Index: 1, SessionID: "s-2", Err: errors.New("duplicate session")},
		},
		Succeeded: 1,
		Failed:    1,
	}
	out := FormatBatch(res)
	assert.Contains(t, out, "s-2")
	assert.Contains(t, out, "✖ Error")
	assert.Contains(t, out, "duplicate session")
	assert.Contains(t, out, "1 processed, 1 failed")
}

func TestFormatDailySummary(t *testing.T) {
	usePlain(t)

	out := FormatDailySummary(&domain.DailySummary{
		UserID:         "u-1",
		StudyDate:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EffectiveTotal: 27000,
		DailyLimit:     28800,
		Remaining:      1800,
		RecordCount:    5,
		CountedRecords: 4,
	})
	assert.Contains(t, out, "DAILY STUDY TIME")
	assert.Contains(t, out, "7h 30m")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, " 94%")
	assert.Contains(t, out, "5 records, 4 counted")
}

func TestFormatLimit(t *testing.T) {
	usePlain(t)

	assert.Equal(t, "u-1  8h (28800s, default)\n", FormatLimit("u-1", 28800, false))
	assert.Equal(t, "u-2  2h (7200s, override)\n", FormatLimit("u-2", 7200, true))
}
