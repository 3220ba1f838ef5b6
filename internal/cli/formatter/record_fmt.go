package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/domain"
)

const dailyUsageBarWidth = 20

// FormatRecord renders the full verdict for one session.
func FormatRecord(rec *domain.StudyTimeRecord) string {
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value)
	}

	line("Record", rec.ID)
	line("User", rec.UserID)
	line("Session", rec.SessionID)
	if rec.CourseID != "" || rec.LessonID != "" {
		line("Course", strings.TrimSuffix(rec.CourseID+" / "+rec.LessonID, " / "))
	}
	line("Study date", FormatDate(rec.StudyDate))
	line("Status", StatusPill(rec.Status))
	b.WriteString("\n")

	line("Total", FormatSeconds(rec.TotalDuration))
	line("Effective", render(StyleGreen, FormatSeconds(rec.EffectiveDuration)))
	line("Invalid", FormatSeconds(rec.InvalidDuration))
	if rec.InvalidReason != nil {
		line("Reason", ReasonLabel(rec.InvalidReason))
	}
	if rec.Description != "" {
		line("Note", rec.Description)
	}

	if rec.QualityScore != nil {
		b.WriteString("\n")
		line("Quality", FormatScore(rec.QualityScore, 2)+Dim(" / 10"))
		line("Focus", FormatScore(rec.FocusScore, 2))
		line("Interaction", FormatScore(rec.InteractionScore, 2))
		line("Continuity", FormatScore(rec.ContinuityScore, 2))
	}

	return RenderBox("Study Time", b.String())
}

// FormatRecordList renders records as a table.
func FormatRecordList(recs []*domain.StudyTimeRecord) string {
	if len(recs) == 0 {
		return Dim("No records found.") + "\n"
	}
	headers := []string{"ID", "USER", "DATE", "STATUS", "TOTAL", "EFFECTIVE", "QUALITY", "REASON"}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			TruncID(r.ID),
			r.UserID,
			FormatDate(r.StudyDate),
			StatusPill(r.Status),
			FormatSeconds(r.TotalDuration),
			FormatSeconds(r.EffectiveDuration),
			FormatScore(r.QualityScore, 1),
			ReasonLabel(r.InvalidReason),
		})
	}
	return RenderTable(headers, rows)
}

// FormatBatch renders per-item outcomes of a batch in request order.
func FormatBatch(res *contract.BatchResult) string {
	headers := []string{"#", "SESSION", "STATUS", "EFFECTIVE", "DETAIL"}
	rows := make([][]string, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Err != nil {
			rows = append(rows, []string{
				fmt.Sprintf("%d", it.Index),
				it.SessionID,
				render(StyleRed, "✖ Error"),
				Dim("--"),
				Truncate(it.Err.Error(), 60),
			})
			continue
		}
		detail := ""
		if it.Record.InvalidReason != nil {
			detail = ReasonLabel(it.Record.InvalidReason)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", it.Index),
			it.SessionID,
			StatusPill(it.Record.Status),
			FormatSeconds(it.Record.EffectiveDuration),
			detail,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s, %s\n",
		render(StyleGreen, fmt.Sprintf("%d processed", res.Succeeded)),
		render(StyleRed, fmt.Sprintf("%d failed", res.Failed)),
	)
	return b.String()
}

// FormatDailySummary renders a user's committed effective time against the limit.
func FormatDailySummary(s *domain.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(s.UserID), Dim(FormatDate(s.StudyDate)))
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", "Effective")), FormatSeconds(s.EffectiveTotal))
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", "Limit")), FormatSeconds(s.DailyLimit))
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", "Remaining")), FormatSeconds(s.Remaining))
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", "Invalid")), FormatSeconds(s.InvalidTotal))
	fmt.Fprintf(&b, "\n%s\n", RenderUsage(s.EffectiveTotal, s.DailyLimit, dailyUsageBarWidth))
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d records, %d counted", s.RecordCount, s.CountedRecords)))
	return RenderBox("Daily Study Time", b.String())
}

// FormatLimit renders a user's daily limit.
func FormatLimit(userID string, seconds float64, override bool) string {
	source := "default"
	if override {
		source = "override"
	}
	return fmt.Sprintf("%s  %s %s\n", Bold(userID), FormatSeconds(seconds), Dim(fmt.Sprintf("(%.0fs, %s)", seconds, source)))
}
