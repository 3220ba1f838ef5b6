package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studytime/internal/db"
	"github.com/alexanderramin/studytime/internal/domain"
)

// SQLiteStudyTimeRepo implements StudyTimeRecordRepo using a SQLite database.
type SQLiteStudyTimeRepo struct {
	db db.DBTX
}

// NewSQLiteStudyTimeRepo creates a new SQLiteStudyTimeRepo.
func NewSQLiteStudyTimeRepo(conn db.DBTX) *SQLiteStudyTimeRepo {
	return &SQLiteStudyTimeRepo{db: conn}
}

const recordColumns = `id, user_id, session_id, course_id, lesson_id, study_date, start_time, end_time,
	total_duration, effective_duration, invalid_duration, status, invalid_reason, description,
	quality_score, focus_score, interaction_score, continuity_score, behavior_stats, evidence,
	student_notified, include_in_daily_total, created_at, updated_at`

// countedStatuses is the SQL rendering of StudyTimeStatus.CountsTowardTotal.
const countedStatuses = `('valid','partial','approved')`

func (r *SQLiteStudyTimeRepo) Create(ctx context.Context, rec *domain.StudyTimeRecord) error {
	stats, evidence, err := encodePayload(rec)
	if err != nil {
		return err
	}
	query := `INSERT INTO study_time_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.SessionID,
		rec.CourseID,
		rec.LessonID,
		rec.StudyDate.Format(domain.DateLayout),
		rec.StartTime.UTC().Format(time.RFC3339),
		rec.EndTime.UTC().Format(time.RFC3339),
		rec.TotalDuration,
		rec.EffectiveDuration,
		rec.InvalidDuration,
		string(rec.Status),
		reasonToValue(rec.InvalidReason),
		rec.Description,
		nullableFloatToValue(rec.QualityScore),
		nullableFloatToValue(rec.FocusScore),
		nullableFloatToValue(rec.InteractionScore),
		nullableFloatToValue(rec.ContinuityScore),
		stats,
		evidence,
		boolToInt(rec.StudentNotified),
		boolToInt(rec.IncludeInDailyTotal),
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: study_time_records.session_id") {
			return fmt.Errorf("session %s: %w", rec.SessionID, ErrDuplicateSession)
		}
		return fmt.Errorf("inserting study time record: %w", err)
	}
	return nil
}

func (r *SQLiteStudyTimeRepo) GetByID(ctx context.Context, id string) (*domain.StudyTimeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM study_time_records WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteStudyTimeRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.StudyTimeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM study_time_records WHERE session_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID))
}

func (r *SQLiteStudyTimeRepo) ListByUserDate(ctx context.Context, userID string, studyDate time.Time) ([]*domain.StudyTimeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM study_time_records
		WHERE user_id = ? AND study_date = ? ORDER BY start_time, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, studyDate.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing records by user date: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *SQLiteStudyTimeRepo) ListByStatus(ctx context.Context, status domain.StudyTimeStatus, limit int) ([]*domain.StudyTimeRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + recordColumns + ` FROM study_time_records
		WHERE status = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("listing records by status: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *SQLiteStudyTimeRepo) ListRecent(ctx context.Context, userID string, days int) ([]*domain.StudyTimeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM study_time_records
		WHERE user_id = ? AND study_date >= date('now', ? || ' days')
		ORDER BY study_date DESC, start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, fmt.Sprintf("-%d", days))
	if err != nil {
		return nil, fmt.Errorf("listing recent records: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *SQLiteStudyTimeRepo) Update(ctx context.Context, rec *domain.StudyTimeRecord) error {
	stats, evidence, err := encodePayload(rec)
	if err != nil {
		return err
	}
	query := `UPDATE study_time_records SET effective_duration = ?, invalid_duration = ?, status = ?,
		invalid_reason = ?, description = ?, quality_score = ?, focus_score = ?, interaction_score = ?,
		continuity_score = ?, behavior_stats = ?, evidence = ?, student_notified = ?,
		include_in_daily_total = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rec.EffectiveDuration,
		rec.InvalidDuration,
		string(rec.Status),
		reasonToValue(rec.InvalidReason),
		rec.Description,
		nullableFloatToValue(rec.QualityScore),
		nullableFloatToValue(rec.FocusScore),
		nullableFloatToValue(rec.InteractionScore),
		nullableFloatToValue(rec.ContinuityScore),
		stats,
		evidence,
		boolToInt(rec.StudentNotified),
		boolToInt(rec.IncludeInDailyTotal),
		rec.UpdatedAt.UTC().Format(time.RFC3339),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating study time record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("study time record: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteStudyTimeRepo) DailyEffectiveTime(ctx context.Context, userID string, studyDate time.Time, excludeID string) (float64, error) {
	query := `SELECT COALESCE(SUM(effective_duration), 0) FROM study_time_records
		WHERE user_id = ? AND study_date = ? AND id != ?
		  AND include_in_daily_total = 1 AND status IN ` + countedStatuses
	var total float64
	err := r.db.QueryRowContext(ctx, query, userID, studyDate.Format(domain.DateLayout), excludeID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing daily effective time: %w", err)
	}
	return total, nil
}

func (r *SQLiteStudyTimeRepo) DailyTotals(ctx context.Context, userID string, studyDate time.Time) (DailyTotals, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN include_in_daily_total = 1 AND status IN ` + countedStatuses + ` THEN effective_duration ELSE 0 END), 0),
		COALESCE(SUM(invalid_duration), 0),
		COUNT(*),
		COALESCE(SUM(CASE WHEN include_in_daily_total = 1 AND status IN ` + countedStatuses + ` THEN 1 ELSE 0 END), 0)
		FROM study_time_records WHERE user_id = ? AND study_date = ?`
	var t DailyTotals
	err := r.db.QueryRowContext(ctx, query, userID, studyDate.Format(domain.DateLayout)).
		Scan(&t.EffectiveTotal, &t.InvalidTotal, &t.RecordCount, &t.CountedRecords)
	if err != nil {
		return DailyTotals{}, fmt.Errorf("reading daily totals: %w", err)
	}
	return t, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteStudyTimeRepo) scanOne(row *sql.Row) (*domain.StudyTimeRecord, error) {
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("study time record: %w", ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteStudyTimeRepo) scanMany(rows *sql.Rows) ([]*domain.StudyTimeRecord, error) {
	var records []*domain.StudyTimeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study time records: %w", err)
	}
	return records, nil
}

func scanRecord(s scanner) (*domain.StudyTimeRecord, error) {
	var rec domain.StudyTimeRecord
	var studyDateStr, startStr, endStr, statusStr, statsStr, createdAtStr, updatedAtStr string
	var reasonStr, evidenceStr sql.NullString
	var quality, focus, interaction, continuity sql.NullFloat64
	var notified, included int

	err := s.Scan(
		&rec.ID, &rec.UserID, &rec.SessionID, &rec.CourseID, &rec.LessonID,
		&studyDateStr, &startStr, &endStr,
		&rec.TotalDuration, &rec.EffectiveDuration, &rec.InvalidDuration,
		&statusStr, &reasonStr, &rec.Description,
		&quality, &focus, &interaction, &continuity,
		&statsStr, &evidenceStr,
		&notified, &included,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning study time record: %w", err)
	}

	if rec.StudyDate, err = time.Parse(domain.DateLayout, studyDateStr); err != nil {
		return nil, fmt.Errorf("parsing study_date: %w", err)
	}
	if rec.StartTime, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	if rec.EndTime, err = time.Parse(time.RFC3339, endStr); err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	status, ok := domain.ParseStudyTimeStatus(statusStr)
	if !ok {
		return nil, fmt.Errorf("unknown study time status %q", statusStr)
	}
	rec.Status = status
	if reasonStr.Valid && reasonStr.String != "" {
		reason, ok := domain.ParseInvalidTimeReason(reasonStr.String)
		if !ok {
			return nil, fmt.Errorf("unknown invalid time reason %q", reasonStr.String)
		}
		rec.InvalidReason = &reason
	}

	rec.QualityScore = parseNullableFloat(quality)
	rec.FocusScore = parseNullableFloat(focus)
	rec.InteractionScore = parseNullableFloat(interaction)
	rec.ContinuityScore = parseNullableFloat(continuity)

	if err := json.Unmarshal([]byte(statsStr), &rec.BehaviorStats); err != nil {
		return nil, fmt.Errorf("decoding behavior_stats: %w", err)
	}
	if evidenceStr.Valid && evidenceStr.String != "" {
		var ev domain.EvidenceData
		if err := json.Unmarshal([]byte(evidenceStr.String), &ev); err != nil {
			return nil, fmt.Errorf("decoding evidence: %w", err)
		}
		rec.Evidence = &ev
	}

	rec.StudentNotified = intToBool(notified)
	rec.IncludeInDailyTotal = intToBool(included)
	return &rec, nil
}

func encodePayload(rec *domain.StudyTimeRecord) (stats string, evidence interface{}, err error) {
	events := rec.BehaviorStats
	if events == nil {
		events = []domain.BehaviorEvent{}
	}
	b, err := json.Marshal(events)
	if err != nil {
		return "", nil, fmt.Errorf("encoding behavior_stats: %w", err)
	}
	evidence, err = nullableJSON(rec.Evidence, rec.Evidence == nil)
	if err != nil {
		return "", nil, err
	}
	return string(b), evidence, nil
}

func reasonToValue(r *domain.InvalidTimeReason) interface{} {
	if r == nil {
		return nil
	}
	return string(*r)
}
