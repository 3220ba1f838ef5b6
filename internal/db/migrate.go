package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS study_time_records (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		session_id         TEXT NOT NULL,
		course_id          TEXT NOT NULL DEFAULT '',
		lesson_id          TEXT NOT NULL DEFAULT '',
		study_date         TEXT NOT NULL,
		start_time         TEXT NOT NULL,
		end_time           TEXT NOT NULL,
		total_duration     REAL NOT NULL CHECK(total_duration >= 0),
		effective_duration REAL NOT NULL DEFAULT 0 CHECK(effective_duration >= 0),
		invalid_duration   REAL NOT NULL DEFAULT 0 CHECK(invalid_duration >= 0),
		status             TEXT NOT NULL DEFAULT 'pending'
		                   CHECK(status IN ('valid','invalid','pending','partial','excluded',
		                                    'suspended','reviewing','approved','rejected','expired')),
		invalid_reason     TEXT,
		description        TEXT NOT NULL DEFAULT '',
		quality_score      REAL CHECK(quality_score IS NULL OR (quality_score >= 0 AND quality_score <= 10)),
		focus_score        REAL,
		interaction_score  REAL,
		continuity_score   REAL,
		behavior_stats     TEXT NOT NULL DEFAULT '[]',
		evidence           TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_time_user_date ON study_time_records(user_id, study_date)`,
	`CREATE INDEX IF NOT EXISTS idx_study_time_status ON study_time_records(status)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_study_time_session ON study_time_records(session_id)`,

	`CREATE TABLE IF NOT EXISTS user_daily_limits (
		user_id       TEXT PRIMARY KEY,
		limit_seconds REAL NOT NULL CHECK(limit_seconds > 0),
		updated_at    TEXT NOT NULL
	)`,

	// Notification flags carried through for the review workflow.
	`ALTER TABLE study_time_records ADD COLUMN student_notified INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE study_time_records ADD COLUMN include_in_daily_total INTEGER NOT NULL DEFAULT 1`,
}
