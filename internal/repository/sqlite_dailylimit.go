package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studytime/internal/db"
	"github.com/alexanderramin/studytime/internal/domain"
)

// SQLiteDailyLimitRepo implements DailyLimitRepo using a SQLite database.
type SQLiteDailyLimitRepo struct {
	db           db.DBTX
	defaultLimit float64
}

// NewSQLiteDailyLimitRepo creates a new SQLiteDailyLimitRepo. Users without a
// stored override get defaultLimit seconds.
func NewSQLiteDailyLimitRepo(conn db.DBTX, defaultLimit float64) *SQLiteDailyLimitRepo {
	return &SQLiteDailyLimitRepo{db: conn, defaultLimit: defaultLimit}
}

func (r *SQLiteDailyLimitRepo) UserDailyLimit(ctx context.Context, userID string) (float64, error) {
	l, err := r.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return r.defaultLimit, nil
	}
	if err != nil {
		return 0, err
	}
	return l.LimitSeconds, nil
}

func (r *SQLiteDailyLimitRepo) Get(ctx context.Context, userID string) (*domain.UserDailyLimit, error) {
	query := `SELECT user_id, limit_seconds, updated_at FROM user_daily_limits WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var l domain.UserDailyLimit
	var updatedAtStr string
	if err := row.Scan(&l.UserID, &l.LimitSeconds, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("daily limit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning daily limit: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing daily limit updated_at: %w", err)
	}
	l.UpdatedAt = updatedAt
	return &l, nil
}

func (r *SQLiteDailyLimitRepo) Set(ctx context.Context, l *domain.UserDailyLimit) error {
	query := `INSERT INTO user_daily_limits (user_id, limit_seconds, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET limit_seconds = excluded.limit_seconds, updated_at = excluded.updated_at`
	updatedAt := nowUTC()
	if !l.UpdatedAt.IsZero() {
		updatedAt = l.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if _, err := r.db.ExecContext(ctx, query, l.UserID, l.LimitSeconds, updatedAt); err != nil {
		return fmt.Errorf("upserting daily limit: %w", err)
	}
	return nil
}
