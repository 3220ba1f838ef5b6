package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
)

// DailyTotals aggregates every record for one user on one study date.
type DailyTotals struct {
	EffectiveTotal float64
	InvalidTotal   float64
	RecordCount    int
	CountedRecords int
}

type StudyTimeRecordRepo interface {
	Create(ctx context.Context, rec *domain.StudyTimeRecord) error
	GetByID(ctx context.Context, id string) (*domain.StudyTimeRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.StudyTimeRecord, error)
	ListByUserDate(ctx context.Context, userID string, studyDate time.Time) ([]*domain.StudyTimeRecord, error)
	ListByStatus(ctx context.Context, status domain.StudyTimeStatus, limit int) ([]*domain.StudyTimeRecord, error)
	ListRecent(ctx context.Context, userID string, days int) ([]*domain.StudyTimeRecord, error)
	Update(ctx context.Context, rec *domain.StudyTimeRecord) error

	// DailyEffectiveTime sums effective seconds of counted records for the
	// user and date, skipping excludeID when non-empty.
	DailyEffectiveTime(ctx context.Context, userID string, studyDate time.Time, excludeID string) (float64, error)
	DailyTotals(ctx context.Context, userID string, studyDate time.Time) (DailyTotals, error)
}

type DailyLimitRepo interface {
	// UserDailyLimit returns the user's ceiling in seconds, or the default
	// when no override is stored.
	UserDailyLimit(ctx context.Context, userID string) (float64, error)
	Get(ctx context.Context, userID string) (*domain.UserDailyLimit, error)
	Set(ctx context.Context, limit *domain.UserDailyLimit) error
}
