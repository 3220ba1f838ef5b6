package service

import (
	"context"
	"time"

	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/domain"
)

type StudyTimeService interface {
	ProcessStudyTime(ctx context.Context, req contract.StudyTimeRequest) (*domain.StudyTimeRecord, error)
	BatchProcessStudyTime(ctx context.Context, reqs []contract.StudyTimeRequest) *contract.BatchResult
	GetRecord(ctx context.Context, id string) (*domain.StudyTimeRecord, error)
	ListRecords(ctx context.Context, userID string, studyDate time.Time) ([]*domain.StudyTimeRecord, error)
	ListNeedingReview(ctx context.Context, limit int) ([]*domain.StudyTimeRecord, error)
	TransitionStatus(ctx context.Context, id string, next domain.StudyTimeStatus, note string) (*domain.StudyTimeRecord, error)
	DailySummary(ctx context.Context, userID string, studyDate time.Time) (*domain.DailySummary, error)
}

type LimitService interface {
	// GetLimit returns the effective ceiling and whether it is a stored
	// override rather than the default.
	GetLimit(ctx context.Context, userID string) (seconds float64, override bool, err error)
	SetLimit(ctx context.Context, userID string, seconds float64) error
}
