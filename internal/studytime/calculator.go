package studytime

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
)

const (
	descDailyLimitExceeded = "daily accumulated limit exceeded"
	descPartialOverLimit   = "partial time exceeds daily limit"
)

// DailyAggregateReader returns the effective seconds already committed for
// a user on a calendar day, excluding the record identified by excludeID.
type DailyAggregateReader interface {
	DailyEffectiveTime(ctx context.Context, userID string, studyDate time.Time, excludeID string) (float64, error)
}

// DailyLimitReader returns a user's daily effective-time ceiling in seconds.
// Implementations fall back to the deployment default when no per-user
// override exists.
type DailyLimitReader interface {
	UserDailyLimit(ctx context.Context, userID string) (float64, error)
}

// Calculator turns observed duration into effective duration and enforces
// the daily ceiling.
type Calculator struct {
	ratios     RatioSource
	aggregates DailyAggregateReader
	limits     DailyLimitReader
}

func NewCalculator(ratios RatioSource, aggregates DailyAggregateReader, limits DailyLimitReader) *Calculator {
	return &Calculator{ratios: ratios, aggregates: aggregates, limits: limits}
}

// CalculateEffectiveTime multiplies the record's total duration by the raw
// focus, interaction and continuity ratios. The result is bounded to
// [0, TotalDuration]; a NaN product counts as zero.
func (c *Calculator) CalculateEffectiveTime(rec *domain.StudyTimeRecord, events []domain.BehaviorEvent) float64 {
	computed := rec.TotalDuration *
		c.ratios.FocusRatio(events) *
		c.ratios.InteractionRatio(events) *
		c.ratios.ContinuityRatio(events)
	return clamp(computed, 0, rec.TotalDuration)
}

// CheckDailyLimit enforces the user's daily ceiling against rec's current
// effective duration. When the budget is already spent the whole record is
// disallowed; when it falls inside the session the record is truncated to
// the remaining budget and marked partial. Reader failures are returned as
// errors and leave rec untouched.
func (c *Calculator) CheckDailyLimit(ctx context.Context, rec *domain.StudyTimeRecord) (Result, error) {
	current, err := c.aggregates.DailyEffectiveTime(ctx, rec.UserID, rec.StudyDate, rec.ID)
	if err != nil {
		return Result{}, fmt.Errorf("reading daily effective time: %w", err)
	}
	limit, err := c.limits.UserDailyLimit(ctx, rec.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("reading daily limit: %w", err)
	}

	remaining := limit - current
	if remaining <= 0 {
		rec.SetEffectiveDuration(0)
		return invalidResult(domain.ReasonDailyLimitExceeded, descDailyLimitExceeded), nil
	}

	if rec.EffectiveDuration > remaining {
		rec.SetEffectiveDuration(remaining)
		rec.Status = domain.StatusPartial
		reason := domain.ReasonDailyLimitExceeded
		rec.InvalidReason = &reason
		rec.AppendDescription(descPartialOverLimit)
	}
	return validResult(), nil
}
