package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/db"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/alexanderramin/studytime/internal/repository"
	"github.com/alexanderramin/studytime/internal/studytime"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchWorkers bounds batch parallelism when no worker count is set.
const DefaultBatchWorkers = 4

// limitEpsilon absorbs float rounding when comparing committed totals.
const limitEpsilon = 1e-6

// StudyTimeDeps are the collaborators of the study time service.
type StudyTimeDeps struct {
	Records  repository.StudyTimeRecordRepo
	Limits   repository.DailyLimitRepo
	UoW      db.UnitOfWork
	Signals  studytime.Signals
	Tests    studytime.TestPolicy
	Location *time.Location
	Workers  int
}

type studyTimeService struct {
	records  repository.StudyTimeRecordRepo
	limits   repository.DailyLimitRepo
	uow      db.UnitOfWork
	signals  studytime.Signals
	tests    studytime.TestPolicy
	policy   studytime.Policy
	assessor *studytime.QualityAssessor
	loc      *time.Location
	workers  int
	locks    *keyedMutex
	observer UseCaseObserver
	now      func() time.Time
}

func NewStudyTimeService(
	policy studytime.Policy,
	deps StudyTimeDeps,
	observers ...UseCaseObserver,
) StudyTimeService {
	policy = policy.WithDefaults()
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &studyTimeService{
		records:  deps.Records,
		limits:   deps.Limits,
		uow:      deps.UoW,
		signals:  deps.Signals,
		tests:    deps.Tests,
		policy:   policy,
		assessor: studytime.NewQualityAssessor(deps.Signals, policy),
		loc:      loc,
		workers:  workers,
		locks:    newKeyedMutex(),
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func userDayKey(userID string, studyDate time.Time) string {
	return userID + "|" + studyDate.Format(domain.DateLayout)
}

// ProcessStudyTime evaluates one session and commits its record. The daily
// aggregate read, cap enforcement and insert run under a per-user-per-day
// lock inside a single write transaction.
func (s *studyTimeService) ProcessStudyTime(ctx context.Context, req contract.StudyTimeRequest) (rec *domain.StudyTimeRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"user_id":    req.UserID,
		"session_id": req.SessionID,
	}
	defer func() {
		if rec != nil {
			fields["study_date"] = rec.StudyDate.Format(domain.DateLayout)
			fields["status"] = string(rec.Status)
			fields["effective_seconds"] = rec.EffectiveDuration
			if rec.InvalidReason != nil {
				fields["invalid_reason"] = string(*rec.InvalidReason)
			}
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "process-study-time",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	studyDate := domain.StudyDateOf(req.StartTime, s.loc)
	unlock := s.locks.Lock(userDayKey(req.UserID, studyDate))
	defer unlock()

	// The limit is read before the transaction: an in-memory database has a
	// single connection, which the transaction holds.
	limit, err := s.limits.UserDailyLimit(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("reading daily limit: %w", err)
	}

	var committed *domain.StudyTimeRecord
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRecords := repository.NewSQLiteStudyTimeRepo(tx)
		engine := studytime.NewEngine(s.policy, studytime.EngineDeps{
			Signals:    s.signals,
			Tests:      s.tests,
			Aggregates: txRecords,
			Limits:     fixedLimit(limit),
			Location:   s.loc,
		})

		r, err := engine.ProcessStudyTime(ctx, studytime.Input{
			Session:       req.SessionRef,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			TotalDuration: req.Duration(),
			Events:        req.Behavior,
		})
		if err != nil {
			return err
		}

		now := s.now()
		r.ID = uuid.New().String()
		r.CreatedAt = now
		r.UpdatedAt = now
		if err := txRecords.Create(ctx, r); err != nil {
			return err
		}
		if err := verifyCommittedTotal(ctx, txRecords, r, limit); err != nil {
			return err
		}
		committed = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// verifyCommittedTotal re-reads the day's total after insert and fails if a
// writer outside this process pushed it over the limit.
func verifyCommittedTotal(ctx context.Context, records repository.StudyTimeRecordRepo, r *domain.StudyTimeRecord, limit float64) error {
	if !r.CountsTowardTotal() {
		return nil
	}
	total, err := records.DailyEffectiveTime(ctx, r.UserID, r.StudyDate, "")
	if err != nil {
		return err
	}
	if total > limit+limitEpsilon {
		return fmt.Errorf("%w: %.1f of %.1f seconds", ErrDailyLimitRace, total, limit)
	}
	return nil
}

// BatchProcessStudyTime processes every request in parallel with bounded
// concurrency. Each item is committed on its own; failures are reported at
// the item's index and never stop the others.
func (s *studyTimeService) BatchProcessStudyTime(ctx context.Context, reqs []contract.StudyTimeRequest) *contract.BatchResult {
	startedAt := time.Now().UTC()
	result := &contract.BatchResult{Items: make([]contract.BatchItemResult, len(reqs))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		g.Go(func() error {
			result.Items[i] = s.processBatchItem(gctx, i, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, it := range result.Items {
		if it.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "batch-process-study-time",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   result.Failed == 0,
		Fields: map[string]any{
			"items":     len(reqs),
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"workers":   s.workers,
		},
	})
	return result
}

func (s *studyTimeService) processBatchItem(ctx context.Context, i int, req contract.StudyTimeRequest) (item contract.BatchItemResult) {
	item = contract.BatchItemResult{Index: i, SessionID: req.SessionID}
	defer func() {
		if p := recover(); p != nil {
			item.Record = nil
			item.Err = fmt.Errorf("processing item %d: panic: %v", i, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		item.Err = err
		return item
	}
	item.Record, item.Err = s.ProcessStudyTime(ctx, req)
	return item
}

func (s *studyTimeService) GetRecord(ctx context.Context, id string) (*domain.StudyTimeRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *studyTimeService) ListRecords(ctx context.Context, userID string, studyDate time.Time) ([]*domain.StudyTimeRecord, error) {
	return s.records.ListByUserDate(ctx, userID, studyDate)
}

// ListNeedingReview returns counted records whose quality falls under the
// review thresholds, newest first.
func (s *studyTimeService) ListNeedingReview(ctx context.Context, limit int) ([]*domain.StudyTimeRecord, error) {
	var flagged []*domain.StudyTimeRecord
	for _, status := range []domain.StudyTimeStatus{domain.StatusValid, domain.StatusPartial} {
		recs, err := s.records.ListByStatus(ctx, status, 0)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if s.assessor.NeedsQualityReview(r) {
				flagged = append(flagged, r)
			}
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].CreatedAt.After(flagged[j].CreatedAt)
	})
	if limit > 0 && len(flagged) > limit {
		flagged = flagged[:limit]
	}
	return flagged, nil
}

// TransitionStatus moves a record through the review workflow. A move into
// a counted status re-applies the daily cap so approvals cannot overspend
// the day.
func (s *studyTimeService) TransitionStatus(ctx context.Context, id string, next domain.StudyTimeStatus, note string) (rec *domain.StudyTimeRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"record_id": id, "to": string(next)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "transition-status",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	current, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["user_id"] = current.UserID
	unlock := s.locks.Lock(userDayKey(current.UserID, current.StudyDate))
	defer unlock()

	limit, err := s.limits.UserDailyLimit(ctx, current.UserID)
	if err != nil {
		return nil, fmt.Errorf("reading daily limit: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRecords := repository.NewSQLiteStudyTimeRepo(tx)
		r, err := txRecords.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["from"] = string(r.Status)
		if !r.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
		}

		wasCounted := r.CountsTowardTotal()
		r.Status = next
		if note != "" {
			r.AppendDescription(note)
		}
		if !wasCounted && r.CountsTowardTotal() {
			if err := s.recap(ctx, txRecords, r, limit); err != nil {
				return err
			}
		}
		r.UpdatedAt = s.now()
		if err := txRecords.Update(ctx, r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// recap re-checks the daily cap for a record re-entering the daily total.
// The record keeps its new status; only its effective time shrinks.
func (s *studyTimeService) recap(ctx context.Context, records repository.StudyTimeRecordRepo, r *domain.StudyTimeRecord, limit float64) error {
	status := r.Status
	res, err := studytime.NewCalculator(s.signals, records, fixedLimit(limit)).CheckDailyLimit(ctx, r)
	if err != nil {
		return err
	}
	if !res.Valid {
		r.SetEffectiveDuration(0)
		r.InvalidReason = res.Reason
		r.AppendDescription(res.Description)
	}
	r.Status = status
	return nil
}

// DailySummary reports the committed totals for a user's study date.
func (s *studyTimeService) DailySummary(ctx context.Context, userID string, studyDate time.Time) (*domain.DailySummary, error) {
	totals, err := s.records.DailyTotals(ctx, userID, studyDate)
	if err != nil {
		return nil, err
	}
	limit, err := s.limits.UserDailyLimit(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading daily limit: %w", err)
	}
	remaining := limit - totals.EffectiveTotal
	if remaining < 0 {
		remaining = 0
	}
	return &domain.DailySummary{
		UserID:         userID,
		StudyDate:      studyDate,
		EffectiveTotal: totals.EffectiveTotal,
		InvalidTotal:   totals.InvalidTotal,
		DailyLimit:     limit,
		Remaining:      remaining,
		RecordCount:    totals.RecordCount,
		CountedRecords: totals.CountedRecords,
	}, nil
}

// fixedLimit serves a limit read ahead of a transaction.
type fixedLimit float64

func (f fixedLimit) UserDailyLimit(context.Context, string) (float64, error) {
	return float64(f), nil
}

type limitService struct {
	limits   repository.DailyLimitRepo
	observer UseCaseObserver
}

func NewLimitService(limits repository.DailyLimitRepo, observers ...UseCaseObserver) LimitService {
	return &limitService{limits: limits, observer: useCaseObserverOrNoop(observers)}
}

func (s *limitService) GetLimit(ctx context.Context, userID string) (float64, bool, error) {
	if userID == "" {
		return 0, false, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	l, err := s.limits.Get(ctx, userID)
	if err == nil {
		return l.LimitSeconds, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, false, err
	}
	seconds, err := s.limits.UserDailyLimit(ctx, userID)
	return seconds, false, err
}

func (s *limitService) SetLimit(ctx context.Context, userID string, seconds float64) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "set-daily-limit",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user_id": userID, "limit_seconds": seconds},
		})
	}()

	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if seconds <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidRequest)
	}
	return s.limits.Set(ctx, &domain.UserDailyLimit{UserID: userID, LimitSeconds: seconds, UpdatedAt: time.Now().UTC()})
}
