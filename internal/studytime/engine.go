package studytime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
)

// ErrNegativeDuration is returned when a session reports a negative total duration.
var ErrNegativeDuration = errors.New("total duration must not be negative")

// Input describes one closed study session.
type Input struct {
	Session       domain.SessionRef
	StartTime     time.Time
	EndTime       time.Time
	TotalDuration float64
	Events        []domain.BehaviorEvent
}

// Engine runs the single-session pipeline: validation, quality scoring,
// effective time calculation and daily cap enforcement. It performs no
// persistence; callers commit the returned record.
type Engine struct {
	signals    Signals
	validator  *Validator
	assessor   *QualityAssessor
	calculator *Calculator
	loc        *time.Location
}

// EngineDeps are the collaborators of an Engine.
type EngineDeps struct {
	Signals    Signals
	Tests      TestPolicy
	Aggregates DailyAggregateReader
	Limits     DailyLimitReader
	Location   *time.Location
}

func NewEngine(p Policy, deps EngineDeps) *Engine {
	p = p.WithDefaults()
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		signals:    deps.Signals,
		validator:  NewValidator(deps.Signals, deps.Tests, p.InteractionTimeoutSeconds),
		assessor:   NewQualityAssessor(deps.Signals, p),
		calculator: NewCalculator(deps.Signals, deps.Aggregates, deps.Limits),
		loc:        loc,
	}
}

// ProcessStudyTime evaluates a session and returns its finalized record.
// Invalid sessions skip scoring and the daily cap; their whole duration is
// invalid. Errors are returned only when a collaborator fails.
func (e *Engine) ProcessStudyTime(ctx context.Context, in Input) (*domain.StudyTimeRecord, error) {
	if in.TotalDuration < 0 {
		return nil, ErrNegativeDuration
	}

	rec := domain.NewStudyTimeRecord(in.Session, in.StartTime, in.EndTime, in.TotalDuration, e.loc)
	if err := e.evaluate(ctx, rec, in.Events); err != nil {
		return nil, err
	}
	return rec, nil
}

// evaluate runs the pipeline against a fresh record skeleton.
func (e *Engine) evaluate(ctx context.Context, rec *domain.StudyTimeRecord, events []domain.BehaviorEvent) error {
	rec.BehaviorStats = events
	evidence := e.signals.BuildEvidenceData(events, rec.TotalDuration)
	rec.Evidence = &evidence

	if res := e.validator.ValidateStudyTime(rec, events); !res.Valid {
		rec.Invalidate(*res.Reason, res.Description)
		return nil
	}

	e.assessor.CalculateQualityScores(rec, events)

	rec.SetEffectiveDuration(e.calculator.CalculateEffectiveTime(rec, events))
	rec.Status = domain.StatusValid

	res, err := e.calculator.CheckDailyLimit(ctx, rec)
	if err != nil {
		return fmt.Errorf("checking daily limit: %w", err)
	}
	if !res.Valid {
		rec.Invalidate(*res.Reason, res.Description)
	}
	return nil
}
