package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/studytime/internal/behavior"
	"github.com/alexanderramin/studytime/internal/contract"
	"github.com/alexanderramin/studytime/internal/db"
	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/alexanderramin/studytime/internal/repository"
	"github.com/alexanderramin/studytime/internal/studytime"
	"github.com/alexanderramin/studytime/internal/testutil"
)

var testDay = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sql.DB
	records  *repository.SQLiteStudyTimeRepo
	limits   *repository.SQLiteDailyLimitRepo
	svc      StudyTimeService
	limitSvc LimitService
	observer *recordingObserver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnvOn(t, testutil.NewTestDB(t), nil)
}

// newEnvOn builds a service on database. A nil uow uses the SQLite unit of work.
func newEnvOn(t *testing.T, database *sql.DB, uow db.UnitOfWork) *testEnv {
	t.Helper()
	if uow == nil {
		uow = testutil.NewTestUoW(database)
	}
	env := &testEnv{
		db:       database,
		records:  repository.NewSQLiteStudyTimeRepo(database),
		limits:   repository.NewSQLiteDailyLimitRepo(database, studytime.DefaultDailyLimitSeconds),
		observer: &recordingObserver{},
	}
	env.svc = NewStudyTimeService(studytime.DefaultPolicy(), StudyTimeDeps{
		Records:  env.records,
		Limits:   env.limits,
		UoW:      uow,
		Signals:  behavior.NewDefaultExtractor(),
		Location: time.UTC,
		Workers:  4,
	}, env.observer)
	env.limitSvc = NewLimitService(env.limits, env.observer)
	return env
}

// newRequest builds a session starting at 09:00 UTC on testDay plus offset.
func newRequest(userID string, offset time.Duration, total float64, events []domain.BehaviorEvent) contract.StudyTimeRequest {
	start := testDay.Add(9*time.Hour + offset)
	req := contract.StudyTimeRequest{
		StartTime:     start,
		EndTime:       start.Add(time.Duration(total) * time.Second),
		TotalDuration: &total,
		Behavior:      events,
	}
	req.UserID = userID
	req.SessionID = testutil.NewSessionID()
	return req
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) byName(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
