package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/studytime/internal/db"
)

// FailOnNthExecUoW runs transactions through the SQLite unit of work but
// makes the FailOn-th ExecContext inside each transaction return Err. Reads
// are not counted. Use it to check that a failed write mid-commit leaves no
// study time record behind.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failOnNthExec struct {
	db.DBTX
	execs  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.execs.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
