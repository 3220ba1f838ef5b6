package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories need to run statements. Both the pool and an
// open transaction satisfy it, so the same repository code serves plain
// reads and the writes done inside UnitOfWork.WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
