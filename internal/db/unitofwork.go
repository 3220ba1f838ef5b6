package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UnitOfWork runs a callback inside one transaction. The callback builds
// tx-scoped repositories from the DBTX it receives; returning an error or
// panicking rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork on database/sql. File databases
// opened by OpenDB begin every transaction IMMEDIATE, so the callback holds
// the write lock from its first statement and a read-sum-insert sequence
// cannot interleave with another writer.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
