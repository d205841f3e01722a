package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/plancore/internal/db"
)

// FailingUoW is a UnitOfWork that fails one write inside the transaction so
// tests can assert a multi-write use case rolls back as a whole.
//
// A write fails when it is the FailOn-th ExecContext call (counted from 1) or
// when its SQL contains FailOnQuery. Reads are never intercepted.
type FailingUoW struct {
	DB          *sql.DB
	FailOn      int32
	FailOnQuery string
	Err         error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingTx{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow   *FailingUoW
	count atomic.Int32
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.uow.FailOn || (f.uow.FailOnQuery != "" && strings.Contains(query, f.uow.FailOnQuery)) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
