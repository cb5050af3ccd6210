package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/peerassign/internal/db"
)

// FailingInsertUoW runs transactions on DB but fails the Nth insert into
// Table with Err, so tests can break an allocation halfway through storing
// it. N counts from 1; zero means the first insert.
type FailingInsertUoW struct {
	DB    *sql.DB
	Table string
	N     int32
	Err   error

	// Inserts counts every INSERT seen across all transactions.
	Inserts atomic.Int32
}

func (u *FailingInsertUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingInsertTx{DBTX: tx, uow: u, prefix: "INSERT INTO " + u.Table + " "}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingInsertTx struct {
	db.DBTX
	uow    *FailingInsertUoW
	prefix string
	hits   int32
}

func (f *failingInsertTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(trimmed, "INSERT") {
		f.uow.Inserts.Add(1)
	}
	if strings.HasPrefix(trimmed, f.prefix) {
		f.hits++
		if f.hits == max(f.uow.N, 1) {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
