package db

import (
	"context"
	"database/sql"
)

// DBTX is what the repositories query through. A *sql.DB gives autocommit
// statements; the *sql.Tx handed out by WithinTx keeps a plan header and its
// items in one write.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
