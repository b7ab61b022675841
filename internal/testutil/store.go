package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/db"
)

// NewTestDB opens a migrated in-memory plan store that is closed when the
// test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory plan store")
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in a plan store table.
func CountRows(t testing.TB, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n))
	return n
}

// FaultyUoW runs the real SQLite unit of work but fails one write inside
// it with Err. Match selects the statements that count, e.g.
// "insert into recurrence_rules" (case and spacing are ignored); an empty
// Match counts every write. The FailOn-th counted write fails, starting
// at 1. Reads are never counted.
type FaultyUoW struct {
	DB     *sql.DB
	Match  string
	FailOn int
	Err    error
}

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyTx{DBTX: tx, uow: u})
	})
}

type faultyTx struct {
	db.DBTX
	uow     *FaultyUoW
	matched int
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.counts(query) {
		f.matched++
		if f.matched == max(f.uow.FailOn, 1) {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (f *faultyTx) counts(query string) bool {
	if f.uow.Match == "" {
		return true
	}
	return strings.Contains(normalizeSQL(query), normalizeSQL(f.uow.Match))
}

func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
