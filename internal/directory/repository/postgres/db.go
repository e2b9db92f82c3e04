package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
)

// PostgreSQL error codes the repositories translate at their boundary.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeUndefinedTable      = "42P01"
)

// PgxIface is the slice of pgxpool.Pool the repositories need. It is
// satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgErrCode extracts the server error code, or "" for non-server errors.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// storeFailure wraps an uncategorized store-level error so callers can
// test for domain.ErrStoreUnavailable while keeping the driver detail.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
