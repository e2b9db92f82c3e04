package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
)

type PgSchemaRepository struct {
	db     PgxIface
	logger *slog.Logger
}

func NewPgSchemaRepository(db PgxIface, logger *slog.Logger) *PgSchemaRepository {
	return &PgSchemaRepository{db: db, logger: logger.With("component", "schema_repository_pg")}
}

// Create ensures both tables exist. CREATE TABLE IF NOT EXISTS makes the
// call idempotent; running it against an existing schema is a no-op.
func (r *PgSchemaRepository) Create(ctx context.Context) error {
	clientsDDL := `
		CREATE TABLE IF NOT EXISTS clients(
			client_id SERIAL PRIMARY KEY,
			     name VARCHAR(200) NOT NULL,
			  surname VARCHAR(200) NOT NULL,
			    email VARCHAR(200) NOT NULL
		)
	`
	phonesDDL := `
		CREATE TABLE IF NOT EXISTS phones(
			 phone_id SERIAL PRIMARY KEY,
			client_id INTEGER NOT NULL REFERENCES clients(client_id),
			    phone TEXT UNIQUE NOT NULL
		)
	`
	if _, err := r.db.Exec(ctx, clientsDDL); err != nil {
		r.logger.ErrorContext(ctx, "Error creating clients table", "error", err)
		return storeFailure("create clients table", err)
	}
	if _, err := r.db.Exec(ctx, phonesDDL); err != nil {
		r.logger.ErrorContext(ctx, "Error creating phones table", "error", err)
		return storeFailure("create phones table", err)
	}
	r.logger.InfoContext(ctx, "Schema created")
	return nil
}

// Drop removes both tables, phones first so the foreign key never
// dangles. Dropping a schema that was never created reports
// domain.ErrNotFound rather than a raw store error.
func (r *PgSchemaRepository) Drop(ctx context.Context) error {
	for _, table := range []string{"phones", "clients"} {
		if _, err := r.db.Exec(ctx, fmt.Sprintf("DROP TABLE %s", table)); err != nil {
			if pgErrCode(err) == codeUndefinedTable {
				r.logger.WarnContext(ctx, "Table does not exist", "table", table)
				return fmt.Errorf("table %s: %w", table, domain.ErrNotFound)
			}
			r.logger.ErrorContext(ctx, "Error dropping table", "table", table, "error", err)
			return storeFailure("drop table "+table, err)
		}
	}
	r.logger.InfoContext(ctx, "Schema dropped")
	return nil
}
