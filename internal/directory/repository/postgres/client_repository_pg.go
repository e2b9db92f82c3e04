package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
	"github.com/lmartemyanova/clients-db-manager/internal/directory/validate"
)

type PgClientRepository struct {
	db     PgxIface
	logger *slog.Logger
}

func NewPgClientRepository(db PgxIface, logger *slog.Logger) *PgClientRepository {
	return &PgClientRepository{db: db, logger: logger.With("component", "client_repository_pg")}
}

// Create inserts a new client and returns its assigned id. Name and
// surname are stored capitalized; email must already be normalized.
// The duplicate-email check and the insert run in one transaction, so
// the check cannot race against this session's own writes.
func (r *PgClientRepository) Create(ctx context.Context, name, surname, email string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, storeFailure("begin create client", err)
	}
	defer tx.Rollback(ctx)

	var ownerID int64
	err = tx.QueryRow(ctx, `SELECT client_id FROM clients WHERE email = $1`, email).Scan(&ownerID)
	switch {
	case err == nil:
		r.logger.WarnContext(ctx, "Duplicate email", "email", email, "owner_client_id", ownerID)
		return 0, &domain.DuplicateEmailError{Email: email, OwnerID: ownerID}
	case !errors.Is(err, pgx.ErrNoRows):
		r.logger.ErrorContext(ctx, "Error checking email uniqueness", "error", err, "email", email)
		return 0, storeFailure("check email uniqueness", err)
	}

	var clientID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO clients(name, surname, email) VALUES ($1, $2, $3) RETURNING client_id`,
		validate.Capitalize(name), validate.Capitalize(surname), email,
	).Scan(&clientID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating client", "error", err, "email", email)
		return 0, storeFailure("insert client", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, storeFailure("commit create client", err)
	}
	r.logger.InfoContext(ctx, "Client created", "client_id", clientID)
	return clientID, nil
}

// Update applies only the fields present in upd. A non-nil Phones slice
// replaces the client's entire phone set: every existing row is deleted
// and the new set inserted, all inside the same transaction. A missing
// client reports domain.ErrNotFound, never a zero-row surprise.
func (r *PgClientRepository) Update(ctx context.Context, clientID int64, upd domain.ClientUpdate) error {
	if upd.IsZero() {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeFailure("begin update client", err)
	}
	defer tx.Rollback(ctx)

	// Lock the client row up front; this also turns the zero-row case
	// into a clean NotFound before any write happens.
	var id int64
	err = tx.QueryRow(ctx, `SELECT client_id FROM clients WHERE client_id = $1 FOR UPDATE`, clientID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Client not found for update", "client_id", clientID)
			return fmt.Errorf("client %d: %w", clientID, domain.ErrNotFound)
		}
		return storeFailure("lock client for update", err)
	}

	if upd.Name != nil {
		if _, err := tx.Exec(ctx, `UPDATE clients SET name = $1 WHERE client_id = $2`,
			validate.Capitalize(*upd.Name), clientID); err != nil {
			return storeFailure("update client name", err)
		}
	}
	if upd.Surname != nil {
		if _, err := tx.Exec(ctx, `UPDATE clients SET surname = $1 WHERE client_id = $2`,
			validate.Capitalize(*upd.Surname), clientID); err != nil {
			return storeFailure("update client surname", err)
		}
	}
	if upd.Email != nil {
		if _, err := tx.Exec(ctx, `UPDATE clients SET email = $1 WHERE client_id = $2`,
			*upd.Email, clientID); err != nil {
			return storeFailure("update client email", err)
		}
	}

	if upd.Phones != nil {
		// Destructive replace: the supplied set becomes the client's
		// whole phone list, not a merge.
		if _, err := tx.Exec(ctx, `DELETE FROM phones WHERE client_id = $1`, clientID); err != nil {
			return storeFailure("clear client phones", err)
		}
		for _, number := range upd.Phones {
			_, err := tx.Exec(ctx, `INSERT INTO phones(client_id, phone) VALUES ($1, $2)`, clientID, number)
			if err != nil {
				if pgErrCode(err) == codeUniqueViolation {
					// The whole replace is abandoned; report who holds the number.
					_ = tx.Rollback(ctx)
					return r.duplicatePhone(ctx, r.db, number)
				}
				return storeFailure("insert replacement phone", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storeFailure("commit update client", err)
	}
	r.logger.InfoContext(ctx, "Client updated", "client_id", clientID)
	return nil
}

// Delete removes the client and every phone row it owns as one atomic
// unit, dependent rows first so referential integrity holds throughout.
func (r *PgClientRepository) Delete(ctx context.Context, clientID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeFailure("begin delete client", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM phones WHERE client_id = $1`, clientID); err != nil {
		return storeFailure("delete client phones", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM clients WHERE client_id = $1`, clientID)
	if err != nil {
		return storeFailure("delete client", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Client not found for delete", "client_id", clientID)
		return fmt.Errorf("client %d: %w", clientID, domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeFailure("commit delete client", err)
	}
	r.logger.InfoContext(ctx, "Client deleted", "client_id", clientID)
	return nil
}

// GetByID returns the client with its full phone list. Clients without
// numbers come back with an empty, non-nil slice.
func (r *PgClientRepository) GetByID(ctx context.Context, clientID int64) (*domain.ClientRecord, error) {
	query := `
		SELECT c.client_id, c.name, c.surname, c.email,
		       COALESCE(array_agg(p.phone ORDER BY p.phone_id) FILTER (WHERE p.phone IS NOT NULL), ARRAY[]::text[])
		  FROM clients c
		  LEFT JOIN phones p ON p.client_id = c.client_id
		 WHERE c.client_id = $1
		 GROUP BY c.client_id
	`
	rec := &domain.ClientRecord{}
	err := r.db.QueryRow(ctx, query, clientID).Scan(
		&rec.ID, &rec.Name, &rec.Surname, &rec.Email, &rec.Phones,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %d: %w", clientID, domain.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error getting client by id", "error", err, "client_id", clientID)
		return nil, storeFailure("get client by id", err)
	}
	if rec.Phones == nil {
		rec.Phones = []string{}
	}
	return rec, nil
}

// Find matches clients whose name, surname, email, or any attached phone
// equals query. The caller normalizes query through the validators;
// name and surname matching uses the same capitalized form as storage.
// Each matching client appears exactly once with all of its numbers
// aggregated, ordered by client_id ascending. The phone match runs as a
// subquery so it selects clients without filtering the join rows that
// feed the aggregation.
func (r *PgClientRepository) Find(ctx context.Context, query string) ([]domain.ClientListing, error) {
	sql := `
		SELECT c.client_id, c.name, c.surname, c.email,
		       COALESCE(string_agg(p.phone, ', ' ORDER BY p.phone_id), '')
		  FROM clients c
		  LEFT JOIN phones p ON p.client_id = c.client_id
		 WHERE c.name = $1 OR c.surname = $1 OR c.email = $2
		    OR c.client_id IN (SELECT client_id FROM phones WHERE phone = $2)
		 GROUP BY c.client_id
		 ORDER BY c.client_id
	`
	nameQuery := query
	if validate.Name(query) {
		nameQuery = validate.Capitalize(query)
	}
	rows, err := r.db.Query(ctx, sql, nameQuery, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error searching clients", "error", err, "query", query)
		return nil, storeFailure("find clients", err)
	}
	defer rows.Close()

	var listings []domain.ClientListing
	for rows.Next() {
		var l domain.ClientListing
		if err := rows.Scan(&l.ID, &l.Name, &l.Surname, &l.Email, &l.Phones); err != nil {
			return nil, storeFailure("scan client listing", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterate client listings", err)
	}
	return listings, nil
}

// duplicatePhone runs the diagnostic read that names a number's current
// owner, against q (the pool after a rollback, or a still-usable tx).
func (r *PgClientRepository) duplicatePhone(ctx context.Context, q PgxIface, number string) error {
	var phoneID, ownerID int64
	err := q.QueryRow(ctx, `SELECT phone_id, client_id FROM phones WHERE phone = $1`, number).Scan(&phoneID, &ownerID)
	if err != nil {
		return storeFailure("look up phone owner", err)
	}
	r.logger.WarnContext(ctx, "Duplicate phone", "phone", number, "owner_client_id", ownerID)
	return &domain.DuplicatePhoneError{Number: number, PhoneID: phoneID, OwnerID: ownerID}
}
