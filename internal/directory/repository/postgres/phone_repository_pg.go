package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
)

type PgPhoneRepository struct {
	db     PgxIface
	logger *slog.Logger
}

func NewPgPhoneRepository(db PgxIface, logger *slog.Logger) *PgPhoneRepository {
	return &PgPhoneRepository{db: db, logger: logger.With("component", "phone_repository_pg")}
}

// Add attaches number to clientID and returns the new phone_id.
//
// The insert is a risky write: a duplicate number or an unknown client
// aborts the surrounding transaction state, so a named savepoint is
// established immediately before it. On failure the savepoint is rolled
// back, which undoes only the failed insert and keeps the transaction
// usable for the diagnostic read that names the number's current owner.
func (r *PgPhoneRepository) Add(ctx context.Context, clientID int64, number string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, storeFailure("begin add phone", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SAVEPOINT before_add_phone`); err != nil {
		return 0, storeFailure("savepoint before add phone", err)
	}

	var phoneID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO phones(client_id, phone) VALUES ($1, $2) RETURNING phone_id`,
		clientID, number,
	).Scan(&phoneID)
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return 0, storeFailure("commit add phone", err)
		}
		r.logger.InfoContext(ctx, "Phone added", "phone_id", phoneID, "client_id", clientID, "phone", number)
		return phoneID, nil
	}

	switch pgErrCode(err) {
	case codeUniqueViolation:
		if _, rbErr := tx.Exec(ctx, `ROLLBACK TO SAVEPOINT before_add_phone`); rbErr != nil {
			return 0, storeFailure("rollback to savepoint", rbErr)
		}
		var existingID, ownerID int64
		err = tx.QueryRow(ctx, `SELECT phone_id, client_id FROM phones WHERE phone = $1`, number).
			Scan(&existingID, &ownerID)
		if err != nil {
			return 0, storeFailure("look up phone owner", err)
		}
		// Nothing of ours is left in the transaction; commit so earlier
		// work in the session is preserved.
		if err := tx.Commit(ctx); err != nil {
			return 0, storeFailure("commit after phone conflict", err)
		}
		r.logger.WarnContext(ctx, "Duplicate phone", "phone", number, "owner_client_id", ownerID)
		return 0, &domain.DuplicatePhoneError{Number: number, PhoneID: existingID, OwnerID: ownerID}
	case codeForeignKeyViolation:
		if _, rbErr := tx.Exec(ctx, `ROLLBACK TO SAVEPOINT before_add_phone`); rbErr != nil {
			return 0, storeFailure("rollback to savepoint", rbErr)
		}
		r.logger.WarnContext(ctx, "Unknown client for phone", "client_id", clientID, "phone", number)
		return 0, fmt.Errorf("client %d: %w", clientID, domain.ErrUnknownClient)
	default:
		r.logger.ErrorContext(ctx, "Error adding phone", "error", err, "client_id", clientID)
		return 0, storeFailure("insert phone", err)
	}
}

// Remove deletes the phone row matching both clientID and the exact
// canonical number. A number owned by a different client reports
// NotFound; a failure of the delete itself rolls back to the pre-delete
// savepoint and surfaces a store failure, distinct from NotFound.
func (r *PgPhoneRepository) Remove(ctx context.Context, clientID int64, number string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeFailure("begin remove phone", err)
	}
	defer tx.Rollback(ctx)

	var phoneID int64
	err = tx.QueryRow(ctx,
		`SELECT phone_id FROM phones WHERE client_id = $1 AND phone = $2`,
		clientID, number,
	).Scan(&phoneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Phone not found for client", "client_id", clientID, "phone", number)
			return fmt.Errorf("phone %s for client %d: %w", number, clientID, domain.ErrNotFound)
		}
		return storeFailure("look up phone for delete", err)
	}

	if _, err := tx.Exec(ctx, `SAVEPOINT before_delete_phone`); err != nil {
		return storeFailure("savepoint before delete phone", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM phones WHERE phone_id = $1`, phoneID); err != nil {
		if _, rbErr := tx.Exec(ctx, `ROLLBACK TO SAVEPOINT before_delete_phone`); rbErr != nil {
			return storeFailure("rollback to savepoint", rbErr)
		}
		r.logger.ErrorContext(ctx, "Error deleting phone", "error", err, "phone_id", phoneID)
		return storeFailure("delete phone", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeFailure("commit remove phone", err)
	}
	r.logger.InfoContext(ctx, "Phone removed", "phone_id", phoneID, "client_id", clientID, "phone", number)
	return nil
}
