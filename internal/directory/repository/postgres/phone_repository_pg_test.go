package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
)

func newPhoneRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *PgPhoneRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mock, NewPgPhoneRepository(mock, logger)
}

func expectAddSuccess(mock pgxmock.PgxPoolIface, clientID, phoneID int64, number string) {
	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT before_add_phone`).
		WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
	mock.ExpectQuery(`INSERT INTO phones`).
		WithArgs(clientID, number).
		WillReturnRows(pgxmock.NewRows([]string{"phone_id"}).AddRow(phoneID))
	mock.ExpectCommit()
	mock.ExpectRollback()
}

func TestPgPhoneRepository_Add(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		expectAddSuccess(mock, 1, 10, "+7 958 000-00-00")

		id, err := repo.Add(context.Background(), 1, "+7 958 000-00-00")
		assert.NoError(t, err)
		assert.Equal(t, int64(10), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate_RollsBackToSavepointAndNamesOwner", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SAVEPOINT before_add_phone`).
			WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
		mock.ExpectQuery(`INSERT INTO phones`).
			WithArgs(int64(2), "+7 958 000-00-00").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "phones_phone_key"})
		mock.ExpectExec(`ROLLBACK TO SAVEPOINT before_add_phone`).
			WillReturnResult(pgxmock.NewResult("ROLLBACK", 0))
		mock.ExpectQuery(`SELECT phone_id, client_id FROM phones WHERE phone`).
			WithArgs("+7 958 000-00-00").
			WillReturnRows(pgxmock.NewRows([]string{"phone_id", "client_id"}).AddRow(int64(10), int64(1)))
		mock.ExpectCommit()
		mock.ExpectRollback()

		_, err := repo.Add(context.Background(), 2, "+7 958 000-00-00")
		var dup *domain.DuplicatePhoneError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, int64(1), dup.OwnerID)
		assert.Equal(t, int64(10), dup.PhoneID)
		assert.Equal(t, "+7 958 000-00-00", dup.Number)

		// The conflict must not poison the session: a subsequent add on
		// the same handle still works.
		expectAddSuccess(mock, 2, 11, "+7 958 111-11-11")
		id, err := repo.Add(context.Background(), 2, "+7 958 111-11-11")
		assert.NoError(t, err)
		assert.Equal(t, int64(11), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownClient_NoRowPersists", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SAVEPOINT before_add_phone`).
			WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
		mock.ExpectQuery(`INSERT INTO phones`).
			WithArgs(int64(999999), "+7 958 000-00-00").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "phones_client_id_fkey"})
		mock.ExpectExec(`ROLLBACK TO SAVEPOINT before_add_phone`).
			WillReturnResult(pgxmock.NewResult("ROLLBACK", 0))
		mock.ExpectRollback()

		_, err := repo.Add(context.Background(), 999999, "+7 958 000-00-00")
		assert.ErrorIs(t, err, domain.ErrUnknownClient)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SAVEPOINT before_add_phone`).
			WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
		mock.ExpectQuery(`INSERT INTO phones`).
			WithArgs(int64(1), "+7 958 000-00-00").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := repo.Add(context.Background(), 1, "+7 958 000-00-00")
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgPhoneRepository_Remove(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT phone_id FROM phones WHERE client_id`).
			WithArgs(int64(1), "+7 405 938-49-50").
			WillReturnRows(pgxmock.NewRows([]string{"phone_id"}).AddRow(int64(4)))
		mock.ExpectExec(`SAVEPOINT before_delete_phone`).
			WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
		mock.ExpectExec(`DELETE FROM phones WHERE phone_id`).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		err := repo.Remove(context.Background(), 1, "+7 405 938-49-50")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound_WrongOwnerOrNumber", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT phone_id FROM phones WHERE client_id`).
			WithArgs(int64(2), "+7 405 938-49-50").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Remove(context.Background(), 2, "+7 405 938-49-50")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteFailure_DistinctFromNotFound", func(t *testing.T) {
		mock, repo := newPhoneRepoMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT phone_id FROM phones WHERE client_id`).
			WithArgs(int64(1), "+7 405 938-49-50").
			WillReturnRows(pgxmock.NewRows([]string{"phone_id"}).AddRow(int64(4)))
		mock.ExpectExec(`SAVEPOINT before_delete_phone`).
			WillReturnResult(pgxmock.NewResult("SAVEPOINT", 0))
		mock.ExpectExec(`DELETE FROM phones WHERE phone_id`).
			WithArgs(int64(4)).
			WillReturnError(assert.AnError)
		mock.ExpectExec(`ROLLBACK TO SAVEPOINT before_delete_phone`).
			WillReturnResult(pgxmock.NewResult("ROLLBACK", 0))
		mock.ExpectRollback()

		err := repo.Remove(context.Background(), 1, "+7 405 938-49-50")
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
