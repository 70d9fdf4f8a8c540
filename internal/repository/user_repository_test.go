package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/profile-service/internal/domain"
)

var userColumns = []string{"id", "clerk_id", "telegram_handle", "reminder_days", "created_at", "updated_at"}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestGetByClerkID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("FROM users WHERE clerk_id").
			WithArgs("user_2abc").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(1), "user_2abc", (*string)(nil), 0, now, now))

		user, err := repo.GetByClerkID(context.Background(), "user_2abc")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "user_2abc", user.ClerkID)
		assert.Nil(t, user.TelegramHandle)
		assert.Equal(t, 0, user.ReminderDays)
		assert.Equal(t, now, user.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery("FROM users WHERE clerk_id").
			WithArgs("user_gone").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetByClerkID(context.Background(), "user_gone")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByID(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "user_2abc", strPtr("@johndoe"), 14, now, now))

	user, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, user.TelegramHandle)
	assert.Equal(t, "@johndoe", *user.TelegramHandle)
	assert.Equal(t, 14, user.ReminderDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTelegramHandle(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE telegram_handle").
		WithArgs("@johndoe").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "user_2abc", strPtr("@johndoe"), 14, now, now))

	user, err := repo.GetByTelegramHandle(context.Background(), "@johndoe")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	t.Run("fills generated columns", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("user_2abc", (*string)(nil), 0).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(42), now, now))

		user := &domain.User{ClerkID: "user_2abc"}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, now, user.CreatedAt)
		assert.Equal(t, now, user.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate key", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("user_2abc", (*string)(nil), 0).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_clerk_id_key"})

		err := repo.Create(context.Background(), &domain.User{ClerkID: "user_2abc"})
		assert.ErrorIs(t, err, ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("user_2abc", (*string)(nil), 0).
			WillReturnError(dbErr)

		err := repo.Create(context.Background(), &domain.User{ClerkID: "user_2abc"})
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdate(t *testing.T) {
	t.Run("partial patch keeps omitted columns", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("UPDATE users").
			WithArgs(strPtr("@newhandle"), (*int)(nil), int64(7)).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(7), "user_2abc", strPtr("@newhandle"), 14, now, now))

		user, err := repo.Update(context.Background(), 7, domain.UserPatch{TelegramHandle: strPtr("@newhandle")})
		require.NoError(t, err)
		assert.Equal(t, "@newhandle", *user.TelegramHandle)
		assert.Equal(t, 14, user.ReminderDays, "reminder days survive a handle-only patch")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("days-only patch keeps the handle", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("UPDATE users").
			WithArgs((*string)(nil), intPtr(3), int64(7)).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(7), "user_2abc", strPtr("@johndoe"), 3, now, now))

		user, err := repo.Update(context.Background(), 7, domain.UserPatch{ReminderDays: intPtr(3)})
		require.NoError(t, err)
		require.NotNil(t, user.TelegramHandle)
		assert.Equal(t, "@johndoe", *user.TelegramHandle)
		assert.Equal(t, 3, user.ReminderDays)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("both fields", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("UPDATE users").
			WithArgs(strPtr("@newhandle"), intPtr(3), int64(7)).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(7), "user_2abc", strPtr("@newhandle"), 3, now, now))

		user, err := repo.Update(context.Background(), 7, domain.UserPatch{
			TelegramHandle: strPtr("@newhandle"),
			ReminderDays:   intPtr(3),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, user.ReminderDays)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery("UPDATE users").
			WithArgs((*string)(nil), intPtr(3), int64(404)).
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.Update(context.Background(), 404, domain.UserPatch{ReminderDays: intPtr(3)})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handle already taken", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery("UPDATE users").
			WithArgs(strPtr("@taken"), (*int)(nil), int64(7)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_telegram_handle_key"})

		_, err := repo.Update(context.Background(), 7, domain.UserPatch{TelegramHandle: strPtr("@taken")})
		assert.ErrorIs(t, err, ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes the row", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(context.Background(), 7))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
