package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/profile-service/internal/domain"
)

var (
	// ErrNotFound signals that the queried row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict signals a uniqueness constraint violation.
	ErrConflict = errors.New("repository: conflict")
)

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines persistence access for provisioned users.
type UserRepository interface {
	GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByTelegramHandle(ctx context.Context, handle string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	const query = `
        SELECT id, clerk_id, telegram_handle, reminder_days, created_at, updated_at
        FROM users WHERE clerk_id=$1`

	return r.scanUser(r.db.QueryRow(ctx, query, clerkID))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, clerk_id, telegram_handle, reminder_days, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByTelegramHandle(ctx context.Context, handle string) (*domain.User, error) {
	const query = `
        SELECT id, clerk_id, telegram_handle, reminder_days, created_at, updated_at
        FROM users WHERE telegram_handle=$1`

	return r.scanUser(r.db.QueryRow(ctx, query, handle))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (clerk_id, telegram_handle, reminder_days)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.ClerkID,
		user.TelegramHandle,
		user.ReminderDays,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	const query = `
        UPDATE users
        SET telegram_handle = COALESCE($1, telegram_handle),
            reminder_days   = COALESCE($2, reminder_days),
            updated_at      = NOW()
        WHERE id=$3
        RETURNING id, clerk_id, telegram_handle, reminder_days, created_at, updated_at`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, patch.TelegramHandle, patch.ReminderDays, id))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.ClerkID,
		&user.TelegramHandle,
		&user.ReminderDays,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
