package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelf/internal/platform/postgres"
)

const userColumns = `id, email, username, password_hash, display_name, bio, avatar, is_private, date_joined`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.DisplayName, &u.Bio, &u.Avatar, &u.IsPrivate, &u.DateJoined,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (email, username, password_hash, display_name, bio, avatar, is_private)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, date_joined
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		u.Email, u.Username, u.PasswordHash, u.DisplayName, u.Bio, u.Avatar, u.IsPrivate,
	).Scan(&u.ID, &u.DateJoined)
	return mapWriteErr(err)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
}

func (r *PostgresRepo) Update(ctx context.Context, u *User) error {
	const query = `
	UPDATE users
	SET username = $2, display_name = $3, bio = $4, avatar = $5, is_private = $6
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, u.ID, u.Username, u.DisplayName, u.Bio, u.Avatar, u.IsPrivate)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case postgres.IsUniqueViolation(err, "users_email_key"):
		return ErrEmailTaken
	case postgres.IsUniqueViolation(err, "users_username_key"):
		return ErrUsernameTaken
	case postgres.IsUniqueViolation(err, ""):
		return ErrAlreadyExists
	}
	return err
}
