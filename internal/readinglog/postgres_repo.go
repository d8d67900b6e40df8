package readinglog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const logColumns = `id, user_id, book_id, status,
	to_char(date_started, 'YYYY-MM-DD'), to_char(date_finished, 'YYYY-MM-DD'),
	current_page, progress::float8, notes, created_at, updated_at`

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

func scanLog(row pgx.Row) (Log, error) {
	var l Log
	err := row.Scan(
		&l.ID, &l.UserID, &l.BookID, &l.Status,
		&l.DateStarted, &l.DateFinished,
		&l.CurrentPage, &l.Progress, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *PostgresRepo) List(ctx context.Context, userID string) ([]Log, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		"SELECT "+logColumns+" FROM reading_logs WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Log{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, userID, id string) (Log, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	l, err := scanLog(r.db.QueryRow(timeoutCtx,
		"SELECT "+logColumns+" FROM reading_logs WHERE id = $1 AND user_id = $2", id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, ErrNotFound
		}
		return Log{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Create(ctx context.Context, l *Log) error {
	const query = `
		INSERT INTO reading_logs (user_id, book_id, status, date_started, date_finished,
		                          current_page, progress, notes)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		l.UserID, l.BookID, l.Status, l.DateStarted, l.DateFinished,
		l.CurrentPage, l.Progress, l.Notes,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, l *Log) error {
	const query = `
		UPDATE reading_logs SET
			book_id = $3, status = $4, date_started = $5::date, date_finished = $6::date,
			current_page = $7, progress = $8, notes = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		l.ID, l.UserID, l.BookID, l.Status, l.DateStarted, l.DateFinished,
		l.CurrentPage, l.Progress, l.Notes,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM reading_logs WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
