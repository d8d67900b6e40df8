package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelf/internal/platform/postgres"
)

const bookColumns = `id, title, authors, isbn_10, isbn_13, cover_url, page_count,
	publisher, publish_date, description, genres, avg_rating::float8, rating_count, created_at`

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

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Authors, &b.ISBN10, &b.ISBN13, &b.CoverURL, &b.PageCount,
		&b.Publisher, &b.PublishDate, &b.Description, &b.Genres, &b.AvgRating, &b.RatingCount, &b.CreatedAt,
	)
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR authors::text ILIKE $%d)", argn, argn))
		args = append(args, "%"+q.Q+"%")
		argn++
	}

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genres ? $%d", argn))
		args = append(args, q.Genre)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY title ASC, id ASC
		LIMIT $%d OFFSET $%d`,
		bookColumns, where, argn, argn+1)

	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, "SELECT "+bookColumns+" FROM books WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(timeoutCtx, "SELECT EXISTS (SELECT 1 FROM books WHERE title = $1)", title).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, authors, isbn_10, isbn_13, cover_url, page_count,
		                   publisher, publish_date, description, genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, avg_rating::float8, rating_count, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Authors, b.ISBN10, b.ISBN13, b.CoverURL, b.PageCount,
		b.Publisher, b.PublishDate, b.Description, b.Genres,
	).Scan(&b.ID, &b.AvgRating, &b.RatingCount, &b.CreatedAt)
	return mapWriteErr(err)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books SET
			title = $2, authors = $3, isbn_10 = $4, isbn_13 = $5, cover_url = $6,
			page_count = $7, publisher = $8, publish_date = $9, description = $10, genres = $11
		WHERE id = $1
		RETURNING avg_rating::float8, rating_count, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Authors, b.ISBN10, b.ISBN13, b.CoverURL,
		b.PageCount, b.Publisher, b.PublishDate, b.Description, b.Genres,
	).Scan(&b.AvgRating, &b.RatingCount, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
