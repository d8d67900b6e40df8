package readinglog

import (
	"context"

	"shelf/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=readinglog

// Repository stores logs. Every lookup is scoped to the owning user.
type Repository interface {
	List(ctx context.Context, userID string) ([]Log, error)
	Get(ctx context.Context, userID, id string) (Log, error)
	Create(ctx context.Context, l *Log) error
	Update(ctx context.Context, l *Log) error
	Delete(ctx context.Context, userID, id string) error
}

// Books resolves the book a log refers to.
type Books interface {
	Get(ctx context.Context, id string) (book.Book, error)
}
