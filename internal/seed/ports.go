package seed

import (
	"context"

	"shelf/internal/book"
	"shelf/internal/platform/openlibrary"
)

// WorkSource is the external catalog the seeder reads from.
type WorkSource interface {
	SubjectWorks(ctx context.Context, subject string, limit int) (*openlibrary.SubjectResponse, error)
	Work(ctx context.Context, workID string) (*openlibrary.WorkDetails, error)
	Edition(ctx context.Context, editionKey string) (*openlibrary.Edition, error)
}

// Store is where created records go. *book.Service satisfies it.
type Store interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, in book.Input) (book.Book, error)
}

// Pacer blocks between create attempts. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}
