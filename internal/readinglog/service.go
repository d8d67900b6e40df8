package readinglog

import (
	"context"
	"errors"
	"fmt"

	"shelf/internal/book"
)

type Service struct {
	repo  Repository
	books Books
}

func NewService(repo Repository, books Books) *Service {
	return &Service{repo: repo, books: books}
}

// List returns the user's logs, newest first, each with its book attached.
func (s *Service) List(ctx context.Context, userID string) ([]Log, error) {
	logs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]*book.Book)
	for i := range logs {
		b, ok := seen[logs[i].BookID]
		if !ok {
			b, err = s.bookDetail(ctx, logs[i].BookID)
			if err != nil {
				return nil, err
			}
			seen[logs[i].BookID] = b
		}
		logs[i].BookDetail = b
	}
	return logs, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Log, error) {
	l, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Log{}, err
	}
	if l.BookDetail, err = s.bookDetail(ctx, l.BookID); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Log, error) {
	l := Log{UserID: userID}
	if err := s.apply(ctx, &l, in); err != nil {
		return Log{}, err
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return Log{}, err
	}
	return l, nil
}

// Update replaces the writable fields of an existing log.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Log, error) {
	l, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Log{}, err
	}
	if err := s.apply(ctx, &l, in); err != nil {
		return Log{}, err
	}
	if err := s.repo.Update(ctx, &l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) apply(ctx context.Context, l *Log, in Input) error {
	status := in.Status
	if status == "" {
		status = StatusWantToRead
	}
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	b, err := s.books.Get(ctx, in.Book)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return ErrUnknownBook
		}
		return err
	}

	l.BookID = b.ID
	l.BookDetail = &b
	l.Status = status
	l.DateStarted = in.DateStarted
	l.DateFinished = in.DateFinished
	l.CurrentPage = in.CurrentPage
	l.Notes = in.Notes
	l.Progress = Progress(in.CurrentPage, b.PageCount, l.Progress)
	return nil
}

func (s *Service) bookDetail(ctx context.Context, id string) (*book.Book, error) {
	b, err := s.books.Get(ctx, id)
	if errors.Is(err, book.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
