package book

import (
	"context"
	"fmt"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// ExistsByTitle reports whether a book with exactly this title is stored.
func (s *Service) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.repo.ExistsByTitle(ctx, title)
}

// Create stores a new book. The store assigns ID, rating fields and CreatedAt.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	b, err := fromInput(in)
	if err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update replaces every writable field of the book with id.
func (s *Service) Update(ctx context.Context, id string, in Input) (Book, error) {
	b, err := fromInput(in)
	if err != nil {
		return Book{}, err
	}
	b.ID = id
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func fromInput(in Input) (Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Book{}, fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	return Book{
		Title:       title,
		Authors:     nonNil(in.Authors),
		ISBN10:      blankToNil(in.ISBN10),
		ISBN13:      blankToNil(in.ISBN13),
		CoverURL:    blankToNil(in.CoverURL),
		PageCount:   in.PageCount,
		Publisher:   in.Publisher,
		PublishDate: in.PublishDate,
		Description: in.Description,
		Genres:      nonNil(in.Genres),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// blankToNil keeps empty identifiers out of the unique ISBN columns.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
