package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrConflict is returned when an ISBN is already taken by another book.
	ErrConflict = errors.New("book with this isbn already exists")
	// ErrInvalid is returned for records the store must never hold.
	ErrInvalid = errors.New("invalid book")
)

// Book is a catalog record.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	ISBN10      *string   `json:"isbn_10"`
	ISBN13      *string   `json:"isbn_13"`
	CoverURL    *string   `json:"cover_url"`
	PageCount   *int      `json:"page_count"`
	Publisher   string    `json:"publisher"`
	PublishDate string    `json:"publish_date"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	AvgRating   float64   `json:"avg_rating"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input holds the writable fields of a book.
type Input struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Authors     []string `json:"authors"`
	ISBN10      *string  `json:"isbn_10" validate:"omitempty,len=10"`
	ISBN13      *string  `json:"isbn_13" validate:"omitempty,len=13"`
	CoverURL    *string  `json:"cover_url" validate:"omitempty,url"`
	PageCount   *int     `json:"page_count" validate:"omitempty,gte=0"`
	Publisher   string   `json:"publisher" validate:"max=255"`
	PublishDate string   `json:"publish_date" validate:"max=20"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
}

// Input returns the writable part of b, used as the base of partial updates.
func (b Book) Input() Input {
	return Input{
		Title:       b.Title,
		Authors:     b.Authors,
		ISBN10:      b.ISBN10,
		ISBN13:      b.ISBN13,
		CoverURL:    b.CoverURL,
		PageCount:   b.PageCount,
		Publisher:   b.Publisher,
		PublishDate: b.PublishDate,
		Description: b.Description,
		Genres:      b.Genres,
	}
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q      string
	Genre  string
	Limit  int
	Offset int
}
