package readinglog

import (
	"errors"
	"math"
	"time"

	"shelf/internal/book"
)

const (
	StatusWantToRead   = "want_to_read"
	StatusReading      = "reading"
	StatusCompleted    = "completed"
	StatusDidNotFinish = "did_not_finish"
	StatusOnHold       = "on_hold"
)

var (
	// ErrNotFound is returned when a log does not exist or belongs to someone else.
	ErrNotFound = errors.New("reading log not found")
	// ErrUnknownBook is returned when a log points at a book that does not exist.
	ErrUnknownBook = errors.New("book does not exist")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
)

// Log is one user's reading record for one book.
type Log struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user"`
	BookID       string     `json:"book"`
	BookDetail   *book.Book `json:"book_detail"`
	Status       string     `json:"status"`
	DateStarted  *string    `json:"date_started"`
	DateFinished *string    `json:"date_finished"`
	CurrentPage  int        `json:"current_page"`
	Progress     float64    `json:"progress"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Input holds the writable fields of a log. Dates are YYYY-MM-DD.
type Input struct {
	Book         string  `json:"book" validate:"required,uuid"`
	Status       string  `json:"status" validate:"omitempty,oneof=want_to_read reading completed did_not_finish on_hold"`
	DateStarted  *string `json:"date_started" validate:"omitempty,datetime=2006-01-02"`
	DateFinished *string `json:"date_finished" validate:"omitempty,datetime=2006-01-02"`
	CurrentPage  int     `json:"current_page" validate:"gte=0"`
	Notes        string  `json:"notes"`
}

func (l Log) Input() Input {
	return Input{
		Book:         l.BookID,
		Status:       l.Status,
		DateStarted:  l.DateStarted,
		DateFinished: l.DateFinished,
		CurrentPage:  l.CurrentPage,
		Notes:        l.Notes,
	}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted, StatusDidNotFinish, StatusOnHold:
		return true
	}
	return false
}

// Progress returns the percentage read, rounded to two decimals. Without a
// positive page count or a started page the previous value is kept.
func Progress(currentPage int, pageCount *int, prev float64) float64 {
	if pageCount == nil || *pageCount <= 0 || currentPage <= 0 {
		return prev
	}
	p := float64(currentPage) / float64(*pageCount) * 100
	return math.Round(p*100) / 100
}
