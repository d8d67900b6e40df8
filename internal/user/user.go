package user

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrAlreadyExists)
	ErrUsernameTaken = fmt.Errorf("%w: username", ErrAlreadyExists)
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Bio          string    `json:"bio"`
	Avatar       *string   `json:"avatar"`
	IsPrivate    bool      `json:"is_private"`
	DateJoined   time.Time `json:"date_joined"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ProfileInput holds the fields a user may change on their own account.
type ProfileInput struct {
	Username    string  `json:"username" validate:"required,max=150"`
	DisplayName string  `json:"display_name" validate:"max=50"`
	Bio         string  `json:"bio" validate:"max=500"`
	Avatar      *string `json:"avatar" validate:"omitempty,url"`
	IsPrivate   bool    `json:"is_private"`
}

func (u User) Profile() ProfileInput {
	return ProfileInput{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Avatar:      u.Avatar,
		IsPrivate:   u.IsPrivate,
	}
}
