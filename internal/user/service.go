package user

import (
	"context"
	"fmt"
	"strings"

	"shelf/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account with a bcrypt-hashed password. New accounts
// are private.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        strings.TrimSpace(in.Email),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		IsPrivate:    true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// UpdateProfile replaces the editable profile fields of the user with id.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	u.Username = strings.TrimSpace(in.Username)
	u.DisplayName = in.DisplayName
	u.Bio = in.Bio
	u.Avatar = in.Avatar
	u.IsPrivate = in.IsPrivate

	if err := s.repo.Update(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
