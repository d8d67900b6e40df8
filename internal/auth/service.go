package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelf/internal/platform/crypto"
	"shelf/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Users is the account lookup the token endpoints need. *user.Service
// satisfies it.
type Users interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Tokens is the pair handed out on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Service struct {
	users Users
	cfg   Config
}

func NewService(users Users, cfg Config) *Service {
	return &Service{users: users, cfg: cfg}
}

// Login checks the credentials and issues an access and a refresh token.
func (s *Service) Login(ctx context.Context, username, password string) (Tokens, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Tokens{}, ErrUnauthorized
	}

	access, err := crypto.GenerateToken(s.cfg.Secret, u.ID, crypto.TokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := crypto.GenerateToken(s.cfg.Secret, u.ID, crypto.TokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := crypto.ParseToken(s.cfg.Secret, refreshToken, crypto.TokenTypeRefresh)
	if err != nil {
		return "", ErrUnauthorized
	}

	if _, err := s.users.GetByID(ctx, claims.Sub); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	access, err := crypto.GenerateToken(s.cfg.Secret, claims.Sub, crypto.TokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}
