package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/users"
)

// UserDirectory resolves accounts by email.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

// SessionStore persists session metadata alongside the Redis session itself,
// so active sessions survive a cache flush and can be audited.
type SessionStore interface {
	CreateSession(ctx context.Context, id string, userID string, expiresAt time.Time, ip, userAgent string) error
	DeleteSession(ctx context.Context, id string) error
}

// Service wraps authentication business rules.
type Service struct {
	directory UserDirectory
	sessions  SessionStore
}

// NewService constructs a new Service.
func NewService(directory UserDirectory, sessions SessionStore) *Service {
	return &Service{directory: directory, sessions: sessions}
}

// Authenticate validates email/password credentials. Lookup and password
// failures collapse into the same error so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.directory.GetByEmail(ctx, email)
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession persists the session metadata.
func (s *Service) RegisterSession(ctx context.Context, id string, userID string, expiresAt time.Time, ip, userAgent string) error {
	return s.sessions.CreateSession(ctx, id, userID, expiresAt, ip, userAgent)
}

// RemoveSession deletes a session record.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}
