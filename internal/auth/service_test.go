package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/users"
)

type mockDirectory struct {
	byEmail map[string]users.User
}

func (m *mockDirectory) GetByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

type mockSessions struct {
	created []string
	deleted []string
}

func (m *mockSessions) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, userAgent string) error {
	m.created = append(m.created, id)
	return nil
}

func (m *mockSessions) DeleteSession(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	user := users.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash(t, "correct horse battery"),
	}
	svc := NewService(&mockDirectory{byEmail: map[string]users.User{user.Email: user}}, &mockSessions{})

	got, err := svc.Authenticate(context.Background(), "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	user := users.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: hash(t, "correct horse battery"),
	}
	svc := NewService(&mockDirectory{byEmail: map[string]users.User{user.Email: user}}, &mockSessions{})

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(&mockDirectory{byEmail: map[string]users.User{}}, &mockSessions{})

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	sessions := &mockSessions{}
	svc := NewService(&mockDirectory{}, sessions)

	require.NoError(t, svc.RegisterSession(context.Background(), "sess-1", uuid.NewString(), time.Now().Add(time.Hour), "127.0.0.1", "test"))
	require.NoError(t, svc.RemoveSession(context.Background(), "sess-1"))
	require.Equal(t, []string{"sess-1"}, sessions.created)
	require.Equal(t, []string{"sess-1"}, sessions.deleted)
}
