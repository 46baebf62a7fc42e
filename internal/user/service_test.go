package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/auth"
)

type memoryRepo struct {
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*User{}}
}

func (m *memoryRepo) Create(ctx context.Context, username, passwordHash string) error {
	m.users[username] = &User{
		ID:           int64(len(m.users) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	return nil
}

func (m *memoryRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return m.users[username], nil
}

func (m *memoryRepo) Delete(ctx context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.users, username)
	return nil
}

func newTestService(t *testing.T) (*Service, *auth.Verifier) {
	t.Helper()
	issuer, err := auth.NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier("secret")
	require.NoError(t, err)
	return NewService(newMemoryRepo(), issuer), verifier
}

func TestRegisterAndLogin(t *testing.T) {
	svc, verifier := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "s3cret"))

	token, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	p, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Subject)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "s3cret"))

	err := svc.Register(ctx, "alice", "other")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "s3cret"))

	_, err := svc.Login(ctx, "alice", "wrong")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.Login(ctx, "nobody", "s3cret")
	assert.True(t, errors.Is(err, apperr.ErrInvalid), "unknown user reads the same as a wrong password")
}

func TestProfile_Missing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Profile(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
