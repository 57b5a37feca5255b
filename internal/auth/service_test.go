package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *identity.MemoryDirectory) {
	t.Helper()
	dir := identity.NewMemoryDirectory()
	require.NoError(t, dir.Seed(identity.DemoUsers()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(dir, NewMemorySessionStore(), time.Hour, logger), dir
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid vendor credentials", email: "vendor@example.com", password: "vendor123"},
		{name: "valid admin credentials", email: "admin@example.com", password: "admin123"},
		{name: "wrong password", email: "vendor@example.com", password: "nope", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "vendor123", wantErr: domain.ErrInvalidCredentials},
		{name: "empty password", email: "vendor@example.com", password: "", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, tt.email, result.User.Email)
			assert.True(t, result.ExpiresAt.After(time.Now()))
		})
	}
}

func TestService_Login_Suspended(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	_, err := dir.UpdateStatus(ctx, "vendor-1", domain.UserStatusSuspended)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "vendor@example.com", "vendor123")
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)
}

func TestService_ResolveAndLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "vendor@example.com", "vendor123")
	require.NoError(t, err)

	caller, err := svc.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", caller.ID)
	assert.Equal(t, domain.RoleVendor, caller.Role)
	assert.True(t, caller.IsVendor())
	assert.False(t, caller.IsAdmin())

	_, err = svc.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, svc.Logout(ctx, result.Token))
	_, err = svc.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	expired := &Session{
		UserID:    "vendor-1",
		Role:      domain.RoleVendor,
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Put(ctx, "tok", expired, time.Hour))

	_, ok, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}
