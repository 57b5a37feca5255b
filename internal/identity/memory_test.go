package identity

import (
	"context"
	"testing"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMemoryDirectory_Seed(t *testing.T) {
	dir := NewMemoryDirectory()
	require.NoError(t, dir.Seed(DemoUsers()))

	user, err := dir.FindByEmail(context.Background(), "vendor@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Demo Vendor", user.Name)
	assert.Equal(t, domain.RoleVendor, user.Role)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	// Passwords are stored as bcrypt hashes, never plaintext.
	assert.NotEqual(t, "vendor123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("vendor123")))
}

func TestMemoryDirectory_Create(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()

	user := &domain.User{
		Email:        "new@example.com",
		PasswordHash: "hash",
		Name:         "New Vendor",
		Role:         domain.RoleVendor,
	}
	require.NoError(t, dir.Create(ctx, user))
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	// Duplicate email, case-insensitive.
	dup := &domain.User{
		Email:        "NEW@example.com",
		PasswordHash: "hash",
		Name:         "Other",
		Role:         domain.RoleVendor,
	}
	assert.ErrorIs(t, dir.Create(ctx, dup), domain.ErrEmailTaken)

	// Missing fields.
	assert.ErrorIs(t, dir.Create(ctx, &domain.User{Email: "x@example.com"}), domain.ErrInvalidInput)
}

func TestMemoryDirectory_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	require.NoError(t, dir.Seed(DemoUsers()))

	user, err := dir.UpdateStatus(ctx, "vendor-1", domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, user.Status)

	_, err = dir.UpdateStatus(ctx, "vendor-1", "banned")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = dir.UpdateStatus(ctx, "no-such-user", domain.UserStatusActive)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemoryDirectory_ListVendors(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	require.NoError(t, dir.Seed(DemoUsers()))

	vendors, err := dir.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "vendor-1", vendors[0].UserID)
}
