// Package identity owns portal accounts: vendor and admin records, lookup by
// id and email, and account status management. Every other component consults
// it to label outputs with display names.
package identity

import (
	"context"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// Directory is the user store contract.
type Directory interface {
	// FindByID returns domain.ErrUserNotFound for unknown ids.
	FindByID(ctx context.Context, userID string) (*domain.User, error)

	// FindByEmail returns domain.ErrUserNotFound for unknown emails.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create registers a new account. Returns domain.ErrEmailTaken if the
	// email already exists and domain.ErrInvalidInput for blank fields.
	Create(ctx context.Context, user *domain.User) error

	// UpdateStatus sets an account's status to active or suspended.
	// Suspension only affects future logins; existing jobs are untouched.
	UpdateStatus(ctx context.Context, userID, status string) (*domain.User, error)

	// ListVendors returns all vendor-role accounts, newest-first.
	ListVendors(ctx context.Context) ([]domain.User, error)
}
