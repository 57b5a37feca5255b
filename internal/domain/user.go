package domain

import "time"

// User roles
const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// Account statuses
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is a portal account. PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	UserID       string    `db:"user_id" json:"user_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Caller identifies the authenticated principal making a service call.
// It is resolved once by the auth middleware and passed explicitly; services
// never consult ambient session state.
type Caller struct {
	ID   string
	Role string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsVendor reports whether the caller holds the vendor role.
func (c Caller) IsVendor() bool {
	return c.Role == RoleVendor
}
