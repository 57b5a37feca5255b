package identity

import "github.com/aslonhq/vendor-portal/internal/domain"

// DemoUsers returns the bootstrap accounts loaded into the memory directory
// when the storage driver is "memory". Credentials are for local development
// only.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{
			UserID:   "admin-1",
			Email:    "admin@example.com",
			Password: "admin123",
			Name:     "Admin User",
			Role:     domain.RoleAdmin,
		},
		{
			UserID:   "vendor-1",
			Email:    "vendor@example.com",
			Password: "vendor123",
			Name:     "Demo Vendor",
			Role:     domain.RoleVendor,
		},
	}
}
