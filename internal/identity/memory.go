package identity

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryDirectory is a mutex-guarded in-memory Directory for tests and mock
// mode.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // lowercased email -> user id
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// SeedUser is a bootstrap account definition with a plaintext password that
// is hashed on insert. Only mock mode uses seeds.
type SeedUser struct {
	UserID   string
	Email    string
	Password string
	Name     string
	Role     string
}

// Seed inserts bootstrap accounts, hashing their passwords with bcrypt.
func (d *MemoryDirectory) Seed(users []SeedUser) error {
	for _, seed := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &domain.User{
			UserID:       seed.UserID,
			Email:        seed.Email,
			PasswordHash: string(hash),
			Name:         seed.Name,
			Role:         seed.Role,
			Status:       domain.UserStatusActive,
			CreatedAt:    time.Now().UTC(),
		}
		if err := d.Create(context.Background(), user); err != nil {
			return err
		}
	}
	return nil
}

func (d *MemoryDirectory) FindByID(_ context.Context, userID string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *d.byID[id]
	return &cp, nil
}

func (d *MemoryDirectory) Create(_ context.Context, user *domain.User) error {
	if user.Email == "" || user.Name == "" || user.PasswordHash == "" {
		return domain.ErrInvalidInput
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, taken := d.byEmail[key]; taken {
		return domain.ErrEmailTaken
	}

	cp := *user
	if cp.UserID == "" {
		cp.UserID = uuid.New().String()
	}
	if cp.Status == "" {
		cp.Status = domain.UserStatusActive
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}

	d.byID[cp.UserID] = &cp
	d.byEmail[key] = cp.UserID
	*user = cp
	return nil
}

func (d *MemoryDirectory) UpdateStatus(_ context.Context, userID, status string) (*domain.User, error) {
	if status != domain.UserStatusActive && status != domain.UserStatusSuspended {
		return nil, domain.ErrInvalidInput
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Status = status

	cp := *user
	return &cp, nil
}

func (d *MemoryDirectory) ListVendors(_ context.Context) ([]domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var vendors []domain.User
	for _, user := range d.byID {
		if user.Role == domain.RoleVendor {
			vendors = append(vendors, *user)
		}
	}
	sort.SliceStable(vendors, func(i, j int) bool {
		return vendors[i].CreatedAt.After(vendors[j].CreatedAt)
	})
	return vendors, nil
}
