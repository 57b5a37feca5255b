package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/shared/postgresql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDirectory is the production Directory over PostgreSQL.
type PostgresDirectory struct {
	db *sqlx.DB
}

// NewPostgresDirectory creates a PostgresDirectory from the shared client.
func NewPostgresDirectory(pg *postgresql.Client) *PostgresDirectory {
	return &PostgresDirectory{db: pg.GetDB()}
}

const userColumns = `user_id, email, password_hash, name, role, status, created_at`

func (d *PostgresDirectory) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := d.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (d *PostgresDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	err := d.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (d *PostgresDirectory) Create(ctx context.Context, user *domain.User) error {
	if user.Email == "" || user.Name == "" || user.PasswordHash == "" {
		return domain.ErrInvalidInput
	}
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (
			user_id, email, password_hash, name, role, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := d.db.ExecContext(ctx, query,
		user.UserID, user.Email, user.PasswordHash,
		user.Name, user.Role, user.Status, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (d *PostgresDirectory) UpdateStatus(ctx context.Context, userID, status string) (*domain.User, error) {
	if status != domain.UserStatusActive && status != domain.UserStatusSuspended {
		return nil, domain.ErrInvalidInput
	}

	query := `
		UPDATE users
		SET status = $1
		WHERE user_id = $2
		RETURNING ` + userColumns

	var user domain.User
	err := d.db.GetContext(ctx, &user, query, status, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return &user, nil
}

func (d *PostgresDirectory) ListVendors(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC, user_id DESC
	`

	var vendors []domain.User
	if err := d.db.SelectContext(ctx, &vendors, query, domain.RoleVendor); err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	return vendors, nil
}
