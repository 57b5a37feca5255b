// Package auth implements credential login and opaque-token sessions. It is
// the only component that sees passwords; everything downstream works with a
// resolved domain.Caller.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is used when the config does not set one.
const DefaultSessionTTL = 24 * time.Hour

// Service handles login, logout, and session resolution.
type Service struct {
	directory identity.Directory
	sessions  SessionStore
	ttl       time.Duration
	logger    *slog.Logger
}

// NewService creates an auth service. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewService(directory identity.Directory, sessions SessionStore, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		directory: directory,
		sessions:  sessions,
		ttl:       ttl,
		logger:    logger,
	}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string
	User      *domain.User
	ExpiresAt time.Time
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords both yield domain.ErrInvalidCredentials; suspended accounts
// are rejected with domain.ErrAccountSuspended.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status == domain.UserStatusSuspended {
		s.logger.Warn("Suspended account login attempt",
			slog.String("user_id", user.UserID),
		)
		return nil, domain.ErrAccountSuspended
	}

	now := time.Now().UTC()
	session := &Session{
		UserID:    user.UserID,
		Role:      user.Role,
		Name:      user.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := uuid.New().String()
	if err := s.sessions.Put(ctx, token, session, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("User logged in",
		slog.String("user_id", user.UserID),
		slog.String("role", user.Role),
	)

	return &LoginResult{Token: token, User: user, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve maps a session token to the calling principal. An unknown or
// expired token yields domain.ErrInvalidCredentials.
func (s *Service) Resolve(ctx context.Context, token string) (domain.Caller, error) {
	if token == "" {
		return domain.Caller{}, domain.ErrInvalidCredentials
	}

	session, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return domain.Caller{}, domain.ErrInvalidCredentials
	}

	return domain.Caller{ID: session.UserID, Role: session.Role}, nil
}

// Logout deletes the session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// HashPassword produces a bcrypt hash for account creation.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
