package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sharedredis "github.com/aslonhq/vendor-portal/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Session is the server-side record behind an opaque session token.
type Session struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists sessions keyed by token. Implementations must be safe
// for concurrent use.
type SessionStore interface {
	Put(ctx context.Context, token string, session *Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, bool, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore stores sessions in Redis with a TTL.
type RedisSessionStore struct {
	rdb *goredis.Client
}

// NewRedisSessionStore creates a session store over the shared Redis client.
func NewRedisSessionStore(client *sharedredis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: client.GetRDB()}
}

func (s *RedisSessionStore) Put(ctx context.Context, token string, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, bool, error) {
	payload, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// MemorySessionStore is an in-process SessionStore for tests and mock mode.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Put(_ context.Context, token string, session *Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[token] = &cp
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, false, nil
	}
	cp := *session
	return &cp, true, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
