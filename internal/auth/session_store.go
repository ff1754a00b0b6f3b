package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saathihq/saathi-platform/pkg/logging"
)

// SessionStore keeps opaque session tokens in Redis, expiring them via
// TTL. The token value itself is never inspected; it is an opaque
// credential minted at login and handed back in an HTTP-only cookie.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewSessionStore creates a session store with the given lifetime.
func NewSessionStore(redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionStore{redis: redisClient, ttl: ttl, logger: logger}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create registers a session token for the user.
func (s *SessionStore) Create(ctx context.Context, token, userID string) error {
	if err := s.redis.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: store session: %w", err)
	}
	return nil
}

// Resolve returns the user id behind a token, or ErrSessionNotFound.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("auth: resolve session: %w", err)
	}
	return userID, nil
}

// Destroy removes a session token. Removing an unknown token is a no-op.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("auth: destroy session: %w", err)
	}
	return nil
}

// TTL exposes the configured session lifetime (used for cookie max-age).
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
