package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps pending one-time codes in Redis. One code per email,
// upserted on every request so a re-request replaces the previous
// challenge, with expiry enforced by key TTL.
type OTPStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewOTPStore creates an OTP store with the given code lifetime.
func NewOTPStore(redisClient *redis.Client, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPStore{redis: redisClient, ttl: ttl}
}

func otpKey(email string) string {
	return "otp:" + email
}

// Put stores (or replaces) the pending code for the email.
func (s *OTPStore) Put(ctx context.Context, email, code string) error {
	if err := s.redis.Set(ctx, otpKey(email), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: store otp: %w", err)
	}
	return nil
}

// Get returns the pending code, or ErrInvalidOTP when none exists.
// An expired key reads the same as a missing one, which is exactly the
// taxonomy callers surface ("invalid or expired").
func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.redis.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return "", ErrInvalidOTP
	}
	if err != nil {
		return "", fmt.Errorf("auth: read otp: %w", err)
	}
	return code, nil
}

// Consume removes the pending code after a successful verification.
func (s *OTPStore) Consume(ctx context.Context, email string) error {
	if err := s.redis.Del(ctx, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("auth: consume otp: %w", err)
	}
	return nil
}
