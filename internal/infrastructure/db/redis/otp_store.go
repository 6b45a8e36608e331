package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// OTPStore holds pending login codes and their failed-attempt counters.
// Key formats: otp:<email> and otp:<email>:attempts
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save stores a fresh code and resets the attempt counter. A resend for the
// same email therefore replaces the old code outright.
func (s *OTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(email), code, ttl)
	pipe.Del(ctx, s.attemptsKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return "", domain.ErrOTPExpired
	}
	if err != nil {
		return "", fmt.Errorf("get otp: %w", err)
	}
	return code, nil
}

// BurnAttempt increments the failed-attempt counter. The counter expires
// together with the code it guards.
func (s *OTPStore) BurnAttempt(ctx context.Context, email string) (int, error) {
	n, err := s.client.Incr(ctx, s.attemptsKey(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("burn otp attempt: %w", err)
	}
	if n == 1 {
		ttl, terr := s.client.TTL(ctx, s.key(email)).Result()
		if terr == nil && ttl > 0 {
			_ = s.client.Expire(ctx, s.attemptsKey(email), ttl).Err()
		}
	}
	return int(n), nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email), s.attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

func (s *OTPStore) key(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

func (s *OTPStore) attemptsKey(email string) string {
	return fmt.Sprintf("otp:%s:attempts", email)
}
