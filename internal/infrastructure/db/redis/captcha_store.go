package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// CaptchaStore holds issued challenge answers under a TTL.
// Key format: captcha:<challenge_id>
type CaptchaStore struct {
	client *redis.Client
}

func NewCaptchaStore(client *redis.Client) *CaptchaStore {
	return &CaptchaStore{client: client}
}

func (s *CaptchaStore) Save(ctx context.Context, id, answer string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(id), answer, ttl).Err(); err != nil {
		return fmt.Errorf("save captcha: %w", err)
	}
	return nil
}

// Take returns the stored answer and deletes it in one round trip, so a
// challenge can only ever be verified against once.
func (s *CaptchaStore) Take(ctx context.Context, id string) (string, error) {
	answer, err := s.client.GetDel(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return "", domain.ErrCaptchaExpired
	}
	if err != nil {
		return "", fmt.Errorf("take captcha: %w", err)
	}
	return answer, nil
}

func (s *CaptchaStore) key(id string) string {
	return fmt.Sprintf("captcha:%s", id)
}
