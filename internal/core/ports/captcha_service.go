package ports

import (
	"context"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

type CaptchaService interface {
	// Issue creates a fresh challenge and returns it with the answer blanked.
	Issue(ctx context.Context) (*domain.CaptchaChallenge, error)
	// Verify consumes the challenge: the stored answer is deleted on the
	// first attempt whether or not it matched.
	Verify(ctx context.Context, id, answer string) error
}

// CaptchaStore holds issued answers for their TTL window.
type CaptchaStore interface {
	Save(ctx context.Context, id, answer string, ttl time.Duration) error
	// Take returns the stored answer and removes it. ErrCaptchaExpired when absent.
	Take(ctx context.Context, id string) (string, error)
}
