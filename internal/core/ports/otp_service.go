package ports

import (
	"context"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

type OTPService interface {
	// Send issues a six digit code for the identity and delivers it by mail.
	// Reissuing replaces any previous code for the same email.
	Send(ctx context.Context, identity domain.Identity) error
	// Verify checks the code and consumes it on success. Each failed check
	// burns one attempt; the code is invalidated when the budget runs out.
	Verify(ctx context.Context, email, code string) error
}

// OTPStore persists pending codes and their attempt counters.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	// BurnAttempt increments the failed-attempt counter and returns the new value.
	BurnAttempt(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
}

// Mailer delivers the OTP out of band.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
}
