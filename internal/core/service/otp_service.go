package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

// OTPService issues six digit codes, delivers them by mail, and enforces
// the attempt budget on verification.
type OTPService struct {
	store  ports.OTPStore
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewOTPService(store ports.OTPStore, mailer ports.Mailer, log zerolog.Logger) *OTPService {
	return &OTPService{store: store, mailer: mailer, log: log}
}

// Send issues a fresh code for the identity. A resend replaces the previous
// code and resets the attempt counter.
func (s *OTPService) Send(ctx context.Context, identity domain.Identity) error {
	code, err := randomDigits(otpLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.store.Save(ctx, identity.Email, code, otpTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, identity.Email, identity.Name, code); err != nil {
		// Drop the code so a failed delivery cannot be guessed against.
		_ = s.store.Delete(ctx, identity.Email)
		return fmt.Errorf("deliver otp: %w", err)
	}

	s.log.Info().Str("email", identity.Email).Msg("otp issued")
	return nil
}

// Verify checks the code. Success consumes it; failure burns one attempt and
// invalidates the code when the budget is exhausted.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	expected, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}

	if code != expected {
		attempts, aerr := s.store.BurnAttempt(ctx, email)
		if aerr == nil && attempts >= otpMaxAttempts {
			_ = s.store.Delete(ctx, email)
			return domain.ErrTooManyAttempts
		}
		return domain.ErrOTPMismatch
	}

	return s.store.Delete(ctx, email)
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
