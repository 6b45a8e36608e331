package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

const (
	captchaLength = 5
	captchaTTL    = 10 * time.Minute

	// Ambiguous glyphs (0/O, 1/I/l) are left out.
	captchaAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// CaptchaService issues and verifies one-shot visual challenges.
type CaptchaService struct {
	store ports.CaptchaStore
}

func NewCaptchaService(store ports.CaptchaStore) *CaptchaService {
	return &CaptchaService{store: store}
}

// Issue generates a challenge, stores its answer under a fresh id, and
// returns the challenge with the answer blanked out.
func (s *CaptchaService) Issue(ctx context.Context) (*domain.CaptchaChallenge, error) {
	answer, err := randomText(captchaLength)
	if err != nil {
		return nil, fmt.Errorf("generate captcha: %w", err)
	}

	id := uuid.NewString()
	if err := s.store.Save(ctx, id, answer, captchaTTL); err != nil {
		return nil, fmt.Errorf("store captcha: %w", err)
	}

	now := time.Now().UTC()
	return &domain.CaptchaChallenge{
		ID:        id,
		Markup:    renderSVG(answer),
		IssuedAt:  now,
		ExpiresAt: now.Add(captchaTTL),
	}, nil
}

// Verify consumes the challenge. The stored answer is removed on the first
// attempt regardless of outcome, so a wrong guess forces a fresh challenge.
func (s *CaptchaService) Verify(ctx context.Context, id, answer string) error {
	expected, err := s.store.Take(ctx, id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), expected) {
		return domain.ErrCaptchaMismatch
	}
	return nil
}

func randomText(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(captchaAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(captchaAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// renderSVG draws the answer as jittered text. The point of the exercise is
// the server-held answer association, not OCR resistance.
func renderSVG(answer string) string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="150" height="50" viewBox="0 0 150 50">`)
	b.WriteString(`<rect width="150" height="50" fill="#f1f5f9"/>`)
	for i, ch := range answer {
		x := 18 + i*26
		y := 30 + (i%3)*5
		rotate := (i%2)*16 - 8
		fmt.Fprintf(&b,
			`<text x="%d" y="%d" font-size="28" font-family="monospace" fill="#334155" transform="rotate(%d %d %d)">%c</text>`,
			x, y, rotate, x, y, ch)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
