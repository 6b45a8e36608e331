package ports

import (
	"context"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// AuthResult is what a successful login hands back to the transport layer.
type AuthResult struct {
	Token    string
	ExpireAt int64
	Role     string
	User     *domain.User
}

type AuthService interface {
	// AdminLogin authenticates a back-office user by email and password.
	AdminLogin(ctx context.Context, email, password string) (*AuthResult, error)
	// UserLogin completes the investor OTP flow: the code is checked and a
	// session token is issued for the (possibly new) investor account.
	UserLogin(ctx context.Context, identity domain.Identity, otp string) (*AuthResult, error)
	// Logout revokes the given token server-side. Best effort by contract:
	// callers clear local state regardless of the returned error.
	Logout(ctx context.Context, token string) error
}
