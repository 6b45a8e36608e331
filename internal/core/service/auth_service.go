package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

// AuthService implements password login for admins, OTP login for
// investors, and token revocation on logout.
type AuthService struct {
	users     ports.UserRepository
	otp       ports.OTPService
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, otp ports.OTPService, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, otp: otp, denylist: denylist, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) UserLogin(ctx context.Context, identity domain.Identity, otp string) (*ports.AuthResult, error) {
	if identity.Email == "" || otp == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.otp.Verify(ctx, identity.Email, otp); err != nil {
		return nil, err
	}

	user, err := s.users.Upsert(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Logout revokes the token's jti for the remainder of its lifetime. An
// unparseable or already-expired token needs no denylist entry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	if jti == "" {
		return nil
	}

	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining <= 0 {
		return nil
	}
	return s.denylist.Revoke(ctx, jti, remaining)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	expireAt := time.Now().Add(s.tokenTTL).Unix()
	claims := jwt.MapClaims{
		"jti":   uuid.NewString(),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"exp":   expireAt,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Token:    token,
		ExpireAt: expireAt,
		Role:     user.Role,
		User:     user,
	}, nil
}
