package handler

import "github.com/cdainvest/portal-system/internal/core/domain"

type captchaResponse struct {
	ChallengeID string `json:"challenge_id"`
	Captcha     string `json:"captcha"` // inline SVG markup
}

type verifyCaptchaRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Captcha     string `json:"captcha"      validate:"required"`
}

type sendOTPRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,len=10,numeric"`
}

type userLoginRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,len=10,numeric"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type adminLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// userLoginResponse mirrors the investor login wire shape:
// {status, message, user, token}.
type userLoginResponse struct {
	Status   bool         `json:"status"`
	Message  string       `json:"message,omitempty"`
	User     *domain.User `json:"user,omitempty"`
	Token    string       `json:"token,omitempty"`
	ExpireAt int64        `json:"expireAt,omitempty"`
}

// adminLoginResponse mirrors the admin login wire shape:
// {success, message, token, expireAt, role}.
type adminLoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Token    string `json:"token,omitempty"`
	ExpireAt int64  `json:"expireAt,omitempty"`
	Role     string `json:"role,omitempty"`
}
