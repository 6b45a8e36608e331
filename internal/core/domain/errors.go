package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("forbidden")

	ErrCaptchaMismatch = errors.New("captcha does not match")
	ErrCaptchaExpired  = errors.New("captcha expired")

	ErrOTPMismatch      = errors.New("otp does not match")
	ErrOTPExpired       = errors.New("otp expired")
	ErrTooManyAttempts  = errors.New("too many otp attempts")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrDocumentNotFound = errors.New("document not found")
)
