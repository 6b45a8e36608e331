package domain

import "time"

// CaptchaChallenge pairs a server-held expected answer with the markup the
// client renders. The answer never leaves the server; only ID and Markup do.
type CaptchaChallenge struct {
	ID        string
	Answer    string
	Markup    string // inline SVG
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// OTPCode is a one-time password issued against an investor identity.
type OTPCode struct {
	Email     string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Attempts  int
}
