package domain

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleInvestor = "INVESTOR"
)

// User models an authenticated actor: a back-office admin (password based)
// or an investor who signed in through the OTP flow.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the triple an investor submits to start the OTP flow.
// Phone is optional; when present it must be exactly ten digits.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
