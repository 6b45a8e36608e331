package domain

import "time"

// Session is the client-held proof of authentication. A session whose
// ExpireAt is in the past must behave exactly as if it were absent.
type Session struct {
	AccessToken string `json:"access_token"`
	ExpireAt    int64  `json:"expire_at"` // unix seconds, 0 = no deadline
	Role        string `json:"role,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// Live reports whether the session may still be attached to requests.
func (s *Session) Live(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpireAt == 0 || s.ExpireAt > now.Unix()
}
