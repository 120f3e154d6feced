package models

import "time"

// Session is the single active login grant for a user. A new login replaces it.
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
