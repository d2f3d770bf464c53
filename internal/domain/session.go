package domain

import "time"

// Session tracks an authenticated device and its refresh token.
// The refresh token itself is never stored, only its SHA-256 hash.
type Session struct {
	ID               string    `json:"id"`
	UserID           int64     `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ClientName       string    `json:"client_name"`
	IPAddress        string    `json:"ip_address,omitempty"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
}

// IsExpired reports whether the session's refresh token can no longer be used.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
