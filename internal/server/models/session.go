package models

import "time"

// Session is a time-bounded proof of successful authentication bound to one
// account. The row is deleted on logout; expiry is checked lazily at use time.
type Session struct {
	ID         string
	AccountID  string
	Persistent bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session's validity window has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
