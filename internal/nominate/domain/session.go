package domain

import "time"

// AdminSession is a server-side login session. Only a keyed fingerprint of
// the bearer token is stored.
type AdminSession struct {
	ID        string // ULID
	TokenHash string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
