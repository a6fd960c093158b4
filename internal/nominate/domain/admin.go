package domain

import "time"

// Admin is an administrator allowed to review nominations. Admins are
// seeded from the command line; there is no self-service sign-up.
type Admin struct {
	Username     string
	PasswordHash string // Argon2id PHC string
	CreatedAt    time.Time
}
