package users

import "time"

// User is an account known to the service. PasswordHash holds a bcrypt
// hash and never leaves the package.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
