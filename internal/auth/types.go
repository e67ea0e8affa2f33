package auth

import "time"

// Identity is a staff account held by the credential store. Identities are
// created on registration with role viewer, have their role changed only by
// an admin, and are never deleted.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
