package auth

import "context"

// IdentityStore describes the credential-store operations the core needs:
// lookup by identity or email, creation on registration, and role updates.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity *Identity) error
	FindIdentity(ctx context.Context, id string) (*Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	UpdateIdentityRole(ctx context.Context, id string, role Role) (*Identity, error)
}
