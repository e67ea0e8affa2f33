package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"caretrack.org/internal/ids"
)

// Service glues the credential store to token issuance: registration, login,
// and the admin role-change operation.
type Service struct {
	identities IdentityStore
	tokens     *TokenService
	now        func() time.Time
}

// NewService constructs a Service over the given credential store.
func NewService(identities IdentityStore, tokens *TokenService) (*Service, error) {
	if identities == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	return &Service{identities: identities, tokens: tokens, now: time.Now}, nil
}

// Register creates an identity with the default viewer role. The email must
// be unique; a duplicate registration surfaces as ErrConflict.
func (s *Service) Register(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	identity := &Identity{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleViewer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.identities.CreateIdentity(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Login verifies credentials and issues a bearer token carrying the identity
// and its current role. All credential failures collapse to ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	identity, err := s.identities.FindIdentityByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	if err := VerifyPassword(identity.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	token, expiresAt, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, identity, nil
}

// ChangeRole updates the target identity's role. Tokens already issued keep
// the old role until they expire; that window is accepted, not patched here.
func (s *Service) ChangeRole(ctx context.Context, targetID string, role Role) (*Identity, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	return s.identities.UpdateIdentityRole(ctx, targetID, role)
}

// Identity loads a single identity by id.
func (s *Service) Identity(ctx context.Context, id string) (*Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	return s.identities.FindIdentity(ctx, id)
}
