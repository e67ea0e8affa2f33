package pg

import (
	"context"
	"database/sql"
	"errors"

	"caretrack.org/internal/auth"
)

var _ auth.IdentityStore = (*Store)(nil)

func (s *Store) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		insert into identities (id, email, password_hash, role, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6)
	`, identity.ID, identity.Email, identity.PasswordHash, string(identity.Role), identity.CreatedAt, identity.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) FindIdentity(ctx context.Context, id string) (*auth.Identity, error) {
	return s.scanIdentity(ctx, `
		select id, email, password_hash, role, created_at, updated_at
		from identities where id = $1
	`, id)
}

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	return s.scanIdentity(ctx, `
		select id, email, password_hash, role, created_at, updated_at
		from identities where email = $1
	`, email)
}

func (s *Store) UpdateIdentityRole(ctx context.Context, id string, role auth.Role) (*auth.Identity, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	var identity auth.Identity
	var roleRaw string
	err := s.db.QueryRowContext(ctx, `
		update identities set role = $2, updated_at = now()
		where id = $1
		returning id, email, password_hash, role, created_at, updated_at
	`, id, string(role)).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &roleRaw, &identity.CreatedAt, &identity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	identity.Role = auth.Role(roleRaw)
	return &identity, nil
}

func (s *Store) scanIdentity(ctx context.Context, query string, arg any) (*auth.Identity, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	var identity auth.Identity
	var roleRaw string
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &roleRaw, &identity.CreatedAt, &identity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	identity.Role = auth.Role(roleRaw)
	return &identity, nil
}
