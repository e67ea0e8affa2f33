package pg

import (
	"context"
	"database/sql"
	"errors"

	"caretrack.org/internal/health"
)

var _ health.Store = (*Store)(nil)

func (s *Store) CreateProgram(ctx context.Context, program *health.Program) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		insert into programs (program_id, name, description)
		values ($1, $2, $3)
	`, program.ID, program.Name, program.Description)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return health.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListPrograms(ctx context.Context) ([]health.Program, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select program_id, name, description
		from programs
		order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []health.Program
	for rows.Next() {
		var p health.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *Store) CreateClient(ctx context.Context, client *health.Client) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		insert into clients (client_id, first_name, last_name, dob, gender, contact_hash, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, client.ID, client.FirstName, client.LastName, client.DOB, client.Gender, client.ContactHash, client.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return health.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*health.Client, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	var c health.Client
	err := s.db.QueryRowContext(ctx, `
		select client_id, first_name, last_name, dob, gender, contact_hash, created_at
		from clients where client_id = $1
	`, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.DOB, &c.Gender, &c.ContactHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, health.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SearchClients(ctx context.Context, term string) ([]health.Client, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	pattern := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx, `
		select client_id, first_name, last_name, dob, gender, contact_hash, created_at
		from clients
		where first_name ilike $1 or last_name ilike $1
		order by last_name, first_name
	`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []health.Client
	for rows.Next() {
		var c health.Client
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DOB, &c.Gender, &c.ContactHash, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Store) ProgramsForClient(ctx context.Context, clientID string) ([]health.Program, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select p.program_id, p.name, p.description
		from programs p
		join enrollments e on e.program_id = p.program_id
		where e.client_id = $1
		order by p.name
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []health.Program
	for rows.Next() {
		var p health.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, enrollment *health.Enrollment) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		insert into enrollments (enrollment_id, client_id, program_id, enrollment_date)
		values ($1, $2, $3, $4)
	`, enrollment.ID, enrollment.ClientID, enrollment.ProgramID, enrollment.EnrollmentDate)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return health.ErrConflict
			case pgErrForeignKeyViolation:
				return health.ErrNotFound
			}
		}
		return err
	}
	return nil
}
