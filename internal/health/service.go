package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caretrack.org/internal/ids"
	"caretrack.org/internal/privacy"
)

const dateLayout = "2006-01-02"

// Service validates domain input and delegates persistence to the Store.
// It is the only path by which client contact data is written, and it always
// hashes the raw value first.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service over the given domain store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("health: store is required")
	}
	return &Service{store: store, now: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(fn func() time.Time) *Service {
	if fn != nil {
		s.now = fn
	}
	return s
}

// CreateProgram registers a new health program. Names are unique.
func (s *Service) CreateProgram(ctx context.Context, name, description string) (*Program, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: program name must be 1-100 characters", ErrInvalidInput)
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return nil, fmt.Errorf("%w: description must be at most 500 characters", ErrInvalidInput)
	}

	program := &Program{
		ID:          ids.New(),
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// Programs lists all programs.
func (s *Service) Programs(ctx context.Context) ([]Program, error) {
	return s.store.ListPrograms(ctx)
}

// RegisterClientInput is the raw registration payload. Contact is the only
// field carrying personally identifying contact data; it is hashed before
// the record reaches the store.
type RegisterClientInput struct {
	FirstName string
	LastName  string
	DOB       string
	Gender    string
	Contact   string
}

// RegisterClient validates and stores a new client.
func (s *Service) RegisterClient(ctx context.Context, in RegisterClientInput) (*Client, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || len(firstName) > 50 {
		return nil, fmt.Errorf("%w: first_name must be 1-50 characters", ErrInvalidInput)
	}
	if lastName == "" || len(lastName) > 50 {
		return nil, fmt.Errorf("%w: last_name must be 1-50 characters", ErrInvalidInput)
	}
	dob := strings.TrimSpace(in.DOB)
	if _, err := time.Parse(dateLayout, dob); err != nil {
		return nil, fmt.Errorf("%w: dob must be a valid YYYY-MM-DD date", ErrInvalidInput)
	}
	gender := strings.TrimSpace(in.Gender)
	if gender == "" || len(gender) > 20 {
		return nil, fmt.Errorf("%w: gender must be 1-20 characters", ErrInvalidInput)
	}
	contact := strings.TrimSpace(in.Contact)
	if contact == "" || len(contact) > 100 {
		return nil, fmt.Errorf("%w: contact must be 1-100 characters", ErrInvalidInput)
	}

	client := &Client{
		ID:          ids.New(),
		FirstName:   firstName,
		LastName:    lastName,
		DOB:         dob,
		Gender:      gender,
		ContactHash: privacy.ContactHash(contact),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// SearchClients matches the term against first and last names.
func (s *Service) SearchClients(ctx context.Context, term string) ([]Client, error) {
	term = strings.TrimSpace(term)
	if term == "" || len(term) > 100 {
		return nil, fmt.Errorf("%w: search term must be 1-100 characters", ErrInvalidInput)
	}
	return s.store.SearchClients(ctx, term)
}

// ClientProfile returns the client with enrolled programs embedded.
func (s *Service) ClientProfile(ctx context.Context, id string) (*ClientProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	programs, err := s.store.ProgramsForClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []Program{}
	}
	return &ClientProfile{Client: *client, Programs: programs}, nil
}

// Enroll links a client to a program. Either id failing to resolve is
// ErrNotFound; enrolling the same pair twice is ErrConflict.
func (s *Service) Enroll(ctx context.Context, clientID, programID string) (*Enrollment, error) {
	clientID = strings.TrimSpace(clientID)
	programID = strings.TrimSpace(programID)
	if clientID == "" || programID == "" {
		return nil, fmt.Errorf("%w: client_id and program_id are required", ErrInvalidInput)
	}

	enrollment := &Enrollment{
		ID:             ids.New(),
		ClientID:       clientID,
		ProgramID:      programID,
		EnrollmentDate: s.now().UTC().Format(dateLayout),
	}
	if err := s.store.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
