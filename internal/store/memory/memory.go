package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
	"caretrack.org/internal/health"
)

// Store is an in-process implementation of the identity, domain, and audit
// stores. It backs tests and DSN-less development runs; durability is the
// Postgres store's job.
type Store struct {
	mu sync.Mutex

	identitiesByID    map[string]auth.Identity
	identitiesByEmail map[string]string

	programs       map[string]health.Program
	programNames   map[string]string
	clients        map[string]health.Client
	clientKeys     map[string]string
	enrollments    map[string]health.Enrollment
	enrollmentKeys map[string]string

	auditSeq     uint64
	auditRecords []audit.Record
}

var (
	_ auth.IdentityStore = (*Store)(nil)
	_ health.Store       = (*Store)(nil)
	_ audit.Store        = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{
		identitiesByID:    make(map[string]auth.Identity),
		identitiesByEmail: make(map[string]string),
		programs:          make(map[string]health.Program),
		programNames:      make(map[string]string),
		clients:           make(map[string]health.Client),
		clientKeys:        make(map[string]string),
		enrollments:       make(map[string]health.Enrollment),
		enrollmentKeys:    make(map[string]string),
	}
}

// --- auth.IdentityStore ---

func (s *Store) CreateIdentity(_ context.Context, identity *auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identitiesByEmail[identity.Email]; ok {
		return auth.ErrConflict
	}
	s.identitiesByID[identity.ID] = *identity
	s.identitiesByEmail[identity.Email] = identity.ID
	return nil
}

func (s *Store) FindIdentity(_ context.Context, id string) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identitiesByID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &identity, nil
}

func (s *Store) FindIdentityByEmail(_ context.Context, email string) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identitiesByEmail[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	identity := s.identitiesByID[id]
	return &identity, nil
}

func (s *Store) UpdateIdentityRole(_ context.Context, id string, role auth.Role) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identitiesByID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	identity.Role = role
	s.identitiesByID[id] = identity
	return &identity, nil
}

// --- health.Store ---

func (s *Store) CreateProgram(_ context.Context, program *health.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(program.Name)
	if _, ok := s.programNames[key]; ok {
		return health.ErrConflict
	}
	s.programs[program.ID] = *program
	s.programNames[key] = program.ID
	return nil
}

func (s *Store) ListPrograms(_ context.Context) ([]health.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]health.Program, 0, len(s.programs))
	for _, p := range s.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func clientKey(c *health.Client) string {
	return strings.ToLower(c.FirstName) + "\x00" + strings.ToLower(c.LastName) + "\x00" + c.DOB
}

func (s *Store) CreateClient(_ context.Context, client *health.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := clientKey(client)
	if _, ok := s.clientKeys[key]; ok {
		return health.ErrConflict
	}
	s.clients[client.ID] = *client
	s.clientKeys[key] = client.ID
	return nil
}

func (s *Store) GetClient(_ context.Context, id string) (*health.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, health.ErrNotFound
	}
	return &client, nil
}

func (s *Store) SearchClients(_ context.Context, term string) ([]health.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	var out []health.Client
	for _, c := range s.clients {
		if strings.Contains(strings.ToLower(c.FirstName), term) ||
			strings.Contains(strings.ToLower(c.LastName), term) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ProgramsForClient(_ context.Context, clientID string) ([]health.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return nil, health.ErrNotFound
	}
	var out []health.Program
	for _, e := range s.enrollments {
		if e.ClientID != clientID {
			continue
		}
		if p, ok := s.programs[e.ProgramID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateEnrollment(_ context.Context, enrollment *health.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[enrollment.ClientID]; !ok {
		return health.ErrNotFound
	}
	if _, ok := s.programs[enrollment.ProgramID]; !ok {
		return health.ErrNotFound
	}
	key := enrollment.ClientID + "\x00" + enrollment.ProgramID
	if _, ok := s.enrollmentKeys[key]; ok {
		return health.ErrConflict
	}
	s.enrollments[enrollment.ID] = *enrollment
	s.enrollmentKeys[key] = enrollment.ID
	return nil
}

// --- audit.Store ---

func (s *Store) AppendAudit(_ context.Context, rec *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditSeq++
	rec.Sequence = s.auditSeq
	s.auditRecords = append(s.auditRecords, *rec)
	return nil
}

func (s *Store) ListAudit(_ context.Context, limit int, afterSeq uint64) ([]audit.Record, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Record
	var last uint64
	for _, rec := range s.auditRecords {
		if rec.Sequence <= afterSeq {
			continue
		}
		out = append(out, rec)
		last = rec.Sequence
		if len(out) == limit {
			break
		}
	}
	return out, last, nil
}
