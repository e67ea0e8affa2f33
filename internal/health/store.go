package health

import "context"

// Store is the external domain persistence contract. It carries no business
// rules beyond referential integrity and uniqueness; implementations map
// constraint violations to ErrConflict and missing references to ErrNotFound.
type Store interface {
	CreateProgram(ctx context.Context, program *Program) error
	ListPrograms(ctx context.Context) ([]Program, error)

	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	SearchClients(ctx context.Context, term string) ([]Client, error)
	ProgramsForClient(ctx context.Context, clientID string) ([]Program, error)

	CreateEnrollment(ctx context.Context, enrollment *Enrollment) error
}
