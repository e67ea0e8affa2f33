package health

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("health: invalid input")
	ErrNotFound     = errors.New("health: not found")
	ErrConflict     = errors.New("health: already exists")
)

// Program is a health program clients can be enrolled in.
type Program struct {
	ID          string `json:"program_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Client is a registered person. Contact holds only the one-way digest of
// the raw contact value; the raw value never reaches storage.
type Client struct {
	ID          string    `json:"client_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DOB         string    `json:"dob"`
	Gender      string    `json:"gender"`
	ContactHash string    `json:"contact_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// Enrollment links a client to a program. Both ids must reference existing
// rows; the store enforces referential integrity.
type Enrollment struct {
	ID             string `json:"enrollment_id"`
	ClientID       string `json:"client_id"`
	ProgramID      string `json:"program_id"`
	EnrollmentDate string `json:"enrollment_date"`
}

// ClientProfile is the read view of a client with enrolled programs embedded.
type ClientProfile struct {
	Client
	Programs []Program `json:"programs"`
}
