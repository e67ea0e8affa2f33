package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"caretrack.org/internal/obs"
)

// Outcome records whether the audited action succeeded once it was allowed
// to run. Denied requests never reach the audit log.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record is an immutable log entry capturing who did what, to what, with
// what outcome. Sequence is assigned by the store on append and is monotonic
// per process; records are never updated or deleted.
type Record struct {
	Sequence   uint64            `json:"sequence"`
	OccurredAt time.Time         `json:"occurred_at"`
	ActorID    string            `json:"actor_id"`
	Action     string            `json:"action"`
	TargetID   string            `json:"target_id,omitempty"`
	Outcome    Outcome           `json:"outcome"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Store is the append-only persistence contract. No update or delete methods
// exist by design.
type Store interface {
	AppendAudit(ctx context.Context, rec *Record) error
	ListAudit(ctx context.Context, limit int, afterSeq uint64) ([]Record, uint64, error)
}

var ErrInvalidRecord = errors.New("audit: invalid record")

// Logger appends durable audit records. A failed append must fail the whole
// request: the caller propagates the error instead of dropping the trail.
type Logger struct {
	store Store
	clock func() time.Time
}

// NewLogger constructs a Logger over the given append target.
func NewLogger(store Store) (*Logger, error) {
	if store == nil {
		return nil, errors.New("audit: store is required")
	}
	return &Logger{store: store, clock: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (l *Logger) WithClock(fn func() time.Time) *Logger {
	if fn != nil {
		l.clock = fn
	}
	return l
}

// Record appends one entry. Called synchronously after the protected
// operation, before the response is written.
func (l *Logger) Record(ctx context.Context, actorID, action, targetID string, outcome Outcome, metadata map[string]string) error {
	actorID = strings.TrimSpace(actorID)
	action = strings.TrimSpace(action)
	if actorID == "" || action == "" {
		return ErrInvalidRecord
	}
	if outcome != OutcomeSuccess && outcome != OutcomeFailure {
		return ErrInvalidRecord
	}

	rec := &Record{
		OccurredAt: l.clock().UTC(),
		ActorID:    actorID,
		Action:     action,
		TargetID:   strings.TrimSpace(targetID),
		Outcome:    outcome,
	}
	if len(metadata) > 0 {
		rec.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			rec.Metadata[k] = v
		}
	}
	if err := l.store.AppendAudit(ctx, rec); err != nil {
		return err
	}
	obs.AuditRecorded(action)
	return nil
}

// List returns records ordered by sequence, for the admin read surface.
func (l *Logger) List(ctx context.Context, limit int, afterSeq uint64) ([]Record, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return l.store.ListAudit(ctx, limit, afterSeq)
}
