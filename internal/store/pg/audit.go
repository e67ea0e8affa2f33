package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"caretrack.org/internal/audit"
)

var _ audit.Store = (*Store)(nil)

// AppendAudit inserts one record and reads back the assigned sequence. The
// table carries no update or delete path; immutability is enforced by the
// schema, not by this code.
func (s *Store) AppendAudit(ctx context.Context, rec *audit.Record) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	metaJSON := []byte("{}")
	if len(rec.Metadata) > 0 {
		data, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metaJSON = data
	}
	err := s.db.QueryRowContext(ctx, `
		insert into audit_records (occurred_at, actor_id, action, target_id, outcome, metadata)
		values ($1, $2, $3, nullif($4,''), $5, $6)
		returning sequence
	`, rec.OccurredAt, rec.ActorID, rec.Action, rec.TargetID, string(rec.Outcome), metaJSON).Scan(&rec.Sequence)
	return err
}

func (s *Store) ListAudit(ctx context.Context, limit int, afterSeq uint64) ([]audit.Record, uint64, error) {
	if s.db == nil {
		return nil, 0, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select sequence, occurred_at, actor_id, action, coalesce(target_id,''), outcome, metadata
		from audit_records
		where sequence > $1
		order by sequence asc
		limit $2
	`, afterSeq, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []audit.Record
	var last uint64
	for rows.Next() {
		var rec audit.Record
		var outcome string
		var rawMeta []byte
		if err := rows.Scan(&rec.Sequence, &rec.OccurredAt, &rec.ActorID, &rec.Action, &rec.TargetID, &outcome, &rawMeta); err != nil {
			return nil, 0, err
		}
		rec.Outcome = audit.Outcome(outcome)
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &rec.Metadata); err != nil {
				return nil, 0, err
			}
		}
		records = append(records, rec)
		last = rec.Sequence
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, last, nil
}

// Ping reports store reachability for the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return sql.ErrConnDone
	}
	return s.db.PingContext(ctx)
}
