package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	seq     uint64
	records []Record
	failing bool
}

func (s *fakeStore) AppendAudit(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("append refused")
	}
	s.seq++
	rec.Sequence = s.seq
	s.records = append(s.records, *rec)
	return nil
}

func (s *fakeStore) ListAudit(_ context.Context, limit int, afterSeq uint64) ([]Record, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	var last uint64
	for _, rec := range s.records {
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

func TestRecordAppendsInCallOrder(t *testing.T) {
	store := &fakeStore{}
	logger, err := NewLogger(store)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	actions := []string{"program.create", "client.register", "enrollment.create"}
	for _, action := range actions {
		if err := logger.Record(context.Background(), "actor-1", action, "target", OutcomeSuccess, nil); err != nil {
			t.Fatalf("Record(%s): %v", action, err)
		}
	}

	records, last, err := logger.List(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != len(actions) {
		t.Fatalf("expected %d records, got %d", len(actions), len(records))
	}
	for i, rec := range records {
		if rec.Action != actions[i] {
			t.Fatalf("record %d out of order: got %s, want %s", i, rec.Action, actions[i])
		}
		if rec.Sequence != uint64(i+1) {
			t.Fatalf("record %d sequence %d, want %d", i, rec.Sequence, i+1)
		}
	}
	if last != uint64(len(actions)) {
		t.Fatalf("unexpected last sequence %d", last)
	}
}

func TestRecordPropagatesStoreFailure(t *testing.T) {
	store := &fakeStore{failing: true}
	logger, err := NewLogger(store)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if err := logger.Record(context.Background(), "actor-1", "program.create", "", OutcomeSuccess, nil); err == nil {
		t.Fatal("expected append failure to propagate")
	}
}

func TestRecordValidation(t *testing.T) {
	logger, err := NewLogger(&fakeStore{})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	cases := []struct {
		actor, action string
		outcome       Outcome
	}{
		{"", "program.create", OutcomeSuccess},
		{"actor-1", "", OutcomeSuccess},
		{"actor-1", "program.create", Outcome("unknown")},
	}
	for i, tc := range cases {
		if err := logger.Record(context.Background(), tc.actor, tc.action, "", tc.outcome, nil); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("case %d: expected ErrInvalidRecord, got %v", i, err)
		}
	}
}

func TestRecordCopiesMetadata(t *testing.T) {
	store := &fakeStore{}
	logger, err := NewLogger(store)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	meta := map[string]string{"name": "TB Program"}
	if err := logger.Record(context.Background(), "actor-1", "program.create", "p1", OutcomeSuccess, meta); err != nil {
		t.Fatalf("Record: %v", err)
	}
	meta["name"] = "mutated"

	records, _, err := logger.List(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records[0].Metadata["name"] != "TB Program" {
		t.Fatalf("metadata not copied: %v", records[0].Metadata)
	}
	if records[0].OccurredAt.IsZero() || records[0].OccurredAt.After(time.Now().UTC()) {
		t.Fatalf("unexpected timestamp %v", records[0].OccurredAt)
	}
}
