package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
	"caretrack.org/internal/health"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestCreateIdentityMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into identities").
		WithArgs("id-1", "a@example.com", "hash", "viewer", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.CreateIdentity(context.Background(), &auth.Identity{
		ID:           "id-1",
		Email:        "a@example.com",
		PasswordHash: "hash",
		Role:         auth.RoleViewer,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindIdentityByEmail(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("id-1", "a@example.com", "hash", "staff", now, now)
	mock.ExpectQuery("select id, email, password_hash, role, created_at, updated_at.*from identities where email").
		WithArgs("a@example.com").
		WillReturnRows(rows)

	identity, err := store.FindIdentityByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("FindIdentityByEmail: %v", err)
	}
	if identity.ID != "id-1" || identity.Role != auth.RoleStaff {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	mock.ExpectQuery("select id, email, password_hash, role, created_at, updated_at.*from identities where email").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}))

	if _, err := store.FindIdentityByEmail(context.Background(), "missing@example.com"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateIdentityRoleNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("update identities set role").
		WithArgs("missing", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}))

	if _, err := store.UpdateIdentityRole(context.Background(), "missing", auth.RoleAdmin); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateProgramDuplicateName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into programs").
		WithArgs("p-1", "TB Program", "Tuberculosis treatment").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into programs").
		WithArgs("p-2", "TB Program", "duplicate").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	if err := store.CreateProgram(context.Background(), &health.Program{ID: "p-1", Name: "TB Program", Description: "Tuberculosis treatment"}); err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	err := store.CreateProgram(context.Background(), &health.Program{ID: "p-2", Name: "TB Program", Description: "duplicate"})
	if !errors.Is(err, health.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEnrollmentMapsForeignKeyToNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into enrollments").
		WithArgs("e-1", "missing-client", "p-1", "2025-03-01").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	err := store.CreateEnrollment(context.Background(), &health.Enrollment{
		ID:             "e-1",
		ClientID:       "missing-client",
		ProgramID:      "p-1",
		EnrollmentDate: "2025-03-01",
	})
	if !errors.Is(err, health.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchClients(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"client_id", "first_name", "last_name", "dob", "gender", "contact_hash", "created_at"}).
		AddRow("c-1", "Jane", "Doe", "1990-01-01", "Female", "digest", now)
	mock.ExpectQuery("select client_id, first_name, last_name, dob, gender, contact_hash, created_at.*from clients.*ilike").
		WithArgs("%doe%").
		WillReturnRows(rows)

	clients, err := store.SearchClients(context.Background(), "doe")
	if err != nil {
		t.Fatalf("SearchClients: %v", err)
	}
	if len(clients) != 1 || clients[0].ContactHash != "digest" {
		t.Fatalf("unexpected clients: %+v", clients)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAppendAuditAssignsSequence(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into audit_records").
		WithArgs(sqlmock.AnyArg(), "actor-1", "program.create", "p-1", "success", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"sequence"}).AddRow(int64(7)))

	rec := &audit.Record{
		OccurredAt: time.Now().UTC(),
		ActorID:    "actor-1",
		Action:     "program.create",
		TargetID:   "p-1",
		Outcome:    audit.OutcomeSuccess,
		Metadata:   map[string]string{"name": "TB Program"},
	}
	if err := store.AppendAudit(context.Background(), rec); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}
	if rec.Sequence != 7 {
		t.Fatalf("expected sequence 7, got %d", rec.Sequence)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAudit(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"sequence", "occurred_at", "actor_id", "action", "target_id", "outcome", "metadata"}).
		AddRow(int64(1), now, "actor-1", "program.create", "p-1", "success", []byte(`{"name":"TB Program"}`)).
		AddRow(int64(2), now, "actor-1", "client.register", "c-1", "success", []byte(`{}`))
	mock.ExpectQuery("select sequence, occurred_at, actor_id, action.*from audit_records").
		WithArgs(uint64(0), 100).
		WillReturnRows(rows)

	records, last, err := store.ListAudit(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(records) != 2 || last != 2 {
		t.Fatalf("unexpected result: %d records, last %d", len(records), last)
	}
	if records[0].Metadata["name"] != "TB Program" {
		t.Fatalf("metadata not decoded: %+v", records[0].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
