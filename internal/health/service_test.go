package health_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"caretrack.org/internal/health"
	"caretrack.org/internal/privacy"
	"caretrack.org/internal/store/memory"
)

func newTestService(t *testing.T) *health.Service {
	t.Helper()
	svc, err := health.NewService(memory.New())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateProgram(t *testing.T) {
	svc := newTestService(t)

	program, err := svc.CreateProgram(context.Background(), " TB Program ", "Tuberculosis treatment")
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if program.ID == "" {
		t.Fatal("expected generated id")
	}
	if program.Name != "TB Program" {
		t.Fatalf("name not trimmed: %q", program.Name)
	}

	if _, err := svc.CreateProgram(context.Background(), "TB Program", "duplicate"); !errors.Is(err, health.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	programs, err := svc.Programs(context.Background())
	if err != nil {
		t.Fatalf("Programs: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("expected 1 program, got %d", len(programs))
	}
}

func TestCreateProgramValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct{ name, description string }{
		{"", ""},
		{"   ", ""},
		{strings.Repeat("x", 101), ""},
		{"Malaria", strings.Repeat("d", 501)},
	}
	for i, tc := range cases {
		if _, err := svc.CreateProgram(context.Background(), tc.name, tc.description); !errors.Is(err, health.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func validClient() health.RegisterClientInput {
	return health.RegisterClientInput{
		FirstName: "Jane",
		LastName:  "Doe",
		DOB:       "1990-01-01",
		Gender:    "Female",
		Contact:   "1234567890",
	}
}

func TestRegisterClientHashesContact(t *testing.T) {
	svc := newTestService(t)

	client, err := svc.RegisterClient(context.Background(), validClient())
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if client.ContactHash != privacy.ContactHash("1234567890") {
		t.Fatalf("stored hash %q does not match ContactHash of the input", client.ContactHash)
	}
	if strings.Contains(client.ContactHash, "1234567890") {
		t.Fatal("raw contact leaked into the stored value")
	}
	if client.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestRegisterClientValidation(t *testing.T) {
	svc := newTestService(t)

	mutate := []func(*health.RegisterClientInput){
		func(in *health.RegisterClientInput) { in.FirstName = "" },
		func(in *health.RegisterClientInput) { in.FirstName = strings.Repeat("a", 51) },
		func(in *health.RegisterClientInput) { in.LastName = "  " },
		func(in *health.RegisterClientInput) { in.DOB = "01/01/1990" },
		func(in *health.RegisterClientInput) { in.DOB = "1990-13-40" },
		func(in *health.RegisterClientInput) { in.Gender = "" },
		func(in *health.RegisterClientInput) { in.Gender = strings.Repeat("g", 21) },
		func(in *health.RegisterClientInput) { in.Contact = "" },
		func(in *health.RegisterClientInput) { in.Contact = strings.Repeat("c", 101) },
	}
	for i, fn := range mutate {
		in := validClient()
		fn(&in)
		if _, err := svc.RegisterClient(context.Background(), in); !errors.Is(err, health.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegisterClientDuplicate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.RegisterClient(context.Background(), validClient()); err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if _, err := svc.RegisterClient(context.Background(), validClient()); !errors.Is(err, health.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSearchClients(t *testing.T) {
	svc := newTestService(t)

	jane := validClient()
	john := validClient()
	john.FirstName = "John"
	john.LastName = "Smith"
	john.DOB = "1985-05-15"
	for _, in := range []health.RegisterClientInput{jane, john} {
		if _, err := svc.RegisterClient(context.Background(), in); err != nil {
			t.Fatalf("RegisterClient: %v", err)
		}
	}

	matches, err := svc.SearchClients(context.Background(), "doe")
	if err != nil {
		t.Fatalf("SearchClients: %v", err)
	}
	if len(matches) != 1 || matches[0].LastName != "Doe" {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	if _, err := svc.SearchClients(context.Background(), ""); !errors.Is(err, health.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty term, got %v", err)
	}
}

func TestEnrollAndProfile(t *testing.T) {
	svc := newTestService(t)

	program, err := svc.CreateProgram(context.Background(), "TB Program", "")
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	client, err := svc.RegisterClient(context.Background(), validClient())
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	enrollment, err := svc.Enroll(context.Background(), client.ID, program.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if enrollment.EnrollmentDate == "" {
		t.Fatal("expected enrollment date")
	}

	if _, err := svc.Enroll(context.Background(), client.ID, program.ID); !errors.Is(err, health.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate enrollment, got %v", err)
	}
	if _, err := svc.Enroll(context.Background(), "missing", program.ID); !errors.Is(err, health.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling client, got %v", err)
	}
	if _, err := svc.Enroll(context.Background(), client.ID, "missing"); !errors.Is(err, health.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling program, got %v", err)
	}

	profile, err := svc.ClientProfile(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("ClientProfile: %v", err)
	}
	if len(profile.Programs) != 1 || profile.Programs[0].ID != program.ID {
		t.Fatalf("unexpected profile programs: %+v", profile.Programs)
	}

	if _, err := svc.ClientProfile(context.Background(), "missing"); !errors.Is(err, health.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
