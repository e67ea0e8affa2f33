package auth

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		"Admin":   RoleAdmin,
		" staff ": RoleStaff,
		"VIEWER":  RoleViewer,
	}
	for input, expected := range cases {
		got, err := ParseRole(input)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseRole(%q)=%q, want %q", input, got, expected)
		}
	}

	for _, input := range []string{"", "superuser", "admins", "root"} {
		if _, err := ParseRole(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ParseRole(%q) expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestRoleSetAllows(t *testing.T) {
	cases := []struct {
		required RoleSet
		actual   Role
		allow    bool
	}{
		{Roles(RoleAdmin), RoleAdmin, true},
		{Roles(RoleAdmin), RoleStaff, false},
		{Roles(RoleAdmin, RoleStaff), RoleStaff, true},
		{Roles(RoleStaff), RoleAdmin, false}, // no implicit hierarchy
		{Roles(), RoleAdmin, false},          // empty set denies everyone
		{Roles(), RoleViewer, false},
		{Roles(RoleAdmin, RoleStaff, RoleViewer), RoleViewer, true},
	}
	for _, tc := range cases {
		if got := tc.required.Allows(tc.actual); got != tc.allow {
			t.Fatalf("Roles(%s).Allows(%s)=%v, want %v", tc.required, tc.actual, got, tc.allow)
		}
	}
}
