package auth

import (
	"fmt"
	"strings"
)

// Role determines which operations an identity may invoke. The set is closed:
// anything outside the three values below is rejected at the boundary.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// ParseRole normalizes and validates a role name.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// RoleSet is the exact allowed-role set an endpoint declares. There is no
// hierarchy: admin does not satisfy a staff requirement unless the set names
// admin explicitly, and the empty set denies everyone.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet from its members.
func Roles(members ...Role) RoleSet {
	set := make(RoleSet, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}

// Allows reports whether actual is a member of the set.
func (s RoleSet) Allows(actual Role) bool {
	_, ok := s[actual]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for _, r := range []Role{RoleAdmin, RoleStaff, RoleViewer} {
		if _, ok := s[r]; ok {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, ",")
}
