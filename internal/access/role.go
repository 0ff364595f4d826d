// Package access models the role tiers that gate document visibility.
//
// Roles form a total order: viewer < engineer < admin. Access checks are
// tier comparisons, never string equality, so a typo in a role name fails
// loudly at parse time instead of silently widening or narrowing access.
package access

import (
	"errors"
	"fmt"
)

// Role is an ordered access tier. Higher tiers see everything lower
// tiers see.
type Role int

const (
	// RoleViewer is the lowest tier: public enterprise knowledge only.
	RoleViewer Role = iota

	// RoleEngineer additionally sees engineering documentation.
	RoleEngineer

	// RoleAdmin is the highest tier and sees all documents.
	RoleAdmin
)

// ErrUnknownRole indicates a role name outside the known tier set.
var ErrUnknownRole = errors.New("unknown role")

// roleNames maps tiers to their wire/config names.
var roleNames = map[Role]string{
	RoleViewer:   "viewer",
	RoleEngineer: "engineer",
	RoleAdmin:    "admin",
}

// ParseRole converts a role name to its tier.
// Returns ErrUnknownRole for anything outside {viewer, engineer, admin}.
func ParseRole(name string) (Role, error) {
	switch name {
	case "viewer":
		return RoleViewer, nil
	case "engineer":
		return RoleEngineer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleViewer, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
}

// String returns the canonical role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Covers reports whether a caller holding r may view content that
// requires the given tier.
func (r Role) Covers(required Role) bool {
	return r >= required
}

// Identity is the resolved caller identity handed over by the auth
// collaborator. The core trusts it and never mutates it.
type Identity struct {
	Subject string // Opaque user identifier, used only for logging
	Role    Role
}
