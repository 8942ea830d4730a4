// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sec

// # User Roles

// UserRole represents an authorization grant attached to an account.
//
// Roles are a flat set: route access is decided by set membership against the
// route's required roles, never by a hierarchy.
type UserRole string

const (
	// Unrestricted system access, including user administration
	RoleAdmin UserRole = "admin"

	// Can create and manage campaigns, customers, and send records
	RoleManager UserRole = "manager"

	// Default role for standard registered users (read-only access)
	RoleMember UserRole = "member"
)

// Valid reports whether the role is one of the known grants.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// RoleStrings converts a role set to its wire representation.
func RoleStrings(roles []UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings converts wire role claims back into typed roles.
// Unknown values are preserved as-is; gating treats them as no grant.
func RolesFromStrings(values []string) []UserRole {
	out := make([]UserRole, len(values))
	for i, v := range values {
		out[i] = UserRole(v)
	}
	return out
}
