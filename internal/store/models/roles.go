// Package models - roles.go defines the closed role and status vocabularies.
package models

// Organization roles. The set is closed: membership role lists only ever hold
// these values.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleBilling = "billing"
	RoleMember  = "member"
)

// RolePlatformOperator is a global user role, orthogonal to any organization
// membership. Operators see internal organizations and platform-wide usage.
const RolePlatformOperator = "platform_operator"

// Entity statuses. Users and members are never physically deleted; a status
// transition models removal.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidOrgRole reports whether role belongs to the closed organization
// role set.
func IsValidOrgRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleBilling, RoleMember:
		return true
	}
	return false
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
