// Package models - user.go defines the UserAccount model and its per-organization
// membership references.
package models

// UserAccount represents a human account. PasswordHash holds the encoded
// salt+derived scrypt hash, never a plaintext password.
type UserAccount struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	PasswordHash string           `json:"passwordHash"`
	GlobalRoles  []string         `json:"globalRoles"`
	Organizations []UserMembership `json:"organizations"`
	CreatedAt    string           `json:"createdAt"`
	LastLoginAt  *string          `json:"lastLoginAt,omitempty"`
	Status       string           `json:"status"`
}

// UserMembership is the user-side half of an organization membership. The
// organization mirrors it in its Members list; both sides must resolve within
// the same document.
type UserMembership struct {
	OrgID string   `json:"orgId"`
	Roles []string `json:"roles"`
}

// IsPlatformOperator reports whether the user carries the global operator role.
func (u *UserAccount) IsPlatformOperator() bool {
	return HasRole(u.GlobalRoles, RolePlatformOperator)
}

// MembershipFor returns the user's membership entry for orgID, or nil.
func (u *UserAccount) MembershipFor(orgID string) *UserMembership {
	for i := range u.Organizations {
		if u.Organizations[i].OrgID == orgID {
			return &u.Organizations[i]
		}
	}
	return nil
}
