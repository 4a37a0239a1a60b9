// Package models - organization.go defines the Organization tenant model: credit
// balance, usage ledger, key sets, members, and billing profile.
package models

import "strings"

// Organization represents a tenant. CreditBalance may go negative pending a
// top-up; the usage ledger is append-only and in chronological order.
type Organization struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	CreditBalance float64        `json:"creditBalance"`
	Usage         []UsageEntry   `json:"usage"`
	KeySets       []*KeySet      `json:"keySets"`
	Members       []Member       `json:"members"`
	Billing       BillingProfile `json:"billing"`
	CreatedAt     string         `json:"createdAt"`
	CreatedBy     string         `json:"createdBy"`
}

// Member is the organization-side half of a membership.
type Member struct {
	UserID    string   `json:"userId"`
	Roles     []string `json:"roles"`
	InvitedAt string   `json:"invitedAt"`
	JoinedAt  *string  `json:"joinedAt,omitempty"`
	Status    string   `json:"status"`
}

// BillingProfile holds tenant billing contact details.
type BillingProfile struct {
	ContactEmail      string  `json:"contactEmail"`
	ContactName       string  `json:"contactName"`
	ExternalBillingID *string `json:"externalBillingId,omitempty"`
}

// KeySetByID returns the key set with the given id, or nil.
func (o *Organization) KeySetByID(setID string) *KeySet {
	for _, ks := range o.KeySets {
		if ks.ID == setID {
			return ks
		}
	}
	return nil
}

// MemberFor returns the membership entry for userID, or nil.
func (o *Organization) MemberFor(userID string) *Member {
	for i := range o.Members {
		if o.Members[i].UserID == userID {
			return &o.Members[i]
		}
	}
	return nil
}

// ActiveMemberCount counts members whose status is active.
func (o *Organization) ActiveMemberCount() int {
	n := 0
	for _, m := range o.Members {
		if m.Status == StatusActive {
			n++
		}
	}
	return n
}

// TotalKeyCount counts stored API keys across all key sets.
func (o *Organization) TotalKeyCount() int {
	n := 0
	for _, ks := range o.KeySets {
		n += len(ks.Keys)
	}
	return n
}

// Slugify derives a URL-safe slug from a display name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, edges trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
