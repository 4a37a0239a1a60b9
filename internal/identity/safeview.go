// Package identity - safeview.go defines the redacted projections of stored
// entities. They are the only shapes this package returns to callers: no
// password hash, ciphertext, iv, auth tag, or lookup hash appears in any of
// them, so serializing a safe view outward can never leak secret material.
// Cost masking additionally nulls the upstream provider cost for audiences
// that may see billed amounts but not provider pricing.
package identity

import "github.com/askbase/identity-store/internal/store/models"

// SafeAPIKey is the external projection of a stored API key. Only the last
// four characters of the plaintext survive, for display masking.
type SafeAPIKey struct {
	ID             string              `json:"id"`
	LastFour       string              `json:"lastFour"`
	RotatedAt      string              `json:"rotatedAt"`
	LastAccessedAt *string             `json:"lastAccessedAt"`
	Usage          []models.UsageEntry `json:"usage"`
	CreatedAt      string              `json:"createdAt"`
	CreatedBy      string              `json:"createdBy"`
}

// SafeKeySet is the external projection of a key set.
type SafeKeySet struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Keys        []SafeAPIKey `json:"keys"`
	CreatedAt   string       `json:"createdAt"`
	CreatedBy   string       `json:"createdBy"`
}

// SafeOrganization is the external projection of an organization.
type SafeOrganization struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	CreditBalance float64               `json:"creditBalance"`
	Usage         []models.UsageEntry   `json:"usage"`
	KeySets       []SafeKeySet          `json:"keySets"`
	Members       []models.Member       `json:"members"`
	Billing       models.BillingProfile `json:"billing"`
	CreatedAt     string                `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// SafeUser is the external projection of a user account, without the password
// hash.
type SafeUser struct {
	ID            string                  `json:"id"`
	Email         string                  `json:"email"`
	Name          string                  `json:"name"`
	GlobalRoles   []string                `json:"globalRoles"`
	Organizations []models.UserMembership `json:"organizations"`
	CreatedAt     string                  `json:"createdAt"`
	LastLoginAt   *string                 `json:"lastLoginAt,omitempty"`
	Status        string                  `json:"status"`
}

// maskEntries copies a usage ledger, nulling the provider token cost when
// maskCosts is set. The copy keeps safe views detached from the document they
// were projected from.
func maskEntries(entries []models.UsageEntry, maskCosts bool) []models.UsageEntry {
	out := make([]models.UsageEntry, len(entries))
	copy(out, entries)
	if maskCosts {
		for i := range out {
			out[i].TokenCost = nil
		}
	}
	return out
}

// ToSafeKey projects a stored API key to its safe view.
func ToSafeKey(k *models.StoredAPIKey, maskCosts bool) SafeAPIKey {
	return SafeAPIKey{
		ID:             k.ID,
		LastFour:       k.LastFour,
		RotatedAt:      k.RotatedAt,
		LastAccessedAt: k.LastAccessedAt,
		Usage:          maskEntries(k.Usage, maskCosts),
		CreatedAt:      k.CreatedAt,
		CreatedBy:      k.CreatedBy,
	}
}

// ToSafeKeySet projects a key set and all its keys to their safe views.
func ToSafeKeySet(ks *models.KeySet, maskCosts bool) SafeKeySet {
	keys := make([]SafeAPIKey, len(ks.Keys))
	for i, k := range ks.Keys {
		keys[i] = ToSafeKey(k, maskCosts)
	}
	return SafeKeySet{
		ID:          ks.ID,
		Name:        ks.Name,
		Description: ks.Description,
		Keys:        keys,
		CreatedAt:   ks.CreatedAt,
		CreatedBy:   ks.CreatedBy,
	}
}

// ToSafeOrganization projects an organization, its ledger, and all nested key
// sets to their safe views.
func ToSafeOrganization(o *models.Organization, maskCosts bool) SafeOrganization {
	sets := make([]SafeKeySet, len(o.KeySets))
	for i, ks := range o.KeySets {
		sets[i] = ToSafeKeySet(ks, maskCosts)
	}
	members := make([]models.Member, len(o.Members))
	copy(members, o.Members)
	return SafeOrganization{
		ID:            o.ID,
		Name:          o.Name,
		Slug:          o.Slug,
		CreditBalance: o.CreditBalance,
		Usage:         maskEntries(o.Usage, maskCosts),
		KeySets:       sets,
		Members:       members,
		Billing:       o.Billing,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
	}
}

// ToSafeUser projects a user account to its safe view.
func ToSafeUser(u *models.UserAccount) SafeUser {
	memberships := make([]models.UserMembership, len(u.Organizations))
	copy(memberships, u.Organizations)
	return SafeUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		GlobalRoles:   append([]string{}, u.GlobalRoles...),
		Organizations: memberships,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
		Status:        u.Status,
	}
}
