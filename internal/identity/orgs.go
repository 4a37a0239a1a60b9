// Package identity - orgs.go implements organization management and the
// usage/billing ledger writes: creation with an initial owner, balance
// top-ups, and consumption records against the organization and the
// resolving key.
package identity

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/askbase/identity-store/internal/store/models"
)

// CreateOrganizationWithOwner creates an organization owned by an existing
// user. The owner receives the owner/admin/billing role set on both sides of
// the membership.
func (s *Service) CreateOrganizationWithOwner(name, ownerUserID string) (*SafeOrganization, error) {
	now := models.NowStamp()
	org := &models.Organization{
		ID:            uuid.New().String(),
		Name:          name,
		Slug:          models.Slugify(name),
		CreditBalance: 0,
		Usage:         []models.UsageEntry{},
		KeySets:       []*models.KeySet{},
		Members:       []models.Member{},
		CreatedAt:     now,
		CreatedBy:     ownerUserID,
	}

	err := s.store.Update(func(doc *models.Document) error {
		owner, ok := doc.Users[ownerUserID]
		if !ok {
			return ErrUserNotFound
		}
		org.Billing = models.BillingProfile{
			ContactEmail: owner.Email,
			ContactName:  owner.Name,
		}
		doc.Organizations[org.ID] = org
		attachMembership(owner, org, []string{models.RoleOwner, models.RoleAdmin, models.RoleBilling})
		doc.Audit(models.NewAuditEvent(ownerUserID, "org.create", org.ID,
			fmt.Sprintf("created organization %q", name)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("organization created", "org_id", org.ID, "name", name)
	safe := ToSafeOrganization(org, false)
	return &safe, nil
}

// TopUpOrganization credits an organization's balance and appends the
// corresponding top-up entry to its ledger. Top-ups record a negative billed
// cost by convention; summaries credit the absolute value.
func (s *Service) TopUpOrganization(orgID, actorID string, amount float64) error {
	err := s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}
		org.CreditBalance += amount
		org.Usage = append(org.Usage, models.UsageEntry{
			Timestamp:  models.NowStamp(),
			Action:     models.ActionTopUp,
			BilledCost: -amount,
			Requests:   0,
		})
		doc.Audit(models.NewAuditEvent(actorID, "org.topup", orgID,
			fmt.Sprintf("credited %.2f", amount)))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("organization topped up", "org_id", orgID, "amount", amount)
	return nil
}

// RecordUsage appends a ledger entry to the organization and, when keySetID
// and keyID identify a stored key, to that key's own ledger. Consumption
// debits the credit balance by the billed cost; a top-up entry credits its
// absolute value instead.
func (s *Service) RecordUsage(orgID string, entry models.UsageEntry, keySetID, keyID string) error {
	if entry.Timestamp == "" {
		entry.Timestamp = models.NowStamp()
	}

	return s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}

		if entry.IsTopUp() {
			org.CreditBalance += math.Abs(entry.BilledCost)
		} else {
			org.CreditBalance -= entry.BilledCost
		}
		org.Usage = append(org.Usage, entry)

		if keySetID == "" && keyID == "" {
			return nil
		}
		set := org.KeySetByID(keySetID)
		if set == nil {
			return ErrKeySetNotFound
		}
		for _, key := range set.Keys {
			if key.ID == keyID {
				key.Usage = append(key.Usage, entry)
				return nil
			}
		}
		return ErrAPIKeyNotFound
	})
}
