package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/askbase/identity-store/internal/auth"
	"github.com/askbase/identity-store/internal/config"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store/models"
)

// Bootstrap account identities. The owner belongs to the default organization;
// the operator carries the global platform role and no membership at all.
const (
	BootstrapOwnerEmail    = "owner@askbase.local"
	BootstrapOperatorEmail = "operator@askbase.local"

	bootstrapKeySetName = "Default Keys"
	bootstrapKeyCount   = 2
)

// BootstrapSecrets carries the generated credentials of a fresh document. They
// exist only in this value: the document persists hashes and ciphertext, so
// this is the single chance to read them.
type BootstrapSecrets struct {
	OwnerEmail       string
	OwnerPassword    string
	OperatorEmail    string
	OperatorPassword string
	RevealedKeys     []string
}

// Bootstrap synthesizes the first-run document: one default organization with
// an owner account, a platform operator account, and a default key set holding
// a primary/secondary API key pair. The returned secrets are never persisted.
func Bootstrap(cfg *config.Config, cipher *crypto.ValueCipher) (*models.Document, *BootstrapSecrets, error) {
	now := models.NowStamp()

	ownerPassword, err := auth.GeneratePassword()
	if err != nil {
		return nil, nil, err
	}
	ownerHash, err := crypto.HashPassword(ownerPassword)
	if err != nil {
		return nil, nil, err
	}
	operatorPassword, err := auth.GeneratePassword()
	if err != nil {
		return nil, nil, err
	}
	operatorHash, err := crypto.HashPassword(operatorPassword)
	if err != nil {
		return nil, nil, err
	}

	orgID := uuid.New().String()
	ownerID := uuid.New().String()
	operatorID := uuid.New().String()
	ownerRoles := []string{models.RoleOwner, models.RoleAdmin, models.RoleBilling}

	owner := &models.UserAccount{
		ID:           ownerID,
		Email:        BootstrapOwnerEmail,
		Name:         "Organization Owner",
		PasswordHash: ownerHash,
		GlobalRoles:  []string{},
		Organizations: []models.UserMembership{
			{OrgID: orgID, Roles: ownerRoles},
		},
		CreatedAt: now,
		Status:    models.StatusActive,
	}

	operator := &models.UserAccount{
		ID:            operatorID,
		Email:         BootstrapOperatorEmail,
		Name:          "Platform Operator",
		PasswordHash:  operatorHash,
		GlobalRoles:   []string{models.RolePlatformOperator},
		Organizations: []models.UserMembership{},
		CreatedAt:     now,
		Status:        models.StatusActive,
	}

	keySet := &models.KeySet{
		ID:          uuid.New().String(),
		Name:        bootstrapKeySetName,
		Description: "Seeded on first run",
		Keys:        make([]*models.StoredAPIKey, 0, bootstrapKeyCount),
		CreatedAt:   now,
		CreatedBy:   ownerID,
	}
	revealed := make([]string, 0, bootstrapKeyCount)
	for i := 0; i < bootstrapKeyCount; i++ {
		plain, err := auth.GenerateAPIKey(cfg.APIKeys.Prefix)
		if err != nil {
			return nil, nil, err
		}
		stored, err := NewStoredKeyFromPlain(cipher, plain, ownerID)
		if err != nil {
			return nil, nil, err
		}
		keySet.Keys = append(keySet.Keys, stored)
		revealed = append(revealed, plain)
	}

	orgName := cfg.Platform.DefaultOrganization
	org := &models.Organization{
		ID:            orgID,
		Name:          orgName,
		Slug:          models.Slugify(orgName),
		CreditBalance: 0,
		Usage:         []models.UsageEntry{},
		KeySets:       []*models.KeySet{keySet},
		Members: []models.Member{
			{
				UserID:    ownerID,
				Roles:     ownerRoles,
				InvitedAt: now,
				JoinedAt:  &now,
				Status:    models.StatusActive,
			},
		},
		Billing: models.BillingProfile{
			ContactEmail: BootstrapOwnerEmail,
			ContactName:  owner.Name,
		},
		CreatedAt: now,
		CreatedBy: ownerID,
	}

	doc := models.NewDocument()
	doc.Users[ownerID] = owner
	doc.Users[operatorID] = operator
	doc.Organizations[orgID] = org
	doc.Audit(models.NewAuditEvent("system", "store.bootstrap", orgID,
		fmt.Sprintf("seeded organization %q with %d API keys", orgName, bootstrapKeyCount)))

	secrets := &BootstrapSecrets{
		OwnerEmail:       BootstrapOwnerEmail,
		OwnerPassword:    ownerPassword,
		OperatorEmail:    BootstrapOperatorEmail,
		OperatorPassword: operatorPassword,
		RevealedKeys:     revealed,
	}
	return doc, secrets, nil
}
