// Package identity - keys.go implements the API key lifecycle: issue,
// reveal-once, rotate in place, and resolve a presented key back to its
// owning organization via the keyed lookup hash.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/askbase/identity-store/internal/auth"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store"
	"github.com/askbase/identity-store/internal/store/models"
	"github.com/askbase/identity-store/internal/telemetry"
)

// keySetSize is the number of keys a new set starts with: a primary/secondary
// pair so one can rotate while the other keeps serving.
const keySetSize = 2

// KeySetGrant is the result of creating a key set. RevealedKeys holds the
// plaintext values in slot order; this is the only time they are readable.
type KeySetGrant struct {
	KeySet       SafeKeySet
	RevealedKeys []string
}

// KeyRotation is the result of rotating a key. Plain is the new plaintext,
// revealed exactly once.
type KeyRotation struct {
	Plain string
	Key   SafeAPIKey
}

// Resolution is the result of resolving a presented API key: the owning
// organization, the key set, and the matched key, all as safe views.
type Resolution struct {
	Organization SafeOrganization
	KeySet       SafeKeySet
	Key          SafeAPIKey
}

// GeneratePlainAPIKey produces a fresh prefixed plaintext API key. The caller
// is responsible for storing it via NewStoredKeyFromPlain; the service never
// holds on to the plaintext.
func (s *Service) GeneratePlainAPIKey() (string, error) {
	return auth.GenerateAPIKey(s.cfg.APIKeys.Prefix)
}

// NewStoredKeyFromPlain converts a plaintext key into its at-rest form.
func (s *Service) NewStoredKeyFromPlain(plain, actorID string) (*models.StoredAPIKey, error) {
	return store.NewStoredKeyFromPlain(s.cipher, plain, actorID)
}

// AddKeySet creates a key set with a fresh primary/secondary key pair under
// an organization. The plaintext values are returned once in the grant and
// are unrecoverable afterwards.
func (s *Service) AddKeySet(orgID, actorID, name, description string) (*KeySetGrant, error) {
	now := models.NowStamp()
	set := &models.KeySet{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Keys:        make([]*models.StoredAPIKey, 0, keySetSize),
		CreatedAt:   now,
		CreatedBy:   actorID,
	}

	revealed := make([]string, 0, keySetSize)
	for i := 0; i < keySetSize; i++ {
		plain, err := s.GeneratePlainAPIKey()
		if err != nil {
			return nil, err
		}
		stored, err := store.NewStoredKeyFromPlain(s.cipher, plain, actorID)
		if err != nil {
			return nil, err
		}
		set.Keys = append(set.Keys, stored)
		revealed = append(revealed, plain)
	}

	err := s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}
		org.KeySets = append(org.KeySets, set)
		doc.Audit(models.NewAuditEvent(actorID, "keyset.create", orgID,
			fmt.Sprintf("created key set %q with %d keys", name, keySetSize)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	telemetry.KeySetsCreatedTotal.Inc()
	s.logger.Info("key set created", "org_id", orgID, "set_id", set.ID, "name", name)
	return &KeySetGrant{
		KeySet:       ToSafeKeySet(set, false),
		RevealedKeys: revealed,
	}, nil
}

// RemoveKeySet deletes a key set by id. Removing an absent set is a no-op;
// the organization must exist.
func (s *Service) RemoveKeySet(orgID, setID, actorID string) error {
	return s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}
		for i, ks := range org.KeySets {
			if ks.ID == setID {
				org.KeySets = append(org.KeySets[:i], org.KeySets[i+1:]...)
				doc.Audit(models.NewAuditEvent(actorID, "keyset.remove", orgID,
					fmt.Sprintf("removed key set %q", ks.Name)))
				return nil
			}
		}
		return nil
	})
}

// RotateAPIKey replaces the key at the given zero-based slot with a freshly
// generated one. The slot keeps its id, creation metadata, and usage ledger;
// the secret material and lookup hash are replaced and RotatedAt is stamped.
// The previous plaintext stops resolving the moment the document is saved.
func (s *Service) RotateAPIKey(orgID, setID string, index int, actorID string) (*KeyRotation, error) {
	plain, err := s.GeneratePlainAPIKey()
	if err != nil {
		return nil, err
	}
	ciphertext, iv, authTag, err := s.cipher.EncryptValue(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt API key: %w", err)
	}

	var rotated SafeAPIKey
	err = s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}
		set := org.KeySetByID(setID)
		if set == nil {
			return ErrKeySetNotFound
		}
		if index < 0 || index >= len(set.Keys) {
			return ErrKeyIndexOutOfRange
		}

		key := set.Keys[index]
		key.Ciphertext = ciphertext
		key.IV = iv
		key.AuthTag = authTag
		key.LookupHash = s.cipher.LookupHash(plain)
		key.LastFour = auth.LastFour(plain)
		key.RotatedAt = models.NowStamp()

		rotated = ToSafeKey(key, false)
		doc.Audit(models.NewAuditEvent(actorID, "apikey.rotate", orgID,
			fmt.Sprintf("rotated key %d of set %q", index, set.Name)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	telemetry.KeyRotationsTotal.Inc()
	s.logger.Info("api key rotated", "org_id", orgID, "set_id", setID, "slot", index)
	return &KeyRotation{Plain: plain, Key: rotated}, nil
}

// FindOrgByAPIKey resolves a presented plaintext key to its owning
// organization by scanning lookup hashes. When recordAccess is set, a match
// stamps the key's last-accessed timestamp and persists it. A miss returns
// ErrAPIKeyNotFound.
func (s *Service) FindOrgByAPIKey(presented string, recordAccess bool) (*Resolution, error) {
	hash := s.cipher.LookupHash(presented)

	var res *Resolution
	find := func(doc *models.Document) *Resolution {
		for _, org := range doc.Organizations {
			for _, set := range org.KeySets {
				for _, key := range set.Keys {
					if crypto.HashEqual(key.LookupHash, hash) {
						if recordAccess {
							key.Touch()
						}
						return &Resolution{
							Organization: ToSafeOrganization(org, false),
							KeySet:       ToSafeKeySet(set, false),
							Key:          ToSafeKey(key, false),
						}
					}
				}
			}
		}
		return nil
	}

	var err error
	if recordAccess {
		err = s.store.Update(func(doc *models.Document) error {
			if res = find(doc); res == nil {
				return ErrAPIKeyNotFound
			}
			return nil
		})
	} else {
		var doc *models.Document
		doc, err = s.store.Load()
		if err == nil {
			if res = find(doc); res == nil {
				err = ErrAPIKeyNotFound
			}
		}
	}
	if err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			telemetry.KeyResolutionsTotal.WithLabelValues(telemetry.OutcomeMiss).Inc()
		}
		return nil, err
	}

	telemetry.KeyResolutionsTotal.WithLabelValues(telemetry.OutcomeHit).Inc()
	return res, nil
}
