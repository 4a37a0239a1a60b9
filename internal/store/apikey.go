package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/askbase/identity-store/internal/auth"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store/models"
)

// NewStoredKeyFromPlain converts a plaintext API key into its at-rest form:
// ciphertext with iv and auth tag, the keyed lookup hash, and the last four
// characters for masking. The plaintext itself is not retained anywhere in the
// returned record.
func NewStoredKeyFromPlain(cipher *crypto.ValueCipher, plain, actorID string) (*models.StoredAPIKey, error) {
	ciphertext, iv, authTag, err := cipher.EncryptValue(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt API key: %w", err)
	}

	now := models.NowStamp()
	return &models.StoredAPIKey{
		ID:         uuid.New().String(),
		Ciphertext: ciphertext,
		IV:         iv,
		AuthTag:    authTag,
		LookupHash: cipher.LookupHash(plain),
		LastFour:   auth.LastFour(plain),
		RotatedAt:  now,
		Usage:      []models.UsageEntry{},
		CreatedAt:  now,
		CreatedBy:  actorID,
	}, nil
}
