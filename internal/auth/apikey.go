// Package auth provides credential generation and session token management for
// the identity store. API keys are prefixed high-entropy random strings; the
// plaintext exists only in the caller's hands at generation time — storage is
// handled by the store and identity packages, which keep ciphertext and a keyed
// lookup hash, never the raw value.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	// APIKeyLength is the length of the random part of an API key in bytes.
	APIKeyLength = 32

	// GeneratedPasswordLength is the length in bytes of randomness behind a
	// generated user password.
	GeneratedPasswordLength = 18
)

// GenerateAPIKey creates a new random API key of the form "<prefix>_<random>".
// The prefix makes the credential type recognizable in logs and UIs without
// revealing anything about the secret part.
func GenerateAPIKey(prefix string) (string, error) {
	randomBytes := make([]byte, APIKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("%s_%s", prefix, base64.RawURLEncoding.EncodeToString(randomBytes)), nil
}

// GeneratePassword creates a random password for provisioned users who did not
// supply one. It is revealed to the caller exactly once.
func GeneratePassword() (string, error) {
	randomBytes := make([]byte, GeneratedPasswordLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// LastFour returns the last four characters of a credential, the only fragment
// of the plaintext that is ever persisted (for display masking).
func LastFour(value string) string {
	if len(value) <= 4 {
		return value
	}
	return value[len(value)-4:]
}
