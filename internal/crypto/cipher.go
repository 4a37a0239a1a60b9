// Package crypto provides the cryptographic primitives of the identity store:
// AES-256-GCM authenticated encryption for API key material at rest, a keyed
// lookup hash for resolving presented keys without ever storing or comparing
// plaintext, and salted memory-hard password hashing. API key plaintext is far
// too sensitive to persist even hashed-only: a stored key grants full tenant
// access to the query API, and the product must be able to display a masked
// form (last four characters) and re-reveal nothing. AES-256-GCM gives both
// confidentiality and authenticated integrity, so a partially compromised
// data file cannot be silently tampered with.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrCiphertextCorrupted is returned when a stored part fails hex decoding or has an impossible length.
	ErrCiphertextCorrupted = errors.New("crypto: ciphertext is corrupted or tampered")
	// ErrDecryptionFailed is returned when GCM authentication fails, indicating tampering or a wrong key.
	ErrDecryptionFailed = errors.New("crypto: decryption operation failed")
)

const (
	keyLength     = 32 // AES-256
	kdfIterations = 100000
	gcmTagLength  = 16
)

// kdfSalt pins key derivation to this application, so the same secret reused
// elsewhere derives a different AES key.
const kdfSalt = "askbase-identity-store-v1"

// ValueCipher encrypts, decrypts, and hash-indexes secret values. The
// encryption key is derived once from the configured secret and stays fixed
// for the lifetime of the process, so previously encrypted values remain
// decryptable.
type ValueCipher struct {
	encKey  []byte
	hashKey []byte
}

// NewValueCipher derives a cipher from the configured secrets. When
// hashingSecret is empty the encryption secret doubles as the hash key.
func NewValueCipher(encryptionSecret, hashingSecret string) *ValueCipher {
	if hashingSecret == "" {
		hashingSecret = encryptionSecret
	}
	return &ValueCipher{
		encKey:  pbkdf2.Key([]byte(encryptionSecret), []byte(kdfSalt), kdfIterations, keyLength, sha256.New),
		hashKey: []byte(hashingSecret),
	}
}

// EncryptValue encrypts plaintext under a fresh random nonce and returns the
// three hex-encoded parts the caller must store together. Any one of them
// missing or altered makes decryption fail.
func (vc *ValueCipher) EncryptValue(plaintext string) (ciphertext, iv, authTag string, err error) {
	block, err := aes.NewCipher(vc.encKey)
	if err != nil {
		return "", "", "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", "", err
	}

	// Seal appends the 16-byte tag to the ciphertext; the document stores the
	// tag as its own field, so split it back off here.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - gcmTagLength
	return hex.EncodeToString(sealed[:tagStart]),
		hex.EncodeToString(nonce),
		hex.EncodeToString(sealed[tagStart:]),
		nil
}

// DecryptValue reassembles the three stored parts and decrypts them. A failed
// authentication check returns ErrDecryptionFailed — it never returns garbage.
func (vc *ValueCipher) DecryptValue(ciphertext, iv, authTag string) (string, error) {
	ct, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", ErrCiphertextCorrupted
	}
	nonce, err := hex.DecodeString(iv)
	if err != nil {
		return "", ErrCiphertextCorrupted
	}
	tag, err := hex.DecodeString(authTag)
	if err != nil {
		return "", ErrCiphertextCorrupted
	}

	block, err := aes.NewCipher(vc.encKey)
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != aead.NonceSize() || len(tag) != gcmTagLength {
		return "", ErrCiphertextCorrupted
	}

	plaintext, err := aead.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// LookupHash computes the deterministic keyed hash of plaintext used as the
// equality index for presented API keys. It is one-way: the plaintext is never
// recoverable from the hash.
func (vc *ValueCipher) LookupHash(plaintext string) string {
	mac := hmac.New(sha256.New, vc.hashKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashEqual compares two lookup hashes in constant time.
func HashEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
