// Package models - api_key.go defines the KeySet and StoredAPIKey models. A key
// set groups the keys that are rotated and managed together (the bootstrap
// default is a primary/secondary pair). A stored key never holds plaintext:
// only the AES-GCM ciphertext with its iv and auth tag, the keyed lookup hash,
// and the last four characters for display masking survive persistence.
package models

// KeySet is a named group of API keys managed as a unit.
type KeySet struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Keys        []*StoredAPIKey `json:"keys"`
	CreatedAt   string          `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// StoredAPIKey is the at-rest form of an API key. Ciphertext, IV, and AuthTag
// are all required to decrypt; LookupHash is a one-way keyed hash used only
// for equality search. Rotation swaps the secret material in place and stamps
// RotatedAt; the previous ciphertext and hash are unrecoverable afterwards.
type StoredAPIKey struct {
	ID             string       `json:"id"`
	Ciphertext     string       `json:"ciphertext"`
	IV             string       `json:"iv"`
	AuthTag        string       `json:"authTag"`
	LookupHash     string       `json:"lookupHash"`
	LastFour       string       `json:"lastFour"`
	RotatedAt      string       `json:"rotatedAt"`
	LastAccessedAt *string      `json:"lastAccessedAt"`
	Usage          []UsageEntry `json:"usage"`
	CreatedAt      string       `json:"createdAt"`
	CreatedBy      string       `json:"createdBy"`
}

// Touch stamps the last-accessed timestamp.
func (k *StoredAPIKey) Touch() {
	now := NowStamp()
	k.LastAccessedAt = &now
}
