// Package models - usage_entry.go defines the usage/billing ledger entry and its
// typed metadata. A top-up is distinguished structurally only by its action tag;
// by convention its billedCost is recorded negative and summaries take the
// absolute value when crediting.
package models

// ActionTopUp is the reserved action tag marking a balance credit rather than
// consumption.
const ActionTopUp = "topup"

// UsageEntry is one ledger record. TokenCost is the upstream compute provider's
// charge and is nullable so it can be masked for audiences that must not see
// provider costs; BilledCost is the amount charged to the tenant.
type UsageEntry struct {
	Timestamp  string         `json:"timestamp"`
	Action     string         `json:"action"`
	TokenCost  *float64       `json:"tokenCost"`
	BilledCost float64        `json:"billedCost"`
	Requests   int            `json:"requests"`
	Question   *string        `json:"question,omitempty"`
	Metadata   *UsageMetadata `json:"metadata,omitempty"`
}

// IsTopUp reports whether the entry credits the balance.
func (e *UsageEntry) IsTopUp() bool {
	return e.Action == ActionTopUp
}

// UsageSource tags where a ledger entry originated.
type UsageSource string

// Usage sources. The variant is closed so downstream consumers can switch
// exhaustively instead of probing an untyped map.
const (
	SourceUI    UsageSource = "ui"
	SourceAPI   UsageSource = "api"
	SourceOther UsageSource = "other"
)

// UsageMetadata annotates a ledger entry with its origin. Which fields are
// populated depends on Source: UI entries carry the acting user, API entries
// carry the resolved key, and anything else goes in Extra.
type UsageMetadata struct {
	Source    UsageSource       `json:"source"`
	UserID    string            `json:"userId,omitempty"`
	UserEmail string            `json:"userEmail,omitempty"`
	KeyID     string            `json:"keyId,omitempty"`
	KeySetID  string            `json:"keySetId,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// UIMetadata builds metadata for an entry recorded on behalf of a logged-in user.
func UIMetadata(userID, userEmail string) *UsageMetadata {
	return &UsageMetadata{Source: SourceUI, UserID: userID, UserEmail: userEmail}
}

// APIMetadata builds metadata for an entry recorded against a resolved API key.
func APIMetadata(keyID, keySetID string) *UsageMetadata {
	return &UsageMetadata{Source: SourceAPI, KeyID: keyID, KeySetID: keySetID}
}

// OtherMetadata builds metadata for entries from any other origin.
func OtherMetadata(extra map[string]string) *UsageMetadata {
	return &UsageMetadata{Source: SourceOther, Extra: extra}
}
