// Package models - audit_event.go defines the append-only audit log entry.
package models

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// AuditEvent records one mutation of the identity document. IDs are ULIDs so
// the log sorts chronologically by id alone.
type AuditEvent struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actorId"`
	Action    string `json:"action"`
	OrgID     string `json:"orgId,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// NewAuditEvent builds an audit event stamped with the current time.
func NewAuditEvent(actorID, action, orgID, detail string) AuditEvent {
	return AuditEvent{
		ID:        ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Timestamp: NowStamp(),
		ActorID:   actorID,
		Action:    action,
		OrgID:     orgID,
		Detail:    detail,
	}
}
