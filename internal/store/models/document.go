// Package models defines the persisted identity document and the entity types
// nested inside it. The whole store is one JSON document: a map of users, a map
// of organizations, and an append-only audit log. Every nested entity (key set,
// stored key, usage entry) is owned by its parent organization and has no
// independent lifetime. Models are pure data types — mutation flows belong in
// the identity service, persistence belongs in the store package.
//
// Timestamps are RFC3339 UTC strings so the document round-trips through JSON
// without loss and lexicographic comparison matches chronological order.
package models

import (
	"strings"
	"time"
)

// Document is the single persisted identity document.
type Document struct {
	Users         map[string]*UserAccount  `json:"users"`
	Organizations map[string]*Organization `json:"organizations"`
	AuditLog      []AuditEvent             `json:"auditLog"`
}

// NewDocument returns an empty document with initialized maps.
func NewDocument() *Document {
	return &Document{
		Users:         make(map[string]*UserAccount),
		Organizations: make(map[string]*Organization),
		AuditLog:      []AuditEvent{},
	}
}

// UserByEmail finds a user by email, case-insensitively. Returns nil when no
// user matches.
func (d *Document) UserByEmail(email string) *UserAccount {
	for _, u := range d.Users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// Audit appends an event to the document's audit log.
func (d *Document) Audit(ev AuditEvent) {
	d.AuditLog = append(d.AuditLog, ev)
}

// NowStamp returns the current time as an RFC3339 UTC string, the timestamp
// format used everywhere in the document.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
