// Package auth - session.go implements the session token store. Tokens are
// HS256 JWTs carrying the user id and email; revocation is tracked in an
// in-memory set keyed by token id so a logout invalidates the token before its
// natural expiry. The manager is constructed explicitly and passed to whatever
// needs it — there is no process-wide session state.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSessionInvalid is returned for malformed, expired, or wrongly signed tokens.
	ErrSessionInvalid = errors.New("auth: session token is invalid")
	// ErrSessionRevoked is returned for tokens that were explicitly revoked.
	ErrSessionRevoked = errors.New("auth: session token was revoked")
)

const sessionIssuer = "askbase-identity"

// SessionClaims is the JWT claims structure for a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager creates, verifies, and revokes session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> token expiry
}

// NewSessionManager creates a session manager signing with secret. Tokens
// expire after ttl.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}
}

// Create issues a signed session token for an authenticated user.
func (m *SessionManager) Create(userID, email string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. Revoked tokens fail even while
// their signature and expiry are still valid.
func (m *SessionManager) Verify(tokenString string) (*SessionClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.pruneLocked(time.Now())
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return nil, ErrSessionRevoked
	}

	return claims, nil
}

// Revoke invalidates a token ahead of its expiry. Revoking an already invalid
// token is not an error; there is nothing left to invalidate.
func (m *SessionManager) Revoke(tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil
	}

	expiry := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	m.mu.Lock()
	m.pruneLocked(time.Now())
	m.revoked[claims.ID] = expiry
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.ID == "" {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

// pruneLocked drops revocation entries for tokens past their expiry; they can
// no longer verify anyway. Caller holds mu.
func (m *SessionManager) pruneLocked(now time.Time) {
	for id, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, id)
		}
	}
}
