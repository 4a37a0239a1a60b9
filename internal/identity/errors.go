package identity

import "errors"

// Sentinel errors for the service contract. Not-found and invalid-argument
// conditions are always checked before any mutation, so an operation that
// returns one of these has not changed the persisted document.
var (
	ErrOrgNotFound        = errors.New("identity: organization not found")
	ErrUserNotFound       = errors.New("identity: user not found")
	ErrKeySetNotFound     = errors.New("identity: key set not found")
	ErrKeyIndexOutOfRange = errors.New("identity: key index out of range")
	ErrAPIKeyNotFound     = errors.New("identity: no organization matches the presented API key")
	ErrEmailInUse         = errors.New("identity: email address is already in use")
	ErrInvalidRole        = errors.New("identity: role is not in the organization role set")
)
