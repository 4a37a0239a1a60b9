// Package identity implements the service layer of the credential store: the
// API key lifecycle (issue, rotate, reveal-once, resolve), user and
// organization management, redacted safe views, and usage/billing aggregation.
// This package is the entire contract a transport layer is permitted to call;
// it never hands out raw stored entities, and every mutation goes through the
// store's serialized update path so a failed operation leaves the persisted
// document untouched.
package identity

import (
	"log/slog"

	"github.com/askbase/identity-store/internal/config"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store"
)

// Service exposes the identity store operations.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	cipher *crypto.ValueCipher
	logger *slog.Logger
}

// New creates the identity service.
func New(cfg *config.Config, st *store.Store, cipher *crypto.ValueCipher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		store:  st,
		cipher: cipher,
		logger: logger,
	}
}
