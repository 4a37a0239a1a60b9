// Package store persists the identity document. The whole store is one JSON
// file: every mutation loads the full document, changes it in memory, and
// writes the full document back. Update serializes that sequence behind a
// per-store mutex, which makes the mutual-exclusion boundary explicit — two
// goroutines in the same process can no longer clobber each other's writes.
// Two *processes* sharing one document file still race at the file level
// (last-writer-wins); a deployment that needs concurrent writers must put a
// real transactional store behind this interface.
//
// Writes go through a temp file in the target directory followed by a rename,
// so a concurrent reader never observes a half-written document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/askbase/identity-store/internal/config"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store/models"
	"github.com/askbase/identity-store/internal/telemetry"
)

// Store owns the identity document file.
type Store struct {
	cfg    *config.Config
	cipher *crypto.ValueCipher
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a store for the document path in cfg. The cipher is needed to
// seed API keys when the store bootstraps itself on first run.
func New(cfg *config.Config, cipher *crypto.ValueCipher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, cipher: cipher, logger: logger}
}

// Load reads the persisted document, bootstrapping a fresh one when none
// exists. Callers that need the one-time bootstrap credentials should use
// LoadOrInit instead.
func (s *Store) Load() (*models.Document, error) {
	doc, _, err := s.LoadOrInit()
	return doc, err
}

// LoadOrInit reads the persisted document. When the document is absent or not
// parseable it synthesizes, persists, and returns a bootstrap document along
// with the generated credentials; secrets is nil whenever an existing document
// was loaded. Disk errors other than "file does not exist" surface to the
// caller.
func (s *Store) LoadOrInit() (*models.Document, *BootstrapSecrets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*models.Document, *BootstrapSecrets, error) {
	data, err := os.ReadFile(s.cfg.Store.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.bootstrapLocked()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read identity document: %w", err)
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		// An unreadable document is re-seeded rather than bricking the
		// deployment; the damaged file is preserved next to the new one.
		s.logger.Error("identity document is not parseable, re-bootstrapping",
			"path", s.cfg.Store.Path, "error", err)
		if kerr := os.Rename(s.cfg.Store.Path, s.cfg.Store.Path+".corrupt"); kerr != nil {
			s.logger.Warn("could not preserve corrupt identity document", "error", kerr)
		}
		return s.bootstrapLocked()
	}
	return doc, nil, nil
}

func (s *Store) bootstrapLocked() (*models.Document, *BootstrapSecrets, error) {
	doc, secrets, err := Bootstrap(s.cfg, s.cipher)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap identity document: %w", err)
	}
	if err := s.saveLocked(doc); err != nil {
		return nil, nil, err
	}
	telemetry.StoreBootstrapsTotal.Inc()
	s.logger.Warn("bootstrapped identity document with a default organization",
		"path", s.cfg.Store.Path,
		"owner_email", secrets.OwnerEmail,
		"operator_email", secrets.OperatorEmail)
	return doc, secrets, nil
}

// Save writes the complete document.
func (s *Store) Save(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(doc)
}

func (s *Store) saveLocked(doc *models.Document) error {
	dir := filepath.Dir(s.cfg.Store.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity document: %w", err)
	}

	// Write-then-rename keeps the visible file whole at all times.
	tmp, err := os.CreateTemp(dir, ".identity-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write identity document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write identity document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.cfg.Store.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace identity document: %w", err)
	}

	telemetry.StoreSavesTotal.Inc()
	return nil
}

// Update runs fn against the current document and persists the result. The
// whole load-mutate-save sequence happens under the store mutex. When fn
// returns an error nothing is written — the persisted document is never left
// partially mutated.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.saveLocked(doc)
}
