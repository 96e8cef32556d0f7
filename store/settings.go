package store

import (
	"log/slog"
	"sync"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/types"
)

// SettingsStore owns the single settings record. Get returns the persisted
// record or the hard-coded defaults verbatim; Set persists as given, with
// no merge or validation at this layer.
type SettingsStore struct {
	mu      sync.RWMutex
	backend storage.Backend
	logger  *slog.Logger
}

// NewSettingsStore creates a settings store over the backend.
func NewSettingsStore(backend storage.Backend, opts ...Option) *SettingsStore {
	cfg := newConfig(opts)
	return &SettingsStore{backend: backend, logger: cfg.logger}
}

// Get returns the persisted settings, falling back to the defaults when
// nothing has been persisted or the payload is corrupt.
func (s *SettingsStore) Get() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := types.DefaultSettings()
	found, err := readRecord(s.backend, storage.KeySettings, &settings)
	if err != nil {
		s.logger.Error("failed to load settings, using defaults", "error", err)
		return types.DefaultSettings()
	}
	if !found {
		return types.DefaultSettings()
	}
	return settings
}

// Set persists the record as given. Callers construct a complete record,
// typically by mutating a Get result. Persistence failures are logged and
// swallowed.
func (s *SettingsStore) Set(settings types.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeRecord(s.backend, storage.KeySettings, settings); err != nil {
		s.logger.Error("failed to persist settings", "error", err)
	}
}
