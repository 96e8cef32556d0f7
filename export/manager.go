package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
)

// maxBackups bounds the rotation; the oldest backup beyond it is evicted.
const maxBackups = 5

// Backup is one full-export snapshot taken before an import.
type Backup struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Data string    `json:"data"`
}

// Manager ties export, import and backups together over the three stores.
type Manager struct {
	mu       sync.Mutex
	backend  storage.Backend
	tasks    *store.TaskStore
	projects *store.ProjectStore
	settings *store.SettingsStore
	logger   *slog.Logger
}

// NewManager creates an export/import manager over the given stores.
func NewManager(backend storage.Backend, tasks *store.TaskStore, projects *store.ProjectStore, settings *store.SettingsStore) *Manager {
	return &Manager{
		backend:  backend,
		tasks:    tasks,
		projects: projects,
		settings: settings,
		logger:   slog.Default(),
	}
}

// SetLogger overrides the logger used for best-effort failure reporting.
func (m *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Export renders the current data set as indented JSON.
func (m *Manager) Export() ([]byte, error) {
	return Build(m.tasks, m.projects, m.settings).JSON()
}

// Import validates the payload, snapshots a backup of the current data, and
// replaces the sections the payload carries. A validation failure leaves
// every store untouched.
func (m *Manager) Import(raw []byte) error {
	parsed, err := Validate(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.createBackupLocked(); err != nil {
		// Imports still proceed; the backup is a convenience, not a gate.
		m.logger.Error("failed to create pre-import backup", "error", err)
	}

	// Each collection is replaced independently; sections the payload did
	// not carry keep their current contents.
	switch {
	case parsed.HasTasks && parsed.HasCategories:
		m.tasks.ReplaceAll(parsed.Envelope.Data.Tasks, parsed.Envelope.Data.Categories)
	case parsed.HasTasks:
		m.tasks.ReplaceTasks(parsed.Envelope.Data.Tasks)
	case parsed.HasCategories:
		m.tasks.ReplaceCategories(parsed.Envelope.Data.Categories)
	}
	if parsed.HasProjects {
		m.projects.ReplaceAll(parsed.Envelope.Data.Projects)
	}
	if parsed.HasSettings && parsed.Envelope.Data.Settings != nil {
		m.settings.Set(*parsed.Envelope.Data.Settings)
	}
	return nil
}

// Backups returns the retained snapshots, oldest first.
func (m *Manager) Backups() []Backup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadBackupsLocked()
}

// CreateBackup snapshots the current data set into the rotation and returns
// the new backup's id.
func (m *Manager) CreateBackup() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBackupLocked()
}

// Restore re-imports the snapshot with the given id.
func (m *Manager) Restore(id string) error {
	m.mu.Lock()
	var found *Backup
	for _, backup := range m.loadBackupsLocked() {
		if backup.ID == id {
			b := backup
			found = &b
			break
		}
	}
	m.mu.Unlock()

	if found == nil {
		return fmt.Errorf("backup %q: %w", id, store.ErrNotFound)
	}
	return m.Import([]byte(found.Data))
}

// DeleteBackup removes the snapshot with the given id from the rotation.
func (m *Manager) DeleteBackup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backups := m.loadBackupsLocked()
	kept := backups[:0]
	removed := false
	for _, backup := range backups {
		if backup.ID == id {
			removed = true
			continue
		}
		kept = append(kept, backup)
	}
	if !removed {
		return fmt.Errorf("backup %q: %w", id, store.ErrNotFound)
	}
	return m.saveBackupsLocked(kept)
}

func (m *Manager) createBackupLocked() (string, error) {
	data, err := m.Export()
	if err != nil {
		return "", err
	}
	backup := Backup{
		ID:   uuid.New().String(),
		Date: time.Now(),
		Data: string(data),
	}
	backups := append(m.loadBackupsLocked(), backup)
	if len(backups) > maxBackups {
		backups = backups[len(backups)-maxBackups:]
	}
	if err := m.saveBackupsLocked(backups); err != nil {
		return "", err
	}
	return backup.ID, nil
}

func (m *Manager) loadBackupsLocked() []Backup {
	raw, ok, err := m.backend.Read(storage.KeyBackups)
	if err != nil {
		m.logger.Error("failed to read backups", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var backups []Backup
	if err := json.Unmarshal([]byte(raw), &backups); err != nil {
		m.logger.Error("failed to decode backups", "error", err)
		return nil
	}
	return backups
}

func (m *Manager) saveBackupsLocked(backups []Backup) error {
	raw, err := json.Marshal(backups)
	if err != nil {
		return fmt.Errorf("failed to encode backups: %w", err)
	}
	if err := m.backend.Write(storage.KeyBackups, string(raw)); err != nil {
		return fmt.Errorf("failed to write backups: %w", err)
	}
	return nil
}
