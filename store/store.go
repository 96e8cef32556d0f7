// Package store implements the in-memory task, project and settings stores.
// Each store exclusively owns its collection, persists it through a
// storage.Backend after every mutation, and notifies subscribers
// synchronously once persistence has been attempted. Persistence is
// best-effort: a failed write is logged and the in-memory state remains
// authoritative.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/types"
)

// ErrNotFound is returned by operations addressing a task, project, subtask
// or template id that does not exist.
var ErrNotFound = errors.New("not found")

// config carries the knobs shared by all store constructors.
type config struct {
	logger   *slog.Logger
	now      func() time.Time
	defaults types.TaskDefaults
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: slog.Default(),
		now:    time.Now,
		defaults: types.TaskDefaults{
			Priority: types.PriorityMedium,
			Category: "Personal",
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a store at construction time.
type Option func(*config)

// WithLogger sets the logger used for best-effort failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeFunc sets a custom clock, used by tests for deterministic
// timestamps and due-date arithmetic.
func WithTimeFunc(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTaskDefaults sets the defaults new tasks fall back to, typically
// sourced from the settings record.
func WithTaskDefaults(defaults types.TaskDefaults) Option {
	return func(c *config) {
		if defaults.Priority != "" {
			c.defaults.Priority = defaults.Priority
		}
		if defaults.Category != "" {
			c.defaults.Category = defaults.Category
		}
		if defaults.EstimatedTime != 0 {
			c.defaults.EstimatedTime = defaults.EstimatedTime
		}
	}
}

// readRecord decodes the JSON blob stored under key into out. A missing key
// leaves out untouched and reports found=false.
func readRecord(backend storage.Backend, key string, out interface{}) (bool, error) {
	raw, ok, err := backend.Read(key)
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// writeRecord encodes value as JSON and stores it under key.
func writeRecord(backend storage.Backend, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := backend.Write(key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// sameDay reports whether a and b fall on the same calendar day in local
// time.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
