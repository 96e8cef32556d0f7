// Package export implements the external data interchange surface: building
// the human-inspectable export envelope, validating and applying imports,
// and rotating pre-import backups.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

// Version is the envelope format version written by Build.
const Version = "1.0.0"

// Envelope is the export file layout.
type Envelope struct {
	Version    string  `json:"version"`
	ExportDate string  `json:"exportDate"`
	Data       Payload `json:"data"`
}

// Payload carries the exported collections. Pointer/nil-able members let
// Validate distinguish "absent" from "present but wrong".
type Payload struct {
	Tasks      []types.Task    `json:"tasks"`
	Projects   []types.Project `json:"projects"`
	Categories []string        `json:"categories"`
	Settings   *types.Settings `json:"settings,omitempty"`
}

// Build snapshots the stores into an envelope.
func Build(tasks *store.TaskStore, projects *store.ProjectStore, settings *store.SettingsStore) Envelope {
	s := settings.Get()
	return Envelope{
		Version:    Version,
		ExportDate: time.Now().Format(time.RFC3339),
		Data: Payload{
			Tasks:      tasks.List(),
			Projects:   projects.List(),
			Categories: tasks.Categories(),
			Settings:   &s,
		},
	}
}

// JSON renders the envelope as indented JSON.
func (e Envelope) JSON() ([]byte, error) {
	raw, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return raw, nil
}
