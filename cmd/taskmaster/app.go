package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/taskmaster/export"
	"github.com/arthur-debert/taskmaster/notify"
	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

// App wires the stores, the notification evaluator and the export manager
// over one shared JSON file backend.
type App struct {
	Tasks     *store.TaskStore
	Projects  *store.ProjectStore
	Settings  *store.SettingsStore
	Evaluator *notify.Evaluator
	Manager   *export.Manager
}

func newApp(notifyOpts ...notify.Option) (*App, error) {
	backend := storage.NewJSONFile(dataPath)

	settings := store.NewSettingsStore(backend)
	defaults := settings.Get().TaskDefaults
	tasks, err := store.NewTaskStore(backend, store.WithTaskDefaults(defaults))
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	projects, err := store.NewProjectStore(backend, tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}
	evaluator := notify.NewEvaluator(tasks, backend, notifyOpts...)
	manager := export.NewManager(backend, tasks, projects, settings)

	return &App{
		Tasks:     tasks,
		Projects:  projects,
		Settings:  settings,
		Evaluator: evaluator,
		Manager:   manager,
	}, nil
}

// Close releases the evaluator's store subscription.
func (app *App) Close() {
	app.Evaluator.Close()
}

// structured reports whether output should be machine-readable instead of
// the human text rendering.
func structured() bool {
	return outputFormat == "json" || outputFormat == "yaml"
}

// printStructured renders v in the configured machine-readable format.
func printStructured(v interface{}) error {
	switch outputFormat {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		fmt.Print(string(out))
		return nil
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}
}

// parseDate accepts a date or a date with a time of day, in local time.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", value)
}

func formatDue(task types.Task) string {
	if task.DueDate == nil {
		return "-"
	}
	return task.DueDate.Format("2006-01-02 15:04")
}

func statusGlyph(status types.TaskStatus) string {
	switch status {
	case types.TaskCompleted:
		return "✅"
	case types.TaskInProgress:
		return "🔄"
	case types.TaskCancelled:
		return "🚫"
	default:
		return "⬜"
	}
}
