package export_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/taskmaster/export"
	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

type env struct {
	backend  *storage.Memory
	tasks    *store.TaskStore
	projects *store.ProjectStore
	settings *store.SettingsStore
	manager  *export.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	backend := storage.NewMemory()
	tasks, err := store.NewTaskStore(backend)
	if err != nil {
		t.Fatalf("failed to create task store: %v", err)
	}
	projects, err := store.NewProjectStore(backend, tasks)
	if err != nil {
		t.Fatalf("failed to create project store: %v", err)
	}
	settings := store.NewSettingsStore(backend)
	return &env{
		backend:  backend,
		tasks:    tasks,
		projects: projects,
		settings: settings,
		manager:  export.NewManager(backend, tasks, projects, settings),
	}
}

func TestExportEnvelopeShape(t *testing.T) {
	e := newEnv(t)
	e.tasks.Create(store.TaskDraft{Title: "Ship release"})

	raw, err := e.manager.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var envelope export.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if envelope.Version != export.Version {
		t.Errorf("expected version %q, got %q", export.Version, envelope.Version)
	}
	if _, err := time.Parse(time.RFC3339, envelope.ExportDate); err != nil {
		t.Errorf("exportDate is not RFC3339: %v", err)
	}
	if len(envelope.Data.Tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(envelope.Data.Tasks))
	}
	if envelope.Data.Settings == nil {
		t.Error("expected settings in the export")
	}
	if len(envelope.Data.Categories) == 0 {
		t.Error("expected default categories in the export")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind export.ValidationKind
	}{
		{"not json", "not json at all", export.InvalidFormat},
		{"json array", `[1, 2, 3]`, export.InvalidFormat},
		{"missing version", `{"data": {"tasks": []}}`, export.MissingVersion},
		{"missing data", `{"version": "1.0.0"}`, export.MissingDataSection},
		{"null data", `{"version": "1.0.0", "data": null}`, export.MissingDataSection},
		{"data not object", `{"version": "1.0.0", "data": []}`, export.MissingDataSection},
		{"tasks not array", `{"version": "1.0.0", "data": {"tasks": {}}}`, export.WrongArrayType},
		{"projects not array", `{"version": "1.0.0", "data": {"projects": "nope"}}`, export.WrongArrayType},
		{"task without id", `{"version": "1.0.0", "data": {"tasks": [{"title": "x"}]}}`, export.InvalidTask},
		{"task without title", `{"version": "1.0.0", "data": {"tasks": [{"id": "t1"}]}}`, export.InvalidTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := export.Validate([]byte(tt.raw))
			var verr *export.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if verr.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, verr.Kind)
			}
		})
	}
}

func TestValidateSectionPresence(t *testing.T) {
	raw := `{"version": "1.0.0", "data": {"tasks": [{"id": "t1", "title": "Only tasks"}], "projects": null}}`
	parsed, err := export.Validate([]byte(raw))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !parsed.HasTasks {
		t.Error("expected tasks section flagged present")
	}
	if parsed.HasProjects || parsed.HasCategories || parsed.HasSettings {
		t.Error("absent or null sections must not be flagged present")
	}
}

func TestImportRoundTrip(t *testing.T) {
	e := newEnv(t)
	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local)
	task := e.tasks.Create(store.TaskDraft{Title: "Write report", Priority: types.PriorityHigh, DueDate: &due, Tags: []string{"q2"}})
	project := e.projects.Create(store.ProjectDraft{Name: "Quarterly review"})

	raw, err := e.manager.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	e.tasks.Clear()
	e.projects.Clear()
	if len(e.tasks.List()) != 0 || len(e.projects.List()) != 0 {
		t.Fatal("clear left data behind")
	}

	if err := e.manager.Import(raw); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	restored, ok := e.tasks.Get(task.ID)
	if !ok {
		t.Fatal("imported task not found by its original id")
	}
	if restored.Title != task.Title || restored.Priority != task.Priority {
		t.Errorf("imported task differs: %+v", restored)
	}
	if restored.DueDate == nil || !restored.DueDate.Equal(due) {
		t.Error("imported task lost its due date")
	}
	if _, ok := e.projects.Get(project.ID); !ok {
		t.Error("imported project not found by its original id")
	}
}

func TestImportFailureLeavesStoresUntouched(t *testing.T) {
	e := newEnv(t)
	e.tasks.Create(store.TaskDraft{Title: "Keep me"})

	err := e.manager.Import([]byte(`{"data": {"tasks": []}}`))
	var verr *export.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if len(e.tasks.List()) != 1 {
		t.Error("failed import mutated the task store")
	}
	if len(e.manager.Backups()) != 0 {
		t.Error("failed import created a backup")
	}
}

func TestImportReplacesOnlyCarriedSections(t *testing.T) {
	e := newEnv(t)
	e.tasks.Create(store.TaskDraft{Title: "Survivor"})
	e.projects.Create(store.ProjectDraft{Name: "Survivor project"})

	raw := `{"version": "1.0.0", "data": {"projects": [{"id": "p9", "name": "Replacement"}]}}`
	if err := e.manager.Import([]byte(raw)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(e.tasks.List()) != 1 {
		t.Error("import without a tasks section replaced tasks")
	}
	projects := e.projects.List()
	if len(projects) != 1 || projects[0].ID != "p9" {
		t.Errorf("expected only the imported project, got %+v", projects)
	}
}

func TestImportCategoriesOnlyKeepsTasks(t *testing.T) {
	e := newEnv(t)
	e.tasks.Create(store.TaskDraft{Title: "Keep me"})

	raw := `{"version": "1.0.0", "data": {"categories": ["Custom"]}}`
	if err := e.manager.Import([]byte(raw)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(e.tasks.List()) != 1 {
		t.Error("categories-only import replaced tasks")
	}
	categories := e.tasks.Categories()
	if len(categories) != 1 || categories[0] != "Custom" {
		t.Errorf("expected only the imported category, got %v", categories)
	}
}

func TestImportTasksOnlyKeepsCategories(t *testing.T) {
	e := newEnv(t)
	e.tasks.Create(store.TaskDraft{Title: "Trip", Category: "Travel"})

	raw := `{"version": "1.0.0", "data": {"tasks": [{"id": "t1", "title": "Replacement"}]}}`
	if err := e.manager.Import([]byte(raw)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	tasks := e.tasks.List()
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("expected only the imported task, got %+v", tasks)
	}
	found := false
	for _, category := range e.tasks.Categories() {
		if category == "Travel" {
			found = true
		}
	}
	if !found {
		t.Error("tasks-only import dropped the existing category list")
	}
}

func TestImportCreatesBackup(t *testing.T) {
	e := newEnv(t)
	original := e.tasks.Create(store.TaskDraft{Title: "Before import"})

	raw := `{"version": "1.0.0", "data": {"tasks": [{"id": "t1", "title": "After import"}]}}`
	if err := e.manager.Import([]byte(raw)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	backups := e.manager.Backups()
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}

	var envelope export.Envelope
	if err := json.Unmarshal([]byte(backups[0].Data), &envelope); err != nil {
		t.Fatalf("backup data is not a valid export: %v", err)
	}
	if len(envelope.Data.Tasks) != 1 || envelope.Data.Tasks[0].ID != original.ID {
		t.Error("backup does not hold the pre-import data set")
	}
}

func TestBackupRotation(t *testing.T) {
	e := newEnv(t)

	var ids []string
	for i := 0; i < 7; i++ {
		id, err := e.manager.CreateBackup()
		if err != nil {
			t.Fatalf("backup %d failed: %v", i, err)
		}
		ids = append(ids, id)
	}

	backups := e.manager.Backups()
	if len(backups) != 5 {
		t.Fatalf("expected rotation capped at 5, got %d", len(backups))
	}
	// The two oldest snapshots are evicted; the rest survive in order.
	for i, backup := range backups {
		if backup.ID != ids[i+2] {
			t.Errorf("backup %d: expected %s, got %s", i, ids[i+2], backup.ID)
		}
	}
}

func TestRestore(t *testing.T) {
	e := newEnv(t)
	original := e.tasks.Create(store.TaskDraft{Title: "Checkpoint"})

	id, err := e.manager.CreateBackup()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	e.tasks.Clear()
	e.tasks.Create(store.TaskDraft{Title: "Diverged"})

	if err := e.manager.Restore(id); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, ok := e.tasks.Get(original.ID); !ok {
		t.Error("restored task not found")
	}
	for _, task := range e.tasks.List() {
		if task.Title == "Diverged" {
			t.Error("post-checkpoint task survived the restore")
		}
	}
}

func TestRestoreUnknownID(t *testing.T) {
	e := newEnv(t)
	if err := e.manager.Restore("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBackup(t *testing.T) {
	e := newEnv(t)
	id, err := e.manager.CreateBackup()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if err := e.manager.DeleteBackup(id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(e.manager.Backups()) != 0 {
		t.Error("backup survived deletion")
	}
	if err := e.manager.DeleteBackup(id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}
