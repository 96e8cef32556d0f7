package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/taskmaster/storage"
)

func backends(t *testing.T) map[string]storage.Backend {
	t.Helper()
	return map[string]storage.Backend{
		"memory": storage.NewMemory(),
		"json":   storage.NewJSONFile(filepath.Join(t.TempDir(), "data.json")),
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := backend.Write("tasks", `[{"id":"1"}]`); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			value, ok, err := backend.Read("tasks")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !ok {
				t.Fatal("expected key to be present")
			}
			if value != `[{"id":"1"}]` {
				t.Errorf("unexpected value: %q", value)
			}
		})
	}
}

func TestBackendAbsentKey(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := backend.Read("missing")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if ok {
				t.Error("expected absent key to report ok=false")
			}
		})
	}
}

func TestBackendOverwrite(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := backend.Write("settings", "first"); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if err := backend.Write("settings", "second"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			value, _, err := backend.Read("settings")
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if value != "second" {
				t.Errorf("expected overwritten value, got %q", value)
			}
		})
	}
}

func TestBackendDelete(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := backend.Write("tasks", "x"); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if err := backend.Delete("tasks"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if _, ok, _ := backend.Read("tasks"); ok {
				t.Error("expected deleted key to be absent")
			}
			// Deleting again must not error.
			if err := backend.Delete("tasks"); err != nil {
				t.Errorf("deleting absent key failed: %v", err)
			}
		})
	}
}

func TestBackendKeys(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"tasks", "projects", "settings"} {
				if err := backend.Write(key, "{}"); err != nil {
					t.Fatalf("write %q failed: %v", key, err)
				}
			}
			keys, err := backend.Keys()
			if err != nil {
				t.Fatalf("keys failed: %v", err)
			}
			want := []string{"projects", "settings", "tasks"}
			if len(keys) != len(want) {
				t.Fatalf("expected %d keys, got %v", len(want), keys)
			}
			for i, key := range want {
				if keys[i] != key {
					t.Errorf("keys[%d] = %q, want %q", i, keys[i], key)
				}
			}
		})
	}
}

func TestJSONFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	first := storage.NewJSONFile(path)
	if err := first.Write("tasks", "persisted"); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	second := storage.NewJSONFile(path)
	value, ok, err := second.Read("tasks")
	if err != nil {
		t.Fatalf("read after reopen failed: %v", err)
	}
	if !ok || value != "persisted" {
		t.Errorf("expected persisted value after reopen, got %q (ok=%v)", value, ok)
	}
}

func TestJSONFileCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	backend := storage.NewJSONFile(path)
	if err := backend.Write("tasks", "x"); err != nil {
		t.Fatalf("write into nested directory failed: %v", err)
	}
}
