package store_test

import (
	"testing"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

func TestSettingsDefaultsOnFirstAccess(t *testing.T) {
	s := store.NewSettingsStore(storage.NewMemory())
	got := s.Get()
	if got != types.DefaultSettings() {
		t.Errorf("expected defaults verbatim, got %+v", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	backend := storage.NewMemory()
	s := store.NewSettingsStore(backend)

	settings := s.Get()
	settings.Theme = "dark"
	settings.Productivity.DailyGoal = 8
	s.Set(settings)

	got := s.Get()
	if got.Theme != "dark" {
		t.Errorf("expected persisted theme, got %q", got.Theme)
	}
	if got.Productivity.DailyGoal != 8 {
		t.Errorf("expected persisted daily goal, got %d", got.Productivity.DailyGoal)
	}

	// A fresh store over the same backend sees the persisted record.
	fresh := store.NewSettingsStore(backend)
	if fresh.Get().Theme != "dark" {
		t.Error("settings not visible through a fresh store")
	}
}

func TestSettingsCorruptPayloadFallsBack(t *testing.T) {
	backend := storage.NewMemory()
	if err := backend.Write(storage.KeySettings, "{not json"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	s := store.NewSettingsStore(backend)
	if got := s.Get(); got != types.DefaultSettings() {
		t.Errorf("expected defaults on corrupt payload, got %+v", got)
	}
}
