package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// JSONFile is a Backend persisting all keys into a single JSON file. An
// in-process RWMutex serializes access between goroutines and a sidecar
// flock guards against other processes touching the same file.
type JSONFile struct {
	filePath string
	fileLock *flock.Flock
	mu       sync.RWMutex
}

// fileData is the on-disk layout of the storage file.
type fileData struct {
	Records  map[string]json.RawMessage `json:"records"`
	Metadata metadata                   `json:"metadata"`
}

type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const storageVersion = "1.0.0"

// NewJSONFile creates a file-backed storage backend. The file and its parent
// directory are created lazily on first write.
func NewJSONFile(filePath string) *JSONFile {
	return &JSONFile{
		filePath: filePath,
		fileLock: flock.New(filePath + ".lock"),
	}
}

// Read returns the raw value stored under key.
func (s *JSONFile) Read(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.loadLocked()
	if err != nil {
		return "", false, err
	}
	raw, ok := data.Records[key]
	if !ok {
		return "", false, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key.
func (s *JSONFile) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	data.Records[key] = raw
	return s.saveLocked(data)
}

// Delete removes key from the file.
func (s *JSONFile) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, ok := data.Records[key]; !ok {
		return nil
	}
	delete(data.Records, key)
	return s.saveLocked(data)
}

// Keys returns every key present, sorted for stable iteration.
func (s *JSONFile) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data.Records))
	for key := range data.Records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// loadLocked reads the whole file. Caller must hold at least a read lock.
func (s *JSONFile) loadLocked() (*fileData, error) {
	unlock, err := s.acquireFileLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	empty := &fileData{
		Records: make(map[string]json.RawMessage),
		Metadata: metadata{
			Version:   storageVersion,
			CreatedAt: time.Now(),
		},
	}

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return empty, nil
	}
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(raw) == 0 {
		return empty, nil
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	if data.Records == nil {
		data.Records = make(map[string]json.RawMessage)
	}
	return &data, nil
}

// saveLocked writes the whole file back. Caller must hold the write lock.
func (s *JSONFile) saveLocked(data *fileData) error {
	unlock, err := s.acquireFileLock()
	if err != nil {
		return err
	}
	defer unlock()

	data.Metadata.UpdatedAt = time.Now()
	if data.Metadata.Version == "" {
		data.Metadata.Version = storageVersion
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	if err := os.WriteFile(s.filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

// acquireFileLock takes the cross-process lock, retrying briefly before
// giving up so a wedged sibling process can't hang us forever.
func (s *JSONFile) acquireFileLock() (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire file lock")
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}
