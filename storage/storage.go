// Package storage provides the persistence collaborator the stores write
// through: a flat keyed namespace of JSON-serializable string blobs. The
// stores treat it as best-effort; a failed write is logged by the caller and
// never rolls back in-memory state.
package storage

// Backend is the persistence contract. Read reports absence via the boolean,
// not an error, so callers can distinguish "no data yet" from a real failure.
type Backend interface {
	// Read returns the value stored under key, or ok=false if the key has
	// never been written.
	Read(key string) (value string, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns every key currently present.
	Keys() ([]string, error)
}

// Well-known keys for the application's persisted records.
const (
	KeyTasks         = "tasks"
	KeyProjects      = "projects"
	KeyCategories    = "categories"
	KeySettings      = "settings"
	KeyNotifications = "notifications"
	KeyBackups       = "backups"
)
