// Package types defines the core value types shared across the taskmaster
// stores: tasks, projects, settings and notification events. These are plain
// serializable records; all behavior lives in the store packages.
package types

import "time"

// Priority is the urgency level assigned to a task or project.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities returns every priority in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses returns every task status in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskCancelled}
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Subtask is a checklist entry embedded in a task.
type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a single actionable item. CompletedAt is non-nil exactly when
// Status is TaskCompleted; the task store maintains that invariant on every
// update. ProjectID is a soft reference: the project store clears it when
// the referenced project is deleted.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      Priority   `json:"priority"`
	Status        TaskStatus `json:"status"`
	Category      string     `json:"category"`
	ProjectID     string     `json:"projectId,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Tags          []string   `json:"tags"`
	Subtasks      []Subtask  `json:"subtasks"`
	EstimatedTime float64    `json:"estimatedTime,omitempty"`
	ActualTime    float64    `json:"actualTime,omitempty"`
	Notes         string     `json:"notes"`
	Position      int        `json:"position"`
}

// Clone returns a deep copy of the task. Stores hand out clones so callers
// can't mutate store state through returned values.
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	return c
}

// SearchFields returns the text fields a free-text query matches against.
func (t Task) SearchFields() []string {
	fields := []string{t.Title, t.Description, t.Notes}
	return append(fields, t.Tags...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
