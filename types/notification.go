package types

import "time"

// TriggerType names a condition the notification evaluator checks against a
// task. A (task, trigger type) pair produces at most one live notification
// until that entry is explicitly invalidated.
type TriggerType string

const (
	TriggerDue15Min       TriggerType = "due_15min"
	TriggerDue1Hour       TriggerType = "due_1hour"
	TriggerDueTomorrow    TriggerType = "due_tomorrow"
	TriggerOverdue        TriggerType = "overdue"
	TriggerCreated        TriggerType = "created"
	TriggerCompleted      TriggerType = "completed"
	TriggerDueChanged     TriggerType = "due_changed"
	TriggerUrgentPriority TriggerType = "urgent_priority"
)

// DeadlineTriggers are the trigger types tied to a task's current due date.
// They are invalidated together when the due date changes or the task
// completes.
func DeadlineTriggers() []TriggerType {
	return []TriggerType{TriggerDue15Min, TriggerDue1Hour, TriggerDueTomorrow, TriggerOverdue}
}

// Notification is a transient reminder event derived from task state.
// ID is deterministic (taskID + "_" + type) so dedup is an id lookup.
type Notification struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"taskId"`
	Type      TriggerType `json:"type"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Priority  string      `json:"priority"`
	Icon      string      `json:"icon"`
	Color     string      `json:"color"`
	Read      bool        `json:"read"`
}

// NotificationID derives the deterministic id for a (task, trigger) pair.
func NotificationID(taskID string, trigger TriggerType) string {
	return taskID + "_" + string(trigger)
}
