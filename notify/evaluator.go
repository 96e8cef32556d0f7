// Package notify derives transient reminder notifications from task state.
// The evaluator combines a periodic tick (deadline proximity checks) with
// synchronous reactions to task store events (created, completed, due date
// changed, priority escalated, deleted). Notifications are a best-effort
// convenience: persistence failures are logged and swallowed, and no method
// surfaces an error to the caller.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

const (
	// DefaultInterval is the tick period Start uses when given zero.
	DefaultInterval = 30 * time.Second

	// maxEntries caps the live list; the oldest entries beyond it drop.
	maxEntries = 50

	// retention is how long an entry lives before the tick purges it,
	// independent of read state.
	retention = 24 * time.Hour
)

// Option configures an evaluator.
type Option func(*Evaluator)

// WithSink sets the out-of-band display sink.
func WithSink(sink Sink) Option {
	return func(e *Evaluator) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithLogger sets the logger for best-effort failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeFunc sets a custom clock, for deterministic tests.
func WithTimeFunc(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// Evaluator owns the notification list. It reads tasks through the store
// snapshot API and never retains references into store state.
type Evaluator struct {
	mu      sync.Mutex
	tasks   *store.TaskStore
	backend storage.Backend
	logger  *slog.Logger
	now     func() time.Time
	sink    Sink

	// entries is newest-first.
	entries []types.Notification

	unsubscribe func()
	stopTick    chan struct{}
	tickDone    chan struct{}
}

// NewEvaluator loads persisted notifications and subscribes to the task
// store. Call Close to detach.
func NewEvaluator(tasks *store.TaskStore, backend storage.Backend, opts ...Option) *Evaluator {
	e := &Evaluator{
		tasks:   tasks,
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
		sink:    NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.load()
	e.unsubscribe = tasks.Subscribe(e.onTaskEvent)
	return e
}

// SetTimeFunc sets a custom clock, for deterministic tests.
func (e *Evaluator) SetTimeFunc(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Start runs Tick every interval until Stop is called. A zero interval
// selects DefaultInterval.
func (e *Evaluator) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	e.mu.Lock()
	if e.stopTick != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	e.stopTick = stop
	e.tickDone = done
	e.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Tick()
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the periodic tick. It is safe to call when not started.
func (e *Evaluator) Stop() {
	e.mu.Lock()
	stop := e.stopTick
	done := e.tickDone
	e.stopTick = nil
	e.tickDone = nil
	e.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}

// Close stops the tick loop and detaches from the task store.
func (e *Evaluator) Close() {
	e.Stop()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Tick purges expired entries and evaluates the deadline triggers for every
// non-completed task with a due date. Running it twice without task changes
// is a no-op: each trigger is deduplicated by its deterministic id.
func (e *Evaluator) Tick() {
	tasks := e.tasks.List()

	e.mu.Lock()
	now := e.now()
	e.purgeExpiredLocked(now)

	var raised []types.Notification
	for _, task := range tasks {
		if task.Status == types.TaskCompleted || task.DueDate == nil {
			continue
		}
		remaining := task.DueDate.Sub(now)
		for _, candidate := range deadlineCandidates(task, remaining, now) {
			if e.addLocked(candidate) {
				raised = append(raised, candidate)
			}
		}
	}
	e.persistLocked()
	e.mu.Unlock()

	e.dispatch(raised)
}

// deadlineCandidates returns the deadline notifications whose window the
// task currently falls in.
func deadlineCandidates(task types.Task, remaining time.Duration, now time.Time) []types.Notification {
	var candidates []types.Notification

	if remaining > 0 && remaining <= 15*time.Minute {
		minutes := int(remaining.Round(time.Minute) / time.Minute)
		candidates = append(candidates, types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerDue15Min),
			TaskID:    task.ID,
			Type:      types.TriggerDue15Min,
			Title:     "Task Due Soon!",
			Message:   fmt.Sprintf("%q is due in %d minutes", task.Title, minutes),
			Timestamp: now,
			Priority:  "high",
			Icon:      "clock",
			Color:     "#f59e0b",
		})
	}
	if remaining > 0 && remaining <= time.Hour {
		candidates = append(candidates, types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerDue1Hour),
			TaskID:    task.ID,
			Type:      types.TriggerDue1Hour,
			Title:     "Task Due in 1 Hour",
			Message:   fmt.Sprintf("%q is due in about 1 hour", task.Title),
			Timestamp: now,
			Priority:  "medium",
			Icon:      "clock",
			Color:     "#3b82f6",
		})
	}
	if remaining > 0 && remaining <= 24*time.Hour {
		candidates = append(candidates, types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerDueTomorrow),
			TaskID:    task.ID,
			Type:      types.TriggerDueTomorrow,
			Title:     "Task Due Tomorrow",
			Message:   fmt.Sprintf("%q is due tomorrow", task.Title),
			Timestamp: now,
			Priority:  "low",
			Icon:      "calendar",
			Color:     "#10b981",
		})
	}
	if remaining <= 0 {
		candidates = append(candidates, types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerOverdue),
			TaskID:    task.ID,
			Type:      types.TriggerOverdue,
			Title:     "Task Overdue!",
			Message:   fmt.Sprintf("%q is overdue by %s", task.Title, elapsedText(-remaining)),
			Timestamp: now,
			Priority:  "urgent",
			Icon:      "exclamation-triangle",
			Color:     "#ef4444",
		})
	}
	return candidates
}

// elapsedText renders a duration in its coarsest non-zero unit: days, else
// hours, else minutes.
func elapsedText(elapsed time.Duration) string {
	days := int(elapsed.Hours()) / 24
	hours := int(elapsed.Hours()) % 24
	minutes := int(elapsed.Minutes())
	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return plural(minutes, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// onTaskEvent reacts to store mutations on the mutating call stack.
func (e *Evaluator) onTaskEvent(event store.TaskEvent) {
	switch event.Kind {
	case store.EventCreated:
		e.onCreated(*event.Task)
	case store.EventUpdated:
		e.onUpdated(*event.Task, *event.Old)
	case store.EventDeleted:
		e.onDeleted(*event.Task)
	}
}

func (e *Evaluator) onCreated(task types.Task) {
	if task.DueDate == nil {
		return
	}
	e.mu.Lock()
	now := e.now()
	n := types.Notification{
		ID:        types.NotificationID(task.ID, types.TriggerCreated),
		TaskID:    task.ID,
		Type:      types.TriggerCreated,
		Title:     "New Task Created",
		Message:   fmt.Sprintf("%q has been created with due date %s", task.Title, task.DueDate.Format("Jan 2, 2006")),
		Timestamp: now,
		Priority:  "info",
		Icon:      "plus-circle",
		Color:     "#10b981",
	}
	raised := e.addLocked(n)
	e.persistLocked()
	e.mu.Unlock()

	if raised {
		e.dispatch([]types.Notification{n})
	}
}

func (e *Evaluator) onUpdated(task, old types.Task) {
	e.mu.Lock()
	now := e.now()
	var raised []types.Notification

	if task.Status == types.TaskCompleted && old.Status != types.TaskCompleted {
		n := types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerCompleted),
			TaskID:    task.ID,
			Type:      types.TriggerCompleted,
			Title:     "Task Completed!",
			Message:   fmt.Sprintf("%q has been marked as completed", task.Title),
			Timestamp: now,
			Priority:  "success",
			Icon:      "check-circle",
			Color:     "#10b981",
		}
		if e.addLocked(n) {
			raised = append(raised, n)
		}
		// A completed task can no longer be due.
		e.removeTriggersLocked(task.ID, types.DeadlineTriggers())
	}

	if dueDateChanged(old.DueDate, task.DueDate) && task.DueDate != nil {
		n := types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerDueChanged),
			TaskID:    task.ID,
			Type:      types.TriggerDueChanged,
			Title:     "Due Date Updated",
			Message:   fmt.Sprintf("%q due date changed to %s", task.Title, task.DueDate.Format("Jan 2, 2006")),
			Timestamp: now,
			Priority:  "info",
			Icon:      "calendar",
			Color:     "#3b82f6",
		}
		if e.addLocked(n) {
			raised = append(raised, n)
		}
		// The old deadline triggers no longer apply to the new date.
		e.removeTriggersLocked(task.ID, types.DeadlineTriggers())
	}

	if task.Priority == types.PriorityUrgent && old.Priority != types.PriorityUrgent {
		n := types.Notification{
			ID:        types.NotificationID(task.ID, types.TriggerUrgentPriority),
			TaskID:    task.ID,
			Type:      types.TriggerUrgentPriority,
			Title:     "High Priority Task",
			Message:   fmt.Sprintf("%q has been marked as urgent priority", task.Title),
			Timestamp: now,
			Priority:  "high",
			Icon:      "fire",
			Color:     "#ef4444",
		}
		if e.addLocked(n) {
			raised = append(raised, n)
		}
	}

	e.persistLocked()
	e.mu.Unlock()

	e.dispatch(raised)
}

func (e *Evaluator) onDeleted(task types.Task) {
	e.mu.Lock()
	kept := e.entries[:0]
	for _, entry := range e.entries {
		if entry.TaskID != task.ID {
			kept = append(kept, entry)
		}
	}
	e.entries = kept
	e.persistLocked()
	e.mu.Unlock()
}

func dueDateChanged(prev, next *time.Time) bool {
	switch {
	case prev == nil && next == nil:
		return false
	case prev == nil || next == nil:
		return true
	default:
		return !prev.Equal(*next)
	}
}

// Notifications returns a copy of the live list, newest first.
func (e *Evaluator) Notifications() []types.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Notification(nil), e.entries...)
}

// UnreadCount counts entries from the last 24 hours.
func (e *Evaluator) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	cutoff := e.now().Add(-retention)
	count := 0
	for _, entry := range e.entries {
		if entry.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// MarkRead flags the entry with the given id as read.
func (e *Evaluator) MarkRead(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.entries {
		if e.entries[i].ID == id {
			e.entries[i].Read = true
			e.persistLocked()
			return
		}
	}
}

// ClearAll empties the notification list.
func (e *Evaluator) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = nil
	e.persistLocked()
}

// addLocked inserts the entry unless an entry with the same id is already
// live, keeping the list newest-first and capped.
func (e *Evaluator) addLocked(n types.Notification) bool {
	for _, entry := range e.entries {
		if entry.ID == n.ID {
			return false
		}
	}
	e.entries = append([]types.Notification{n}, e.entries...)
	if len(e.entries) > maxEntries {
		e.entries = e.entries[:maxEntries]
	}
	return true
}

func (e *Evaluator) removeTriggersLocked(taskID string, triggers []types.TriggerType) {
	drop := make(map[string]bool, len(triggers))
	for _, trigger := range triggers {
		drop[types.NotificationID(taskID, trigger)] = true
	}
	kept := e.entries[:0]
	for _, entry := range e.entries {
		if !drop[entry.ID] {
			kept = append(kept, entry)
		}
	}
	e.entries = kept
}

func (e *Evaluator) purgeExpiredLocked(now time.Time) {
	cutoff := now.Add(-retention)
	kept := e.entries[:0]
	for _, entry := range e.entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	e.entries = kept
}

// dispatch fires the sink for each newly raised entry, outside the lock.
func (e *Evaluator) dispatch(raised []types.Notification) {
	for _, n := range raised {
		e.sink.Notify(n)
	}
}

func (e *Evaluator) load() {
	raw, ok, err := e.backend.Read(storage.KeyNotifications)
	if err != nil {
		e.logger.Error("failed to load notifications, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), &e.entries); err != nil {
		e.logger.Error("failed to decode notifications, starting empty", "error", err)
		e.entries = nil
	}
}

// persistLocked writes the list through the backend, logging and swallowing
// failures.
func (e *Evaluator) persistLocked() {
	entries := e.entries
	if entries == nil {
		entries = []types.Notification{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		e.logger.Error("failed to encode notifications", "error", err)
		return
	}
	if err := e.backend.Write(storage.KeyNotifications, string(raw)); err != nil {
		e.logger.Error("failed to persist notifications", "error", err)
	}
}
