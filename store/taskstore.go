package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/taskmaster/search"
	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/types"
)

// DefaultCategories is the category set a fresh installation is seeded with.
var DefaultCategories = []string{"Personal", "Work", "Shopping", "Health", "Learning"}

// TaskStore owns the task collection. All mutating operations persist the
// full collection before notifying subscribers; see the package comment for
// the durability contract.
type TaskStore struct {
	mu         sync.RWMutex
	backend    storage.Backend
	logger     *slog.Logger
	now        func() time.Time
	defaults   types.TaskDefaults
	tasks      []types.Task
	categories []string
	listeners  listenerList[TaskEvent]
}

// NewTaskStore loads tasks and categories from the backend. A corrupt
// payload is logged and treated as empty rather than failing startup; a
// backend read error is returned.
func NewTaskStore(backend storage.Backend, opts ...Option) (*TaskStore, error) {
	cfg := newConfig(opts)
	s := &TaskStore{
		backend:  backend,
		logger:   cfg.logger,
		now:      cfg.now,
		defaults: cfg.defaults,
	}

	if _, err := readRecord(backend, storage.KeyTasks, &s.tasks); err != nil {
		s.logger.Error("failed to load tasks, starting empty", "error", err)
		s.tasks = nil
	}
	found, err := readRecord(backend, storage.KeyCategories, &s.categories)
	if err != nil {
		s.logger.Error("failed to load categories, reseeding defaults", "error", err)
		found = false
	}
	if !found || len(s.categories) == 0 {
		s.categories = append([]string(nil), DefaultCategories...)
	}
	return s, nil
}

// SetTimeFunc sets a custom clock, for deterministic tests.
func (s *TaskStore) SetTimeFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe registers a listener for task events and returns an unsubscribe
// function. Delivery is synchronous, post-persistence, in subscription
// order.
func (s *TaskStore) Subscribe(fn TaskListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners.add(fn)
}

// TaskDraft is the input to Create. Zero-valued fields fall back to the
// store defaults.
type TaskDraft struct {
	Title         string
	Description   string
	Notes         string
	Priority      types.Priority
	Status        types.TaskStatus
	Category      string
	ProjectID     string
	DueDate       *time.Time
	Tags          []string
	Subtasks      []types.Subtask
	EstimatedTime float64
	ActualTime    float64
	Position      *int
}

// Create builds a task from the draft, filling defaults for every omitted
// field, appends it, persists and emits a created event. Create never
// fails: a missing title becomes "Untitled Task".
func (s *TaskStore) Create(draft TaskDraft) types.Task {
	s.mu.Lock()
	now := s.now()
	task := types.Task{
		ID:            uuid.New().String(),
		Title:         draft.Title,
		Description:   draft.Description,
		Notes:         draft.Notes,
		Priority:      draft.Priority,
		Status:        draft.Status,
		Category:      draft.Category,
		ProjectID:     draft.ProjectID,
		CreatedAt:     now,
		UpdatedAt:     now,
		EstimatedTime: draft.EstimatedTime,
		ActualTime:    draft.ActualTime,
		Position:      len(s.tasks),
	}
	if task.Title == "" {
		task.Title = "Untitled Task"
	}
	if task.Priority == "" {
		task.Priority = s.defaults.Priority
	}
	if task.Status == "" {
		task.Status = types.TaskPending
	}
	if task.Category == "" {
		task.Category = s.defaults.Category
	}
	if task.EstimatedTime == 0 {
		task.EstimatedTime = s.defaults.EstimatedTime
	}
	task.Tags = append([]string{}, draft.Tags...)
	task.Subtasks = append([]types.Subtask{}, draft.Subtasks...)
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}
	if draft.Position != nil {
		task.Position = *draft.Position
	}
	if task.Status == types.TaskCompleted {
		completed := now
		task.CompletedAt = &completed
	}

	s.tasks = append(s.tasks, task)
	s.registerCategoryLocked(task.Category)
	s.persistLocked()

	event := task.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventCreated, Task: &event})
	return task.Clone()
}

// TaskPatch describes a partial update. Nil fields are left unchanged;
// the Clear flags set their nullable counterparts to null.
type TaskPatch struct {
	Title         *string
	Description   *string
	Notes         *string
	Priority      *types.Priority
	Status        *types.TaskStatus
	Category      *string
	ProjectID     *string
	ClearProject  bool
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          *[]string
	Subtasks      *[]types.Subtask
	EstimatedTime *float64
	ActualTime    *float64
	Position      *int
}

// Update merges the patch over the task with the given id, refreshes
// UpdatedAt, applies the completion-timestamp transition, persists and
// emits an updated event carrying both old and new snapshots.
func (s *TaskStore) Update(id string, patch TaskPatch) (types.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return types.Task{}, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	old := s.tasks[idx].Clone()
	task := &s.tasks[idx]

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Category != nil {
		task.Category = *patch.Category
		s.registerCategoryLocked(task.Category)
	}
	if patch.ClearProject {
		task.ProjectID = ""
	} else if patch.ProjectID != nil {
		task.ProjectID = *patch.ProjectID
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		due := *patch.DueDate
		task.DueDate = &due
	}
	if patch.Tags != nil {
		task.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.Subtasks != nil {
		task.Subtasks = append([]types.Subtask(nil), *patch.Subtasks...)
	}
	if patch.EstimatedTime != nil {
		task.EstimatedTime = *patch.EstimatedTime
	}
	if patch.ActualTime != nil {
		task.ActualTime = *patch.ActualTime
	}
	if patch.Position != nil {
		task.Position = *patch.Position
	}

	now := s.now()
	task.UpdatedAt = now

	// Completion timestamp tracks the merged status: non-nil iff completed.
	switch {
	case task.Status == types.TaskCompleted && old.Status != types.TaskCompleted:
		completed := now
		task.CompletedAt = &completed
	case task.Status != types.TaskCompleted:
		task.CompletedAt = nil
	}

	s.persistLocked()

	updated := task.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventUpdated, Task: &updated, Old: &old})
	return updated.Clone(), nil
}

// Delete removes the task with the given id, persists and emits a deleted
// event with the removed snapshot.
func (s *TaskStore) Delete(id string) (types.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return types.Task{}, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	removed := s.tasks[idx].Clone()
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked()

	event := removed.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventDeleted, Task: &event})
	return removed, nil
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (types.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return types.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// List returns a copy of every task in insertion order.
func (s *TaskStore) List() []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]types.Task, len(s.tasks))
	for i, task := range s.tasks {
		tasks[i] = task.Clone()
	}
	return tasks
}

// Categories returns the known category names.
func (s *TaskStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// TaskFilter is a conjunction of independently optional predicates.
type TaskFilter struct {
	Status    types.TaskStatus
	Priority  types.Priority
	Category  string
	ProjectID string
	// DueDate matches tasks due on the same calendar day.
	DueDate *time.Time
	// Overdue matches tasks past their due date and not completed.
	Overdue bool
	// Today matches tasks due on the current calendar day.
	Today bool
	// Upcoming matches tasks due within the next seven days and not
	// completed.
	Upcoming bool
	// Search matches case-insensitively against title, description, notes
	// and tags.
	Search string
}

// Filter returns copies of the tasks matching every set criterion, in
// insertion order.
func (s *TaskStore) Filter(f TaskFilter) []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(f)
}

func (s *TaskStore) filterLocked(f TaskFilter) []types.Task {
	now := s.now()
	var matched []types.Task
	for _, task := range s.tasks {
		if f.Status != "" && task.Status != f.Status {
			continue
		}
		if f.Priority != "" && task.Priority != f.Priority {
			continue
		}
		if f.Category != "" && task.Category != f.Category {
			continue
		}
		if f.ProjectID != "" && task.ProjectID != f.ProjectID {
			continue
		}
		if f.DueDate != nil {
			if task.DueDate == nil || !sameDay(*task.DueDate, *f.DueDate) {
				continue
			}
		}
		if f.Overdue {
			if task.DueDate == nil || task.Status == types.TaskCompleted || !task.DueDate.Before(now) {
				continue
			}
		}
		if f.Today {
			if task.DueDate == nil || !sameDay(*task.DueDate, now) {
				continue
			}
		}
		if f.Upcoming {
			if task.DueDate == nil || task.Status == types.TaskCompleted {
				continue
			}
			nextWeek := now.Add(7 * 24 * time.Hour)
			if !task.DueDate.After(now) || task.DueDate.After(nextWeek) {
				continue
			}
		}
		if f.Search != "" && !search.Matches(search.Options{Query: f.Search}, task) {
			continue
		}
		matched = append(matched, task.Clone())
	}
	return matched
}

// DailyCompletion is one day of the trailing completion series.
type DailyCompletion struct {
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Weekday   string    `json:"day"`
}

// TaskStats aggregates the collection. Priority and category buckets are
// always fully populated, zero-filled.
type TaskStats struct {
	Total          int                    `json:"total"`
	Completed      int                    `json:"completed"`
	Pending        int                    `json:"pending"`
	InProgress     int                    `json:"inProgress"`
	Cancelled      int                    `json:"cancelled"`
	Overdue        int                    `json:"overdue"`
	Today          int                    `json:"today"`
	Upcoming       int                    `json:"upcoming"`
	CompletionRate int                    `json:"completionRate"`
	ByPriority     map[types.Priority]int `json:"priorityStats"`
	ByCategory     map[string]int         `json:"categoryStats"`
	Weekly         []DailyCompletion      `json:"weeklyStats"`
}

// Stats computes the aggregate view of the collection.
func (s *TaskStore) Stats() TaskStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := TaskStats{
		Total:      len(s.tasks),
		ByPriority: make(map[types.Priority]int, 4),
		ByCategory: make(map[string]int, len(s.categories)),
	}
	for _, priority := range types.Priorities() {
		stats.ByPriority[priority] = 0
	}
	for _, category := range s.categories {
		stats.ByCategory[category] = 0
	}

	for _, task := range s.tasks {
		switch task.Status {
		case types.TaskCompleted:
			stats.Completed++
		case types.TaskPending:
			stats.Pending++
		case types.TaskInProgress:
			stats.InProgress++
		case types.TaskCancelled:
			stats.Cancelled++
		}
		stats.ByPriority[task.Priority]++
		stats.ByCategory[task.Category]++
	}

	stats.Overdue = len(s.filterLocked(TaskFilter{Overdue: true}))
	stats.Today = len(s.filterLocked(TaskFilter{Today: true}))
	stats.Upcoming = len(s.filterLocked(TaskFilter{Upcoming: true}))
	if stats.Total > 0 {
		stats.CompletionRate = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}
	stats.Weekly = s.weeklyLocked()
	return stats
}

// weeklyLocked builds the trailing seven-day completion series, oldest day
// first, today last.
func (s *TaskStore) weeklyLocked() []DailyCompletion {
	now := s.now()
	series := make([]DailyCompletion, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		completed := 0
		for _, task := range s.tasks {
			if task.CompletedAt != nil && sameDay(*task.CompletedAt, day) {
				completed++
			}
		}
		series = append(series, DailyCompletion{
			Date:      day,
			Completed: completed,
			Weekday:   day.Format("Mon"),
		})
	}
	return series
}

// AddSubtask appends a new subtask to the task's checklist, routing through
// Update so persistence and events stay consistent.
func (s *TaskStore) AddSubtask(taskID, title string) (types.Subtask, error) {
	task, ok := s.Get(taskID)
	if !ok {
		return types.Subtask{}, fmt.Errorf("task %q: %w", taskID, ErrNotFound)
	}

	s.mu.RLock()
	now := s.now()
	s.mu.RUnlock()

	subtask := types.Subtask{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
	}
	subtasks := append(append([]types.Subtask(nil), task.Subtasks...), subtask)
	if _, err := s.Update(taskID, TaskPatch{Subtasks: &subtasks}); err != nil {
		return types.Subtask{}, err
	}
	return subtask, nil
}

// SubtaskPatch describes a partial subtask update.
type SubtaskPatch struct {
	Title     *string
	Completed *bool
}

// UpdateSubtask merges the patch over the addressed subtask.
func (s *TaskStore) UpdateSubtask(taskID, subtaskID string, patch SubtaskPatch) (types.Subtask, error) {
	task, ok := s.Get(taskID)
	if !ok {
		return types.Subtask{}, fmt.Errorf("task %q: %w", taskID, ErrNotFound)
	}

	subtasks := append([]types.Subtask(nil), task.Subtasks...)
	idx := subtaskIndex(subtasks, subtaskID)
	if idx < 0 {
		return types.Subtask{}, fmt.Errorf("subtask %q: %w", subtaskID, ErrNotFound)
	}
	if patch.Title != nil {
		subtasks[idx].Title = *patch.Title
	}
	if patch.Completed != nil {
		subtasks[idx].Completed = *patch.Completed
	}
	updated := subtasks[idx]
	if _, err := s.Update(taskID, TaskPatch{Subtasks: &subtasks}); err != nil {
		return types.Subtask{}, err
	}
	return updated, nil
}

// RemoveSubtask deletes the addressed subtask, leaving its siblings
// untouched.
func (s *TaskStore) RemoveSubtask(taskID, subtaskID string) (types.Subtask, error) {
	task, ok := s.Get(taskID)
	if !ok {
		return types.Subtask{}, fmt.Errorf("task %q: %w", taskID, ErrNotFound)
	}

	subtasks := append([]types.Subtask(nil), task.Subtasks...)
	idx := subtaskIndex(subtasks, subtaskID)
	if idx < 0 {
		return types.Subtask{}, fmt.Errorf("subtask %q: %w", subtaskID, ErrNotFound)
	}
	removed := subtasks[idx]
	subtasks = append(subtasks[:idx], subtasks[idx+1:]...)
	if _, err := s.Update(taskID, TaskPatch{Subtasks: &subtasks}); err != nil {
		return types.Subtask{}, err
	}
	return removed, nil
}

// Clear empties the collection, reseeds the default categories, persists
// and emits a cleared event.
func (s *TaskStore) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.categories = append([]string(nil), DefaultCategories...)
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventCleared})
}

// ReplaceAll swaps in a whole new collection, persisting and emitting an
// imported event. Used by the import path; ids are kept verbatim. An empty
// category list falls back to the defaults.
func (s *TaskStore) ReplaceAll(tasks []types.Task, categories []string) {
	s.mu.Lock()
	s.setTasksLocked(tasks)
	if len(categories) > 0 {
		s.categories = append([]string(nil), categories...)
	} else {
		s.categories = append([]string(nil), DefaultCategories...)
	}
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventImported})
}

// ReplaceTasks swaps in a new task collection, leaving the category list
// untouched. Used by imports whose payload carries no categories section.
func (s *TaskStore) ReplaceTasks(tasks []types.Task) {
	s.mu.Lock()
	s.setTasksLocked(tasks)
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventImported})
}

// ReplaceCategories swaps in a new category list, leaving tasks untouched.
// The list is stored as given, even when empty.
func (s *TaskStore) ReplaceCategories(categories []string) {
	s.mu.Lock()
	s.categories = append([]string(nil), categories...)
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, TaskEvent{Kind: EventImported})
}

func (s *TaskStore) setTasksLocked(tasks []types.Task) {
	s.tasks = make([]types.Task, len(tasks))
	for i, task := range tasks {
		s.tasks[i] = task.Clone()
	}
}

func (s *TaskStore) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func subtaskIndex(subtasks []types.Subtask, id string) int {
	for i := range subtasks {
		if subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// registerCategoryLocked adds a novel category to the known set.
func (s *TaskStore) registerCategoryLocked(category string) {
	for _, known := range s.categories {
		if known == category {
			return
		}
	}
	s.categories = append(s.categories, category)
}

// persistLocked writes tasks and categories through the backend, logging
// and swallowing failures.
func (s *TaskStore) persistLocked() {
	tasks := s.tasks
	if tasks == nil {
		tasks = []types.Task{}
	}
	if err := writeRecord(s.backend, storage.KeyTasks, tasks); err != nil {
		s.logger.Error("failed to persist tasks", "error", err)
	}
	if err := writeRecord(s.backend, storage.KeyCategories, s.categories); err != nil {
		s.logger.Error("failed to persist categories", "error", err)
	}
}
