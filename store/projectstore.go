package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/taskmaster/search"
	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/types"
)

// ProjectStore owns the project collection. It depends on the task store to
// compute per-project statistics and to cascade-clear project references
// when a project is deleted; tasks themselves are never deleted through
// this store.
type ProjectStore struct {
	mu        sync.RWMutex
	backend   storage.Backend
	logger    *slog.Logger
	now       func() time.Time
	tasks     *TaskStore
	projects  []types.Project
	listeners listenerList[ProjectEvent]
}

// NewProjectStore loads projects from the backend. The task store is
// injected rather than looked up globally.
func NewProjectStore(backend storage.Backend, tasks *TaskStore, opts ...Option) (*ProjectStore, error) {
	cfg := newConfig(opts)
	s := &ProjectStore{
		backend: backend,
		logger:  cfg.logger,
		now:     cfg.now,
		tasks:   tasks,
	}
	if _, err := readRecord(backend, storage.KeyProjects, &s.projects); err != nil {
		s.logger.Error("failed to load projects, starting empty", "error", err)
		s.projects = nil
	}
	return s, nil
}

// SetTimeFunc sets a custom clock, for deterministic tests.
func (s *ProjectStore) SetTimeFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe registers a listener for project events and returns an
// unsubscribe function.
func (s *ProjectStore) Subscribe(fn ProjectListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners.add(fn)
}

// ProjectDraft is the input to Create. Zero-valued fields fall back to
// defaults; an empty Color is derived deterministically from the name.
type ProjectDraft struct {
	Name        string
	Description string
	Color       string
	Status      types.ProjectStatus
	Priority    types.Priority
	StartDate   *time.Time
	EndDate     *time.Time
	Tags        []string
	TeamMembers []string
	Budget      float64
	Notes       string
}

// Create builds a project from the draft, appends it, persists and emits a
// created event. Like task creation it never fails.
func (s *ProjectStore) Create(draft ProjectDraft) types.Project {
	s.mu.Lock()
	now := s.now()
	project := types.Project{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: draft.Description,
		Color:       draft.Color,
		Status:      draft.Status,
		Priority:    draft.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Budget:      draft.Budget,
		Notes:       draft.Notes,
	}
	if project.Name == "" {
		project.Name = "Untitled Project"
	}
	if project.Color == "" {
		project.Color = types.NameColor(project.Name)
	}
	if project.Status == "" {
		project.Status = types.ProjectActive
	}
	if project.Priority == "" {
		project.Priority = types.PriorityMedium
	}
	if draft.StartDate != nil {
		start := *draft.StartDate
		project.StartDate = &start
	}
	if draft.EndDate != nil {
		end := *draft.EndDate
		project.EndDate = &end
	}
	project.Tags = append([]string{}, draft.Tags...)
	project.TeamMembers = append([]string{}, draft.TeamMembers...)
	if project.Status == types.ProjectCompleted {
		completed := now
		project.CompletedAt = &completed
	}

	s.projects = append(s.projects, project)
	s.persistLocked()

	event := project.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, ProjectEvent{Kind: EventCreated, Project: &event})
	return project.Clone()
}

// ProjectPatch describes a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name           *string
	Description    *string
	Color          *string
	Status         *types.ProjectStatus
	Priority       *types.Priority
	StartDate      *time.Time
	ClearStartDate bool
	EndDate        *time.Time
	ClearEndDate   bool
	Tags           *[]string
	TeamMembers    *[]string
	Progress       *int
	Budget         *float64
	Notes          *string
	Archived       *bool
}

// Update merges the patch over the project with the given id, refreshes
// UpdatedAt, applies the completion-timestamp transition, persists and
// emits an updated event with old and new snapshots.
func (s *ProjectStore) Update(id string, patch ProjectPatch) (types.Project, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return types.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	old := s.projects[idx].Clone()
	project := &s.projects[idx]

	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Priority != nil {
		project.Priority = *patch.Priority
	}
	if patch.ClearStartDate {
		project.StartDate = nil
	} else if patch.StartDate != nil {
		start := *patch.StartDate
		project.StartDate = &start
	}
	if patch.ClearEndDate {
		project.EndDate = nil
	} else if patch.EndDate != nil {
		end := *patch.EndDate
		project.EndDate = &end
	}
	if patch.Tags != nil {
		project.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.TeamMembers != nil {
		project.TeamMembers = append([]string(nil), *patch.TeamMembers...)
	}
	if patch.Progress != nil {
		project.Progress = *patch.Progress
	}
	if patch.Budget != nil {
		project.Budget = *patch.Budget
	}
	if patch.Notes != nil {
		project.Notes = *patch.Notes
	}
	if patch.Archived != nil {
		project.Archived = *patch.Archived
	}

	now := s.now()
	project.UpdatedAt = now

	switch {
	case project.Status == types.ProjectCompleted && old.Status != types.ProjectCompleted:
		completed := now
		project.CompletedAt = &completed
	case project.Status != types.ProjectCompleted:
		project.CompletedAt = nil
	}

	s.persistLocked()

	updated := project.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, ProjectEvent{Kind: EventUpdated, Project: &updated, Old: &old})
	return updated.Clone(), nil
}

// Delete removes the project with the given id. Every task referencing it
// first has its project reference cleared through the task store; tasks are
// never deleted (cascade-clear, not cascade-delete).
func (s *ProjectStore) Delete(id string) (types.Project, error) {
	s.mu.RLock()
	idx := s.indexLocked(id)
	s.mu.RUnlock()
	if idx < 0 {
		return types.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	for _, task := range s.tasks.Filter(TaskFilter{ProjectID: id}) {
		if _, err := s.tasks.Update(task.ID, TaskPatch{ClearProject: true}); err != nil {
			s.logger.Error("failed to clear project reference", "task", task.ID, "error", err)
		}
	}

	s.mu.Lock()
	idx = s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return types.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	removed := s.projects[idx].Clone()
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	s.persistLocked()

	event := removed.Clone()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, ProjectEvent{Kind: EventDeleted, Project: &event})
	return removed, nil
}

// Get returns a copy of the project with the given id.
func (s *ProjectStore) Get(id string) (types.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return types.Project{}, false
	}
	return s.projects[idx].Clone(), true
}

// List returns a copy of every project in insertion order.
func (s *ProjectStore) List() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]types.Project, len(s.projects))
	for i, project := range s.projects {
		projects[i] = project.Clone()
	}
	return projects
}

// Active returns the projects that are neither archived nor completed.
func (s *ProjectStore) Active() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []types.Project
	for _, project := range s.projects {
		if !project.Archived && project.Status != types.ProjectCompleted {
			active = append(active, project.Clone())
		}
	}
	return active
}

// ProjectFilter is a conjunction of independently optional predicates.
type ProjectFilter struct {
	Status   types.ProjectStatus
	Priority types.Priority
	// Archived filters on the archived flag when non-nil.
	Archived *bool
	// Search matches case-insensitively against name, description, notes
	// and tags.
	Search string
	// TeamMember matches projects listing the member.
	TeamMember string
}

// Filter returns copies of the projects matching every set criterion.
func (s *ProjectStore) Filter(f ProjectFilter) []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []types.Project
	for _, project := range s.projects {
		if f.Status != "" && project.Status != f.Status {
			continue
		}
		if f.Priority != "" && project.Priority != f.Priority {
			continue
		}
		if f.Archived != nil && project.Archived != *f.Archived {
			continue
		}
		if f.Search != "" && !search.Matches(search.Options{Query: f.Search}, project) {
			continue
		}
		if f.TeamMember != "" && !slices.Contains(project.TeamMembers, f.TeamMember) {
			continue
		}
		matched = append(matched, project.Clone())
	}
	return matched
}

// ProjectTaskStats aggregates the tasks referencing one project.
type ProjectTaskStats struct {
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	PendingTasks    int     `json:"pendingTasks"`
	InProgressTasks int     `json:"inProgressTasks"`
	OverdueTasks    int     `json:"overdueTasks"`
	CompletionRate  int     `json:"completionRate"`
	EstimatedHours  float64 `json:"estimatedHours"`
	ActualHours     float64 `json:"actualHours"`
}

// Stats computes task statistics for the project, or nil if the project
// does not exist. When the computed completion rate differs from the stored
// progress, the project's progress is refreshed in place through Update:
// a stats query may therefore trigger a persisted write. This lazy
// write-back is deliberate; progress is a cache of the live ratio.
func (s *ProjectStore) Stats(id string) *ProjectTaskStats {
	project, ok := s.Get(id)
	if !ok {
		return nil
	}

	now := s.nowFunc()
	stats := &ProjectTaskStats{}
	for _, task := range s.tasks.Filter(TaskFilter{ProjectID: id}) {
		stats.TotalTasks++
		switch task.Status {
		case types.TaskCompleted:
			stats.CompletedTasks++
		case types.TaskPending:
			stats.PendingTasks++
		case types.TaskInProgress:
			stats.InProgressTasks++
		}
		if task.DueDate != nil && task.DueDate.Before(now) && task.Status != types.TaskCompleted {
			stats.OverdueTasks++
		}
		stats.EstimatedHours += task.EstimatedTime
		stats.ActualHours += task.ActualTime
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = int(float64(stats.CompletedTasks)/float64(stats.TotalTasks)*100 + 0.5)
	}

	if project.Progress != stats.CompletionRate {
		rate := stats.CompletionRate
		if _, err := s.Update(id, ProjectPatch{Progress: &rate}); err != nil {
			s.logger.Error("failed to refresh project progress", "project", id, "error", err)
		}
	}
	return stats
}

// Archive marks the project archived.
func (s *ProjectStore) Archive(id string) (types.Project, error) {
	archived := true
	return s.Update(id, ProjectPatch{Archived: &archived})
}

// Unarchive clears the archived flag.
func (s *ProjectStore) Unarchive(id string) (types.Project, error) {
	archived := false
	return s.Update(id, ProjectPatch{Archived: &archived})
}

// Clear empties the collection, persists and emits a cleared event.
func (s *ProjectStore) Clear() {
	s.mu.Lock()
	s.projects = nil
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, ProjectEvent{Kind: EventCleared})
}

// ReplaceAll swaps in a whole new collection, persisting and emitting an
// imported event. Used by the import path; ids are kept verbatim.
func (s *ProjectStore) ReplaceAll(projects []types.Project) {
	s.mu.Lock()
	s.projects = make([]types.Project, len(projects))
	for i, project := range projects {
		s.projects[i] = project.Clone()
	}
	s.persistLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	emit(fns, ProjectEvent{Kind: EventImported})
}

func (s *ProjectStore) indexLocked(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ProjectStore) nowFunc() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// persistLocked writes the collection through the backend, logging and
// swallowing failures.
func (s *ProjectStore) persistLocked() {
	projects := s.projects
	if projects == nil {
		projects = []types.Project{}
	}
	if err := writeRecord(s.backend, storage.KeyProjects, projects); err != nil {
		s.logger.Error("failed to persist projects", "error", err)
	}
}
