package types

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// ProjectStatuses returns every project status in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted}
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// Project is a named grouping of tasks with its own lifecycle. Progress is
// the cached task completion percentage (0-100); the project store refreshes
// it lazily whenever project stats are queried. The same CompletedAt/Status
// invariant as Task applies.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Color       string        `json:"color"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Tags        []string      `json:"tags"`
	TeamMembers []string      `json:"teamMembers"`
	Progress    int           `json:"progress"`
	Budget      float64       `json:"budget,omitempty"`
	Notes       string        `json:"notes"`
	Archived    bool          `json:"archived"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	c.StartDate = cloneTime(p.StartDate)
	c.EndDate = cloneTime(p.EndDate)
	c.CompletedAt = cloneTime(p.CompletedAt)
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.TeamMembers != nil {
		c.TeamMembers = append([]string(nil), p.TeamMembers...)
	}
	return c
}

// SearchFields returns the text fields a free-text query matches against.
func (p Project) SearchFields() []string {
	fields := []string{p.Name, p.Description, p.Notes}
	return append(fields, p.Tags...)
}
