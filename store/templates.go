package store

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/taskmaster/types"
)

// templateTask is one task definition inside a project template.
type templateTask struct {
	Title    string
	Priority types.Priority
	Category string
}

// projectTemplate is a named project blueprint: project fields plus an
// ordered task list.
type projectTemplate struct {
	Name        string
	Description string
	Tasks       []templateTask
}

var projectTemplates = map[string]projectTemplate{
	"web-development": {
		Name:        "Web Development Project",
		Description: "A complete web development project template",
		Tasks: []templateTask{
			{Title: "Project Planning", Priority: types.PriorityHigh, Category: "Planning"},
			{Title: "UI/UX Design", Priority: types.PriorityHigh, Category: "Design"},
			{Title: "Frontend Development", Priority: types.PriorityMedium, Category: "Development"},
			{Title: "Backend Development", Priority: types.PriorityMedium, Category: "Development"},
			{Title: "Testing & QA", Priority: types.PriorityHigh, Category: "Testing"},
			{Title: "Deployment", Priority: types.PriorityMedium, Category: "Deployment"},
			{Title: "Documentation", Priority: types.PriorityLow, Category: "Documentation"},
		},
	},
	"marketing-campaign": {
		Name:        "Marketing Campaign",
		Description: "A comprehensive marketing campaign template",
		Tasks: []templateTask{
			{Title: "Market Research", Priority: types.PriorityHigh, Category: "Research"},
			{Title: "Target Audience Analysis", Priority: types.PriorityHigh, Category: "Research"},
			{Title: "Content Strategy", Priority: types.PriorityMedium, Category: "Strategy"},
			{Title: "Creative Development", Priority: types.PriorityMedium, Category: "Creative"},
			{Title: "Campaign Launch", Priority: types.PriorityHigh, Category: "Execution"},
			{Title: "Performance Monitoring", Priority: types.PriorityMedium, Category: "Analytics"},
			{Title: "Optimization", Priority: types.PriorityLow, Category: "Optimization"},
		},
	},
	"product-launch": {
		Name:        "Product Launch",
		Description: "A complete product launch project template",
		Tasks: []templateTask{
			{Title: "Product Development", Priority: types.PriorityHigh, Category: "Development"},
			{Title: "Market Validation", Priority: types.PriorityHigh, Category: "Research"},
			{Title: "Go-to-Market Strategy", Priority: types.PriorityHigh, Category: "Strategy"},
			{Title: "Marketing Materials", Priority: types.PriorityMedium, Category: "Marketing"},
			{Title: "Sales Training", Priority: types.PriorityMedium, Category: "Training"},
			{Title: "Launch Event", Priority: types.PriorityHigh, Category: "Event"},
			{Title: "Post-Launch Analysis", Priority: types.PriorityLow, Category: "Analytics"},
		},
	},
}

// TemplateNames returns the available template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(projectTemplates))
	for name := range projectTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateFromTemplate instantiates the named template: one project plus one
// task per template entry, each referencing the new project and positioned
// by its template index. Draft fields override the template's project
// fields; an unknown template name fails with ErrNotFound.
func (s *ProjectStore) CreateFromTemplate(name string, overrides ProjectDraft) (types.Project, error) {
	template, ok := projectTemplates[name]
	if !ok {
		return types.Project{}, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}

	draft := overrides
	if draft.Name == "" {
		draft.Name = template.Name
	}
	if draft.Description == "" {
		draft.Description = template.Description
	}
	project := s.Create(draft)

	for i, task := range template.Tasks {
		position := i
		s.tasks.Create(TaskDraft{
			Title:     task.Title,
			Priority:  task.Priority,
			Category:  task.Category,
			ProjectID: project.ID,
			Position:  &position,
		})
	}
	return project, nil
}
