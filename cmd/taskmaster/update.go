package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var (
	updateTitle        string
	updateDescription  string
	updateNotes        string
	updatePriority     string
	updateStatus       string
	updateCategory     string
	updateProject      string
	updateClearProject bool
	updateDue          string
	updateClearDue     bool
	updateTags         string
)

var updateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update fields of a task",
	Long: `Update one or more fields of a task. Only the flags you pass are
changed; everything else keeps its current value.

Examples:
  taskmaster update 3f8a... --priority urgent
  taskmaster update 3f8a... --due 2026-10-01 --status in-progress
  taskmaster update 3f8a... --clear-due`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		patch := store.TaskPatch{
			ClearProject: updateClearProject,
			ClearDueDate: updateClearDue,
		}
		if cmd.Flags().Changed("title") {
			patch.Title = &updateTitle
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &updateDescription
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &updateNotes
		}
		if cmd.Flags().Changed("category") {
			patch.Category = &updateCategory
		}
		if updatePriority != "" {
			priority := types.Priority(updatePriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", updatePriority)
			}
			patch.Priority = &priority
		}
		if updateStatus != "" {
			status := types.TaskStatus(updateStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q", updateStatus)
			}
			patch.Status = &status
		}
		if updateProject != "" {
			if _, ok := app.Projects.Get(updateProject); !ok {
				return fmt.Errorf("unknown project %q", updateProject)
			}
			patch.ProjectID = &updateProject
		}
		if updateDue != "" {
			due, err := parseDate(updateDue)
			if err != nil {
				return err
			}
			patch.DueDate = &due
		}
		if cmd.Flags().Changed("tags") {
			var tags []string
			for _, tag := range strings.Split(updateTags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags = append(tags, tag)
				}
			}
			patch.Tags = &tags
		}

		task, err := app.Tasks.Update(args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if structured() {
			return printStructured(task)
		}
		fmt.Printf("✏️  Updated: %s\n", task.Title)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "New notes")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "New priority (low, medium, high, urgent)")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status (pending, in-progress, completed, cancelled)")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "New category")
	updateCmd.Flags().StringVar(&updateProject, "project", "", "Attach to project ID")
	updateCmd.Flags().BoolVar(&updateClearProject, "clear-project", false, "Detach from the current project")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "Remove the due date")
	updateCmd.Flags().StringVar(&updateTags, "tags", "", "Replace tags (comma-separated)")

	rootCmd.AddCommand(updateCmd)
}
