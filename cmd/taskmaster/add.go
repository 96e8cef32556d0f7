package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var (
	addPriority    string
	addCategory    string
	addProject     string
	addDue         string
	addDescription string
	addNotes       string
	addTags        string
	addEstimated   float64
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to the store.

The task is created with the default priority, category and status from your
settings unless overridden with flags.

Examples:
  taskmaster add "Buy groceries"
  taskmaster add --priority high --due 2026-09-15 "Quarterly report"
  taskmaster add --category Work --tags "q3,finance" "Close the books"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		draft := store.TaskDraft{
			Title:         args[0],
			Description:   addDescription,
			Notes:         addNotes,
			Category:      addCategory,
			EstimatedTime: addEstimated,
		}
		if addPriority != "" {
			priority := types.Priority(addPriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q (use low, medium, high or urgent)", addPriority)
			}
			draft.Priority = priority
		}
		if addProject != "" {
			if _, ok := app.Projects.Get(addProject); !ok {
				return fmt.Errorf("unknown project %q", addProject)
			}
			draft.ProjectID = addProject
		}
		if addDue != "" {
			due, err := parseDate(addDue)
			if err != nil {
				return err
			}
			draft.DueDate = &due
		}
		if addTags != "" {
			for _, tag := range strings.Split(addTags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					draft.Tags = append(draft.Tags, tag)
				}
			}
		}

		task := app.Tasks.Create(draft)
		if structured() {
			return printStructured(task)
		}

		fmt.Printf("✅ Task created: %s\n", task.Title)
		if verbose {
			fmt.Printf("   ID: %s\n", task.ID)
			fmt.Printf("   Priority: %s\n", task.Priority)
			fmt.Printf("   Category: %s\n", task.Category)
			if task.DueDate != nil {
				fmt.Printf("   Due: %s\n", formatDue(task))
			}
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Priority (low, medium, high, urgent)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category name")
	addCmd.Flags().StringVar(&addProject, "project", "", "Project ID to attach the task to")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Detailed description")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")
	addCmd.Flags().Float64Var(&addEstimated, "estimated", 0, "Estimated hours")

	rootCmd.AddCommand(addCmd)
}
