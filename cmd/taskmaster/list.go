package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var (
	listStatus   string
	listPriority string
	listCategory string
	listProject  string
	listOverdue  bool
	listToday    bool
	listUpcoming bool
	listSearch   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filters. Filters combine with AND semantics.

Examples:
  taskmaster list                      # All tasks
  taskmaster list --today              # Tasks due today
  taskmaster list --overdue            # Overdue tasks
  taskmaster list --status pending     # Pending tasks
  taskmaster list --priority high      # High priority tasks
  taskmaster list --search "grocery"   # Full-text search`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		filter := store.TaskFilter{
			Category:  listCategory,
			ProjectID: listProject,
			Overdue:   listOverdue,
			Today:     listToday,
			Upcoming:  listUpcoming,
			Search:    listSearch,
		}
		if listStatus != "" {
			status := types.TaskStatus(listStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q", listStatus)
			}
			filter.Status = status
		}
		if listPriority != "" {
			priority := types.Priority(listPriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", listPriority)
			}
			filter.Priority = priority
		}

		tasks := app.Tasks.Filter(filter)
		if structured() {
			return printStructured(tasks)
		}

		if len(tasks) == 0 {
			fmt.Println("  (no tasks found)")
			return nil
		}
		for _, task := range tasks {
			line := fmt.Sprintf("%s [%s] %s", statusGlyph(task.Status), task.Priority, task.Title)
			if task.DueDate != nil {
				line += fmt.Sprintf("  (due %s)", formatDue(task))
			}
			fmt.Println(line)
			if verbose {
				fmt.Printf("     ID: %s  Category: %s", task.ID, task.Category)
				if task.ProjectID != "" {
					fmt.Printf("  Project: %s", task.ProjectID)
				}
				if len(task.Tags) > 0 {
					fmt.Printf("  Tags: %s", strings.Join(task.Tags, ", "))
				}
				fmt.Println()
				for _, sub := range task.Subtasks {
					mark := " "
					if sub.Completed {
						mark = "x"
					}
					fmt.Printf("     [%s] %s (%s)\n", mark, sub.Title, sub.ID)
				}
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, in-progress, completed, cancelled)")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (low, medium, high, urgent)")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listProject, "project", "", "Filter by project ID")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only overdue tasks")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Only tasks due today")
	listCmd.Flags().BoolVar(&listUpcoming, "upcoming", false, "Only tasks due within a week")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Search tasks by text")

	rootCmd.AddCommand(listCmd)
}
