package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. The completion timestamp is recorded and any
pending due-date notifications for the task are withdrawn.

Examples:
  taskmaster complete 3f8a1c2e-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		completed := types.TaskCompleted
		task, err := app.Tasks.Update(args[0], store.TaskPatch{Status: &completed})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		if structured() {
			return printStructured(task)
		}
		fmt.Printf("✅ Completed: %s\n", task.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
