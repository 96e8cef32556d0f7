package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskmaster/store"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage a task's subtasks",
	Long: `Manage the checklist entries of a task.

Examples:
  taskmaster subtask add 3f8a... "Write the outline"
  taskmaster subtask done 3f8a... 9c21...
  taskmaster subtask rm 3f8a... 9c21...`,
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task-id> <title>",
	Short: "Add a subtask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		subtask, err := app.Tasks.AddSubtask(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to add subtask: %w", err)
		}
		if structured() {
			return printStructured(subtask)
		}
		fmt.Printf("✅ Subtask added: %s (%s)\n", subtask.Title, subtask.ID)
		return nil
	},
}

var subtaskDoneCmd = &cobra.Command{
	Use:   "done <task-id> <subtask-id>",
	Short: "Mark a subtask as completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		done := true
		subtask, err := app.Tasks.UpdateSubtask(args[0], args[1], store.SubtaskPatch{Completed: &done})
		if err != nil {
			return fmt.Errorf("failed to update subtask: %w", err)
		}
		if structured() {
			return printStructured(subtask)
		}
		fmt.Printf("✅ Subtask completed: %s\n", subtask.Title)
		return nil
	},
}

var subtaskRmCmd = &cobra.Command{
	Use:   "rm <task-id> <subtask-id>",
	Short: "Remove a subtask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		subtask, err := app.Tasks.RemoveSubtask(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to remove subtask: %w", err)
		}
		if structured() {
			return printStructured(subtask)
		}
		fmt.Printf("🗑️  Subtask removed: %s\n", subtask.Title)
		return nil
	},
}

func init() {
	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskDoneCmd)
	subtaskCmd.AddCommand(subtaskRmCmd)
	rootCmd.AddCommand(subtaskCmd)
}
