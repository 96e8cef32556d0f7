package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		task, err := app.Tasks.Delete(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if structured() {
			return printStructured(task)
		}
		fmt.Printf("🗑️  Deleted: %s\n", task.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
